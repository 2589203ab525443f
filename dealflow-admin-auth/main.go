package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"dealflow/lib/api"
	"dealflow/lib/auth"
	"dealflow/lib/clients"
	"dealflow/lib/constants"
	"dealflow/lib/data"
	"dealflow/lib/models"
	"dealflow/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Global variables for Lambda cold start optimization
var (
	logger        *logrus.Logger
	isLocal       bool
	ssmRepository data.SSMRepository
	ssmParams     map[string]string
	tokenTTL      time.Duration
)

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "Handler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
	}).Info("Admin auth request received")

	if request.HTTPMethod != http.MethodPost {
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}

	var loginReq models.LoginRequest
	if err := api.ParseJSONBody(request.Body, &loginReq); err != nil {
		logger.WithError(err).Error("Failed to parse login request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger), nil
	}

	if !auth.CheckPassword(ssmParams[constants.ADMIN_PASSWORD], loginReq.Password) {
		logger.WithField("operation", "Handler").Warn("Rejected login attempt")
		return api.ErrorResponse(http.StatusUnauthorized, "Invalid password", logger), nil
	}

	token, expiresAt, err := auth.IssueToken(ssmParams[constants.TOKEN_SECRET], tokenTTL)
	if err != nil {
		logger.WithError(err).Error("Failed to issue token")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to issue token", logger), nil
	}

	logger.WithField("operation", "Handler").Info("Issued admin token")

	return api.SuccessResponse(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, logger), nil
}

// main is the Lambda function entry point
func main() {
	lambda.Start(Handler)
}

func init() {
	var err error

	isLocal = parseIsLocal()

	// Logger Setup
	logger = setupLogger(isLocal)

	// Initialize AWS SSM Parameter Store client
	ssmClient := clients.NewSSMClient(isLocal)
	ssmRepository = &data.SSMDao{
		SSM:    ssmClient,
		Logger: logger,
	}

	// Retrieve all required configuration parameters from SSM
	ssmParams, err = ssmRepository.GetParameters()
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error while getting SSM params from parameter store")
	}

	tokenTTL = parseTokenTTL(ssmParams[constants.TOKEN_TTL_HOURS])

	logger.WithField("operation", "init").Info("Admin Auth Lambda initialization completed successfully")
}

func parseIsLocal() bool {
	isLocal, _ := strconv.ParseBool(os.Getenv("IS_LOCAL"))
	return isLocal
}

func setupLogger(isLocal bool) *logrus.Logger {
	logger := logrus.New()
	util.SetLogLevel(logger, os.Getenv("LOG_LEVEL"))
	logger.SetFormatter(&logrus.JSONFormatter{PrettyPrint: isLocal})
	return logger
}

func parseTokenTTL(hours string) time.Duration {
	parsed, err := strconv.Atoi(hours)
	if err != nil || parsed < 1 {
		return 12 * time.Hour
	}
	return time.Duration(parsed) * time.Hour
}
