package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"dealflow/lib/api"
	"dealflow/lib/clients"
	"dealflow/lib/constants"
	"dealflow/lib/data"
	"dealflow/lib/email"
	"dealflow/lib/export"
	"dealflow/lib/models"
	"dealflow/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Global variables for Lambda cold start optimization
var (
	logger         *logrus.Logger
	isLocal        bool
	ssmRepository  data.SSMRepository
	ssmParams      map[string]string
	sqlDB          *sql.DB
	dealRepository data.DealRepository
	mailer         email.Mailer
	zapierClient   *export.Client
)

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "Handler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
	}).Info("Deal intake request received")

	if request.HTTPMethod != http.MethodPost {
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}

	return handleSubmitDeal(ctx, request.Body), nil
}

// handleSubmitDeal handles POST /deals
func handleSubmitDeal(ctx context.Context, body string) events.APIGatewayProxyResponse {
	var intakeReq models.IntakeRequest
	if err := api.ParseJSONBody(body, &intakeReq); err != nil {
		logger.WithError(err).Error("Failed to parse intake request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	if validationErrors := intakeReq.Validate(); len(validationErrors) > 0 {
		logger.WithFields(logrus.Fields{
			"operation": "handleSubmitDeal",
			"errors":    validationErrors,
		}).Warn("Rejected intake submission")
		return api.ValidationErrorResponse("Submission has validation errors", validationErrors, logger)
	}

	deal, err := dealRepository.CreateDeal(ctx, intakeReq.ToRecord())
	if err != nil {
		logger.WithError(err).Error("Failed to create deal")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to create deal", logger)
	}

	// Notification emails are part of the operation: if they fail the client
	// sees the failure, but the row stays so staff can follow up manually.
	if err := sendIntakeEmails(deal); err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "handleSubmitDeal",
			"deal_id":   deal.ID,
			"error":     err.Error(),
		}).Error("Deal created but notification email failed")
		return api.ErrorResponse(http.StatusBadGateway, "Deal was recorded but notifications failed", logger)
	}

	// Marketing push is best-effort; the client logs its own failures.
	zapierClient.PushDeal(ctx, deal)

	return api.SuccessResponse(http.StatusCreated, deal, logger)
}

func sendIntakeEmails(deal *models.DealSubmission) error {
	staffMsg, err := email.RenderStaffNotification(deal, ssmParams[constants.STAFF_NOTIFICATION_EMAIL])
	if err != nil {
		return err
	}
	if err := mailer.Send(staffMsg); err != nil {
		return err
	}

	confirmMsg, err := email.RenderSubmitterConfirmation(deal)
	if err != nil {
		return err
	}
	return mailer.Send(confirmMsg)
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

	// Initialize PostgreSQL database connection
	err = setupPostgresSQLClient(ssmParams)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error setting up PostgreSQL client")
	}

	mailer = setupMailer(ssmParams)
	zapierClient = export.NewClient(
		ssmParams[constants.ZAPIER_DEAL_HOOK_URL],
		ssmParams[constants.ZAPIER_JV_HOOK_URL],
		ssmParams[constants.ZAPIER_DESCRIPTION_HOOK_URL],
		logger,
	)

	logger.WithField("operation", "init").Info("Deal Intake Lambda initialization completed successfully")
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

func setupPostgresSQLClient(ssmParams map[string]string) error {
	var err error

	sqlDB, err = clients.NewPostgresSQLClient(
		ssmParams[constants.DATABASE_ENDPOINT],
		ssmParams[constants.DATABASE_PORT],
		ssmParams[constants.DATABASE_NAME],
		ssmParams[constants.DATABASE_USERNAME],
		ssmParams[constants.DATABASE_PASSWORD],
		ssmParams[constants.SSL_MODE],
	)
	if err != nil {
		return fmt.Errorf("error creating PostgreSQL client: %w", err)
	}

	dealRepository = &data.DealDao{
		DB:     sqlDB,
		Logger: logger,
	}
	return nil
}

func setupMailer(ssmParams map[string]string) email.Mailer {
	port, err := strconv.Atoi(ssmParams[constants.SMTP_PORT])
	if err != nil || port < 1 {
		port = 587
	}
	return email.NewSMTPMailer(
		ssmParams[constants.SMTP_HOST],
		port,
		ssmParams[constants.SMTP_USERNAME],
		ssmParams[constants.SMTP_PASSWORD],
		ssmParams[constants.SMTP_FROM_ADDRESS],
		logger,
	)
}
