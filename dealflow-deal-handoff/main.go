package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"dealflow/lib/api"
	"dealflow/lib/auth"
	"dealflow/lib/clients"
	"dealflow/lib/constants"
	"dealflow/lib/data"
	"dealflow/lib/email"
	"dealflow/lib/export"
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
	}).Info("Deal handoff request received")

	if err := auth.Authenticate(request, ssmParams[constants.TOKEN_SECRET]); err != nil {
		logger.WithError(err).Warn("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	if request.HTTPMethod != http.MethodPost {
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}

	// Routes: /deals/{id}/send-to-tc, /deals/{id}/export,
	// /deals/{id}/jv-agreement, /deals/{id}/deal-description
	pathSegments := strings.Split(strings.Trim(request.Path, "/"), "/")
	if len(pathSegments) < 3 {
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil
	}

	dealID, err := strconv.ParseInt(pathSegments[1], 10, 64)
	if err != nil {
		return api.ErrorResponse(http.StatusBadRequest, "Invalid deal ID", logger), nil
	}

	switch pathSegments[2] {
	case "send-to-tc":
		return handleSendToTC(ctx, dealID), nil
	case "export":
		return handleExport(ctx, dealID), nil
	case "jv-agreement":
		return handleJVAgreement(ctx, dealID), nil
	case "deal-description":
		return handleDealDescription(ctx, dealID), nil
	default:
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil
	}
}

// handleSendToTC handles POST /deals/{id}/send-to-tc. The timestamp is only
// stamped after the email actually went out.
func handleSendToTC(ctx context.Context, dealID int64) events.APIGatewayProxyResponse {
	deal, err := dealRepository.GetDeal(ctx, dealID)
	if err != nil {
		return notFoundOrInternal(err, "Failed to get deal")
	}

	msg, err := email.RenderTCHandoff(deal, ssmParams[constants.TC_EMAIL])
	if err != nil {
		logger.WithError(err).Error("Failed to render TC handoff email")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to render TC email", logger)
	}
	if err := mailer.Send(msg); err != nil {
		logger.WithFields(logrus.Fields{
			"deal_id": dealID,
			"error":   err.Error(),
		}).Error("Failed to send TC handoff email")
		return api.ErrorResponse(http.StatusBadGateway, "Failed to send TC email", logger)
	}

	updated, err := dealRepository.MarkSentToTC(ctx, dealID, time.Now())
	if err != nil {
		return notFoundOrInternal(err, "Failed to record TC handoff")
	}

	logger.WithFields(logrus.Fields{
		"operation": "handleSendToTC",
		"deal_id":   dealID,
	}).Info("Deal handed off to transaction coordinator")

	return api.SuccessResponse(http.StatusOK, updated, logger)
}

// handleExport handles POST /deals/{id}/export. The marketing push is
// best-effort; the response reports whether it landed.
func handleExport(ctx context.Context, dealID int64) events.APIGatewayProxyResponse {
	deal, err := dealRepository.GetDeal(ctx, dealID)
	if err != nil {
		return notFoundOrInternal(err, "Failed to get deal")
	}

	pushed := zapierClient.PushDeal(ctx, deal)

	return api.SuccessResponse(http.StatusOK, map[string]interface{}{
		"deal_id": dealID,
		"pushed":  pushed,
	}, logger)
}

// handleJVAgreement handles POST /deals/{id}/jv-agreement. The push is
// best-effort and never fails the caller; the timestamp is only stamped when
// the hook accepted it.
func handleJVAgreement(ctx context.Context, dealID int64) events.APIGatewayProxyResponse {
	deal, err := dealRepository.GetDeal(ctx, dealID)
	if err != nil {
		return notFoundOrInternal(err, "Failed to get deal")
	}

	if !zapierClient.RequestJVAgreement(ctx, deal) {
		return api.SuccessResponse(http.StatusOK, map[string]interface{}{
			"deal_id": dealID,
			"pushed":  false,
		}, logger)
	}

	updated, err := dealRepository.MarkJVAgreementSent(ctx, dealID, time.Now())
	if err != nil {
		return notFoundOrInternal(err, "Failed to record JV agreement request")
	}

	return api.SuccessResponse(http.StatusOK, map[string]interface{}{
		"deal_id": dealID,
		"pushed":  true,
		"deal":    updated,
	}, logger)
}

// handleDealDescription handles POST /deals/{id}/deal-description. Same
// best-effort semantics as the JV agreement push.
func handleDealDescription(ctx context.Context, dealID int64) events.APIGatewayProxyResponse {
	deal, err := dealRepository.GetDeal(ctx, dealID)
	if err != nil {
		return notFoundOrInternal(err, "Failed to get deal")
	}

	if !zapierClient.RequestDealDescription(ctx, deal) {
		return api.SuccessResponse(http.StatusOK, map[string]interface{}{
			"deal_id": dealID,
			"pushed":  false,
		}, logger)
	}

	updated, err := dealRepository.MarkDealDescriptionSent(ctx, dealID, time.Now())
	if err != nil {
		return notFoundOrInternal(err, "Failed to record deal description request")
	}

	return api.SuccessResponse(http.StatusOK, map[string]interface{}{
		"deal_id": dealID,
		"pushed":  true,
		"deal":    updated,
	}, logger)
}

func notFoundOrInternal(err error, message string) events.APIGatewayProxyResponse {
	if err.Error() == "deal not found" {
		return api.ErrorResponse(http.StatusNotFound, "Deal not found", logger)
	}
	logger.WithError(err).Error(message)
	return api.ErrorResponse(http.StatusInternalServerError, message, logger)
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

	logger.WithField("operation", "init").Info("Deal Handoff Lambda initialization completed successfully")
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
