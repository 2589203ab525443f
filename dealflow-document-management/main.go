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
	"dealflow/lib/models"
	"dealflow/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = 60 * time.Minute
)

// Global variables for Lambda cold start optimization
var (
	logger         *logrus.Logger
	isLocal        bool
	ssmRepository  data.SSMRepository
	ssmParams      map[string]string
	sqlDB          *sql.DB
	dealRepository data.DealRepository
	storageClient  clients.StorageClientInterface
)

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "Handler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
	}).Info("Document management request received")

	pathSegments := strings.Split(strings.Trim(request.Path, "/"), "/")

	// POST /documents/upload-url is public: the submitter uploads the purchase
	// agreement during intake, before any token exists. Everything else is
	// staff-only.
	if request.HTTPMethod == http.MethodPost && len(pathSegments) >= 2 &&
		pathSegments[0] == "documents" && pathSegments[1] == "upload-url" {
		return handleUploadURL(request.Body), nil
	}

	if err := auth.Authenticate(request, ssmParams[constants.TOKEN_SECRET]); err != nil {
		logger.WithError(err).Warn("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	switch request.HTTPMethod {
	case http.MethodGet:
		// GET /deals/{id}/documents/{docType}/download-url
		if len(pathSegments) >= 5 && pathSegments[2] == "documents" && pathSegments[4] == "download-url" {
			dealID, err := strconv.ParseInt(pathSegments[1], 10, 64)
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid deal ID", logger), nil
			}
			return handleDownloadURL(ctx, dealID, pathSegments[3]), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil

	case http.MethodPatch:
		// PATCH /deals/{id}/documents
		if len(pathSegments) >= 3 && pathSegments[2] == "documents" {
			dealID, err := strconv.ParseInt(pathSegments[1], 10, 64)
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid deal ID", logger), nil
			}
			return handleUpdateDocuments(ctx, dealID, request.Body), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil

	default:
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}
}

// handleUploadURL handles POST /documents/upload-url
func handleUploadURL(body string) events.APIGatewayProxyResponse {
	var uploadReq models.UploadURLRequest
	if err := api.ParseJSONBody(body, &uploadReq); err != nil {
		logger.WithError(err).Error("Failed to parse upload URL request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	fileName := util.SanitizeFileName(uploadReq.FileName)
	if fileName == "" || fileName == "." {
		return api.ErrorResponse(http.StatusBadRequest, "file_name is required", logger)
	}

	objectKey := fmt.Sprintf("deals/%s/%s", uuid.New().String(), fileName)
	uploadURL, err := storageClient.GenerateUploadURL(objectKey, uploadURLExpiry)
	if err != nil {
		logger.WithError(err).Error("Failed to generate upload URL")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to generate upload URL", logger)
	}

	logger.WithFields(logrus.Fields{
		"operation":  "handleUploadURL",
		"object_key": objectKey,
	}).Info("Generated document upload URL")

	return api.SuccessResponse(http.StatusOK, models.UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(uploadURLExpiry).UTC().Format(time.RFC3339),
	}, logger)
}

// handleDownloadURL handles GET /deals/{id}/documents/{docType}/download-url
func handleDownloadURL(ctx context.Context, dealID int64, docType string) events.APIGatewayProxyResponse {
	deal, err := dealRepository.GetDeal(ctx, dealID)
	if err != nil {
		if err.Error() == "deal not found" {
			return api.ErrorResponse(http.StatusNotFound, "Deal not found", logger)
		}
		logger.WithError(err).Error("Failed to get deal")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to get deal", logger)
	}

	var key *string
	switch docType {
	case models.DocumentPurchaseAgreement:
		key = deal.PurchaseAgreementKey
	case models.DocumentJVAgreement:
		key = deal.JVAgreementKey
	case models.DocumentAssignmentAgreement:
		key = deal.AssignmentAgreementKey
	default:
		return api.ErrorResponse(http.StatusBadRequest, "Unknown document type", logger)
	}

	if key == nil || *key == "" {
		return api.ErrorResponse(http.StatusNotFound, "Document not attached", logger)
	}

	downloadURL, err := storageClient.GenerateDownloadURL(*key, downloadURLExpiry)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"deal_id":    dealID,
			"object_key": *key,
			"error":      err.Error(),
		}).Error("Failed to generate download URL")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to generate download URL", logger)
	}

	return api.SuccessResponse(http.StatusOK, models.DownloadURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   time.Now().Add(downloadURLExpiry).UTC().Format(time.RFC3339),
	}, logger)
}

// handleUpdateDocuments handles PATCH /deals/{id}/documents
func handleUpdateDocuments(ctx context.Context, dealID int64, body string) events.APIGatewayProxyResponse {
	var updateReq models.DocumentsUpdate
	if err := api.ParseJSONBody(body, &updateReq); err != nil {
		logger.WithError(err).Error("Failed to parse documents update request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	deal, err := dealRepository.UpdateDocuments(ctx, dealID, &updateReq)
	if err != nil {
		if err.Error() == "deal not found" {
			return api.ErrorResponse(http.StatusNotFound, "Deal not found", logger)
		}
		logger.WithError(err).Warn("Failed to update deal documents")
		return api.ErrorResponse(http.StatusBadRequest, err.Error(), logger)
	}

	return api.SuccessResponse(http.StatusOK, deal, logger)
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

	storageClient = clients.NewStorageClient(
		ssmParams[constants.STORAGE_ENDPOINT],
		ssmParams[constants.STORAGE_REGION],
		ssmParams[constants.STORAGE_BUCKET],
		ssmParams[constants.STORAGE_PUBLIC_BASE_URL],
	)

	logger.WithField("operation", "init").Info("Document Management Lambda initialization completed successfully")
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
