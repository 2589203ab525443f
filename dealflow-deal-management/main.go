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
	storageClient  clients.StorageClientInterface
)

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "Handler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
	}).Info("Deal management request received")

	// Every staff operation revalidates the bearer token before touching data
	if err := auth.Authenticate(request, ssmParams[constants.TOKEN_SECRET]); err != nil {
		logger.WithError(err).Warn("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	// Routes: /deals, /deals/{id}, /deals/{id}/status, /deals/{id}/notes,
	// /deals/{id}/sections/{section}
	pathSegments := strings.Split(strings.Trim(request.Path, "/"), "/")

	switch request.HTTPMethod {
	case http.MethodGet:
		if len(pathSegments) >= 2 && pathSegments[1] != "" {
			dealID, err := strconv.ParseInt(pathSegments[1], 10, 64)
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid deal ID", logger), nil
			}
			return handleGetDeal(ctx, dealID), nil
		}
		return handleListDeals(ctx, request.QueryStringParameters), nil

	case http.MethodPut:
		if len(pathSegments) >= 3 && pathSegments[2] == "status" {
			dealID, err := strconv.ParseInt(pathSegments[1], 10, 64)
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid deal ID", logger), nil
			}
			return handleUpdateStatus(ctx, dealID, request.Body), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil

	case http.MethodPost:
		if len(pathSegments) >= 3 && pathSegments[2] == "notes" {
			dealID, err := strconv.ParseInt(pathSegments[1], 10, 64)
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid deal ID", logger), nil
			}
			return handleAppendNote(ctx, dealID, request.Body), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil

	case http.MethodPatch:
		if len(pathSegments) >= 4 && pathSegments[2] == "sections" {
			dealID, err := strconv.ParseInt(pathSegments[1], 10, 64)
			if err != nil {
				return api.ErrorResponse(http.StatusBadRequest, "Invalid deal ID", logger), nil
			}
			return handleUpdateSection(ctx, dealID, pathSegments[3], request.Body), nil
		}
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil

	default:
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}
}

// handleListDeals handles GET /deals
func handleListDeals(ctx context.Context, query map[string]string) events.APIGatewayProxyResponse {
	page, _ := strconv.Atoi(query["page"])
	limit, _ := strconv.Atoi(query["limit"])

	deals, err := dealRepository.ListDeals(ctx, strings.TrimSpace(query["status"]), page, limit)
	if err != nil {
		logger.WithError(err).Error("Failed to list deals")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to list deals", logger)
	}

	return api.SuccessResponse(http.StatusOK, deals, logger)
}

// handleGetDeal handles GET /deals/{id}
func handleGetDeal(ctx context.Context, dealID int64) events.APIGatewayProxyResponse {
	deal, err := dealRepository.GetDeal(ctx, dealID)
	if err != nil {
		if err.Error() == "deal not found" {
			return api.ErrorResponse(http.StatusNotFound, "Deal not found", logger)
		}
		logger.WithError(err).Error("Failed to get deal")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to get deal", logger)
	}

	return api.SuccessResponse(http.StatusOK, dealResponse(deal), logger)
}

// handleUpdateStatus handles PUT /deals/{id}/status
func handleUpdateStatus(ctx context.Context, dealID int64, body string) events.APIGatewayProxyResponse {
	var updateReq models.UpdateStatusRequest
	if err := api.ParseJSONBody(body, &updateReq); err != nil {
		logger.WithError(err).Error("Failed to parse status update request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	deal, err := dealRepository.UpdateStatus(ctx, dealID, &updateReq, time.Now())
	if err != nil {
		if err.Error() == "deal not found" {
			return api.ErrorResponse(http.StatusNotFound, "Deal not found", logger)
		}
		logger.WithError(err).Warn("Failed to update deal status")
		return api.ErrorResponse(http.StatusBadRequest, err.Error(), logger)
	}

	return api.SuccessResponse(http.StatusOK, dealResponse(deal), logger)
}

// handleAppendNote handles POST /deals/{id}/notes
func handleAppendNote(ctx context.Context, dealID int64, body string) events.APIGatewayProxyResponse {
	var noteReq struct {
		Note string `json:"note"`
	}
	if err := api.ParseJSONBody(body, &noteReq); err != nil {
		logger.WithError(err).Error("Failed to parse note request")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
	}

	deal, err := dealRepository.AppendNote(ctx, dealID, noteReq.Note, time.Now())
	if err != nil {
		if err.Error() == "deal not found" {
			return api.ErrorResponse(http.StatusNotFound, "Deal not found", logger)
		}
		logger.WithError(err).Warn("Failed to append note")
		return api.ErrorResponse(http.StatusBadRequest, err.Error(), logger)
	}

	return api.SuccessResponse(http.StatusOK, dealResponse(deal), logger)
}

// handleUpdateSection handles PATCH /deals/{id}/sections/{section}
func handleUpdateSection(ctx context.Context, dealID int64, section, body string) events.APIGatewayProxyResponse {
	var deal *models.DealSubmission
	var err error

	switch section {
	case models.SectionContact:
		var req models.ContactSectionUpdate
		if parseErr := api.ParseJSONBody(body, &req); parseErr != nil {
			return badSectionBody(parseErr)
		}
		deal, err = dealRepository.UpdateContactSection(ctx, dealID, &req)
	case models.SectionSeller:
		var req models.SellerSectionUpdate
		if parseErr := api.ParseJSONBody(body, &req); parseErr != nil {
			return badSectionBody(parseErr)
		}
		deal, err = dealRepository.UpdateSellerSection(ctx, dealID, &req)
	case models.SectionProperty:
		var req models.PropertySectionUpdate
		if parseErr := api.ParseJSONBody(body, &req); parseErr != nil {
			return badSectionBody(parseErr)
		}
		deal, err = dealRepository.UpdatePropertySection(ctx, dealID, &req)
	case models.SectionFinancials:
		var req models.FinancialsSectionUpdate
		if parseErr := api.ParseJSONBody(body, &req); parseErr != nil {
			return badSectionBody(parseErr)
		}
		deal, err = dealRepository.UpdateFinancialsSection(ctx, dealID, &req)
	case models.SectionRepairs:
		var req models.RepairsSectionUpdate
		if parseErr := api.ParseJSONBody(body, &req); parseErr != nil {
			return badSectionBody(parseErr)
		}
		deal, err = dealRepository.UpdateRepairsSection(ctx, dealID, &req)
	case models.SectionAdditional:
		var req models.AdditionalSectionUpdate
		if parseErr := api.ParseJSONBody(body, &req); parseErr != nil {
			return badSectionBody(parseErr)
		}
		deal, err = dealRepository.UpdateAdditionalSection(ctx, dealID, &req)
	default:
		return api.ErrorResponse(http.StatusNotFound, "Unknown section", logger)
	}

	if err != nil {
		if err.Error() == "deal not found" {
			return api.ErrorResponse(http.StatusNotFound, "Deal not found", logger)
		}
		logger.WithFields(logrus.Fields{
			"deal_id": dealID,
			"section": section,
			"error":   err.Error(),
		}).Warn("Failed to update deal section")
		return api.ErrorResponse(http.StatusBadRequest, err.Error(), logger)
	}

	return api.SuccessResponse(http.StatusOK, dealResponse(deal), logger)
}

func badSectionBody(err error) events.APIGatewayProxyResponse {
	logger.WithError(err).Error("Failed to parse section update request")
	return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger)
}

// dealResponse decorates a record with permanent document URLs.
func dealResponse(deal *models.DealSubmission) models.DealResponse {
	return models.DealResponse{
		DealSubmission: *deal,
		Documents: models.DealDocumentLinks{
			PurchaseAgreementURL:   documentURL(deal.PurchaseAgreementKey),
			JVAgreementURL:         documentURL(deal.JVAgreementKey),
			AssignmentAgreementURL: documentURL(deal.AssignmentAgreementKey),
		},
	}
}

func documentURL(key *string) string {
	if key == nil {
		return ""
	}
	return storageClient.PublicURL(*key)
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

	logger.WithField("operation", "init").Info("Deal Management Lambda initialization completed successfully")
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
