package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"

	"dealflow/lib/api"
	"dealflow/lib/clients"
	"dealflow/lib/constants"
	"dealflow/lib/data"
	"dealflow/lib/places"
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
	addressLookup places.Lookup
)

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "Handler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
	}).Info("Address lookup request received")

	if request.HTTPMethod != http.MethodGet {
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}

	// Routes: /addresses/suggestions?input=..., /addresses/places/{placeId}
	pathSegments := strings.Split(strings.Trim(request.Path, "/"), "/")
	if len(pathSegments) < 2 {
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil
	}

	switch pathSegments[1] {
	case "suggestions":
		return handleSuggestions(ctx, request.QueryStringParameters["input"]), nil
	case "places":
		if len(pathSegments) < 3 || pathSegments[2] == "" {
			return api.ErrorResponse(http.StatusBadRequest, "Place ID required", logger), nil
		}
		return handlePlaceDetails(ctx, pathSegments[2]), nil
	default:
		return api.ErrorResponse(http.StatusNotFound, "Not found", logger), nil
	}
}

// handleSuggestions handles GET /addresses/suggestions
func handleSuggestions(ctx context.Context, input string) events.APIGatewayProxyResponse {
	suggestions, err := addressLookup.Autocomplete(ctx, input)
	if err != nil {
		logger.WithError(err).Error("Address autocomplete failed")
		return api.ErrorResponse(http.StatusBadGateway, "Address lookup failed", logger)
	}

	return api.SuccessResponse(http.StatusOK, suggestions, logger)
}

// handlePlaceDetails handles GET /addresses/places/{placeId}
func handlePlaceDetails(ctx context.Context, placeID string) events.APIGatewayProxyResponse {
	details, err := addressLookup.Details(ctx, placeID)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"place_id": placeID,
			"error":    err.Error(),
		}).Error("Place details lookup failed")
		return api.ErrorResponse(http.StatusBadGateway, "Address lookup failed", logger)
	}

	return api.SuccessResponse(http.StatusOK, details, logger)
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

	addressLookup, err = places.NewGoogleLookup(ssmParams[constants.GOOGLE_MAPS_API_KEY], logger)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error setting up Places client")
	}

	logger.WithField("operation", "init").Info("Address Lookup Lambda initialization completed successfully")
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
