package places

import (
	"context"
	"fmt"
	"strings"

	"dealflow/lib/models"

	"github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"
)

// Lookup resolves partial address input to suggestions and full addresses.
type Lookup interface {
	Autocomplete(ctx context.Context, input string) ([]models.AddressSuggestion, error)
	Details(ctx context.Context, placeID string) (*models.PlaceDetails, error)
}

// GoogleLookup backs Lookup with the Google Places API.
type GoogleLookup struct {
	client *maps.Client
	Logger *logrus.Logger
}

// NewGoogleLookup creates a Places client with the given API key.
func NewGoogleLookup(apiKey string, logger *logrus.Logger) (*GoogleLookup, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create places client: %w", err)
	}
	return &GoogleLookup{
		client: client,
		Logger: logger,
	}, nil
}

// Autocomplete returns ranked US address suggestions for partial input.
func (lookup *GoogleLookup) Autocomplete(ctx context.Context, input string) ([]models.AddressSuggestion, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []models.AddressSuggestion{}, nil
	}

	resp, err := lookup.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: input,
		Types: maps.AutocompletePlaceTypeAddress,
		Components: map[maps.Component][]string{
			maps.ComponentCountry: {"us"},
		},
	})
	if err != nil {
		lookup.Logger.WithFields(logrus.Fields{
			"input": input,
			"error": err.Error(),
		}).Error("Failed to query address autocomplete")
		return nil, fmt.Errorf("failed to query address autocomplete: %w", err)
	}

	suggestions := make([]models.AddressSuggestion, 0, len(resp.Predictions))
	for _, prediction := range resp.Predictions {
		suggestions = append(suggestions, models.AddressSuggestion{
			PlaceID:     prediction.PlaceID,
			Description: prediction.Description,
		})
	}

	lookup.Logger.WithFields(logrus.Fields{
		"input": input,
		"count": len(suggestions),
	}).Debug("Address autocomplete results")

	return suggestions, nil
}

// Details resolves a place ID to its street address and ZIP code.
func (lookup *GoogleLookup) Details(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, fmt.Errorf("place_id is required")
	}

	resp, err := lookup.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskAddressComponent,
		},
	})
	if err != nil {
		lookup.Logger.WithFields(logrus.Fields{
			"place_id": placeID,
			"error":    err.Error(),
		}).Error("Failed to fetch place details")
		return nil, fmt.Errorf("failed to fetch place details: %w", err)
	}

	details := &models.PlaceDetails{
		Address: resp.FormattedAddress,
	}
	for _, component := range resp.AddressComponents {
		for _, componentType := range component.Types {
			if componentType == "postal_code" {
				details.ZipCode = component.LongName
			}
		}
	}

	return details, nil
}
