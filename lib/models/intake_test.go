package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fullIntakeJSON is a complete, valid submission. Tests mutate it.
func fullIntakeJSON() map[string]interface{} {
	return map[string]interface{}{
		"name":  "Alex Rivera",
		"email": "alex@example.com",
		"phone": "(555) 123-4567",

		"seller_name":  "Pat Seller",
		"seller_email": "Unknown",
		"seller_phone": "555-987-6543",

		"address":        "12 Oak St, Springfield",
		"zip_code":       "62704",
		"property_type":  "Single Family",
		"bedrooms":       3,
		"bathrooms":      2,
		"half_baths":     "Unknown",
		"square_footage": 1450,
		"lot_size":       0.21,
		"lot_size_unit":  "acres",
		"year_built":     "1962",

		"closing_date":          "2024-08-15",
		"inspection_expires_at": "Unknown",

		"property_condition":   "Needs work",
		"occupancy":            "Vacant",
		"repair_estimate_min":  "20,000",
		"repair_estimate_max":  "30,000",
		"roof_age":             "10-15 years",
		"ac_type":              "Central",
		"heating_type":         "Forced air",
		"heating_age":          "Unknown",
		"foundation_type":      "Slab",
		"foundation_condition": "Unknown",
		"parking_type":         "Driveway",

		"arv":               "200,000",
		"estimated_repairs": "25,000",
		"contract_price":    "150,000",
	}
}

func decodeIntake(t *testing.T, payload map[string]interface{}) (*IntakeRequest, error) {
	raw, err := json.Marshal(payload)
	assert.NoError(t, err)
	var req IntakeRequest
	return &req, json.Unmarshal(raw, &req)
}

func Test_Intake_ValidPayload(t *testing.T) {
	req, err := decodeIntake(t, fullIntakeJSON())
	assert.NoError(t, err)
	assert.Empty(t, req.Validate())
}

func Test_Intake_UnknownCollapsesToNil(t *testing.T) {
	req, err := decodeIntake(t, fullIntakeJSON())
	assert.NoError(t, err)

	deal := req.ToRecord()

	// "Unknown" must be stored as absent, never as the literal string.
	assert.Nil(t, deal.SellerEmail)
	assert.Nil(t, deal.HalfBaths)
	assert.Nil(t, deal.HeatingAge)
	assert.Nil(t, deal.FoundationCondition)
	assert.Nil(t, deal.InspectionExpiresAt)

	// Concrete values survive.
	assert.Equal(t, "Pat Seller", *deal.SellerName)
	assert.Equal(t, int64(3), *deal.Bedrooms)
	assert.Equal(t, int64(1962), *deal.YearBuilt)
	assert.Equal(t, "Slab", *deal.FoundationType)
}

func Test_Intake_OmittedOptionalFieldRejected(t *testing.T) {
	payload := fullIntakeJSON()
	delete(payload, "roof_age")

	req, err := decodeIntake(t, payload)
	assert.NoError(t, err)

	errs := req.Validate()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "roof_age")
}

func Test_Intake_FinancialsHaveNoUnknownEscape(t *testing.T) {
	payload := fullIntakeJSON()
	payload["contract_price"] = "Unknown"

	req, err := decodeIntake(t, payload)
	assert.NoError(t, err)

	errs := req.Validate()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "contract_price")
}

func Test_Intake_NumericPattern(t *testing.T) {
	valid := []string{"150000", "150,000", "150,000.50", "1"}
	invalid := []string{"", "$150,000", "150k", "abc", ",150"}

	for _, v := range valid {
		assert.True(t, NumericStringPattern.MatchString(v), v)
	}
	for _, v := range invalid {
		assert.False(t, NumericStringPattern.MatchString(v), v)
	}
}

func Test_Intake_PhoneNormalizedToDigits(t *testing.T) {
	req, err := decodeIntake(t, fullIntakeJSON())
	assert.NoError(t, err)

	deal := req.ToRecord()
	assert.Equal(t, "5551234567", deal.Phone)
	assert.Equal(t, "5559876543", *deal.SellerPhone)
}

func Test_Intake_MissingRequiredFields(t *testing.T) {
	payload := fullIntakeJSON()
	payload["name"] = "  "
	payload["email"] = "not-an-email"
	payload["arv"] = "$200k"

	req, err := decodeIntake(t, payload)
	assert.NoError(t, err)

	errs := req.Validate()
	joined := strings.Join(errs, "; ")
	assert.Contains(t, joined, "name:")
	assert.Contains(t, joined, "email:")
	assert.Contains(t, joined, "arv:")
}

func Test_Intake_StatusStartsNew(t *testing.T) {
	req, err := decodeIntake(t, fullIntakeJSON())
	assert.NoError(t, err)
	assert.Equal(t, StatusNew, req.ToRecord().Status)
}

func Test_Intake_BadBedroomsValue(t *testing.T) {
	payload := fullIntakeJSON()
	payload["bedrooms"] = "three"

	_, err := decodeIntake(t, payload)
	assert.Error(t, err)
}
