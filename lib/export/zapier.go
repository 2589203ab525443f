package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dealflow/lib/models"

	"github.com/sirupsen/logrus"
)

// Client pushes deal data to Zapier catch hooks. Each hook kicks off a
// downstream Zap (marketing blast, JV agreement doc, listing copy).
//
// Pushes are best-effort: failures are logged and reported to the caller as
// a false result, never propagated as errors. Callers use the result to
// decide whether to stamp a sent timestamp.
type Client struct {
	httpClient         *http.Client
	dealHookURL        string
	jvHookURL          string
	descriptionHookURL string
	Logger             *logrus.Logger
}

// NewClient creates a Zapier client. Empty hook URLs disable the
// corresponding push.
func NewClient(dealHookURL, jvHookURL, descriptionHookURL string, logger *logrus.Logger) *Client {
	return &Client{
		httpClient:         &http.Client{Timeout: 10 * time.Second},
		dealHookURL:        dealHookURL,
		jvHookURL:          jvHookURL,
		descriptionHookURL: descriptionHookURL,
		Logger:             logger,
	}
}

// payload flattens a deal into the flat string map Zapier fields expect.
func payload(deal *models.DealSubmission) map[string]string {
	fields := map[string]string{
		"deal_id":           fmt.Sprintf("%d", deal.ID),
		"name":              deal.Name,
		"email":             deal.Email,
		"phone":             deal.Phone,
		"address":           deal.Address,
		"zip_code":          deal.ZipCode,
		"arv":               deal.ARV,
		"estimated_repairs": deal.EstimatedRepairs,
		"contract_price":    deal.ContractPrice,
		"status":            deal.Status,
	}

	optional := map[string]*string{
		"seller_name":          deal.SellerName,
		"seller_email":         deal.SellerEmail,
		"seller_phone":         deal.SellerPhone,
		"property_type":        deal.PropertyType,
		"lot_size_unit":        deal.LotSizeUnit,
		"property_condition":   deal.PropertyCondition,
		"occupancy":            deal.Occupancy,
		"repair_estimate_min":  deal.RepairEstimateMin,
		"repair_estimate_max":  deal.RepairEstimateMax,
		"roof_age":             deal.RoofAge,
		"ac_type":              deal.ACType,
		"heating_type":         deal.HeatingType,
		"foundation_type":      deal.FoundationType,
		"foundation_condition": deal.FoundationCondition,
		"parking_type":         deal.ParkingType,
		"assignment_profit":    deal.AssignmentProfit,
		"buyer_name":           deal.BuyerName,
		"buyer_phone":          deal.BuyerPhone,
		"buyer_email":          deal.BuyerEmail,
	}
	for key, value := range optional {
		if value != nil {
			fields[key] = *value
		}
	}

	ints := map[string]*int64{
		"bedrooms":       deal.Bedrooms,
		"bathrooms":      deal.Bathrooms,
		"half_baths":     deal.HalfBaths,
		"square_footage": deal.SquareFootage,
		"year_built":     deal.YearBuilt,
	}
	for key, value := range ints {
		if value != nil {
			fields[key] = fmt.Sprintf("%d", *value)
		}
	}

	if deal.LotSize != nil {
		fields["lot_size"] = fmt.Sprintf("%g", *deal.LotSize)
	}
	if deal.ClosingDate != nil {
		fields["closing_date"] = deal.ClosingDate.UTC().Format("2006-01-02")
	}
	if deal.InspectionExpiresAt != nil {
		fields["inspection_expires_at"] = deal.InspectionExpiresAt.UTC().Format("2006-01-02")
	}

	return fields
}

// push reports whether the hook accepted the payload.
func (client *Client) push(ctx context.Context, hookURL, kind string, deal *models.DealSubmission) bool {
	if hookURL == "" {
		client.Logger.WithFields(logrus.Fields{
			"deal_id": deal.ID,
			"hook":    kind,
		}).Warn("Zapier hook not configured, skipping push")
		return false
	}

	body, err := json.Marshal(payload(deal))
	if err != nil {
		client.Logger.WithFields(logrus.Fields{
			"deal_id": deal.ID,
			"hook":    kind,
			"error":   err.Error(),
		}).Error("Failed to encode Zapier payload")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hookURL, bytes.NewReader(body))
	if err != nil {
		client.Logger.WithFields(logrus.Fields{
			"deal_id": deal.ID,
			"hook":    kind,
			"error":   err.Error(),
		}).Error("Failed to build Zapier request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		client.Logger.WithFields(logrus.Fields{
			"deal_id": deal.ID,
			"hook":    kind,
			"error":   err.Error(),
		}).Error("Failed to push to Zapier")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		client.Logger.WithFields(logrus.Fields{
			"deal_id":     deal.ID,
			"hook":        kind,
			"status_code": resp.StatusCode,
		}).Error("Zapier hook returned non-2xx status")
		return false
	}

	client.Logger.WithFields(logrus.Fields{
		"deal_id": deal.ID,
		"hook":    kind,
	}).Info("Successfully pushed deal to Zapier")

	return true
}

// PushDeal sends the full deal to the marketing hook.
func (client *Client) PushDeal(ctx context.Context, deal *models.DealSubmission) bool {
	return client.push(ctx, client.dealHookURL, "deal", deal)
}

// RequestJVAgreement asks the document Zap to generate a JV agreement.
func (client *Client) RequestJVAgreement(ctx context.Context, deal *models.DealSubmission) bool {
	return client.push(ctx, client.jvHookURL, "jv_agreement", deal)
}

// RequestDealDescription asks the copywriting Zap for listing copy.
func (client *Client) RequestDealDescription(ctx context.Context, deal *models.DealSubmission) bool {
	return client.push(ctx, client.descriptionHookURL, "deal_description", deal)
}
