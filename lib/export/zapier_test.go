package export

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dealflow/lib/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testDeal() *models.DealSubmission {
	bedrooms := int64(3)
	profit := "15,000"
	closing := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	return &models.DealSubmission{
		ID:               7,
		Name:             "Jordan Reyes",
		Email:            "jordan@example.com",
		Phone:            "3055550101",
		Address:          "12 Palm Ave",
		ZipCode:          "33101",
		ARV:              "250,000",
		EstimatedRepairs: "40,000",
		ContractPrice:    "150,000",
		Bedrooms:         &bedrooms,
		AssignmentProfit: &profit,
		ClosingDate:      &closing,
		Status:           models.StatusPosted,
	}
}

func Test_PushDeal_SendsFlatPayload(t *testing.T) {
	//Arrange
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", logrus.New())

	//Act
	pushed := client.PushDeal(context.Background(), testDeal())

	//Assert
	assert.True(t, pushed)
	assert.Equal(t, "7", received["deal_id"])
	assert.Equal(t, "12 Palm Ave", received["address"])
	assert.Equal(t, "150,000", received["contract_price"])
	assert.Equal(t, "3", received["bedrooms"])
	assert.Equal(t, "15,000", received["assignment_profit"])
	assert.Equal(t, "2026-09-30", received["closing_date"])
	_, hasSeller := received["seller_name"]
	assert.False(t, hasSeller)
}

func Test_PushDeal_Non2xxIsSwallowed(t *testing.T) {
	//Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", logrus.New())

	//Act
	pushed := client.PushDeal(context.Background(), testDeal())

	//Assert
	assert.False(t, pushed)
}

func Test_RequestJVAgreement_HookOutageDoesNotError(t *testing.T) {
	//Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	server.Close() // connection refused from here on

	client := NewClient("", server.URL, "", logrus.New())

	//Act
	pushed := client.RequestJVAgreement(context.Background(), testDeal())

	//Assert
	assert.False(t, pushed)
}

func Test_RequestJVAgreement_UnconfiguredHookReportsNotPushed(t *testing.T) {
	//Arrange
	client := NewClient("", "", "", logrus.New())

	//Act
	pushed := client.RequestJVAgreement(context.Background(), testDeal())

	//Assert
	assert.False(t, pushed)
}

func Test_RequestDealDescription_UsesDescriptionHook(t *testing.T) {
	//Arrange
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("", "", server.URL, logrus.New())

	//Act
	pushed := client.RequestDealDescription(context.Background(), testDeal())

	//Assert
	assert.True(t, pushed)
	assert.Equal(t, 1, calls)
}
