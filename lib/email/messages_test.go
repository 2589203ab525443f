package email

import (
	"testing"
	"time"

	"dealflow/lib/models"

	"github.com/stretchr/testify/assert"
)

func strPtr(v string) *string { return &v }

func sampleDeal() *models.DealSubmission {
	closing := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	return &models.DealSubmission{
		ID:               42,
		Name:             "Jordan Reyes",
		Email:            "jordan@example.com",
		Phone:            "3055550101",
		Address:          "12 Palm Ave",
		ZipCode:          "33101",
		ARV:              "250,000",
		EstimatedRepairs: "40,000",
		ContractPrice:    "150,000",
		ClosingDate:      &closing,
		Status:           models.StatusNew,
		CreatedAt:        time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
	}
}

func Test_RenderStaffNotification(t *testing.T) {
	//Arrange
	deal := sampleDeal()

	//Act
	msg, err := RenderStaffNotification(deal, "staff@example.com")

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"staff@example.com"}, msg.To)
	assert.Equal(t, "New deal submitted: 12 Palm Ave, 33101", msg.Subject)
	assert.Contains(t, msg.Text, "ARV: 250,000")
	assert.Contains(t, msg.Text, "Deal ID: 42")
	assert.Contains(t, msg.HTML, "<strong>12 Palm Ave, 33101</strong>")
}

func Test_RenderStaffNotification_DashesForMissingFields(t *testing.T) {
	//Arrange
	deal := sampleDeal()
	deal.ClosingDate = nil

	//Act
	msg, err := RenderStaffNotification(deal, "staff@example.com")

	//Assert
	assert.NoError(t, err)
	assert.Contains(t, msg.Text, "Closing date: -")
}

func Test_RenderSubmitterConfirmation(t *testing.T) {
	//Arrange
	deal := sampleDeal()

	//Act
	msg, err := RenderSubmitterConfirmation(deal)

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"jordan@example.com"}, msg.To)
	assert.Contains(t, msg.Text, "Hi Jordan Reyes,")
	assert.Contains(t, msg.Text, "12 Palm Ave, 33101")
}

func Test_RenderTCHandoff(t *testing.T) {
	//Arrange
	deal := sampleDeal()
	deal.Status = models.StatusOfferAccepted
	deal.BuyerName = strPtr("Dana Fuller")
	deal.BuyerEmail = strPtr("dana@example.com")
	deal.AssignmentProfit = strPtr("15,000")

	//Act
	msg, err := RenderTCHandoff(deal, "tc@example.com")

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"tc@example.com"}, msg.To)
	assert.Equal(t, "Deal 42 ready for TC: 12 Palm Ave, 33101", msg.Subject)
	assert.Contains(t, msg.Text, "Buyer: Dana Fuller (dana@example.com, -)")
	assert.Contains(t, msg.Text, "Assignment profit: 15,000")
	assert.Contains(t, msg.Text, "Closing date: 2026-09-30")
}

func Test_RenderStaffNotification_EscapesHTML(t *testing.T) {
	//Arrange
	deal := sampleDeal()
	deal.Name = `<script>alert("x")</script>`

	//Act
	msg, err := RenderStaffNotification(deal, "staff@example.com")

	//Assert
	assert.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
}
