package data

import (
	"strings"
	"testing"
	"time"

	"dealflow/lib/models"

	"github.com/stretchr/testify/assert"
)

func setStr(v string) models.NullableString {
	return models.NullableString{Set: true, Valid: true, Value: v}
}

func nullStr() models.NullableString {
	return models.NullableString{Set: true}
}

func Test_SetBuilder_Clause_NumbersPlaceholders(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	b.set("status", "posted")
	b.set("buyer_name", "Dana")

	//Act
	clause, args, next := b.clause(1)

	//Assert
	assert.Equal(t, "status = $1, buyer_name = $2, updated_at = CURRENT_TIMESTAMP", clause)
	assert.Equal(t, []interface{}{"posted", "Dana"}, args)
	assert.Equal(t, 3, next)
}

func Test_SetBuilder_AppendNote_ReusesPlaceholder(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	b.set("status", "dead")
	b.appendNote("[2026-08-28T12:00:00Z] seller backed out")

	//Act
	clause, args, next := b.clause(1)

	//Assert
	assert.Contains(t, clause, "status = $1")
	assert.Contains(t, clause, "notes = CASE WHEN notes IS NULL OR notes = '' THEN $2 ELSE notes || E'\\n\\n' || $2 END")
	assert.Len(t, args, 2)
	assert.Equal(t, 3, next)
}

func Test_BuildStatusUpdate_AcceptsAnyStatusString(t *testing.T) {
	// No transition whitelist: board columns, repeats of the current status,
	// and strings outside the known pipeline all go through.
	statuses := []string{
		models.StatusNew,
		models.StatusUnderReview,
		models.StatusOfferAccepted,
		models.StatusDead,
		"archived",
		"on hold pending title",
	}

	for _, status := range statuses {
		//Act
		b, err := buildStatusUpdate(&models.UpdateStatusRequest{Status: status}, time.Now())

		//Assert
		assert.NoError(t, err, status)
		clause, args, _ := b.clause(1)
		assert.Equal(t, "status = $1, updated_at = CURRENT_TIMESTAMP", clause, status)
		assert.Equal(t, status, args[0])
	}
}

func Test_BuildStatusUpdate_RejectsOnlyEmptyStatus(t *testing.T) {
	for _, status := range []string{"", "   "} {
		//Act
		_, err := buildStatusUpdate(&models.UpdateStatusRequest{Status: status}, time.Now())

		//Assert
		assert.EqualError(t, err, "status is required")
	}
}

func Test_BuildStatusUpdate_AssignmentAndNoteRideAlong(t *testing.T) {
	//Arrange
	profit := "15,000"
	buyerPhone := "(305) 555-0199"
	note := "offer signed"
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	//Act
	b, err := buildStatusUpdate(&models.UpdateStatusRequest{
		Status:           models.StatusOfferAccepted,
		AssignmentProfit: &profit,
		BuyerPhone:       &buyerPhone,
		Note:             &note,
	}, now)

	//Assert
	assert.NoError(t, err)
	clause, args, _ := b.clause(1)
	assert.Contains(t, clause, "status = $1")
	assert.Contains(t, clause, "assignment_profit = $2")
	assert.Contains(t, clause, "buyer_phone = $3")
	assert.Contains(t, clause, "notes = CASE WHEN notes IS NULL OR notes = '' THEN $4")
	assert.Equal(t, "3055550199", args[2])
	assert.Equal(t, "[2026-08-28T12:00:00Z] offer signed", args[3])
}

func Test_BuildStatusUpdate_BadAssignmentProfit(t *testing.T) {
	//Arrange
	profit := "lots"

	//Act
	_, err := buildStatusUpdate(&models.UpdateStatusRequest{
		Status:           models.StatusOfferAccepted,
		AssignmentProfit: &profit,
	}, time.Now())

	//Assert
	assert.EqualError(t, err, "assignment_profit must be a number")
}

func Test_ApplyContactUpdate_RejectsNull(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.ContactSectionUpdate{Name: nullStr()}

	//Act
	err := applyContactUpdate(b, req)

	//Assert
	assert.EqualError(t, err, "name cannot be cleared")
}

func Test_ApplyContactUpdate_NormalizesPhone(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.ContactSectionUpdate{Phone: setStr("(305) 555-0101")}

	//Act
	err := applyContactUpdate(b, req)
	_, args, _ := b.clause(1)

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"3055550101"}, args)
}

func Test_ApplyContactUpdate_AbsentFieldsUntouched(t *testing.T) {
	//Arrange
	b := &setBuilder{}

	//Act
	err := applyContactUpdate(b, &models.ContactSectionUpdate{})

	//Assert
	assert.NoError(t, err)
	assert.True(t, b.empty())
}

func Test_ApplySellerUpdate_NullClearsColumn(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.SellerSectionUpdate{SellerEmail: nullStr()}

	//Act
	err := applySellerUpdate(b, req)
	clause, args, _ := b.clause(1)

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, "seller_email = $1, updated_at = CURRENT_TIMESTAMP", clause)
	assert.Nil(t, args[0])
}

func Test_ApplyPropertyUpdate_RequiredAndOptional(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.PropertySectionUpdate{
		Address:  setStr(" 12 Palm Ave "),
		Bedrooms: models.NullableInt{Set: true, Valid: true, Value: 3},
	}

	//Act
	err := applyPropertyUpdate(b, req)
	clause, args, _ := b.clause(1)

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, "address = $1, bedrooms = $2, updated_at = CURRENT_TIMESTAMP", clause)
	assert.Equal(t, "12 Palm Ave", args[0])
	assert.Equal(t, int64(3), args[1])
}

func Test_ApplyPropertyUpdate_AddressCannotClear(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.PropertySectionUpdate{ZipCode: nullStr()}

	//Act
	err := applyPropertyUpdate(b, req)

	//Assert
	assert.EqualError(t, err, "zip_code cannot be cleared")
}

func Test_ApplyFinancialsUpdate_PatternCheck(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.FinancialsSectionUpdate{ARV: setStr("about 200k")}

	//Act
	err := applyFinancialsUpdate(b, req)

	//Assert
	assert.EqualError(t, err, "arv must be a number")
}

func Test_ApplyFinancialsUpdate_KeepsVerbatimNumericString(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.FinancialsSectionUpdate{
		ContractPrice:    setStr("150,000"),
		AssignmentProfit: nullStr(),
	}

	//Act
	err := applyFinancialsUpdate(b, req)
	clause, args, _ := b.clause(1)

	//Assert
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(clause, "contract_price = $1, assignment_profit = $2"))
	assert.Equal(t, "150,000", args[0])
	assert.Nil(t, args[1])
}

func Test_ApplyAdditionalUpdate_FlagCannotClear(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.AdditionalSectionUpdate{PhotosNeeded: models.NullableBool{Set: true}}

	//Act
	err := applyAdditionalUpdate(b, req)

	//Assert
	assert.EqualError(t, err, "photos_needed cannot be cleared")
}

func Test_ApplyDocumentsUpdate_ClearsKey(t *testing.T) {
	//Arrange
	b := &setBuilder{}
	req := &models.DocumentsUpdate{
		PurchaseAgreementKey: setStr("deals/42/purchase.pdf"),
		JVAgreementKey:       nullStr(),
	}

	//Act
	err := applyDocumentsUpdate(b, req)
	clause, args, _ := b.clause(1)

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, "purchase_agreement_key = $1, jv_agreement_key = $2, updated_at = CURRENT_TIMESTAMP", clause)
	assert.Equal(t, "deals/42/purchase.pdf", args[0])
	assert.Nil(t, args[1])
}
