package data

import (
	"fmt"
	"strings"
	"time"

	"dealflow/lib/models"
	"dealflow/lib/util"
)

// setBuilder accumulates SET clauses for a dynamic partial UPDATE. Only the
// fields a request actually carried end up in the statement, which is what
// gives the section operations their merge semantics.
type setPart struct {
	render func(argIndex int) string
	arg    interface{}
}

type setBuilder struct {
	parts []setPart
}

func (b *setBuilder) set(column string, value interface{}) {
	b.parts = append(b.parts, setPart{
		render: func(i int) string { return fmt.Sprintf("%s = $%d", column, i) },
		arg:    value,
	})
}

// appendNote adds the stamped note to the existing history in the same
// UPDATE as everything else: status change and audit entry land in one write.
func (b *setBuilder) appendNote(stamped string) {
	b.parts = append(b.parts, setPart{
		render: func(i int) string {
			return fmt.Sprintf("notes = CASE WHEN notes IS NULL OR notes = '' THEN $%d ELSE notes || E'\\n\\n' || $%d END", i, i)
		},
		arg: stamped,
	})
}

func (b *setBuilder) empty() bool {
	return len(b.parts) == 0
}

// clause renders the SET list with placeholders starting at firstIndex and
// returns the next free placeholder index.
func (b *setBuilder) clause(firstIndex int) (string, []interface{}, int) {
	rendered := make([]string, 0, len(b.parts)+1)
	args := make([]interface{}, 0, len(b.parts))
	idx := firstIndex
	for _, p := range b.parts {
		rendered = append(rendered, p.render(idx))
		args = append(args, p.arg)
		idx++
	}
	rendered = append(rendered, "updated_at = CURRENT_TIMESTAMP")
	return strings.Join(rendered, ", "), args, idx
}

func (b *setBuilder) text(column string, n models.NullableString) {
	if !n.Set {
		return
	}
	if !n.Valid {
		b.set(column, nil)
		return
	}
	b.set(column, strings.TrimSpace(n.Value))
}

func (b *setBuilder) phone(column string, n models.NullableString) {
	if !n.Set {
		return
	}
	if !n.Valid {
		b.set(column, nil)
		return
	}
	b.set(column, util.DigitsOnly(n.Value))
}

func (b *setBuilder) integer(column string, n models.NullableInt) {
	if !n.Set {
		return
	}
	if !n.Valid {
		b.set(column, nil)
		return
	}
	b.set(column, n.Value)
}

func (b *setBuilder) float(column string, n models.NullableFloat) {
	if !n.Set {
		return
	}
	if !n.Valid {
		b.set(column, nil)
		return
	}
	b.set(column, n.Value)
}

func (b *setBuilder) date(column string, n models.NullableDate) {
	if !n.Set {
		return
	}
	if !n.Valid {
		b.set(column, nil)
		return
	}
	b.set(column, n.Value)
}

// requiredText handles NOT NULL text columns: an explicit null or a blank
// value is rejected rather than written.
func (b *setBuilder) requiredText(field, column string, n models.NullableString) error {
	if !n.Set {
		return nil
	}
	if !n.Valid {
		return fmt.Errorf("%s cannot be cleared", field)
	}
	trimmed := strings.TrimSpace(n.Value)
	if trimmed == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	b.set(column, trimmed)
	return nil
}

// requiredNumericText additionally pattern-checks the money-string columns.
func (b *setBuilder) requiredNumericText(field, column string, n models.NullableString) error {
	if !n.Set {
		return nil
	}
	if !n.Valid {
		return fmt.Errorf("%s cannot be cleared", field)
	}
	trimmed := strings.TrimSpace(n.Value)
	if !models.NumericStringPattern.MatchString(trimmed) {
		return fmt.Errorf("%s must be a number", field)
	}
	b.set(column, trimmed)
	return nil
}

// numericText pattern-checks a nullable money-string column.
func (b *setBuilder) numericText(field, column string, n models.NullableString) error {
	if !n.Set {
		return nil
	}
	if !n.Valid {
		b.set(column, nil)
		return nil
	}
	trimmed := strings.TrimSpace(n.Value)
	if !models.NumericStringPattern.MatchString(trimmed) {
		return fmt.Errorf("%s must be a number", field)
	}
	b.set(column, trimmed)
	return nil
}

func (b *setBuilder) boolean(field, column string, n models.NullableBool) error {
	if !n.Set {
		return nil
	}
	if !n.Valid {
		return fmt.Errorf("%s cannot be cleared", field)
	}
	b.set(column, n.Value)
	return nil
}

// buildStatusUpdate assembles the single-statement status write. Any
// non-empty status string is accepted for any current status; the board grows
// columns without a release, so there is deliberately no transition whitelist.
func buildStatusUpdate(req *models.UpdateStatusRequest, now time.Time) (*setBuilder, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, fmt.Errorf("status is required")
	}

	b := &setBuilder{}
	b.set("status", status)

	if req.AssignmentProfit != nil {
		profit := strings.TrimSpace(*req.AssignmentProfit)
		if !models.NumericStringPattern.MatchString(profit) {
			return nil, fmt.Errorf("assignment_profit must be a number")
		}
		b.set("assignment_profit", profit)
	}
	if req.BuyerName != nil {
		b.set("buyer_name", strings.TrimSpace(*req.BuyerName))
	}
	if req.BuyerPhone != nil {
		b.set("buyer_phone", util.DigitsOnly(*req.BuyerPhone))
	}
	if req.BuyerEmail != nil {
		b.set("buyer_email", strings.TrimSpace(*req.BuyerEmail))
	}
	if req.ClosingDate != nil {
		closing, err := util.ParseDateUTC(*req.ClosingDate)
		if err != nil {
			return nil, err
		}
		b.set("closing_date", closing)
	}
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		b.appendNote(util.StampNote(now, *req.Note))
	}
	return b, nil
}

// Per-section clause assembly. Each function maps exactly the fields its
// request carried onto columns; nothing else is touched.

func applyContactUpdate(b *setBuilder, req *models.ContactSectionUpdate) error {
	if err := b.requiredText("name", "name", req.Name); err != nil {
		return err
	}
	if err := b.requiredText("email", "email", req.Email); err != nil {
		return err
	}
	if req.Phone.Set {
		if !req.Phone.Valid {
			return fmt.Errorf("phone cannot be cleared")
		}
		digits := util.DigitsOnly(req.Phone.Value)
		if digits == "" {
			return fmt.Errorf("phone cannot be empty")
		}
		b.set("phone", digits)
	}
	return nil
}

func applySellerUpdate(b *setBuilder, req *models.SellerSectionUpdate) error {
	b.text("seller_name", req.SellerName)
	b.text("seller_email", req.SellerEmail)
	b.phone("seller_phone", req.SellerPhone)
	return nil
}

func applyPropertyUpdate(b *setBuilder, req *models.PropertySectionUpdate) error {
	if err := b.requiredText("address", "address", req.Address); err != nil {
		return err
	}
	if err := b.requiredText("zip_code", "zip_code", req.ZipCode); err != nil {
		return err
	}
	b.text("property_type", req.PropertyType)
	b.integer("bedrooms", req.Bedrooms)
	b.integer("bathrooms", req.Bathrooms)
	b.integer("half_baths", req.HalfBaths)
	b.integer("square_footage", req.SquareFootage)
	b.float("lot_size", req.LotSize)
	b.text("lot_size_unit", req.LotSizeUnit)
	b.integer("year_built", req.YearBuilt)
	return nil
}

func applyFinancialsUpdate(b *setBuilder, req *models.FinancialsSectionUpdate) error {
	if err := b.requiredNumericText("arv", "arv", req.ARV); err != nil {
		return err
	}
	if err := b.requiredNumericText("estimated_repairs", "estimated_repairs", req.EstimatedRepairs); err != nil {
		return err
	}
	if err := b.requiredNumericText("contract_price", "contract_price", req.ContractPrice); err != nil {
		return err
	}
	if err := b.numericText("assignment_profit", "assignment_profit", req.AssignmentProfit); err != nil {
		return err
	}
	b.date("closing_date", req.ClosingDate)
	b.date("inspection_expires_at", req.InspectionExpiresAt)
	return nil
}

func applyRepairsUpdate(b *setBuilder, req *models.RepairsSectionUpdate) error {
	b.text("property_condition", req.PropertyCondition)
	b.text("occupancy", req.Occupancy)
	if err := b.numericText("repair_estimate_min", "repair_estimate_min", req.RepairEstimateMin); err != nil {
		return err
	}
	if err := b.numericText("repair_estimate_max", "repair_estimate_max", req.RepairEstimateMax); err != nil {
		return err
	}
	b.text("roof_age", req.RoofAge)
	b.text("ac_type", req.ACType)
	b.text("heating_type", req.HeatingType)
	b.text("heating_age", req.HeatingAge)
	b.text("foundation_type", req.FoundationType)
	b.text("foundation_condition", req.FoundationCondition)
	b.text("parking_type", req.ParkingType)
	return nil
}

func applyAdditionalUpdate(b *setBuilder, req *models.AdditionalSectionUpdate) error {
	b.text("buyer_name", req.BuyerName)
	b.phone("buyer_phone", req.BuyerPhone)
	b.text("buyer_email", req.BuyerEmail)
	if err := b.boolean("photos_needed", "photos_needed", req.PhotosNeeded); err != nil {
		return err
	}
	if err := b.boolean("lockbox_needed", "lockbox_needed", req.LockboxNeeded); err != nil {
		return err
	}
	return nil
}

func applyDocumentsUpdate(b *setBuilder, req *models.DocumentsUpdate) error {
	b.text("purchase_agreement_key", req.PurchaseAgreementKey)
	b.text("jv_agreement_key", req.JVAgreementKey)
	b.text("assignment_agreement_key", req.AssignmentAgreementKey)
	return nil
}
