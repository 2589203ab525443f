package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dealflow/lib/models"
	"dealflow/lib/util"

	"github.com/sirupsen/logrus"
)

// DealRepository defines the interface for deal submission data operations
type DealRepository interface {
	// CreateDeal inserts a new deal submission and returns it with its ID
	CreateDeal(ctx context.Context, deal *models.DealSubmission) (*models.DealSubmission, error)

	// GetDeal retrieves a single deal by ID
	GetDeal(ctx context.Context, dealID int64) (*models.DealSubmission, error)

	// ListDeals retrieves deals newest first, optionally filtered by status
	ListDeals(ctx context.Context, status string, page, pageSize int) (*models.DealListResponse, error)

	// UpdateStatus moves a deal to a new status; assignment fields and the
	// stamped note land in the same write
	UpdateStatus(ctx context.Context, dealID int64, req *models.UpdateStatusRequest, now time.Time) (*models.DealSubmission, error)

	// AppendNote stamps and appends a note to the deal's history
	AppendNote(ctx context.Context, dealID int64, note string, now time.Time) (*models.DealSubmission, error)

	// Section updates: each touches only the fields its request carried
	UpdateContactSection(ctx context.Context, dealID int64, req *models.ContactSectionUpdate) (*models.DealSubmission, error)
	UpdateSellerSection(ctx context.Context, dealID int64, req *models.SellerSectionUpdate) (*models.DealSubmission, error)
	UpdatePropertySection(ctx context.Context, dealID int64, req *models.PropertySectionUpdate) (*models.DealSubmission, error)
	UpdateFinancialsSection(ctx context.Context, dealID int64, req *models.FinancialsSectionUpdate) (*models.DealSubmission, error)
	UpdateRepairsSection(ctx context.Context, dealID int64, req *models.RepairsSectionUpdate) (*models.DealSubmission, error)
	UpdateAdditionalSection(ctx context.Context, dealID int64, req *models.AdditionalSectionUpdate) (*models.DealSubmission, error)
	UpdateDocuments(ctx context.Context, dealID int64, req *models.DocumentsUpdate) (*models.DealSubmission, error)

	// Handoff timestamps
	MarkSentToTC(ctx context.Context, dealID int64, at time.Time) (*models.DealSubmission, error)
	MarkJVAgreementSent(ctx context.Context, dealID int64, at time.Time) (*models.DealSubmission, error)
	MarkDealDescriptionSent(ctx context.Context, dealID int64, at time.Time) (*models.DealSubmission, error)
}

// DealDao implements DealRepository using PostgreSQL
type DealDao struct {
	DB     *sql.DB
	Logger *logrus.Logger
}

// dealColumns is the canonical column list; scanDeal consumes it in the same
// order.
const dealColumns = `id, name, email, phone,
	seller_name, seller_email, seller_phone,
	address, zip_code, property_type, bedrooms, bathrooms, half_baths,
	square_footage, lot_size, lot_size_unit, year_built,
	closing_date, inspection_expires_at,
	property_condition, occupancy, repair_estimate_min, repair_estimate_max,
	roof_age, ac_type, heating_type, heating_age,
	foundation_type, foundation_condition, parking_type,
	arv, estimated_repairs, contract_price,
	assignment_profit, buyer_name, buyer_phone, buyer_email,
	purchase_agreement_key, jv_agreement_key, assignment_agreement_key,
	status, notes, sent_to_tc_at, sent_jv_agreement_at, sent_deal_description_at,
	photos_needed, lockbox_needed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeal(row rowScanner) (*models.DealSubmission, error) {
	var deal models.DealSubmission
	var (
		sellerName, sellerEmail, sellerPhone         sql.NullString
		propertyType, lotSizeUnit                    sql.NullString
		bedrooms, bathrooms, halfBaths               sql.NullInt64
		squareFootage, yearBuilt                     sql.NullInt64
		lotSize                                      sql.NullFloat64
		closingDate, inspectionExpiresAt             sql.NullTime
		propertyCondition, occupancy                 sql.NullString
		repairEstimateMin, repairEstimateMax         sql.NullString
		roofAge, acType, heatingType, heatingAge     sql.NullString
		foundationType, foundationCondition          sql.NullString
		parkingType                                  sql.NullString
		assignmentProfit                             sql.NullString
		buyerName, buyerPhone, buyerEmail            sql.NullString
		purchaseKey, jvKey, assignmentKey            sql.NullString
		notes                                        sql.NullString
		sentToTCAt, sentJVAt, sentDescAt             sql.NullTime
	)

	err := row.Scan(
		&deal.ID, &deal.Name, &deal.Email, &deal.Phone,
		&sellerName, &sellerEmail, &sellerPhone,
		&deal.Address, &deal.ZipCode, &propertyType, &bedrooms, &bathrooms, &halfBaths,
		&squareFootage, &lotSize, &lotSizeUnit, &yearBuilt,
		&closingDate, &inspectionExpiresAt,
		&propertyCondition, &occupancy, &repairEstimateMin, &repairEstimateMax,
		&roofAge, &acType, &heatingType, &heatingAge,
		&foundationType, &foundationCondition, &parkingType,
		&deal.ARV, &deal.EstimatedRepairs, &deal.ContractPrice,
		&assignmentProfit, &buyerName, &buyerPhone, &buyerEmail,
		&purchaseKey, &jvKey, &assignmentKey,
		&deal.Status, &notes, &sentToTCAt, &sentJVAt, &sentDescAt,
		&deal.PhotosNeeded, &deal.LockboxNeeded, &deal.CreatedAt, &deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	deal.SellerName = nullString(sellerName)
	deal.SellerEmail = nullString(sellerEmail)
	deal.SellerPhone = nullString(sellerPhone)
	deal.PropertyType = nullString(propertyType)
	deal.Bedrooms = nullInt(bedrooms)
	deal.Bathrooms = nullInt(bathrooms)
	deal.HalfBaths = nullInt(halfBaths)
	deal.SquareFootage = nullInt(squareFootage)
	deal.LotSize = nullFloat(lotSize)
	deal.LotSizeUnit = nullString(lotSizeUnit)
	deal.YearBuilt = nullInt(yearBuilt)
	deal.ClosingDate = nullTime(closingDate)
	deal.InspectionExpiresAt = nullTime(inspectionExpiresAt)
	deal.PropertyCondition = nullString(propertyCondition)
	deal.Occupancy = nullString(occupancy)
	deal.RepairEstimateMin = nullString(repairEstimateMin)
	deal.RepairEstimateMax = nullString(repairEstimateMax)
	deal.RoofAge = nullString(roofAge)
	deal.ACType = nullString(acType)
	deal.HeatingType = nullString(heatingType)
	deal.HeatingAge = nullString(heatingAge)
	deal.FoundationType = nullString(foundationType)
	deal.FoundationCondition = nullString(foundationCondition)
	deal.ParkingType = nullString(parkingType)
	deal.AssignmentProfit = nullString(assignmentProfit)
	deal.BuyerName = nullString(buyerName)
	deal.BuyerPhone = nullString(buyerPhone)
	deal.BuyerEmail = nullString(buyerEmail)
	deal.PurchaseAgreementKey = nullString(purchaseKey)
	deal.JVAgreementKey = nullString(jvKey)
	deal.AssignmentAgreementKey = nullString(assignmentKey)
	deal.Notes = nullString(notes)
	deal.SentToTCAt = nullTime(sentToTCAt)
	deal.SentJVAgreementAt = nullTime(sentJVAt)
	deal.SentDealDescriptionAt = nullTime(sentDescAt)

	return &deal, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// CreateDeal inserts a new deal submission row
func (dao *DealDao) CreateDeal(ctx context.Context, deal *models.DealSubmission) (*models.DealSubmission, error) {
	err := dao.DB.QueryRowContext(ctx, `
		INSERT INTO deal.deal_submissions (
			name, email, phone,
			seller_name, seller_email, seller_phone,
			address, zip_code, property_type, bedrooms, bathrooms, half_baths,
			square_footage, lot_size, lot_size_unit, year_built,
			closing_date, inspection_expires_at,
			property_condition, occupancy, repair_estimate_min, repair_estimate_max,
			roof_age, ac_type, heating_type, heating_age,
			foundation_type, foundation_condition, parking_type,
			arv, estimated_repairs, contract_price,
			photos_needed, lockbox_needed, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32, $33, $34, $35)
		RETURNING id, status, created_at, updated_at
	`,
		deal.Name, deal.Email, deal.Phone,
		deal.SellerName, deal.SellerEmail, deal.SellerPhone,
		deal.Address, deal.ZipCode, deal.PropertyType, deal.Bedrooms, deal.Bathrooms, deal.HalfBaths,
		deal.SquareFootage, deal.LotSize, deal.LotSizeUnit, deal.YearBuilt,
		deal.ClosingDate, deal.InspectionExpiresAt,
		deal.PropertyCondition, deal.Occupancy, deal.RepairEstimateMin, deal.RepairEstimateMax,
		deal.RoofAge, deal.ACType, deal.HeatingType, deal.HeatingAge,
		deal.FoundationType, deal.FoundationCondition, deal.ParkingType,
		deal.ARV, deal.EstimatedRepairs, deal.ContractPrice,
		deal.PhotosNeeded, deal.LockboxNeeded, deal.Status,
	).Scan(&deal.ID, &deal.Status, &deal.CreatedAt, &deal.UpdatedAt)

	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"address": deal.Address,
			"email":   deal.Email,
			"error":   err.Error(),
		}).Error("Failed to create deal submission")
		return nil, fmt.Errorf("failed to create deal submission: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"deal_id": deal.ID,
		"address": deal.Address,
	}).Info("Successfully created deal submission")

	return deal, nil
}

// GetDeal retrieves a single deal by ID
func (dao *DealDao) GetDeal(ctx context.Context, dealID int64) (*models.DealSubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM deal.deal_submissions WHERE id = $1`, dealColumns)

	deal, err := scanDeal(dao.DB.QueryRowContext(ctx, query, dealID))
	if err == sql.ErrNoRows {
		dao.Logger.WithFields(logrus.Fields{
			"deal_id": dealID,
		}).Warn("Deal not found")
		return nil, fmt.Errorf("deal not found")
	}
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"deal_id": dealID,
			"error":   err.Error(),
		}).Error("Failed to get deal")
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	return deal, nil
}

// ListDeals retrieves deals newest first, optionally filtered by status
func (dao *DealDao) ListDeals(ctx context.Context, status string, page, pageSize int) (*models.DealListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 100 {
		pageSize = 100
	}

	where := ""
	countArgs := []interface{}{}
	listArgs := []interface{}{}
	if status != "" {
		where = "WHERE status = $1"
		countArgs = append(countArgs, status)
		listArgs = append(listArgs, status)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM deal.deal_submissions %s`, where)
	if err := dao.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"status": status,
			"error":  err.Error(),
		}).Error("Failed to count deals")
		return nil, fmt.Errorf("failed to count deals: %w", err)
	}

	limitIndex := len(listArgs) + 1
	listArgs = append(listArgs, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`
		SELECT %s FROM deal.deal_submissions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, dealColumns, where, limitIndex, limitIndex+1)

	rows, err := dao.DB.QueryContext(ctx, query, listArgs...)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"status": status,
			"error":  err.Error(),
		}).Error("Failed to query deals")
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer rows.Close()

	deals := []models.DealSubmission{}
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			dao.Logger.WithError(err).Error("Failed to scan deal row")
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, *deal)
	}
	if err = rows.Err(); err != nil {
		dao.Logger.WithError(err).Error("Error iterating deal rows")
		return nil, fmt.Errorf("error iterating deals: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"status": status,
		"count":  len(deals),
		"total":  total,
	}).Debug("Successfully retrieved deals")

	return &models.DealListResponse{
		Deals:      deals,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// UpdateStatus moves a deal to a new status. Any non-empty status string is
// accepted so the board can grow columns without a release. Assignment fields
// and the stamped note are written in the same statement as the status.
func (dao *DealDao) UpdateStatus(ctx context.Context, dealID int64, req *models.UpdateStatusRequest, now time.Time) (*models.DealSubmission, error) {
	builder, err := buildStatusUpdate(req, now)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"deal_id": dealID,
			"error":   err.Error(),
		}).Warn("Rejected status update")
		return nil, err
	}

	deal, err := dao.updateDeal(ctx, dealID, builder)
	if err != nil {
		return nil, err
	}

	dao.Logger.WithFields(logrus.Fields{
		"deal_id": dealID,
		"status":  deal.Status,
	}).Info("Successfully updated deal status")

	return deal, nil
}

// AppendNote stamps and appends a note to the deal's history
func (dao *DealDao) AppendNote(ctx context.Context, dealID int64, note string, now time.Time) (*models.DealSubmission, error) {
	if strings.TrimSpace(note) == "" {
		return nil, fmt.Errorf("note is required")
	}

	builder := &setBuilder{}
	builder.appendNote(util.StampNote(now, note))

	deal, err := dao.updateDeal(ctx, dealID, builder)
	if err != nil {
		return nil, err
	}

	dao.Logger.WithFields(logrus.Fields{
		"deal_id": dealID,
	}).Info("Successfully appended note to deal")

	return deal, nil
}

// UpdateContactSection edits the submitter contact block
func (dao *DealDao) UpdateContactSection(ctx context.Context, dealID int64, req *models.ContactSectionUpdate) (*models.DealSubmission, error) {
	return dao.updateSection(ctx, dealID, models.SectionContact, func(b *setBuilder) error {
		return applyContactUpdate(b, req)
	})
}

// UpdateSellerSection edits the seller contact block
func (dao *DealDao) UpdateSellerSection(ctx context.Context, dealID int64, req *models.SellerSectionUpdate) (*models.DealSubmission, error) {
	return dao.updateSection(ctx, dealID, models.SectionSeller, func(b *setBuilder) error {
		return applySellerUpdate(b, req)
	})
}

// UpdatePropertySection edits location and property specs
func (dao *DealDao) UpdatePropertySection(ctx context.Context, dealID int64, req *models.PropertySectionUpdate) (*models.DealSubmission, error) {
	return dao.updateSection(ctx, dealID, models.SectionProperty, func(b *setBuilder) error {
		return applyPropertyUpdate(b, req)
	})
}

// UpdateFinancialsSection edits financials and timeline
func (dao *DealDao) UpdateFinancialsSection(ctx context.Context, dealID int64, req *models.FinancialsSectionUpdate) (*models.DealSubmission, error) {
	return dao.updateSection(ctx, dealID, models.SectionFinancials, func(b *setBuilder) error {
		return applyFinancialsUpdate(b, req)
	})
}

// UpdateRepairsSection edits condition and systems details
func (dao *DealDao) UpdateRepairsSection(ctx context.Context, dealID int64, req *models.RepairsSectionUpdate) (*models.DealSubmission, error) {
	return dao.updateSection(ctx, dealID, models.SectionRepairs, func(b *setBuilder) error {
		return applyRepairsUpdate(b, req)
	})
}

// UpdateAdditionalSection edits buyer contact and the intake flags
func (dao *DealDao) UpdateAdditionalSection(ctx context.Context, dealID int64, req *models.AdditionalSectionUpdate) (*models.DealSubmission, error) {
	return dao.updateSection(ctx, dealID, models.SectionAdditional, func(b *setBuilder) error {
		return applyAdditionalUpdate(b, req)
	})
}

// UpdateDocuments attaches or clears document object keys
func (dao *DealDao) UpdateDocuments(ctx context.Context, dealID int64, req *models.DocumentsUpdate) (*models.DealSubmission, error) {
	return dao.updateSection(ctx, dealID, "documents", func(b *setBuilder) error {
		return applyDocumentsUpdate(b, req)
	})
}

// MarkSentToTC records the transaction coordinator handoff timestamp
func (dao *DealDao) MarkSentToTC(ctx context.Context, dealID int64, at time.Time) (*models.DealSubmission, error) {
	builder := &setBuilder{}
	builder.set("sent_to_tc_at", at.UTC())
	return dao.updateDeal(ctx, dealID, builder)
}

// MarkJVAgreementSent records the JV agreement push timestamp
func (dao *DealDao) MarkJVAgreementSent(ctx context.Context, dealID int64, at time.Time) (*models.DealSubmission, error) {
	builder := &setBuilder{}
	builder.set("sent_jv_agreement_at", at.UTC())
	return dao.updateDeal(ctx, dealID, builder)
}

// MarkDealDescriptionSent records the deal description push timestamp
func (dao *DealDao) MarkDealDescriptionSent(ctx context.Context, dealID int64, at time.Time) (*models.DealSubmission, error) {
	builder := &setBuilder{}
	builder.set("sent_deal_description_at", at.UTC())
	return dao.updateDeal(ctx, dealID, builder)
}

func (dao *DealDao) updateSection(ctx context.Context, dealID int64, section string, apply func(*setBuilder) error) (*models.DealSubmission, error) {
	builder := &setBuilder{}
	if err := apply(builder); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"deal_id": dealID,
			"section": section,
			"error":   err.Error(),
		}).Warn("Rejected section update")
		return nil, err
	}
	if builder.empty() {
		// Nothing to change; return the current row so the caller still gets
		// a full record back.
		return dao.GetDeal(ctx, dealID)
	}

	deal, err := dao.updateDeal(ctx, dealID, builder)
	if err != nil {
		return nil, err
	}

	dao.Logger.WithFields(logrus.Fields{
		"deal_id": dealID,
		"section": section,
	}).Info("Successfully updated deal section")

	return deal, nil
}

// updateDeal renders the accumulated SET clauses into a single UPDATE and
// returns the full updated row.
func (dao *DealDao) updateDeal(ctx context.Context, dealID int64, builder *setBuilder) (*models.DealSubmission, error) {
	setClause, args, nextIndex := builder.clause(1)
	args = append(args, dealID)

	query := fmt.Sprintf(`
		UPDATE deal.deal_submissions
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, setClause, nextIndex, dealColumns)

	deal, err := scanDeal(dao.DB.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		dao.Logger.WithFields(logrus.Fields{
			"deal_id": dealID,
		}).Warn("Deal not found for update")
		return nil, fmt.Errorf("deal not found")
	}
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"deal_id": dealID,
			"error":   err.Error(),
		}).Error("Failed to update deal")
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	return deal, nil
}
