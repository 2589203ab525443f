package models

import (
	"time"
)

// DealSubmission is the single persisted entity: one row per submitted deal.
// Rows are created once by intake, mutated by the section and status
// operations, and never deleted.
type DealSubmission struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Submitter contact
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"` // digits only

	// Seller contact
	SellerName  *string `json:"seller_name,omitempty"`
	SellerEmail *string `json:"seller_email,omitempty"`
	SellerPhone *string `json:"seller_phone,omitempty"` // digits only

	// Property location / specs
	Address       string   `json:"address"`
	ZipCode       string   `json:"zip_code"`
	PropertyType  *string  `json:"property_type,omitempty"`
	Bedrooms      *int64   `json:"bedrooms,omitempty"`
	Bathrooms     *int64   `json:"bathrooms,omitempty"`
	HalfBaths     *int64   `json:"half_baths,omitempty"`
	SquareFootage *int64   `json:"square_footage,omitempty"`
	LotSize       *float64 `json:"lot_size,omitempty"`
	LotSizeUnit   *string  `json:"lot_size_unit,omitempty"`
	YearBuilt     *int64   `json:"year_built,omitempty"`

	// Timeline (UTC midnight dates)
	ClosingDate         *time.Time `json:"closing_date,omitempty"`
	InspectionExpiresAt *time.Time `json:"inspection_expires_at,omitempty"`

	// Condition / systems
	PropertyCondition   *string `json:"property_condition,omitempty"`
	Occupancy           *string `json:"occupancy,omitempty"`
	RepairEstimateMin   *string `json:"repair_estimate_min,omitempty"`
	RepairEstimateMax   *string `json:"repair_estimate_max,omitempty"`
	RoofAge             *string `json:"roof_age,omitempty"`
	ACType              *string `json:"ac_type,omitempty"`
	HeatingType         *string `json:"heating_type,omitempty"`
	HeatingAge          *string `json:"heating_age,omitempty"`
	FoundationType      *string `json:"foundation_type,omitempty"`
	FoundationCondition *string `json:"foundation_condition,omitempty"`
	ParkingType         *string `json:"parking_type,omitempty"`

	// Financials: numeric strings kept verbatim as submitted ("150,000")
	ARV              string `json:"arv"`
	EstimatedRepairs string `json:"estimated_repairs"`
	ContractPrice    string `json:"contract_price"`

	// Assignment / buyer info
	AssignmentProfit *string `json:"assignment_profit,omitempty"`
	BuyerName        *string `json:"buyer_name,omitempty"`
	BuyerPhone       *string `json:"buyer_phone,omitempty"`
	BuyerEmail       *string `json:"buyer_email,omitempty"`

	// Document object keys
	PurchaseAgreementKey   *string `json:"purchase_agreement_key,omitempty"`
	JVAgreementKey         *string `json:"jv_agreement_key,omitempty"`
	AssignmentAgreementKey *string `json:"assignment_agreement_key,omitempty"`

	// Workflow
	Status                string     `json:"status"`
	Notes                 *string    `json:"notes,omitempty"`
	SentToTCAt            *time.Time `json:"sent_to_tc_at,omitempty"`
	SentJVAgreementAt     *time.Time `json:"sent_jv_agreement_at,omitempty"`
	SentDealDescriptionAt *time.Time `json:"sent_deal_description_at,omitempty"`

	// Flags
	PhotosNeeded  bool `json:"photos_needed"`
	LockboxNeeded bool `json:"lockbox_needed"`
}

// Pipeline statuses. These are the conventional board columns; the update
// path accepts any non-empty string, so the set is advisory, not enforced.
const (
	StatusNew           = "new"
	StatusUnderReview   = "under_review"
	StatusPosted        = "posted"
	StatusOfferAccepted = "offer_accepted"
	StatusClosed        = "closed"
	StatusDead          = "dead"
)

// KnownStatuses lists the conventional pipeline stages in board order.
var KnownStatuses = []string{
	StatusNew,
	StatusUnderReview,
	StatusPosted,
	StatusOfferAccepted,
	StatusClosed,
	StatusDead,
}

// Section names for the per-section PATCH operations.
const (
	SectionContact    = "contact"
	SectionSeller     = "seller"
	SectionProperty   = "property"
	SectionFinancials = "financials"
	SectionRepairs    = "repairs"
	SectionAdditional = "additional"
)

// UpdateStatusRequest moves a deal to a new pipeline status. Assignment
// fields ride along on the offer_accepted transition and land in the same
// write as the status. The optional note is stamped and appended to the
// deal's note history inside that write too.
type UpdateStatusRequest struct {
	Status           string  `json:"status"`
	Note             *string `json:"note,omitempty"`
	AssignmentProfit *string `json:"assignment_profit,omitempty"`
	BuyerName        *string `json:"buyer_name,omitempty"`
	BuyerPhone       *string `json:"buyer_phone,omitempty"`
	BuyerEmail       *string `json:"buyer_email,omitempty"`
	ClosingDate      *string `json:"closing_date,omitempty"` // YYYY-MM-DD
}

// ContactSectionUpdate edits the submitter contact block. These columns are
// NOT NULL, so an explicit null is rejected; absent fields stay untouched.
type ContactSectionUpdate struct {
	Name  NullableString `json:"name"`
	Email NullableString `json:"email"`
	Phone NullableString `json:"phone"`
}

// SellerSectionUpdate edits the seller contact block.
type SellerSectionUpdate struct {
	SellerName  NullableString `json:"seller_name"`
	SellerEmail NullableString `json:"seller_email"`
	SellerPhone NullableString `json:"seller_phone"`
}

// PropertySectionUpdate edits location and property specs.
type PropertySectionUpdate struct {
	Address       NullableString `json:"address"`
	ZipCode       NullableString `json:"zip_code"`
	PropertyType  NullableString `json:"property_type"`
	Bedrooms      NullableInt    `json:"bedrooms"`
	Bathrooms     NullableInt    `json:"bathrooms"`
	HalfBaths     NullableInt    `json:"half_baths"`
	SquareFootage NullableInt    `json:"square_footage"`
	LotSize       NullableFloat  `json:"lot_size"`
	LotSizeUnit   NullableString `json:"lot_size_unit"`
	YearBuilt     NullableInt    `json:"year_built"`
}

// FinancialsSectionUpdate edits deal financials and timeline.
type FinancialsSectionUpdate struct {
	ARV                 NullableString `json:"arv"`
	EstimatedRepairs    NullableString `json:"estimated_repairs"`
	ContractPrice       NullableString `json:"contract_price"`
	AssignmentProfit    NullableString `json:"assignment_profit"`
	ClosingDate         NullableDate   `json:"closing_date"`
	InspectionExpiresAt NullableDate   `json:"inspection_expires_at"`
}

// RepairsSectionUpdate edits condition and systems details.
type RepairsSectionUpdate struct {
	PropertyCondition   NullableString `json:"property_condition"`
	Occupancy           NullableString `json:"occupancy"`
	RepairEstimateMin   NullableString `json:"repair_estimate_min"`
	RepairEstimateMax   NullableString `json:"repair_estimate_max"`
	RoofAge             NullableString `json:"roof_age"`
	ACType              NullableString `json:"ac_type"`
	HeatingType         NullableString `json:"heating_type"`
	HeatingAge          NullableString `json:"heating_age"`
	FoundationType      NullableString `json:"foundation_type"`
	FoundationCondition NullableString `json:"foundation_condition"`
	ParkingType         NullableString `json:"parking_type"`
}

// AdditionalSectionUpdate edits buyer contact and the intake flags.
type AdditionalSectionUpdate struct {
	BuyerName     NullableString `json:"buyer_name"`
	BuyerPhone    NullableString `json:"buyer_phone"`
	BuyerEmail    NullableString `json:"buyer_email"`
	PhotosNeeded  NullableBool   `json:"photos_needed"`
	LockboxNeeded NullableBool   `json:"lockbox_needed"`
}

// DocumentsUpdate attaches or clears document object keys.
type DocumentsUpdate struct {
	PurchaseAgreementKey   NullableString `json:"purchase_agreement_key"`
	JVAgreementKey         NullableString `json:"jv_agreement_key"`
	AssignmentAgreementKey NullableString `json:"assignment_agreement_key"`
}

// DealListResponse is a paged list of deals.
type DealListResponse struct {
	Deals      []DealSubmission `json:"deals"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// DealDocumentLinks carries resolved download URLs alongside a deal record.
type DealDocumentLinks struct {
	PurchaseAgreementURL   string `json:"purchase_agreement_url,omitempty"`
	JVAgreementURL         string `json:"jv_agreement_url,omitempty"`
	AssignmentAgreementURL string `json:"assignment_agreement_url,omitempty"`
}

// DealResponse is the single-deal payload returned to the board/detail views.
type DealResponse struct {
	DealSubmission
	Documents DealDocumentLinks `json:"documents"`
}

// UploadURLRequest asks for a presigned PUT for one document.
type UploadURLRequest struct {
	FileName string `json:"file_name"`
}

// UploadURLResponse carries the presigned PUT URL and the object key the
// caller should reference from the deal record.
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ExpiresAt string `json:"expires_at"`
}

// DownloadURLResponse carries a presigned GET URL for a stored document.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}

// Document types addressable in download-url requests.
const (
	DocumentPurchaseAgreement   = "purchase-agreement"
	DocumentJVAgreement         = "jv-agreement"
	DocumentAssignmentAgreement = "assignment-agreement"
)

// LoginRequest is the shared-admin password check.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the signed bearer token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// AddressSuggestion is one ranked autocomplete hit.
type AddressSuggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// PlaceDetails is a resolved street address.
type PlaceDetails struct {
	Address string `json:"address"`
	ZipCode string `json:"zip_code"`
}
