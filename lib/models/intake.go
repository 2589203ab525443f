package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dealflow/lib/util"
)

// UnknownSentinel is the literal a submitter sends for a field they were
// prompted for but could not answer. The form forces every optional field to
// be acknowledged: a concrete value, or "Unknown". An omitted field is a
// validation error, and "Unknown" is stored as NULL, never as the literal.
const UnknownSentinel = "Unknown"

// OptionalText is an intake field that is either a text value, the Unknown
// sentinel, or missing (which validation rejects).
type OptionalText struct {
	Present bool
	Unknown bool
	Value   string
}

func (o *OptionalText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Present = true
	if strings.TrimSpace(s) == UnknownSentinel {
		o.Unknown = true
		return nil
	}
	o.Value = s
	return nil
}

// Ptr collapses the field for storage: nil when Unknown, the value otherwise.
func (o OptionalText) Ptr() *string {
	if !o.Present || o.Unknown {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalInt accepts a JSON number, a numeric string, or the Unknown
// sentinel. Forms are not consistent about sending counts as numbers.
type OptionalInt struct {
	Present bool
	Unknown bool
	Value   int64
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.Present = true
		if strings.TrimSpace(s) == UnknownSentinel {
			o.Unknown = true
			return nil
		}
		n, convErr := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if convErr != nil {
			return fmt.Errorf("expected a whole number or %q, got %q", UnknownSentinel, s)
		}
		o.Value = n
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a whole number or %q", UnknownSentinel)
	}
	o.Present = true
	o.Value = n
	return nil
}

func (o OptionalInt) Ptr() *int64 {
	if !o.Present || o.Unknown {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalFloat is OptionalInt for fractional values (lot size).
type OptionalFloat struct {
	Present bool
	Unknown bool
	Value   float64
}

func (o *OptionalFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.Present = true
		if strings.TrimSpace(s) == UnknownSentinel {
			o.Unknown = true
			return nil
		}
		f, convErr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if convErr != nil {
			return fmt.Errorf("expected a number or %q, got %q", UnknownSentinel, s)
		}
		o.Value = f
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("expected a number or %q", UnknownSentinel)
	}
	o.Present = true
	o.Value = f
	return nil
}

func (o OptionalFloat) Ptr() *float64 {
	if !o.Present || o.Unknown {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalDate accepts a YYYY-MM-DD string or the Unknown sentinel.
type OptionalDate struct {
	Present bool
	Unknown bool
	Value   time.Time
}

func (o *OptionalDate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected a YYYY-MM-DD date or %q", UnknownSentinel)
	}
	o.Present = true
	if strings.TrimSpace(s) == UnknownSentinel {
		o.Unknown = true
		return nil
	}
	parsed, err := util.ParseDateUTC(s)
	if err != nil {
		return err
	}
	o.Value = parsed
	return nil
}

func (o OptionalDate) Ptr() *time.Time {
	if !o.Present || o.Unknown {
		return nil
	}
	v := o.Value
	return &v
}

// IntakeRequest is the full multi-step submission payload.
//
// Required fields (no Unknown escape): submitter contact, address, zip,
// and the three financials. Everything else must still be present, either
// as a value or as the Unknown sentinel.
type IntakeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	SellerName  OptionalText `json:"seller_name"`
	SellerEmail OptionalText `json:"seller_email"`
	SellerPhone OptionalText `json:"seller_phone"`

	Address       string        `json:"address"`
	ZipCode       string        `json:"zip_code"`
	PropertyType  OptionalText  `json:"property_type"`
	Bedrooms      OptionalInt   `json:"bedrooms"`
	Bathrooms     OptionalInt   `json:"bathrooms"`
	HalfBaths     OptionalInt   `json:"half_baths"`
	SquareFootage OptionalInt   `json:"square_footage"`
	LotSize       OptionalFloat `json:"lot_size"`
	LotSizeUnit   OptionalText  `json:"lot_size_unit"`
	YearBuilt     OptionalInt   `json:"year_built"`

	ClosingDate         OptionalDate `json:"closing_date"`
	InspectionExpiresAt OptionalDate `json:"inspection_expires_at"`

	PropertyCondition   OptionalText `json:"property_condition"`
	Occupancy           OptionalText `json:"occupancy"`
	RepairEstimateMin   OptionalText `json:"repair_estimate_min"`
	RepairEstimateMax   OptionalText `json:"repair_estimate_max"`
	RoofAge             OptionalText `json:"roof_age"`
	ACType              OptionalText `json:"ac_type"`
	HeatingType         OptionalText `json:"heating_type"`
	HeatingAge          OptionalText `json:"heating_age"`
	FoundationType      OptionalText `json:"foundation_type"`
	FoundationCondition OptionalText `json:"foundation_condition"`
	ParkingType         OptionalText `json:"parking_type"`

	ARV              string `json:"arv"`
	EstimatedRepairs string `json:"estimated_repairs"`
	ContractPrice    string `json:"contract_price"`

	PurchaseAgreementKey *string `json:"purchase_agreement_key,omitempty"`
	PhotosNeeded         bool    `json:"photos_needed"`
	LockboxNeeded        bool    `json:"lockbox_needed"`
}

// NumericStringPattern validates the free-text money fields. Values are kept
// as submitted ("150,000"), they are never parsed into a numeric type.
var NumericStringPattern = regexp.MustCompile(`^[0-9][0-9,.]*$`)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate returns field-scoped problems, one "field: problem" string each,
// suitable for inline display next to the offending form control.
func (r *IntakeRequest) Validate() []string {
	var errs []string

	requireText := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, field+": required")
		}
	}
	requireNumeric := func(field, value string) {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			errs = append(errs, field+": required")
			return
		}
		if !NumericStringPattern.MatchString(trimmed) {
			errs = append(errs, field+": must be a number")
		}
	}
	requirePresent := func(field string, present bool) {
		if !present {
			errs = append(errs, field+": answer or mark Unknown")
		}
	}

	requireText("name", r.Name)
	requireText("email", r.Email)
	if strings.TrimSpace(r.Email) != "" && !emailPattern.MatchString(strings.TrimSpace(r.Email)) {
		errs = append(errs, "email: invalid email address")
	}
	requireText("phone", r.Phone)
	if strings.TrimSpace(r.Phone) != "" && len(util.DigitsOnly(r.Phone)) < 7 {
		errs = append(errs, "phone: invalid phone number")
	}

	requireText("address", r.Address)
	requireText("zip_code", r.ZipCode)

	requireNumeric("arv", r.ARV)
	requireNumeric("estimated_repairs", r.EstimatedRepairs)
	requireNumeric("contract_price", r.ContractPrice)

	requirePresent("seller_name", r.SellerName.Present)
	requirePresent("seller_email", r.SellerEmail.Present)
	requirePresent("seller_phone", r.SellerPhone.Present)
	requirePresent("property_type", r.PropertyType.Present)
	requirePresent("bedrooms", r.Bedrooms.Present)
	requirePresent("bathrooms", r.Bathrooms.Present)
	requirePresent("half_baths", r.HalfBaths.Present)
	requirePresent("square_footage", r.SquareFootage.Present)
	requirePresent("lot_size", r.LotSize.Present)
	requirePresent("lot_size_unit", r.LotSizeUnit.Present)
	requirePresent("year_built", r.YearBuilt.Present)
	requirePresent("closing_date", r.ClosingDate.Present)
	requirePresent("inspection_expires_at", r.InspectionExpiresAt.Present)
	requirePresent("property_condition", r.PropertyCondition.Present)
	requirePresent("occupancy", r.Occupancy.Present)
	requirePresent("repair_estimate_min", r.RepairEstimateMin.Present)
	requirePresent("repair_estimate_max", r.RepairEstimateMax.Present)
	requirePresent("roof_age", r.RoofAge.Present)
	requirePresent("ac_type", r.ACType.Present)
	requirePresent("heating_type", r.HeatingType.Present)
	requirePresent("heating_age", r.HeatingAge.Present)
	requirePresent("foundation_type", r.FoundationType.Present)
	requirePresent("foundation_condition", r.FoundationCondition.Present)
	requirePresent("parking_type", r.ParkingType.Present)

	for field, opt := range map[string]OptionalText{
		"repair_estimate_min": r.RepairEstimateMin,
		"repair_estimate_max": r.RepairEstimateMax,
	} {
		if opt.Present && !opt.Unknown && !NumericStringPattern.MatchString(strings.TrimSpace(opt.Value)) {
			errs = append(errs, field+": must be a number")
		}
	}

	return errs
}

// ToRecord collapses the intake payload into a fresh deal record with status
// "new". Unknown sentinels become nil, phones are normalized to digits.
func (r *IntakeRequest) ToRecord() *DealSubmission {
	deal := &DealSubmission{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Phone:   util.DigitsOnly(r.Phone),
		Address: strings.TrimSpace(r.Address),
		ZipCode: strings.TrimSpace(r.ZipCode),

		SellerName:  r.SellerName.Ptr(),
		SellerEmail: r.SellerEmail.Ptr(),
		SellerPhone: digitsPtr(r.SellerPhone.Ptr()),

		PropertyType:  r.PropertyType.Ptr(),
		Bedrooms:      r.Bedrooms.Ptr(),
		Bathrooms:     r.Bathrooms.Ptr(),
		HalfBaths:     r.HalfBaths.Ptr(),
		SquareFootage: r.SquareFootage.Ptr(),
		LotSize:       r.LotSize.Ptr(),
		LotSizeUnit:   r.LotSizeUnit.Ptr(),
		YearBuilt:     r.YearBuilt.Ptr(),

		ClosingDate:         r.ClosingDate.Ptr(),
		InspectionExpiresAt: r.InspectionExpiresAt.Ptr(),

		PropertyCondition:   r.PropertyCondition.Ptr(),
		Occupancy:           r.Occupancy.Ptr(),
		RepairEstimateMin:   r.RepairEstimateMin.Ptr(),
		RepairEstimateMax:   r.RepairEstimateMax.Ptr(),
		RoofAge:             r.RoofAge.Ptr(),
		ACType:              r.ACType.Ptr(),
		HeatingType:         r.HeatingType.Ptr(),
		HeatingAge:          r.HeatingAge.Ptr(),
		FoundationType:      r.FoundationType.Ptr(),
		FoundationCondition: r.FoundationCondition.Ptr(),
		ParkingType:         r.ParkingType.Ptr(),

		ARV:              strings.TrimSpace(r.ARV),
		EstimatedRepairs: strings.TrimSpace(r.EstimatedRepairs),
		ContractPrice:    strings.TrimSpace(r.ContractPrice),

		PurchaseAgreementKey: r.PurchaseAgreementKey,
		PhotosNeeded:         r.PhotosNeeded,
		LockboxNeeded:        r.LockboxNeeded,

		Status: StatusNew,
	}
	return deal
}

func digitsPtr(s *string) *string {
	if s == nil {
		return nil
	}
	d := util.DigitsOnly(*s)
	return &d
}
