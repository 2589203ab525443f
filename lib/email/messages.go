package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"dealflow/lib/models"
)

// dealView flattens a submission into template-friendly strings. Nil columns
// render as a dash so the emails stay readable.
type dealView struct {
	ID               int64
	Name             string
	Email            string
	Phone            string
	SellerName       string
	SellerEmail      string
	SellerPhone      string
	Address          string
	ZipCode          string
	PropertyType     string
	Bedrooms         string
	Bathrooms        string
	SquareFootage    string
	YearBuilt        string
	ARV              string
	EstimatedRepairs string
	ContractPrice    string
	AssignmentProfit string
	ClosingDate      string
	BuyerName        string
	BuyerPhone       string
	BuyerEmail       string
	Status           string
	SubmittedAt      string
}

func orDash(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "-"
	}
	return *v
}

func orDashInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func orDashDate(v *time.Time) string {
	if v == nil {
		return "-"
	}
	return v.UTC().Format("2006-01-02")
}

func newDealView(deal *models.DealSubmission) dealView {
	return dealView{
		ID:               deal.ID,
		Name:             deal.Name,
		Email:            deal.Email,
		Phone:            deal.Phone,
		SellerName:       orDash(deal.SellerName),
		SellerEmail:      orDash(deal.SellerEmail),
		SellerPhone:      orDash(deal.SellerPhone),
		Address:          deal.Address,
		ZipCode:          deal.ZipCode,
		PropertyType:     orDash(deal.PropertyType),
		Bedrooms:         orDashInt(deal.Bedrooms),
		Bathrooms:        orDashInt(deal.Bathrooms),
		SquareFootage:    orDashInt(deal.SquareFootage),
		YearBuilt:        orDashInt(deal.YearBuilt),
		ARV:              deal.ARV,
		EstimatedRepairs: deal.EstimatedRepairs,
		ContractPrice:    deal.ContractPrice,
		AssignmentProfit: orDash(deal.AssignmentProfit),
		ClosingDate:      orDashDate(deal.ClosingDate),
		BuyerName:        orDash(deal.BuyerName),
		BuyerPhone:       orDash(deal.BuyerPhone),
		BuyerEmail:       orDash(deal.BuyerEmail),
		Status:           deal.Status,
		SubmittedAt:      deal.CreatedAt.UTC().Format(time.RFC3339),
	}
}

var staffNotificationText = texttemplate.Must(texttemplate.New("staff").Parse(
	`A new deal was submitted.

Property: {{.Address}}, {{.ZipCode}}
Submitted by: {{.Name}} ({{.Email}}, {{.Phone}})

ARV: {{.ARV}}
Estimated repairs: {{.EstimatedRepairs}}
Contract price: {{.ContractPrice}}
Closing date: {{.ClosingDate}}

Deal ID: {{.ID}}
Submitted at: {{.SubmittedAt}}
`))

var staffNotificationHTML = htmltemplate.Must(htmltemplate.New("staff").Parse(
	`<h2>New deal submitted</h2>
<p><strong>{{.Address}}, {{.ZipCode}}</strong></p>
<p>Submitted by {{.Name}} ({{.Email}}, {{.Phone}})</p>
<table>
<tr><td>ARV</td><td>{{.ARV}}</td></tr>
<tr><td>Estimated repairs</td><td>{{.EstimatedRepairs}}</td></tr>
<tr><td>Contract price</td><td>{{.ContractPrice}}</td></tr>
<tr><td>Closing date</td><td>{{.ClosingDate}}</td></tr>
<tr><td>Property type</td><td>{{.PropertyType}}</td></tr>
<tr><td>Beds / baths</td><td>{{.Bedrooms}} / {{.Bathrooms}}</td></tr>
</table>
<p>Deal ID {{.ID}}, submitted {{.SubmittedAt}}</p>
`))

var submitterConfirmationText = texttemplate.Must(texttemplate.New("confirm").Parse(
	`Hi {{.Name}},

We received your deal submission for {{.Address}}, {{.ZipCode}}.

Our team will review it and reach out shortly. You do not need to do
anything else right now.

Thank you!
`))

var submitterConfirmationHTML = htmltemplate.Must(htmltemplate.New("confirm").Parse(
	`<p>Hi {{.Name}},</p>
<p>We received your deal submission for <strong>{{.Address}}, {{.ZipCode}}</strong>.</p>
<p>Our team will review it and reach out shortly. You do not need to do anything else right now.</p>
<p>Thank you!</p>
`))

var tcHandoffText = texttemplate.Must(texttemplate.New("tc").Parse(
	`Deal {{.ID}} is ready for transaction coordination.

Property: {{.Address}}, {{.ZipCode}}
Status: {{.Status}}

Submitter: {{.Name}} ({{.Email}}, {{.Phone}})
Seller: {{.SellerName}} ({{.SellerEmail}}, {{.SellerPhone}})
Buyer: {{.BuyerName}} ({{.BuyerEmail}}, {{.BuyerPhone}})

Contract price: {{.ContractPrice}}
Assignment profit: {{.AssignmentProfit}}
Closing date: {{.ClosingDate}}
`))

var tcHandoffHTML = htmltemplate.Must(htmltemplate.New("tc").Parse(
	`<h2>Deal {{.ID}} ready for transaction coordination</h2>
<p><strong>{{.Address}}, {{.ZipCode}}</strong> ({{.Status}})</p>
<table>
<tr><td>Submitter</td><td>{{.Name}} ({{.Email}}, {{.Phone}})</td></tr>
<tr><td>Seller</td><td>{{.SellerName}} ({{.SellerEmail}}, {{.SellerPhone}})</td></tr>
<tr><td>Buyer</td><td>{{.BuyerName}} ({{.BuyerEmail}}, {{.BuyerPhone}})</td></tr>
<tr><td>Contract price</td><td>{{.ContractPrice}}</td></tr>
<tr><td>Assignment profit</td><td>{{.AssignmentProfit}}</td></tr>
<tr><td>Closing date</td><td>{{.ClosingDate}}</td></tr>
</table>
`))

func render(deal *models.DealSubmission, subject string, to []string, text *texttemplate.Template, html *htmltemplate.Template) (*Message, error) {
	view := newDealView(deal)

	var textBuf bytes.Buffer
	if err := text.Execute(&textBuf, view); err != nil {
		return nil, fmt.Errorf("failed to render email body: %w", err)
	}
	var htmlBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, view); err != nil {
		return nil, fmt.Errorf("failed to render email body: %w", err)
	}

	return &Message{
		To:      to,
		Subject: subject,
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}

// RenderStaffNotification builds the internal alert sent when a new deal
// arrives.
func RenderStaffNotification(deal *models.DealSubmission, staffEmail string) (*Message, error) {
	subject := fmt.Sprintf("New deal submitted: %s, %s", deal.Address, deal.ZipCode)
	return render(deal, subject, []string{staffEmail}, staffNotificationText, staffNotificationHTML)
}

// RenderSubmitterConfirmation builds the receipt sent back to the submitter.
func RenderSubmitterConfirmation(deal *models.DealSubmission) (*Message, error) {
	subject := fmt.Sprintf("We received your deal submission for %s", deal.Address)
	return render(deal, subject, []string{deal.Email}, submitterConfirmationText, submitterConfirmationHTML)
}

// RenderTCHandoff builds the transaction coordinator handoff email.
func RenderTCHandoff(deal *models.DealSubmission, tcEmail string) (*Message, error) {
	subject := fmt.Sprintf("Deal %d ready for TC: %s, %s", deal.ID, deal.Address, deal.ZipCode)
	return render(deal, subject, []string{tcEmail}, tcHandoffText, tcHandoffHTML)
}
