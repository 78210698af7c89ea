package invoice

import (
	"reflect"

	"github.com/flexprice/invoicer/internal/types"
)

const (
	// LineTypeSubscription marks a line billed from a subscription plan
	LineTypeSubscription = "subscription"
)

// Invoice is the working record of one generated document. It is decoded from
// the merged field layers and mutated in place by every pipeline stage.
//
// Money fields hold provider minor units until the financial derivation runs
// and two-fraction-digit display strings afterwards.
type Invoice struct {
	ID      string `json:"id"`
	Number  string `json:"number"`
	Date    int64  `json:"date"`
	Created int64  `json:"created"`

	DueDays          types.Scalar `json:"due_days"`
	Language         string       `json:"language"`
	DateFormat       string       `json:"date_format"`
	DateFormatted    string       `json:"date_formated"`
	DueDateFormatted string       `json:"due_date_formated"`

	Total      types.Scalar `json:"total"`
	Tax        types.Scalar `json:"tax"`
	TaxPercent types.Scalar `json:"tax_percent"`
	Subtotal   types.Scalar `json:"subtotal"`
	Fee        types.Scalar `json:"fee"`
	TaxInTotal types.Scalar `json:"tax_in_total"`

	CurrencySymbol         string `json:"currency_symbol"`
	CurrencyPositionBefore *bool  `json:"currency_position_before"`

	Labels `json:",squash"`

	CompanyName       string  `json:"company_name"`
	ProviderName      string  `json:"provider_name"`
	ClientCompanyName string  `json:"client_company_name"`
	CompanyLogo       string  `json:"company_logo"`
	LogoHeight        float64 `json:"logo_height"`
	PDFName           string  `json:"pdf_name"`

	Lines Lines `json:"lines"`

	// Charge is the provider charge once it has been retrieved
	Charge      types.Fields `json:"charge"`
	Transaction *Transaction `json:"transaction"`

	// Extra keeps every other field of the merged layers for the template
	Extra map[string]any `json:",remain"`
}

// Labels are the captions printed on the document
type Labels struct {
	LabelInvoice          string `json:"label_invoice"`
	LabelInvoiceTo        string `json:"label_invoice_to"`
	LabelInvoiceBy        string `json:"label_invoice_by"`
	LabelDueOn            string `json:"label_due_on"`
	LabelInvoiceFor       string `json:"label_invoice_for"`
	LabelDescription      string `json:"label_description"`
	LabelUnit             string `json:"label_unit"`
	LabelPrice            string `json:"label_price"`
	LabelAmount           string `json:"label_amount"`
	LabelSubtotal         string `json:"label_subtotal"`
	LabelTotal            string `json:"label_total"`
	LabelVat              string `json:"label_vat"`
	LabelFee              string `json:"label_fee"`
	LabelInvoiceDate      string `json:"label_invoice_date"`
	LabelCompanySiret     string `json:"label_company_siret"`
	LabelCompanyVatNumber string `json:"label_company_vat_number"`
	LabelInvoiceNumber    string `json:"label_invoice_number"`
	LabelReferenceNumber  string `json:"label_reference_number"`
	LabelInvoiceDueDate   string `json:"label_invoice_due_date"`
	LabelTaxInTotal       string `json:"label_tax_in_total"`
}

type Lines struct {
	Data []*Line `json:"data"`
}

// Line is one billable entry of the invoice
type Line struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Amount      types.Scalar `json:"amount"`
	Price       types.Scalar `json:"price"`
	Quantity    int64        `json:"quantity"`
	Description string       `json:"description"`
	Plan        *Plan        `json:"plan"`
	Period      *Period      `json:"period"`

	Extra map[string]any `json:",remain"`
}

func (l *Line) IsSubscription() bool {
	return l.Type == LineTypeSubscription
}

type Plan struct {
	ID     string       `json:"id"`
	Amount types.Scalar `json:"amount"`
	Name   string       `json:"name"`
}

// Period bounds hold epoch seconds until the line is shaped, formatted dates after
type Period struct {
	Start types.Scalar `json:"start"`
	End   types.Scalar `json:"end"`
}

// Transaction is the ledger entry settling the charge
type Transaction struct {
	ID     string       `json:"id"`
	Amount types.Scalar `json:"amount"`
	Net    types.Scalar `json:"net"`
	Fee    types.Scalar `json:"fee"`

	Extra map[string]any `json:",remain"`
}

// IssuedAt returns the invoice date, falling back to the creation time
// reported by newer provider API versions.
func (inv *Invoice) IssuedAt() int64 {
	if inv.Date != 0 {
		return inv.Date
	}
	return inv.Created
}

// TransactionFee returns the settlement fee, absent when nothing was charged
func (inv *Invoice) TransactionFee() types.Scalar {
	if inv.Transaction == nil {
		return ""
	}
	return inv.Transaction.Fee
}

// Money renders a display amount with the currency symbol on the configured side
func (inv *Invoice) Money(amount types.Scalar) string {
	if inv.CurrencyPositionBefore == nil || *inv.CurrencyPositionBefore {
		return inv.CurrencySymbol + amount.String()
	}
	return amount.String() + " " + inv.CurrencySymbol
}

// FromFields decodes merged layers into an invoice record
func FromFields(fields types.Fields) (*Invoice, error) {
	inv, err := types.ToStruct[Invoice](fields, referenceHook)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

var fieldsType = reflect.TypeOf(types.Fields{})

// referenceHook turns an unexpanded provider reference ("ch_123") into a
// record carrying only its id.
func referenceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != fieldsType || from.Kind() != reflect.String {
		return data, nil
	}
	id, _ := data.(string)
	if id == "" {
		return types.Fields(nil), nil
	}
	return types.Fields{"id": id}, nil
}
