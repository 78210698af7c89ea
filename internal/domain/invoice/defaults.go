package invoice

import (
	"github.com/samber/lo"
)

const (
	DefaultCurrencySymbol = "$"
	DefaultDateFormat     = "Do MMMM, YYYY"
	DefaultLanguage       = "en"
	DefaultNumber         = "12345"
)

// DefaultRule fills one display field when it is absent. A string field is
// absent when empty; rules never touch a field that already has a value.
type DefaultRule struct {
	Key   string
	Field func(inv *Invoice) *string
	Value func(inv *Invoice) string
}

func constant(v string) func(*Invoice) string {
	return func(*Invoice) string { return v }
}

// DefaultRules are applied in order, so rules may read fields settled by
// earlier ones (label_price reads the currency symbol).
var DefaultRules = []DefaultRule{
	{"currency_symbol", func(i *Invoice) *string { return &i.CurrencySymbol }, constant(DefaultCurrencySymbol)},
	{"label_invoice", func(i *Invoice) *string { return &i.LabelInvoice }, constant("tax invoice")},
	{"label_invoice_to", func(i *Invoice) *string { return &i.LabelInvoiceTo }, constant("invoice to")},
	{"label_invoice_by", func(i *Invoice) *string { return &i.LabelInvoiceBy }, constant("invoice by")},
	{"label_due_on", func(i *Invoice) *string { return &i.LabelDueOn }, constant("Due on")},
	{"label_invoice_for", func(i *Invoice) *string { return &i.LabelInvoiceFor }, constant("invoice for")},
	{"label_description", func(i *Invoice) *string { return &i.LabelDescription }, constant("description")},
	{"label_unit", func(i *Invoice) *string { return &i.LabelUnit }, constant("unit")},
	{"label_price", func(i *Invoice) *string { return &i.LabelPrice }, func(i *Invoice) string {
		return "price (" + i.CurrencySymbol + ")"
	}},
	{"label_amount", func(i *Invoice) *string { return &i.LabelAmount }, constant("Amount")},
	{"label_subtotal", func(i *Invoice) *string { return &i.LabelSubtotal }, constant("subtotal")},
	{"label_total", func(i *Invoice) *string { return &i.LabelTotal }, constant("net total")},
	{"label_vat", func(i *Invoice) *string { return &i.LabelVat }, constant("gst")},
	{"label_fee", func(i *Invoice) *string { return &i.LabelFee }, constant("fees")},
	{"label_invoice_date", func(i *Invoice) *string { return &i.LabelInvoiceDate }, constant("invoice date")},
	{"label_company_siret", func(i *Invoice) *string { return &i.LabelCompanySiret }, constant("Company SIRET")},
	{"label_company_vat_number", func(i *Invoice) *string { return &i.LabelCompanyVatNumber }, constant("Company VAT N°")},
	{"label_invoice_number", func(i *Invoice) *string { return &i.LabelInvoiceNumber }, constant("invoice number")},
	{"label_reference_number", func(i *Invoice) *string { return &i.LabelReferenceNumber }, constant("ref N°")},
	{"label_invoice_due_date", func(i *Invoice) *string { return &i.LabelInvoiceDueDate }, constant("Due date")},
	{"label_tax_in_total", func(i *Invoice) *string { return &i.LabelTaxInTotal }, constant("Tax in total")},
	{"company_name", func(i *Invoice) *string { return &i.CompanyName }, constant("My company - abn")},
	{"provider_name", func(i *Invoice) *string { return &i.ProviderName }, constant("")},
	{"date_format", func(i *Invoice) *string { return &i.DateFormat }, constant(DefaultDateFormat)},
	{"language", func(i *Invoice) *string { return &i.Language }, constant(DefaultLanguage)},
	{"client_company_name", func(i *Invoice) *string { return &i.ClientCompanyName }, constant("Client Company")},
	{"number", func(i *Invoice) *string { return &i.Number }, func(i *Invoice) string {
		return lo.Ternary(i.ID != "", i.ID, DefaultNumber)
	}},
}

// ApplyDefaults fills every absent display field. currency_position_before is
// absent only when unset, an explicit false is kept.
func (inv *Invoice) ApplyDefaults() {
	for _, rule := range DefaultRules {
		if field := rule.Field(inv); *field == "" {
			*field = rule.Value(inv)
		}
	}
	if inv.CurrencyPositionBefore == nil {
		inv.CurrencyPositionBefore = lo.ToPtr(true)
	}
}
