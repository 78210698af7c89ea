package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/flexprice/invoicer/internal/dateformat"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/imageprobe"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(static types.Fields, prober imageprobe.Prober) *Normalizer {
	if prober == nil {
		prober = new(MockProber)
	}
	return NewNormalizer(static, prober, dateformat.NewMomentFormatter(time.UTC), logger.NewNopLogger())
}

func TestNormalize_LayerPrecedence(t *testing.T) {
	static := types.Fields{"company_name": "Static Co", "provider_name": "Static Provider", "footer": "static"}
	overrides := types.Fields{"company_name": "Override Co", "provider_name": "Override Provider"}
	fetched := types.Fields{"id": "in_1", "date": 1700000000, "company_name": "Fetched Co"}

	inv, err := newTestNormalizer(static, nil).Normalize(context.Background(), overrides, fetched)

	require.NoError(t, err)
	assert.Equal(t, "Fetched Co", inv.CompanyName)
	assert.Equal(t, "Override Provider", inv.ProviderName)
	assert.Equal(t, "static", inv.Extra["footer"])
}

func TestNormalize_Defaults(t *testing.T) {
	inv, err := newTestNormalizer(nil, nil).Normalize(context.Background(), nil, types.Fields{"id": "in_1", "date": 1700000000})

	require.NoError(t, err)
	assert.Equal(t, "$", inv.CurrencySymbol)
	assert.Equal(t, "price ($)", inv.LabelPrice)
	assert.Equal(t, "tax invoice", inv.LabelInvoice)
	assert.Equal(t, "Company VAT N°", inv.LabelCompanyVatNumber)
	assert.Equal(t, "My company - abn", inv.CompanyName)
	assert.Equal(t, "Client Company", inv.ClientCompanyName)
	assert.Equal(t, "", inv.ProviderName)
	assert.Equal(t, "en", inv.Language)
	assert.Equal(t, "Do MMMM, YYYY", inv.DateFormat)
	assert.Equal(t, "in_1", inv.Number)
	require.NotNil(t, inv.CurrencyPositionBefore)
	assert.True(t, *inv.CurrencyPositionBefore)
}

func TestNormalize_DefaultsNeverClobber(t *testing.T) {
	for _, rule := range invoice.DefaultRules {
		t.Run(rule.Key, func(t *testing.T) {
			value := "custom " + rule.Key
			if rule.Key == "date_format" {
				value = "YYYY"
			}
			overrides := types.Fields{rule.Key: value}

			inv, err := newTestNormalizer(nil, nil).Normalize(context.Background(), overrides, types.Fields{"id": "in_1"})

			require.NoError(t, err)
			assert.Equal(t, value, *rule.Field(inv))
		})
	}
}

func TestNormalize_CurrencySymbolFeedsPriceLabel(t *testing.T) {
	inv, err := newTestNormalizer(types.Fields{"currency_symbol": "€"}, nil).
		Normalize(context.Background(), nil, types.Fields{"id": "in_1"})

	require.NoError(t, err)
	assert.Equal(t, "price (€)", inv.LabelPrice)
}

func TestNormalize_CurrencyPositionBeforeFalseKept(t *testing.T) {
	inv, err := newTestNormalizer(nil, nil).
		Normalize(context.Background(), types.Fields{"currency_position_before": false}, types.Fields{"id": "in_1"})

	require.NoError(t, err)
	require.NotNil(t, inv.CurrencyPositionBefore)
	assert.False(t, *inv.CurrencyPositionBefore)
}

func TestNormalize_NumberFallback(t *testing.T) {
	tests := []struct {
		name    string
		fetched types.Fields
		want    string
	}{
		{name: "present number", fetched: types.Fields{"id": "in_1", "number": "INV-0001"}, want: "INV-0001"},
		{name: "invoice id", fetched: types.Fields{"id": "in_1"}, want: "in_1"},
		{name: "placeholder", fetched: types.Fields{}, want: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := newTestNormalizer(nil, nil).Normalize(context.Background(), nil, tt.fetched)
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.Number)
		})
	}
}

func TestNormalize_Dates(t *testing.T) {
	tests := []struct {
		name    string
		fields  types.Fields
		date    string
		dueDate string
	}{
		{
			name:    "due days",
			fields:  types.Fields{"date": 1700000000, "due_days": 30},
			date:    "14th November, 2023",
			dueDate: "14th December, 2023",
		},
		{
			name:    "negative due days",
			fields:  types.Fields{"date": 1700000000, "due_days": -4},
			date:    "14th November, 2023",
			dueDate: "10th November, 2023",
		},
		{
			name:    "fractional due days round to whole days",
			fields:  types.Fields{"date": 1700000000, "due_days": "1.6"},
			date:    "14th November, 2023",
			dueDate: "16th November, 2023",
		},
		{
			name:    "no due days",
			fields:  types.Fields{"date": 1700000000},
			date:    "14th November, 2023",
			dueDate: "14th November, 2023",
		},
		{
			name:    "created when date is absent",
			fields:  types.Fields{"created": 1700000000},
			date:    "14th November, 2023",
			dueDate: "14th November, 2023",
		},
		{
			name:    "french",
			fields:  types.Fields{"date": 1700000000, "language": "fr", "date_format": "D MMMM YYYY"},
			date:    "14 novembre 2023",
			dueDate: "14 novembre 2023",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := newTestNormalizer(nil, nil).Normalize(context.Background(), nil, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.date, inv.DateFormatted)
			assert.Equal(t, tt.dueDate, inv.DueDateFormatted)
		})
	}
}

func TestNormalize_DueDateUsesFormatterZone(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	formatter := dateformat.NewMomentFormatter(newYork)
	normalizer := NewNormalizer(nil, new(MockProber), formatter, logger.NewNopLogger())

	// noon EST on the day before the spring DST switch
	fetched := types.Fields{"date": 1678554000, "due_days": 1, "date_format": "YYYY-MM-DD HH:mm"}
	inv, err := normalizer.Normalize(context.Background(), nil, fetched)

	require.NoError(t, err)
	assert.Equal(t, "2023-03-11 12:00", inv.DateFormatted)
	assert.Equal(t, "2023-03-12 12:00", inv.DueDateFormatted)
}

func TestNormalize_PDFName(t *testing.T) {
	fetched := types.Fields{"id": "in_1", "date": 1700000000}

	inv, err := newTestNormalizer(nil, nil).Normalize(context.Background(), nil, fetched)
	require.NoError(t, err)
	assert.Equal(t, "INVOICE_2023-11-14_#in_1.pdf", inv.PDFName)

	inv, err = newTestNormalizer(nil, nil).Normalize(context.Background(), types.Fields{"pdf_name": "acme-november"}, fetched)
	require.NoError(t, err)
	assert.Equal(t, "acme-november.pdf", inv.PDFName)
}

func TestNormalize_HeadersNotInRecord(t *testing.T) {
	overrides := types.Fields{HeadersKey: map[string]string{"Stripe-Account": "acct_1"}}

	inv, err := newTestNormalizer(nil, nil).Normalize(context.Background(), overrides, types.Fields{"id": "in_1"})

	require.NoError(t, err)
	assert.NotContains(t, inv.Extra, HeadersKey)
	assert.Contains(t, overrides, HeadersKey)
}

func TestNormalize_MissingLogo(t *testing.T) {
	prober := new(MockProber)
	missing := filepath.Join(t.TempDir(), "missing.png")

	inv, err := newTestNormalizer(types.Fields{"company_logo": missing}, prober).
		Normalize(context.Background(), nil, types.Fields{"id": "in_1"})

	require.NoError(t, err)
	assert.Empty(t, inv.CompanyLogo)
	assert.Zero(t, inv.LogoHeight)
	prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
}

func TestNormalize_LogoHeight(t *testing.T) {
	logo := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("png"), 0o600))

	prober := new(MockProber)
	prober.On("Probe", mock.Anything, logo).Return(imageprobe.Dimensions{Width: 600, Height: 200}, nil)

	inv, err := newTestNormalizer(types.Fields{"company_logo": logo}, prober).
		Normalize(context.Background(), nil, types.Fields{"id": "in_1"})

	require.NoError(t, err)
	assert.Equal(t, logo, inv.CompanyLogo)
	assert.InDelta(t, 100.0, inv.LogoHeight, 1e-9)
	prober.AssertExpectations(t)
}

func TestNormalize_LogoProbeFailure(t *testing.T) {
	logo := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("not an image"), 0o600))

	prober := new(MockProber)
	prober.On("Probe", mock.Anything, logo).Return(imageprobe.Dimensions{}, errors.New("unknown format"))

	_, err := newTestNormalizer(types.Fields{"company_logo": logo}, prober).
		Normalize(context.Background(), nil, types.Fields{"id": "in_1"})

	require.Error(t, err)
	assert.True(t, ierr.IsRender(err))
}
