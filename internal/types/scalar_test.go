package types

import (
	"encoding/json"
	"testing"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar_Decimal(t *testing.T) {
	tests := []struct {
		name    string
		value   Scalar
		want    string
		wantErr bool
	}{
		{name: "absent is zero", value: "", want: "0"},
		{name: "blank is zero", value: "  ", want: "0"},
		{name: "integer", value: "10000", want: "10000"},
		{name: "display value", value: "97.00", want: "97"},
		{name: "negative", value: "-300", want: "-300"},
		{name: "not a number", value: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.value.Decimal()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestScalar_Int64(t *testing.T) {
	n, err := Scalar("1700000000").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), n)

	n, err = Scalar("2.9").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestScalarOf(t *testing.T) {
	tests := []struct {
		value any
		want  Scalar
		ok    bool
	}{
		{value: nil, want: "", ok: true},
		{value: "12", want: "12", ok: true},
		{value: json.Number("12"), want: "12", ok: true},
		{value: 12, want: "12", ok: true},
		{value: int64(-12), want: "-12", ok: true},
		{value: uint(12), want: "12", ok: true},
		{value: 12.5, want: "12.5", ok: true},
		{value: float32(0.5), want: "0.5", ok: true},
		{value: decimal.RequireFromString("1.10"), want: "1.1", ok: true},
		{value: true, want: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := ScalarOf(tt.value)
		assert.Equal(t, tt.ok, ok, "%v", tt.value)
		assert.Equal(t, tt.want, got, "%v", tt.value)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want Scalar
	}{
		{in: "100", want: "100.00"},
		{in: "0.005", want: "0.01"},
		{in: "0.0049", want: "0.00"},
		{in: "-0.005", want: "-0.01"},
		{in: "9.7", want: "9.70"},
		{in: "1.125", want: "1.13"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestFromMinorAndTaxFactor(t *testing.T) {
	assert.Equal(t, "100", FromMinor(decimal.NewFromInt(10000)).String())
	assert.Equal(t, "0.05", FromMinor(decimal.NewFromInt(5)).String())
	assert.Equal(t, "1.1", TaxFactor(decimal.NewFromInt(10)).String())
	assert.Equal(t, "1", TaxFactor(decimal.Zero).String())
}
