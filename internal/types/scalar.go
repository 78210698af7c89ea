package types

import (
	"encoding/json"
	"strconv"
	"strings"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/shopspring/decimal"
)

// NaN is the display value of a figure that could not be computed
const NaN Scalar = "NaN"

// Scalar is an invoice field kept in its textual form. Provider numbers
// decode into it as their decimal representation (minor units for money) and
// pipeline stages overwrite it in place with display text.
type Scalar string

// IsZero reports whether the field is absent
func (s Scalar) IsZero() bool {
	return strings.TrimSpace(string(s)) == ""
}

func (s Scalar) String() string {
	return string(s)
}

// Decimal parses the field. An absent field is zero.
func (s Scalar) Decimal() (decimal.Decimal, error) {
	if s.IsZero() {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(string(s)))
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("invalid numeric value %q", string(s)).
			Mark(ierr.ErrValidation)
	}
	return d, nil
}

// Int64 parses the field as a whole number (epoch seconds, quantities). An
// absent field is zero.
func (s Scalar) Int64() (int64, error) {
	d, err := s.Decimal()
	if err != nil {
		return 0, err
	}
	return d.IntPart(), nil
}

// ScalarOf converts a decoded value into a Scalar. Unsupported kinds report false.
func ScalarOf(v any) (Scalar, bool) {
	switch v := v.(type) {
	case nil:
		return "", true
	case Scalar:
		return v, true
	case string:
		return Scalar(v), true
	case json.Number:
		return Scalar(v.String()), true
	case decimal.Decimal:
		return Scalar(v.String()), true
	case int:
		return Scalar(strconv.Itoa(v)), true
	case int32:
		return Scalar(strconv.FormatInt(int64(v), 10)), true
	case int64:
		return Scalar(strconv.FormatInt(v, 10)), true
	case uint:
		return Scalar(strconv.FormatUint(uint64(v), 10)), true
	case uint64:
		return Scalar(strconv.FormatUint(v, 10)), true
	case float32:
		return Scalar(strconv.FormatFloat(float64(v), 'f', -1, 32)), true
	case float64:
		return Scalar(strconv.FormatFloat(v, 'f', -1, 64)), true
	}
	return "", false
}
