package invoice

import (
	"context"
	"net/http"

	"github.com/flexprice/invoicer/internal/types"
)

// Provider reads billing records from the remote billing provider. Each call
// returns the record as decoded fields; headers are forwarded verbatim.
type Provider interface {
	// RetrieveInvoice returns the invoice with the given id
	RetrieveInvoice(ctx context.Context, id string, headers http.Header) (types.Fields, error)

	// RetrieveCharge returns the charge with the given id
	RetrieveCharge(ctx context.Context, id string, headers http.Header) (types.Fields, error)

	// RetrieveTransaction returns the balance transaction with the given id
	RetrieveTransaction(ctx context.Context, id string, headers http.Header) (types.Fields, error)
}

// ReferenceID reads a provider reference that may be either an id string or
// an expanded object carrying an "id".
func ReferenceID(v any) string {
	switch ref := v.(type) {
	case string:
		return ref
	case types.Fields:
		return ref.String("id")
	case map[string]any:
		return types.Fields(ref).String("id")
	}
	return ""
}
