package stripe

import (
	"context"
	"net/http"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/stripe/stripe-go/v82"
)

// stripeJSON keeps provider numbers as json.Number so minor units never pass through float64
var stripeJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Provider reads invoices, charges and balance transactions from Stripe
type Provider struct {
	client *stripe.Client
	logger *logger.Logger
}

// NewProvider creates a Stripe backed provider. The client never retries on
// its own; a nil config uses the Stripe API defaults otherwise.
func NewProvider(secretKey string, log *logger.Logger, cfg *stripe.BackendConfig) *Provider {
	if cfg == nil {
		cfg = &stripe.BackendConfig{}
	}
	if cfg.MaxNetworkRetries == nil {
		cfg.MaxNetworkRetries = stripe.Int64(0)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg.LeveledLogger == nil {
		cfg.LeveledLogger = log
	}

	return &Provider{
		client: stripe.NewClient(secretKey, stripe.WithBackends(stripe.NewBackendsWithConfig(cfg))),
		logger: log,
	}
}

// RetrieveInvoice implements invoice.Provider
func (p *Provider) RetrieveInvoice(ctx context.Context, id string, headers http.Header) (types.Fields, error) {
	params := &stripe.InvoiceRetrieveParams{}
	params.Headers = headers
	// newer API versions only expose the charge through the invoice payments
	params.AddExpand("payments")

	inv, err := p.client.V1Invoices.Retrieve(ctx, id, params)
	if err != nil {
		return nil, err
	}

	fields, err := decodeResource(inv.LastResponse, inv)
	if err != nil {
		return nil, err
	}

	if chargeID, ok := fields["charge"].(string); !ok || chargeID == "" {
		if chargeID := paidChargeID(inv); chargeID != "" {
			fields["charge"] = chargeID
		}
	}

	p.logger.Debugw("retrieved stripe invoice",
		"invoice_id", id,
		"has_charge", fields["charge"] != nil)

	return fields, nil
}

// RetrieveCharge implements invoice.Provider
func (p *Provider) RetrieveCharge(ctx context.Context, id string, headers http.Header) (types.Fields, error) {
	params := &stripe.ChargeRetrieveParams{}
	params.Headers = headers

	charge, err := p.client.V1Charges.Retrieve(ctx, id, params)
	if err != nil {
		return nil, err
	}

	fields, err := decodeResource(charge.LastResponse, charge)
	if err != nil {
		return nil, err
	}

	// keep the settlement reference addressable even when the API expanded it
	if charge.BalanceTransaction != nil && charge.BalanceTransaction.ID != "" {
		fields["balance_transaction"] = charge.BalanceTransaction.ID
	}

	return fields, nil
}

// RetrieveTransaction implements invoice.Provider
func (p *Provider) RetrieveTransaction(ctx context.Context, id string, headers http.Header) (types.Fields, error) {
	params := &stripe.BalanceTransactionRetrieveParams{}
	params.Headers = headers

	txn, err := p.client.V1BalanceTransactions.Retrieve(ctx, id, params)
	if err != nil {
		return nil, err
	}

	return decodeResource(txn.LastResponse, txn)
}

// decodeResource returns the raw API payload as fields. Resources built
// without a response (test backends) are re-encoded from their typed form.
func decodeResource(resp *stripe.APIResponse, resource any) (types.Fields, error) {
	var raw []byte
	if resp != nil && len(resp.RawJSON) > 0 {
		raw = resp.RawJSON
	} else {
		encoded, err := stripeJSON.Marshal(resource)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("failed to encode stripe resource").
				Mark(ierr.ErrSystem)
		}
		raw = encoded
	}

	fields := make(types.Fields)
	if err := stripeJSON.Unmarshal(raw, &fields); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to decode stripe response").
			Mark(ierr.ErrSystem)
	}
	return fields, nil
}

// paidChargeID returns the first charge attached to the invoice payments
func paidChargeID(inv *stripe.Invoice) string {
	if inv.Payments == nil {
		return ""
	}
	for _, payment := range inv.Payments.Data {
		if payment == nil || payment.Payment == nil || payment.Payment.Charge == nil {
			continue
		}
		if payment.Payment.Charge.ID != "" {
			return payment.Payment.Charge.ID
		}
	}
	return ""
}
