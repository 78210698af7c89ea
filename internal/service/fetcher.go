package service

import (
	"context"
	"net/http"

	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
)

// Fetcher retrieves an invoice and its payment records from the billing provider
type Fetcher struct {
	provider invoice.Provider
	logger   *logger.Logger
}

func NewFetcher(provider invoice.Provider, log *logger.Logger) *Fetcher {
	return &Fetcher{provider: provider, logger: log}
}

// Fetch retrieves the invoice. When it references a charge, the charge and the
// balance transaction settling it replace the reference under "charge" and
// are added under "transaction". Each retrieval depends on the previous one
// and the first failure aborts the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, invoiceID string, headers http.Header) (types.Fields, error) {
	if invoiceID == "" {
		return nil, ierr.NewError("Missing invoice id").
			WithHint("Missing invoice id").
			Mark(ierr.ErrMissingIdentifier)
	}

	return f.fetchInvoice(ctx, invoiceID, headers)
}

func (f *Fetcher) fetchInvoice(ctx context.Context, invoiceID string, headers http.Header) (types.Fields, error) {
	inv, err := f.provider.RetrieveInvoice(ctx, invoiceID, headers)
	if err != nil {
		return nil, upstreamError(err, "invoice", invoiceID)
	}

	chargeID := invoice.ReferenceID(inv["charge"])
	if chargeID == "" {
		f.logger.Debugw("invoice has no charge, skipping payment records", "invoice_id", invoiceID)
		return inv, nil
	}

	charge, err := f.provider.RetrieveCharge(ctx, chargeID, headers)
	if err != nil {
		return nil, upstreamError(err, "charge", chargeID)
	}
	inv["charge"] = charge

	transactionID := invoice.ReferenceID(charge["balance_transaction"])
	if transactionID == "" {
		f.logger.Warnw("charge has no balance transaction yet",
			"invoice_id", invoiceID,
			"charge_id", chargeID)
		return inv, nil
	}

	transaction, err := f.provider.RetrieveTransaction(ctx, transactionID, headers)
	if err != nil {
		return nil, upstreamError(err, "balance transaction", transactionID)
	}
	inv["transaction"] = transaction

	return inv, nil
}

func upstreamError(err error, resource, id string) error {
	return ierr.WithError(err).
		WithHintf("failed to retrieve %s %s", resource, id).
		WithReportableDetails(map[string]any{
			"resource": resource,
			"id":       id,
		}).
		Mark(ierr.ErrUpstream)
}
