package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxInvoiceID ContextKey = "ctx_invoice_id"

	HeaderRequestID = "X-Request-ID"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetInvoiceID(ctx context.Context) string {
	if invoiceID, ok := ctx.Value(CtxInvoiceID).(string); ok {
		return invoiceID
	}
	return ""
}

// SetInvoiceID tags the context with the invoice being generated
func SetInvoiceID(ctx context.Context, invoiceID string) context.Context {
	return context.WithValue(ctx, CtxInvoiceID, invoiceID)
}
