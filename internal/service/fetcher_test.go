package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFetch_MissingInvoiceID(t *testing.T) {
	provider := new(MockProvider)
	fetcher := NewFetcher(provider, logger.NewNopLogger())

	fields, err := fetcher.Fetch(context.Background(), "", nil)

	require.Error(t, err)
	assert.Nil(t, fields)
	assert.True(t, ierr.IsMissingIdentifier(err))
	assert.Equal(t, "Missing invoice id", ierr.Message(err))
	provider.AssertNotCalled(t, "RetrieveInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func TestFetch_InvoiceWithoutCharge(t *testing.T) {
	provider := new(MockProvider)
	provider.On("RetrieveInvoice", mock.Anything, "in_1", http.Header(nil)).
		Return(types.Fields{"id": "in_1", "total": 10000}, nil)

	fetcher := NewFetcher(provider, logger.NewNopLogger())
	fields, err := fetcher.Fetch(context.Background(), "in_1", nil)

	require.NoError(t, err)
	assert.Equal(t, "in_1", fields["id"])
	assert.NotContains(t, fields, "transaction")
	provider.AssertExpectations(t)
	provider.AssertNotCalled(t, "RetrieveCharge", mock.Anything, mock.Anything, mock.Anything)
	provider.AssertNotCalled(t, "RetrieveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestFetch_ChargeAndTransaction(t *testing.T) {
	headers := http.Header{"Stripe-Account": []string{"acct_1"}}

	provider := new(MockProvider)
	provider.On("RetrieveInvoice", mock.Anything, "in_1", headers).
		Return(types.Fields{"id": "in_1", "charge": "ch_1"}, nil)
	provider.On("RetrieveCharge", mock.Anything, "ch_1", headers).
		Return(types.Fields{"id": "ch_1", "balance_transaction": "txn_1"}, nil)
	provider.On("RetrieveTransaction", mock.Anything, "txn_1", headers).
		Return(types.Fields{"id": "txn_1", "fee": 300}, nil)

	fetcher := NewFetcher(provider, logger.NewNopLogger())
	fields, err := fetcher.Fetch(context.Background(), "in_1", headers)

	require.NoError(t, err)
	assert.Equal(t, types.Fields{"id": "ch_1", "balance_transaction": "txn_1"}, fields["charge"])
	assert.Equal(t, types.Fields{"id": "txn_1", "fee": 300}, fields["transaction"])
	provider.AssertExpectations(t)
}

func TestFetch_ExpandedChargeReference(t *testing.T) {
	provider := new(MockProvider)
	provider.On("RetrieveInvoice", mock.Anything, "in_1", http.Header(nil)).
		Return(types.Fields{"id": "in_1", "charge": map[string]any{"id": "ch_1"}}, nil)
	provider.On("RetrieveCharge", mock.Anything, "ch_1", http.Header(nil)).
		Return(types.Fields{"id": "ch_1"}, nil)

	fetcher := NewFetcher(provider, logger.NewNopLogger())
	fields, err := fetcher.Fetch(context.Background(), "in_1", nil)

	require.NoError(t, err)
	assert.Equal(t, types.Fields{"id": "ch_1"}, fields["charge"])
	assert.NotContains(t, fields, "transaction")
	provider.AssertNotCalled(t, "RetrieveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestFetch_UpstreamFailures(t *testing.T) {
	upstream := errors.New("stripe: no such resource")

	tests := []struct {
		name  string
		setup func(p *MockProvider)
	}{
		{
			name: "invoice",
			setup: func(p *MockProvider) {
				p.On("RetrieveInvoice", mock.Anything, "in_1", mock.Anything).Return(nil, upstream)
			},
		},
		{
			name: "charge",
			setup: func(p *MockProvider) {
				p.On("RetrieveInvoice", mock.Anything, "in_1", mock.Anything).
					Return(types.Fields{"id": "in_1", "charge": "ch_1"}, nil)
				p.On("RetrieveCharge", mock.Anything, "ch_1", mock.Anything).Return(nil, upstream)
			},
		},
		{
			name: "transaction",
			setup: func(p *MockProvider) {
				p.On("RetrieveInvoice", mock.Anything, "in_1", mock.Anything).
					Return(types.Fields{"id": "in_1", "charge": "ch_1"}, nil)
				p.On("RetrieveCharge", mock.Anything, "ch_1", mock.Anything).
					Return(types.Fields{"id": "ch_1", "balance_transaction": "txn_1"}, nil)
				p.On("RetrieveTransaction", mock.Anything, "txn_1", mock.Anything).Return(nil, upstream)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			tt.setup(provider)

			fetcher := NewFetcher(provider, logger.NewNopLogger())
			fields, err := fetcher.Fetch(context.Background(), "in_1", nil)

			require.Error(t, err)
			assert.Nil(t, fields)
			assert.True(t, ierr.IsUpstream(err))
			assert.ErrorIs(t, err, upstream)
			provider.AssertExpectations(t)
		})
	}
}

func TestFetch_ChargeFailureSkipsTransaction(t *testing.T) {
	provider := new(MockProvider)
	provider.On("RetrieveInvoice", mock.Anything, "in_1", mock.Anything).
		Return(types.Fields{"id": "in_1", "charge": "ch_1"}, nil)
	provider.On("RetrieveCharge", mock.Anything, "ch_1", mock.Anything).
		Return(nil, errors.New("boom"))

	fetcher := NewFetcher(provider, logger.NewNopLogger())
	_, err := fetcher.Fetch(context.Background(), "in_1", nil)

	require.Error(t, err)
	provider.AssertNotCalled(t, "RetrieveTransaction", mock.Anything, mock.Anything, mock.Anything)
}
