package service

import (
	"context"
	"io"
	"net/http"

	"github.com/flexprice/invoicer/internal/imageprobe"
	"github.com/flexprice/invoicer/internal/pdfgen"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) RetrieveInvoice(ctx context.Context, id string, headers http.Header) (types.Fields, error) {
	args := m.Called(ctx, id, headers)
	if fn, ok := args.Get(0).(func(context.Context, string, http.Header) types.Fields); ok {
		return fn(ctx, id, headers), args.Error(1)
	}
	fields, _ := args.Get(0).(types.Fields)
	return fields, args.Error(1)
}

func (m *MockProvider) RetrieveCharge(ctx context.Context, id string, headers http.Header) (types.Fields, error) {
	args := m.Called(ctx, id, headers)
	fields, _ := args.Get(0).(types.Fields)
	return fields, args.Error(1)
}

func (m *MockProvider) RetrieveTransaction(ctx context.Context, id string, headers http.Header) (types.Fields, error) {
	args := m.Called(ctx, id, headers)
	fields, _ := args.Get(0).(types.Fields)
	return fields, args.Error(1)
}

type MockTemplateRenderer struct {
	mock.Mock
}

func (m *MockTemplateRenderer) Render(templatePath string, data any) (string, error) {
	args := m.Called(templatePath, data)
	return args.String(0), args.Error(1)
}

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, markup string, opts pdfgen.PageOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, markup, opts)
	if fn, ok := args.Get(0).(func(context.Context, string, pdfgen.PageOptions) io.ReadCloser); ok {
		return fn(ctx, markup, opts), args.Error(1)
	}
	doc, _ := args.Get(0).(io.ReadCloser)
	return doc, args.Error(1)
}

type MockProber struct {
	mock.Mock
}

func (m *MockProber) Probe(ctx context.Context, path string) (imageprobe.Dimensions, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(imageprobe.Dimensions), args.Error(1)
}
