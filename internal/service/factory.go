package service

import (
	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache
}

func NewServiceParams(log *logger.Logger, cfg *config.Configuration, c cache.Cache) ServiceParams {
	return ServiceParams{
		Logger: log,
		Config: cfg,
		Cache:  c,
	}
}

// NewInvoiceService builds the Invoicer from configuration
func NewInvoiceService(params ServiceParams) (InvoiceService, error) {
	cfg := params.Config
	return NewInvoicer(
		cfg.Stripe.SecretKey,
		types.Fields(cfg.Invoice.Static),
		WithLogger(params.Logger),
		WithCache(params.Cache),
		WithLocation(cfg.Invoice.Location()),
		WithAssets(cfg.Invoice.TemplatePath, cfg.Invoice.Stylesheets[0], cfg.Invoice.Stylesheets[1]),
		WithWkhtmltopdfBinary(cfg.PDF.BinaryPath),
	)
}
