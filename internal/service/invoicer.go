package service

import (
	"context"
	"io"
	"time"

	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/dateformat"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/imageprobe"
	"github.com/flexprice/invoicer/internal/integration/stripe"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/pdfgen"
	"github.com/flexprice/invoicer/internal/types"
)

const (
	DefaultTemplatePath = "assets/templates/invoice.html"
	DefaultInvoiceCSS   = "assets/css/invoice.css"
	DefaultLayoutCSS    = "assets/css/layout.css"
)

// InvoiceService generates invoice documents
type InvoiceService interface {
	// Generate returns the pdf name and document of the given invoice. The
	// caller must close the document.
	Generate(ctx context.Context, invoiceID string, overrides types.Fields) (string, io.ReadCloser, error)
}

// Callback receives the outcome of GenerateWithCallback
type Callback func(err error, pdfName string, doc io.ReadCloser)

// Invoicer runs the invoice pipeline. It is immutable once built and safe for
// concurrent use; every call works on its own record.
type Invoicer struct {
	fetcher    *Fetcher
	normalizer *Normalizer
	deriver    *Deriver
	shaper     *Shaper
	renderer   *DocumentRenderer
	logger     *logger.Logger
}

var _ InvoiceService = (*Invoicer)(nil)

type options struct {
	provider      invoice.Provider
	templates     pdfgen.TemplateRenderer
	pdf           pdfgen.PDFRenderer
	prober        imageprobe.Prober
	formatter     dateformat.Formatter
	cache         cache.Cache
	logger        *logger.Logger
	location      *time.Location
	templatePath  string
	stylesheets   []string
	wkhtmltopdfAt string
}

// Option swaps a collaborator or asset of the Invoicer
type Option func(*options)

func WithProvider(p invoice.Provider) Option {
	return func(o *options) { o.provider = p }
}

func WithTemplateRenderer(r pdfgen.TemplateRenderer) Option {
	return func(o *options) { o.templates = r }
}

func WithPDFRenderer(r pdfgen.PDFRenderer) Option {
	return func(o *options) { o.pdf = r }
}

func WithProber(p imageprobe.Prober) Option {
	return func(o *options) { o.prober = p }
}

func WithFormatter(f dateformat.Formatter) Option {
	return func(o *options) { o.formatter = f }
}

// WithCache sets the cache backing the default logo prober
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLocation sets the timezone dates are rendered in by the default formatter
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

// WithAssets sets the template and the invoice and layout stylesheets
func WithAssets(templatePath, invoiceCSS, layoutCSS string) Option {
	return func(o *options) {
		o.templatePath = templatePath
		o.stylesheets = []string{invoiceCSS, layoutCSS}
	}
}

// WithWkhtmltopdfBinary points the default PDF renderer at a wkhtmltopdf executable
func WithWkhtmltopdfBinary(path string) Option {
	return func(o *options) { o.wkhtmltopdfAt = path }
}

// NewInvoicer builds an Invoicer reading from Stripe with apiKey. static is the
// process-wide field layer every document starts from.
func NewInvoicer(apiKey string, static types.Fields, opts ...Option) (*Invoicer, error) {
	o := &options{
		templatePath: DefaultTemplatePath,
		stylesheets:  []string{DefaultInvoiceCSS, DefaultLayoutCSS},
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logger.NewNopLogger()
	}
	if o.provider == nil {
		if apiKey == "" {
			return nil, ierr.NewError("stripe api key is required").
				WithHint("A Stripe secret key is required to fetch invoices").
				Mark(ierr.ErrValidation)
		}
		o.provider = stripe.NewProvider(apiKey, o.logger, nil)
	}
	if o.templates == nil {
		o.templates = pdfgen.NewHTMLRenderer(o.logger)
	}
	if o.pdf == nil {
		o.pdf = pdfgen.NewWkhtmltopdfRenderer(o.wkhtmltopdfAt, o.logger)
	}
	if o.prober == nil {
		if o.cache == nil {
			o.cache = cache.NewInMemoryCache(nil)
		}
		o.prober = imageprobe.NewFileProber(o.cache, o.logger)
	}
	if o.formatter == nil {
		o.formatter = dateformat.NewMomentFormatter(o.location)
	}

	return &Invoicer{
		fetcher:    NewFetcher(o.provider, o.logger),
		normalizer: NewNormalizer(static, o.prober, o.formatter, o.logger),
		deriver:    NewDeriver(o.logger),
		shaper:     NewShaper(o.formatter),
		renderer:   NewDocumentRenderer(o.templates, o.pdf, o.templatePath, o.stylesheets, o.logger),
		logger:     o.logger,
	}, nil
}

// Generate fetches, normalizes, derives, shapes and renders one invoice.
// overrides["headers"] is forwarded on every provider call and never reaches
// the document.
func (s *Invoicer) Generate(ctx context.Context, invoiceID string, overrides types.Fields) (string, io.ReadCloser, error) {
	log := s.logger.With("invoice_id", invoiceID)
	if requestID := types.GetRequestID(ctx); requestID != "" {
		log = log.With("request_id", requestID)
	}

	fetched, err := s.fetcher.Fetch(ctx, invoiceID, overrides.Headers(HeadersKey))
	if err != nil {
		log.Errorw("failed to fetch invoice", "stage", "fetch", "error", err)
		return "", nil, err
	}

	inv, err := s.normalizer.Normalize(ctx, overrides, fetched)
	if err != nil {
		log.Errorw("failed to normalize invoice", "stage", "normalize", "error", err)
		return "", nil, err
	}

	if err := s.deriver.Derive(inv); err != nil {
		log.Errorw("failed to derive invoice totals", "stage", "derive", "error", err)
		return "", nil, err
	}

	if err := s.shaper.Shape(inv); err != nil {
		log.Errorw("failed to shape invoice lines", "stage", "shape", "error", err)
		return "", nil, err
	}

	name, doc, err := s.renderer.Render(ctx, inv)
	if err != nil {
		log.Errorw("failed to render invoice", "stage", "render", "error", err)
		return "", nil, err
	}

	log.Infow("generated invoice pdf", "pdf_name", name)
	return name, doc, nil
}

// GenerateWithCallback runs Generate and reports the outcome to cb exactly once
func (s *Invoicer) GenerateWithCallback(ctx context.Context, invoiceID string, overrides types.Fields, cb Callback) {
	name, doc, err := s.Generate(ctx, invoiceID, overrides)
	if err != nil {
		cb(err, "", nil)
		return
	}
	cb(nil, name, doc)
}
