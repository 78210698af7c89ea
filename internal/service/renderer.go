package service

import (
	"context"
	"io"
	"path/filepath"

	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/pdfgen"
	"github.com/samber/lo"
)

// TemplateData is the context the invoice template is executed with
type TemplateData struct {
	Invoice *invoice.Invoice
	// Stylesheets are absolute paths of the invoice and layout stylesheets
	Stylesheets []string
}

// DocumentRenderer turns a finished invoice into a PDF
type DocumentRenderer struct {
	templates    pdfgen.TemplateRenderer
	pdf          pdfgen.PDFRenderer
	templatePath string
	stylesheets  []string
	logger       *logger.Logger
}

func NewDocumentRenderer(
	templates pdfgen.TemplateRenderer,
	pdf pdfgen.PDFRenderer,
	templatePath string,
	stylesheets []string,
	log *logger.Logger,
) *DocumentRenderer {
	return &DocumentRenderer{
		templates:    templates,
		pdf:          pdf,
		templatePath: absPath(templatePath),
		stylesheets:  lo.Map(stylesheets, func(p string, _ int) string { return absPath(p) }),
		logger:       log,
	}
}

// Render returns the pdf name and the document stream. The caller owns the stream.
func (r *DocumentRenderer) Render(ctx context.Context, inv *invoice.Invoice) (string, io.ReadCloser, error) {
	markup, err := r.templates.Render(r.templatePath, TemplateData{
		Invoice:     inv,
		Stylesheets: r.stylesheets,
	})
	if err != nil {
		return "", nil, renderError(err, "failed to render invoice template")
	}

	doc, err := r.pdf.Render(ctx, markup, pdfgen.InvoicePageOptions)
	if err != nil {
		return "", nil, renderError(err, "failed to convert invoice to pdf")
	}

	r.logger.Debugw("rendered invoice document", "invoice_id", inv.ID, "pdf_name", inv.PDFName)
	return inv.PDFName, doc, nil
}

func renderError(err error, hint string) error {
	if ierr.IsRender(err) {
		return err
	}
	return ierr.WithError(err).WithHint(hint).Mark(ierr.ErrRender)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
