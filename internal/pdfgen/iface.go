package pdfgen

import (
	"context"
	"io"
)

// TemplateRenderer renders a template file with the given data into markup
type TemplateRenderer interface {
	Render(templatePath string, data any) (string, error)
}

// PDFRenderer turns markup into a PDF document stream
type PDFRenderer interface {
	Render(ctx context.Context, markup string, opts PageOptions) (io.ReadCloser, error)
}

// PageOptions configures the rendered page
type PageOptions struct {
	PageSize              string
	DisableSmartShrinking bool
	Zoom                  float64
}

const PageSizeLetter = "Letter"

// InvoicePageOptions is the fixed page setup of invoice documents
var InvoicePageOptions = PageOptions{
	PageSize:              PageSizeLetter,
	DisableSmartShrinking: true,
	Zoom:                  3.0,
}
