package pdfgen

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
)

const wkhtmltopdfBinary = "wkhtmltopdf"

// WkhtmltopdfRenderer converts HTML to PDF with the wkhtmltopdf binary.
// The library only builds the command line; the binary is resolved and run
// per renderer, so renderers with different binaries do not interfere.
type WkhtmltopdfRenderer struct {
	binaryPath string
	log        *logger.Logger
}

// NewWkhtmltopdfRenderer creates the renderer. An empty binaryPath looks the
// binary up on PATH at render time.
func NewWkhtmltopdfRenderer(binaryPath string, log *logger.Logger) *WkhtmltopdfRenderer {
	return &WkhtmltopdfRenderer{binaryPath: binaryPath, log: log}
}

// BinaryPath is the configured executable, empty when resolved from PATH
func (r *WkhtmltopdfRenderer) BinaryPath() string {
	return r.binaryPath
}

// Render implements PDFRenderer
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, markup string, opts PageOptions) (io.ReadCloser, error) {
	binary, err := r.resolveBinary()
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to find wkhtmltopdf binary").Mark(ierr.ErrRender)
	}

	pdfg := wkhtmltopdf.NewPDFPreparer()
	if opts.PageSize != "" {
		pdfg.PageSize.Set(opts.PageSize)
	}

	page := wkhtmltopdf.NewPageReader(strings.NewReader(markup))
	// stylesheets and the logo are referenced as local files
	page.EnableLocalFileAccess.Set(true)
	page.DisableSmartShrinking.Set(opts.DisableSmartShrinking)
	if opts.Zoom > 0 {
		page.Zoom.Set(opts.Zoom)
	}
	pdfg.AddPage(page)

	args := pdfg.Args()
	r.log.Debugw("running wkhtmltopdf", "binary", binary, "args", strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(markup)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		b := ierr.WithError(err)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			b = b.WithMessage(msg)
		}
		return nil, b.WithHint("failed to render invoice pdf").Mark(ierr.ErrRender)
	}

	return io.NopCloser(bytes.NewReader(stdout.Bytes())), nil
}

func (r *WkhtmltopdfRenderer) resolveBinary() (string, error) {
	if r.binaryPath != "" {
		return exec.LookPath(r.binaryPath)
	}
	return exec.LookPath(wkhtmltopdfBinary)
}
