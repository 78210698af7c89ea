package pdfgen

import (
	"bytes"
	"html/template"
	"path/filepath"
	"strings"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
)

// HTMLRenderer renders html/template files
type HTMLRenderer struct {
	log *logger.Logger
}

// NewHTMLRenderer creates a new html/template renderer
func NewHTMLRenderer(log *logger.Logger) *HTMLRenderer {
	return &HTMLRenderer{log: log}
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	// fileURL turns an absolute asset path into a URL wkhtmltopdf can load
	"fileURL": func(path string) template.URL {
		return template.URL("file://" + filepath.ToSlash(path))
	},
}

// Render implements TemplateRenderer
func (r *HTMLRenderer) Render(templatePath string, data any) (string, error) {
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(funcs).ParseFiles(templatePath)
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to parse invoice template").Mark(ierr.ErrRender)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", ierr.WithError(err).WithHint("failed to render invoice template").Mark(ierr.ErrRender)
	}

	r.log.Debugw("rendered invoice template", "template", templatePath, "bytes", buf.Len())
	return buf.String(), nil
}
