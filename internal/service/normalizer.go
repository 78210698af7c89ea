package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flexprice/invoicer/internal/dateformat"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/imageprobe"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
)

const (
	// HeadersKey is the override carrying request headers for the provider
	HeadersKey = "headers"

	// LogoWidth is the width the company logo is scaled to on the document
	LogoWidth = 300.0
)

// Normalizer merges static configuration, caller overrides and fetched
// provider data into one invoice record and fills absent display fields.
type Normalizer struct {
	static    types.Fields
	prober    imageprobe.Prober
	formatter dateformat.Formatter
	logger    *logger.Logger
}

func NewNormalizer(static types.Fields, prober imageprobe.Prober, formatter dateformat.Formatter, log *logger.Logger) *Normalizer {
	return &Normalizer{
		static:    static.Clone(),
		prober:    prober,
		formatter: formatter,
		logger:    log,
	}
}

// Normalize layers static < overrides < fetched, decodes the result and
// applies the default rules, date formatting, pdf naming and logo sizing.
func (n *Normalizer) Normalize(ctx context.Context, overrides, fetched types.Fields) (*invoice.Invoice, error) {
	caller := overrides.Without(HeadersKey)
	n.logger.Debugw("merging invoice layers", "override_keys", caller.Keys(), "fetched_keys", fetched.Keys())
	merged := types.Merge(n.static, caller, fetched)

	inv, err := invoice.FromFields(merged)
	if err != nil {
		return nil, err
	}

	inv.ApplyDefaults()
	n.formatDates(inv)
	n.namePDF(inv)

	if err := n.resolveLogo(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (n *Normalizer) formatDates(inv *invoice.Invoice) {
	issuedAt := inv.IssuedAt()
	inv.DateFormatted = n.formatter.Format(issuedAt, inv.Language, inv.DateFormat)

	// a due_days value that is not a number, or zero, is treated as absent
	dueDays, err := inv.DueDays.Decimal()
	if err != nil || dueDays.IsZero() {
		inv.DueDateFormatted = inv.DateFormatted
		return
	}

	// calendar days in the document's zone, fractions rounded to whole days
	due := time.Unix(issuedAt, 0).In(n.formatter.Location()).AddDate(0, 0, int(dueDays.Round(0).IntPart()))
	inv.DueDateFormatted = n.formatter.Format(due.Unix(), inv.Language, inv.DateFormat)
}

func (n *Normalizer) namePDF(inv *invoice.Invoice) {
	if inv.PDFName != "" {
		inv.PDFName += ".pdf"
		return
	}
	day := n.formatter.Format(inv.IssuedAt(), invoice.DefaultLanguage, "YYYY-MM-DD")
	inv.PDFName = fmt.Sprintf("INVOICE_%s_#%s.pdf", day, inv.Number)
}

// resolveLogo makes the logo path absolute and drops it when the file does not
// exist. A logo that exists but cannot be probed is an error.
func (n *Normalizer) resolveLogo(ctx context.Context, inv *invoice.Invoice) error {
	if inv.CompanyLogo == "" {
		return nil
	}

	path, err := filepath.Abs(inv.CompanyLogo)
	if err != nil {
		n.logger.Warnw("dropping unresolvable company logo", "company_logo", inv.CompanyLogo, "error", err)
		inv.CompanyLogo = ""
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		n.logger.Infow("company logo not found, rendering without it", "company_logo", path)
		inv.CompanyLogo = ""
		return nil
	}

	dims, err := n.prober.Probe(ctx, path)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("failed to read company logo %s", path).
			Mark(ierr.ErrRender)
	}

	inv.CompanyLogo = path
	inv.LogoHeight = float64(dims.Height) * (LogoWidth / float64(dims.Width))
	return nil
}
