package service

import (
	"fmt"
	"strings"

	"github.com/flexprice/invoicer/internal/dateformat"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/types"
)

// Shaper fills the description of subscription lines that have none
type Shaper struct {
	formatter dateformat.Formatter
}

func NewShaper(formatter dateformat.Formatter) *Shaper {
	return &Shaper{formatter: formatter}
}

// Shape builds "<quantity> * <plan> <start> - <end>" descriptions. The quantity
// prefix appears only above one and the period only when the line has one;
// period bounds are replaced by their formatted dates.
func (s *Shaper) Shape(inv *invoice.Invoice) error {
	for _, line := range inv.Lines.Data {
		if !line.IsSubscription() || line.Description != "" {
			continue
		}

		var b strings.Builder
		if line.Quantity > 1 {
			fmt.Fprintf(&b, "%d * ", line.Quantity)
		}
		if line.Plan != nil {
			b.WriteString(line.Plan.Name)
		}

		if line.Period != nil {
			start, err := line.Period.Start.Int64()
			if err != nil {
				return err
			}
			end, err := line.Period.End.Int64()
			if err != nil {
				return err
			}
			line.Period.Start = types.Scalar(s.formatter.Format(start, inv.Language, inv.DateFormat))
			line.Period.End = types.Scalar(s.formatter.Format(end, inv.Language, inv.DateFormat))
			fmt.Fprintf(&b, " %s - %s", line.Period.Start, line.Period.End)
		}

		line.Description = b.String()
	}
	return nil
}
