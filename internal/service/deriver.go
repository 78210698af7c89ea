package service

import (
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
)

// Deriver computes the display money fields of a normalized invoice.
//
// It reads provider minor units and overwrites them with major-unit strings
// rounded to two fraction digits, so it must run exactly once per record.
type Deriver struct {
	logger *logger.Logger
}

func NewDeriver(log *logger.Logger) *Deriver {
	return &Deriver{logger: log}
}

// Derive runs the derivation steps in order:
//  1. line price and amount, tax included
//  2. fee from the balance transaction
//  3. subtotal from the invoice total
//  4. absent tax percent becomes 0
//  5. tax in major units
//  6. share of the tax that remains after the fee
//  7. total net of the fee
func (d *Deriver) Derive(inv *invoice.Invoice) error {
	taxPercent, err := inv.TaxPercent.Decimal()
	if err != nil {
		return err
	}
	factor := types.TaxFactor(taxPercent)

	for _, line := range inv.Lines.Data {
		base := line.Amount
		if line.IsSubscription() && line.Plan != nil {
			base = line.Plan.Amount
		}
		price, err := base.Decimal()
		if err != nil {
			return err
		}
		amount, err := line.Amount.Decimal()
		if err != nil {
			return err
		}
		line.Price = types.Round2(types.FromMinor(price).Mul(factor))
		line.Amount = types.Round2(types.FromMinor(amount).Mul(factor))
	}

	total, err := inv.Total.Decimal()
	if err != nil {
		return err
	}
	fee, err := inv.TransactionFee().Decimal()
	if err != nil {
		return err
	}
	tax, err := inv.Tax.Decimal()
	if err != nil {
		return err
	}

	inv.Fee = types.Round2(types.FromMinor(fee))
	inv.Subtotal = types.Round2(types.FromMinor(total))
	if inv.TaxPercent.IsZero() {
		inv.TaxPercent = "0"
	}

	tax = types.FromMinor(tax).Round(2)
	inv.Tax = types.Round2(tax)

	if total.IsZero() {
		d.logger.Warnw("invoice total is zero, tax in total is undefined", "invoice_id", inv.ID)
		inv.TaxInTotal = types.NaN
	} else {
		inv.TaxInTotal = types.Round2(total.Sub(fee).Div(total).Mul(tax))
	}

	inv.Total = types.Round2(types.FromMinor(total.Sub(fee)))
	return nil
}
