package pricing

import (
	"github.com/shopspring/decimal"
)

// Line is one priced cart or order line.
type Line struct {
	UnitPrice decimal.Decimal
	Qty       int
}

// LineTotals carries the derived amounts for a single line.
type LineTotals struct {
	LineTotal      decimal.Decimal
	VATAmount      decimal.Decimal
	ExclusiveTotal decimal.Decimal
}

// TotalsCalculator aggregates priced lines into cart/order totals. Unit
// prices are VAT-inclusive; the VAT amounts it reports are informational and
// already contained in the totals.
type TotalsCalculator struct {
	vat *VATCalculator
}

func NewTotalsCalculator(vat *VATCalculator) *TotalsCalculator {
	return &TotalsCalculator{vat: vat}
}

// ComputeLine derives the totals for one line.
func (t *TotalsCalculator) ComputeLine(line Line) LineTotals {
	lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))).Round(2)
	return LineTotals{
		LineTotal:      lineTotal,
		VATAmount:      t.vat.ExtractVATAmount(lineTotal),
		ExclusiveTotal: t.vat.ExtractVATExclusivePrice(lineTotal),
	}
}

// Subtotal sums the line totals of every line.
func (t *TotalsCalculator) Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(t.ComputeLine(line).LineTotal)
	}
	return subtotal.Round(2)
}

// VATAmount extracts the informational VAT share of a VAT-inclusive subtotal.
func (t *TotalsCalculator) VATAmount(subtotal decimal.Decimal) decimal.Decimal {
	return t.vat.ExtractVATAmount(subtotal)
}

// GrandTotal is the amount the customer pays: subtotal plus shipping. VAT is
// not added again.
func (t *TotalsCalculator) GrandTotal(subtotal, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Add(shipping).Round(2)
}
