package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
)

var one = decimal.NewFromInt(1)

// VATCalculator converts between VAT-inclusive and VAT-exclusive prices for
// a single configured rate. All methods are pure and round half up.
type VATCalculator struct {
	rate    decimal.Decimal
	divisor decimal.Decimal
}

// NewVATCalculator builds a calculator for the given rate expressed as a
// decimal fraction (0.20 means 20%).
func NewVATCalculator(rate decimal.Decimal) (*VATCalculator, error) {
	if rate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vat rate must not be negative")
	}
	return &VATCalculator{
		rate:    rate,
		divisor: one.Add(rate),
	}, nil
}

// NewVATCalculatorFromString parses a rate string such as "0.20".
func NewVATCalculatorFromString(rate string) (*VATCalculator, error) {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vat rate")
	}
	return NewVATCalculator(d)
}

// Rate returns the configured rate.
func (c *VATCalculator) Rate() decimal.Decimal {
	return c.rate
}

// ExtractVATAmount returns the VAT contained in a VAT-inclusive price.
// The net price is computed at 4 decimal places before the subtraction, so
// ExtractVATAmount and ExtractVATExclusivePrice can disagree by one cent on
// prices whose net part rounds differently at 2 and 4 places. Callers treat
// the amount as informational.
func (c *VATCalculator) ExtractVATAmount(price decimal.Decimal) decimal.Decimal {
	net := price.DivRound(c.divisor, 4)
	return price.Sub(net).Round(2)
}

// ExtractVATExclusivePrice strips VAT from a VAT-inclusive price.
func (c *VATCalculator) ExtractVATExclusivePrice(price decimal.Decimal) decimal.Decimal {
	return price.DivRound(c.divisor, 2)
}

// AddVAT applies the rate to a VAT-exclusive price.
func (c *VATCalculator) AddVAT(price decimal.Decimal) decimal.Decimal {
	return price.Mul(c.divisor).Round(2)
}
