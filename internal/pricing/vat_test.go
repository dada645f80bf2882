package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
)

func newTestVAT(t *testing.T, rate string) *VATCalculator {
	t.Helper()
	calc, err := NewVATCalculatorFromString(rate)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	return calc
}

func TestExtractVATAmount(t *testing.T) {
	calc := newTestVAT(t, "0.20")

	cases := []struct {
		price string
		want  string
	}{
		{"100.00", "16.67"},
		{"1.00", "0.17"},
		{"1.25", "0.21"},
		{"0.00", "0.00"},
		{"9.99", "1.67"},
	}
	for _, tc := range cases {
		got := calc.ExtractVATAmount(decimal.RequireFromString(tc.price))
		if got.StringFixed(2) != tc.want {
			t.Errorf("ExtractVATAmount(%s) = %s, want %s", tc.price, got.StringFixed(2), tc.want)
		}
	}
}

func TestExtractVATExclusivePrice(t *testing.T) {
	calc := newTestVAT(t, "0.20")

	cases := []struct {
		price string
		want  string
	}{
		{"100.00", "83.33"},
		{"1.00", "0.83"},
		{"12.00", "10.00"},
		{"0.00", "0.00"},
	}
	for _, tc := range cases {
		got := calc.ExtractVATExclusivePrice(decimal.RequireFromString(tc.price))
		if got.StringFixed(2) != tc.want {
			t.Errorf("ExtractVATExclusivePrice(%s) = %s, want %s", tc.price, got.StringFixed(2), tc.want)
		}
	}
}

func TestAddVAT(t *testing.T) {
	calc := newTestVAT(t, "0.20")

	cases := []struct {
		price string
		want  string
	}{
		{"10.00", "12.00"},
		{"83.33", "100.00"},
		{"0.00", "0.00"},
		{"0.01", "0.01"},
	}
	for _, tc := range cases {
		got := calc.AddVAT(decimal.RequireFromString(tc.price))
		if got.StringFixed(2) != tc.want {
			t.Errorf("AddVAT(%s) = %s, want %s", tc.price, got.StringFixed(2), tc.want)
		}
	}
}

func TestVATZeroRate(t *testing.T) {
	calc := newTestVAT(t, "0")
	price := decimal.RequireFromString("42.50")
	if got := calc.ExtractVATAmount(price); !got.IsZero() {
		t.Fatalf("expected zero VAT, got %s", got)
	}
	if got := calc.ExtractVATExclusivePrice(price); got.StringFixed(2) != "42.50" {
		t.Fatalf("expected price unchanged, got %s", got)
	}
	if got := calc.AddVAT(price); got.StringFixed(2) != "42.50" {
		t.Fatalf("expected price unchanged, got %s", got)
	}
}

func TestNewVATCalculatorRejectsNegativeRate(t *testing.T) {
	_, err := NewVATCalculator(decimal.RequireFromString("-0.05"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewVATCalculatorFromStringRejectsGarbage(t *testing.T) {
	_, err := NewVATCalculatorFromString("twenty percent")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
