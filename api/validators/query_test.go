package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/?page=3", nil)
	page, err := ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if page != 3 {
		t.Fatalf("expected 3, got %d", page)
	}

	r = httptest.NewRequest("GET", "/", nil)
	page, err = ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil || page != 1 {
		t.Fatalf("expected default 1, got %d (%v)", page, err)
	}

	r = httptest.NewRequest("GET", "/?page=abc", nil)
	if _, err := ParseQueryInt(r, "page", 1, 1, 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	r = httptest.NewRequest("GET", "/?page=500", nil)
	if _, err := ParseQueryInt(r, "page", 1, 1, 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestParseQueryDecimalPtr(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/?min_price=9.99", nil)
	value, err := ParseQueryDecimalPtr(r, "min_price")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value == nil || value.String() != "9.99" {
		t.Fatalf("unexpected value %v", value)
	}

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryDecimalPtr(r, "min_price")
	if err != nil || value != nil {
		t.Fatalf("expected nil for absent param, got %v (%v)", value, err)
	}

	r = httptest.NewRequest("GET", "/?min_price=cheap", nil)
	if _, err := ParseQueryDecimalPtr(r, "min_price"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParsePathInt64(t *testing.T) {
	t.Parallel()

	id, err := ParsePathInt64("42", "cartID")
	if err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (%v)", id, err)
	}
	if _, err := ParsePathInt64("0", "cartID"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero, got %v", err)
	}
	if _, err := ParsePathInt64("abc", "cartID"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
