package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("row not found")
	err := Wrap(CodeNotFound, cause, "load variant")

	if err.Code() != CodeNotFound {
		t.Fatalf("unexpected code: %s", err.Code())
	}
	if err.Unwrap() != cause {
		t.Fatalf("expected cause to be preserved")
	}
	if got := err.Error(); got != "NOT_FOUND: load variant" {
		t.Fatalf("unexpected error string: %q", got)
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeStateConflict, "order already paid")
	wrapped := fmt.Errorf("mark paid: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeValidation, "quantity must be positive")
	if !IsCode(err, CodeValidation) {
		t.Fatal("expected validation code match")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatal("unexpected not-found match")
	}
	if IsCode(nil, CodeValidation) {
		t.Fatal("nil error should not match")
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeStateConflict, "insufficient stock").WithDetails(map[string]any{
		"available": 1,
		"requested": 5,
	})
	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatal("expected details map")
	}
	if details["requested"] != 5 {
		t.Fatalf("unexpected details: %+v", details)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeDependency, cause, "persist order")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("unexpected code: %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected chain with cause, got %v", d.Chain)
	}
}
