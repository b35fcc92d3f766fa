package errors

import (
	"fmt"
	"testing"
)

func TestGroveError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeCategoryMissing, "category missing")
	if err.Code != ErrCodeCategoryMissing {
		t.Errorf("expected code %s, got %s", ErrCodeCategoryMissing, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeStoreUnavailable, "store down")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeStoreUnavailable) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeCategoryMissing) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("tabset", "left").WithDetail("index", 2)
	if detailed.Details["tabset"] != "left" {
		t.Error("WithDetail should add details")
	}
}

func TestIsThroughFmtWrap(t *testing.T) {
	inner := NoCollection("Inbox")
	outer := fmt.Errorf("starting drag: %w", inner)

	if !Is(outer, ErrCodeNoCollection) {
		t.Error("Is should see codes wrapped with fmt.Errorf")
	}
	if GetCode(outer) != ErrCodeNoCollection {
		t.Errorf("GetCode = %s, want %s", GetCode(outer), ErrCodeNoCollection)
	}
	if Is(nil, ErrCodeNoCollection) {
		t.Error("Is(nil) should be false")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := CategoryMissing("left")
	if err.Code != ErrCodeCategoryMissing {
		t.Errorf("expected code %s, got %s", ErrCodeCategoryMissing, err.Code)
	}
	if err.Details["tabset"] != "left" {
		t.Error("CategoryMissing should include tabset detail")
	}

	err = InvalidTransfer("tabs/tab-json")
	if err.Code != ErrCodeInvalidTransfer {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidTransfer, err.Code)
	}

	err = StoreUnavailable("nats", fmt.Errorf("no responders"))
	if err.Details["backend"] != "nats" {
		t.Error("StoreUnavailable should include backend detail")
	}
	if err.Cause == nil {
		t.Error("StoreUnavailable should keep the cause")
	}
}
