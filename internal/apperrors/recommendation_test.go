package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestCatalogUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewCatalogUnavailableError("catalog not initialized", cause)

	if !IsCatalogUnavailable(err) {
		t.Fatal("expected IsCatalogUnavailable to return true")
	}
	if err.HTTPStatus() != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, err.HTTPStatus())
	}
	if err.Code() != CodeCatalogUnavailable {
		t.Fatalf("expected code %s, got %s", CodeCatalogUnavailable, err.Code())
	}
}

func TestPoolExhaustedError(t *testing.T) {
	err := NewPoolExhaustedError("VMP")

	if !IsPoolExhausted(err) {
		t.Fatal("expected IsPoolExhausted to return true")
	}
	if err.SlotType != "VMP" {
		t.Fatalf("expected slot type VMP, got %s", err.SlotType)
	}
}

func TestBanditDegenerateError(t *testing.T) {
	err := NewBanditDegenerateError("AU", errors.New("singular matrix"))

	if !IsBanditDegenerate(err) {
		t.Fatal("expected IsBanditDegenerate to return true")
	}
	if err.Category != "AU" {
		t.Fatalf("expected category AU, got %s", err.Category)
	}
}

func TestActivityStoreUnavailableError(t *testing.T) {
	err := NewActivityStoreUnavailableError("redis write failed", nil)

	if !IsActivityStoreUnavailable(err) {
		t.Fatal("expected IsActivityStoreUnavailable to return true")
	}
}

func TestFatalError(t *testing.T) {
	err := NewFatalError("reload failed", errors.New("query timeout"))

	if !IsFatal(err) {
		t.Fatal("expected IsFatal to return true")
	}
	if err.HTTPStatus() != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, err.HTTPStatus())
	}
}
