package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
)

func TestParseQueryIntDefaultsWhenAbsent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)

	got, err := ParseQueryInt(r, "limit", 24, 1, 100)
	if err != nil {
		t.Fatalf("ParseQueryInt: %v", err)
	}
	if got != 24 {
		t.Fatalf("expected the default, got %d", got)
	}
}

func TestParseQueryIntParsesValue(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=50", nil)

	got, err := ParseQueryInt(r, "limit", 24, 1, 100)
	if err != nil {
		t.Fatalf("ParseQueryInt: %v", err)
	}
	if got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestParseQueryIntRejectsGarbageAndOutOfRange(t *testing.T) {
	for _, query := range []string{"limit=abc", "limit=0", "limit=101"} {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/products?"+query, nil)

		_, err := ParseQueryInt(r, "limit", 24, 1, 100)
		if err == nil {
			t.Fatalf("expected error for %q", query)
		}
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected a validation error for %q, got %v", query, err)
		}
	}
}
