package security

import (
	"strings"
	"testing"
)

func TestGenerateOTP(t *testing.T) {
	t.Parallel()

	code, err := GenerateOTP(6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected digits only, got %q", code)
		}
	}

	if _, err := GenerateOTP(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}

func TestHashAndVerifyOTP(t *testing.T) {
	t.Parallel()

	encoded, err := HashOTP("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", encoded)
	}

	ok, err := VerifyOTP("123456", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected matching code to verify")
	}

	ok, err = VerifyOTP("654321", encoded)
	if err != nil {
		t.Fatalf("verify mismatch: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched code to fail")
	}
}

func TestVerifyOTPMalformedHash(t *testing.T) {
	t.Parallel()

	if _, err := VerifyOTP("123456", "not-a-hash"); err == nil {
		t.Fatal("expected malformed hash to error")
	}
}
