package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quickcartlabs/quickcart-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "quickcart-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:    uuid.New(),
		Phone:     "+919876543210",
		SessionID: "sess-1",
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user id %s, got %s", payload.UserID, claims.UserID)
	}
	if claims.Phone != payload.Phone {
		t.Fatalf("expected phone %s, got %s", payload.Phone, claims.Phone)
	}
	if claims.SessionID != "sess-1" {
		t.Fatalf("expected session id to round-trip, got %q", claims.SessionID)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()

	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{Phone: "+91"}); err == nil {
		t.Fatal("expected error for missing user id")
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected error for missing phone")
	}

	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Phone: "+91"}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Phone:  "+919876543210",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Phone:  "+919876543210",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	cfg.Issuer = "someone-else"
	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected issuer mismatch to fail validation")
	}
}
