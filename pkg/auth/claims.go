package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	Phone     string
	SessionID string
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to shoppers after OTP
// verification.
type AccessTokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Phone     string    `json:"phone"`
	SessionID string    `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}
