package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	StoreID uuid.UUID
	Email   string
	JTI     string
}

// AccessTokenClaims is the token issued by the identity provider. Every
// merchant user owns exactly one store, carried in store_id.
type AccessTokenClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	StoreID uuid.UUID `json:"store_id"`
	Email   string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
