package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT minted when a token is redeemed through the
// magic-link flow. It lets the SPA call report endpoints without replaying
// the raw access token.
type SessionClaims struct {
	Email      string `json:"email"`
	TokenID    string `json:"token_id"`
	IsLifetime bool   `json:"is_lifetime"`
	jwt.RegisteredClaims
}
