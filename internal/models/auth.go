package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload embedded in every issued bearer token.
type TokenClaims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}
