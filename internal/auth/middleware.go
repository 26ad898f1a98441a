package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/precure-app/precure-api/internal/models"
	pkghttp "github.com/precure-app/precure-api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// ClaimsContextKey is the key for storing token claims in context
	ClaimsContextKey contextKey = "claims"
	// BearerTokenContextKey is the key for storing the raw bearer token in
	// context; logout needs the exact string to blacklist it
	BearerTokenContextKey contextKey = "bearer_token"
)

// RevocationChecker decides whether a cryptographically valid token has been
// revoked for the account embedded in its claims.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *models.TokenClaims, token string) (bool, error)
}

// Middleware validates bearer tokens and injects claims into the request
// context. Verification is two-step: cryptographic check first, then a
// membership check against the embedded account's blacklist. A match fails
// the request even though the token is otherwise valid and unexpired.
func Middleware(tm *TokenManager, blacklist RevocationChecker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := ExtractBearerToken(r)
			if !ok {
				pkghttp.WriteBadRequest(w, "no_token", "Access denied. No token provided.")
				return
			}

			claims, err := tm.Verify(tokenString)
			if err != nil {
				switch err {
				case models.ErrExpiredToken:
					pkghttp.WriteUnauthorized(w, "expired_token", "Token has expired. Please login again.")
				default:
					pkghttp.WriteUnauthorized(w, "invalid_token", "Invalid token. Authorization denied.")
				}
				return
			}

			revoked, err := blacklist.IsRevoked(r.Context(), claims, tokenString)
			if err != nil {
				// Fail closed: an unverifiable token is not accepted
				pkghttp.WriteInternalError(w, "Unable to verify token status")
				return
			}
			if revoked {
				pkghttp.WriteUnauthorized(w, "token_revoked", "Token has been invalidated. Please login again.")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			ctx = context.WithValue(ctx, BearerTokenContextKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractBearerToken pulls the token out of the Authorization header.
func ExtractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// ClaimsFromContext extracts token claims from the request context.
func ClaimsFromContext(ctx context.Context) *models.TokenClaims {
	claims, ok := ctx.Value(ClaimsContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// BearerTokenFromContext extracts the raw bearer token from the request context.
func BearerTokenFromContext(ctx context.Context) string {
	token, ok := ctx.Value(BearerTokenContextKey).(string)
	if !ok {
		return ""
	}
	return token
}
