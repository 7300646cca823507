// Package middleware provides HTTP middleware for the vfsmount API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/pkg/api/auth"
	"github.com/marmos91/vfsmount/pkg/api/handlers"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// GetClaimsFromContext returns the claims stored by BearerAuth, or nil.
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims
}

// extractBearerToken extracts the token from a Bearer Authorization header.
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// BearerAuth rejects requests without a valid Bearer token with 401.
// Accepted claims are stored in the request context and the token subject
// becomes the LogContext user.
func BearerAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="vfsmount"`)
				handlers.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "bearer token required")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				detail := "invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					detail = "token has expired"
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="vfsmount", error="invalid_token"`)
				handlers.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", detail)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			if lc := logger.FromContext(ctx); lc != nil {
				ctx = logger.WithContext(ctx, lc.WithUser(claims.User()))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
