// Package auth, middleware. Guards protected routes by validating the Bearer
// token issued at login and placing the authenticated user's ID on the
// request context.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
	"github.com/apexcoders/smart-agriculture-backend/config"
)

// ContextKey is a custom type for context keys to avoid collisions with keys
// set by other packages.
type ContextKey string

// UserIDKey is the context key under which the authenticated user's ID is stored.
const UserIDKey ContextKey = "userID"

// JWTMiddleware creates a middleware that verifies the Authorization header
// and adds the user ID to the request context. It conforms to the standard
// `func(next http.Handler) http.Handler` pattern used by chi.
func JWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("Authorization header is missing", nil))
				return
			}

			// Expected format: "Bearer {token}".
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, r, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil))
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("Invalid token", err))
				return
			}
			if !token.Valid {
				WriteError(w, r, apperror.NewAuthError("Invalid token", nil))
				return
			}
			if claims.UserID == 0 {
				WriteError(w, r, apperror.NewAuthError("Invalid token: user_id claim is missing", nil))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext retrieves the userID stored by JWTMiddleware.
// Returns 0 and false if no user ID is present.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
