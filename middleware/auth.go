package middleware

import (
	"context"
	"net/http"
	"strings"

	"drugweb/token"
	"drugweb/utils"
)

// SessionContextKey is the key the authenticated identity is stored under
// in the request context.
var SessionContextKey = &contextKey{"Session"}

type contextKey struct {
	name string
}

// RequireRole parses the Bearer session token, checks the role matches and
// stores the identity in the request context for the handler.
func RequireRole(secret []byte, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.HandleError(w, http.StatusUnauthorized, "Please login first")
				return
			}

			claims, err := token.Parse(secret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				utils.HandleError(w, http.StatusUnauthorized, "Please login first")
				return
			}

			if claims.Role != role {
				utils.HandleError(w, http.StatusForbidden, "You are not allowed to access this page")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the authenticated identity set by RequireRole.
func SessionFrom(r *http.Request) *token.SessionClaims {
	claims, _ := r.Context().Value(SessionContextKey).(*token.SessionClaims)
	return claims
}
