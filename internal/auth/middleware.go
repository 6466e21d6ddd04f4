package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dimasprs/obrolan/internal/user"
)

const (
	authorizationHeader = "Authorization"
	apiKeyHeader        = "X-API-Key"
	bearerPrefix        = "Bearer "
	unauthorizedMessage = "Unauthorized"
	invalidTokenMessage = "Invalid token"
)

type Middleware struct {
	verifier *JWTVerifier
	users    user.Service
}

func NewMiddleware(verifier *JWTVerifier, users user.Service) *Middleware {
	return &Middleware{
		verifier: verifier,
		users:    users,
	}
}

// RequireAuth resolves the caller to a persisted user, either by API key or
// by bearer token. The core never sees an unresolved identity.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey := r.Header.Get(apiKeyHeader); apiKey != "" {
			u, err := m.users.GetByAPIKey(r.Context(), apiKey)
			if err != nil {
				http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		authHeader := r.Header.Get(authorizationHeader)
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		identity, err := m.verifier.VerifyToken(tokenString)
		if err != nil {
			http.Error(w, invalidTokenMessage, http.StatusUnauthorized)
			return
		}

		u, err := m.users.GetOrCreate(r.Context(), identity.ID, identity.Email, identity.Name)
		if err != nil {
			http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
