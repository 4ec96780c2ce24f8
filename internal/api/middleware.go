package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/authcore-io/authcore/internal/auth"
)

type contextKey string

const userContextKey contextKey = "user"

// BearerAuthMiddleware resolves the bearer token from the Authorization
// header to a user. Missing, malformed, never-issued and expired tokens all
// get the same 401 response.
func (api *Api) BearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := api.Auth.ResolveUser(r.Context(), parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			log.Printf("Token resolution failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext retrieves the user set by BearerAuthMiddleware.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(userContextKey).(*auth.User)
	return user, ok
}
