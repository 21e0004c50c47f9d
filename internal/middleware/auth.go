package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/fitcoach/internal/auth"
)

// TokenVerifier checks a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// RequireAuth validates the bearer token and attaches the caller's
// auth.Identity to the request context. A missing or malformed token is
// rejected with 401, a well-formed but invalid or expired one with 403.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			id, err := tokens.Verify(token)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrTokenMissing):
				writeError(w, http.StatusUnauthorized, "Access token required")
				return
			case errors.Is(err, auth.ErrTokenMalformed):
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			default:
				writeError(w, http.StatusForbidden, "Invalid token")
				return
			}

			recordUser(r.Context(), id.UserID)
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// TokenFromQuery copies the named query parameter into the Authorization
// header when the request carries none. Browsers cannot set headers on
// WebSocket upgrades.
func TokenFromQuery(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				if tok := r.URL.Query().Get(param); tok != "" {
					r = r.Clone(r.Context())
					r.Header.Set("Authorization", "Bearer "+tok)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
