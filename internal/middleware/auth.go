package middleware

import (
	"context"
	"net/http"
	"strings"

	"cafe-sklad-api/internal/model"
	"cafe-sklad-api/internal/service"
	"cafe-sklad-api/pkg/apierror"
)

// SessionKey is the context key under which the resolved session is stored.
const SessionKey contextKey = "session"

// NewAuth creates the session-resolving middleware. The token comes from
// the X-Token header or an Authorization Bearer value; the resolved session
// is threaded through the request context so handlers never touch ambient
// state.
func NewAuth(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeError(w, apierror.Unauthorized("Authentication required. Use X-Token or a Bearer token."))
				return
			}

			sess, err := sessions.Get(r.Context(), token)
			if err != nil {
				writeError(w, apierror.Unauthorized("Invalid or expired session"))
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the session token from the request headers.
func TokenFromRequest(r *http.Request) string {
	if token := r.Header.Get("X-Token"); token != "" {
		return token
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// SessionFromContext retrieves the session placed by NewAuth. Returns nil
// outside the authenticated route group.
func SessionFromContext(ctx context.Context) *model.SessionData {
	if sess, ok := ctx.Value(SessionKey).(*model.SessionData); ok {
		return sess
	}
	return nil
}

func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}
