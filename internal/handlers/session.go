package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// SessionCookie names the cookie carrying the sandbox session id.
const SessionCookie = "shopcheck_session"

type sessionKey struct{}

// WithSession attaches a storefront session to every request, starting a new
// one when the browser has none or presents an unknown id.
func WithSession(store *storefront.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil && store.HasSession(c.Value) {
				id = c.Value
			} else {
				id = store.NewSession()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
		})
	}
}

// SessionID returns the session id WithSession attached to r.
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}

// RequireUser redirects anonymous visitors of a protected feature to
// /signin?<feature>=true.
func RequireUser(store *storefront.Store, feature string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Snapshot(SessionID(r))
			if err != nil || sess.User == nil {
				http.Redirect(w, r, "/signin?"+feature+"=true", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// sendJSON writes v as the JSON response body.
func sendJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("error encoding response", zap.Error(err))
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, logger *zap.Logger, message string, statusCode int) {
	sendJSON(w, logger, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
