package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"precioustime/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// SessionContextKey carries the wizard session ID through a request
const SessionContextKey ContextKey = "session"

// EnsureSession guarantees every wizard request carries a session cookie,
// issuing one on first contact, and puts the session ID on the context.
func EnsureSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(security.SessionCookieName); err == nil && cookie.Value != "" {
			id = cookie.Value
		} else {
			id = security.NewSessionID()
			http.SetCookie(w, security.NewSessionCookie(r, id))
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, id)
		next(w, r.WithContext(ctx))
	}
}

// SessionFromContext retrieves the session ID placed by EnsureSession
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionContextKey).(string)
	return id
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
