// Package security issues the per-visitor session cookies that key the
// in-memory wizard state. There are no accounts; the cookie only tells two
// browsers apart.
package security

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the wizard session ID
const SessionCookieName = "pt_session"

// NewSessionID creates a new UUID for session identification
func NewSessionID() string {
	return uuid.New().String()
}

// IsSecureRequest determines if the request is over HTTPS, directly or
// behind a reverse proxy.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if r.Header.Get("X-Forwarded-Proto") == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// NewSessionCookie builds the wizard session cookie. No Expires: the wizard
// state lives for one browser session only, nothing persists across sessions.
func NewSessionCookie(r *http.Request, id string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
