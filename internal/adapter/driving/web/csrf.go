package web

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfTokenBytes = 32
)

// issueCSRFToken ensures a CSRF token cookie is set on the response and
// returns the active token. If the request already has a cookie, its value
// is reused; otherwise a new token is generated and set. The cookie is
// readable by the frontend so it can echo the token in the X-CSRF-Token
// header (double-submit scheme).
func issueCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token := generateToken()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // readable by the frontend to set the header
		SameSite: http.SameSiteStrictMode,
		Secure:   false, // loopback only, never served over TLS
	})
	return token
}

// validateCSRF checks that the X-CSRF-Token header matches the cookie.
// Returns true only when both are present, non-empty and equal.
func validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	token := r.Header.Get(csrfHeaderName)
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(cookie.Value)) == 1
}

func generateToken() string {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: failed to generate random token: " + err.Error())
	}
	return hex.EncodeToString(b)
}
