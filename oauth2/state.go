// Package oauth2 implements the OAuth2 provider flows (Facebook,
// Google) on top of golang.org/x/oauth2. Each flow redirects to the
// provider with a one-shot state cookie, exchanges the callback code
// for a token and normalizes the provider's userinfo document into a
// quadauth.Event.
package oauth2

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"
)

const stateCookieName = "oauthstate"

// setStateCookie generates a fresh random state value, stores it in a
// short-lived cookie and returns it for inclusion in the authorization
// URL.
func setStateCookie(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})
	return state, nil
}

// checkState verifies the callback's state parameter against the
// cookie set when the flow began.
func checkState(r *http.Request) error {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		return fmt.Errorf("missing oauth state cookie")
	}
	if state := r.FormValue("state"); state == "" || state != cookie.Value {
		return fmt.Errorf("oauth state mismatch")
	}
	return nil
}
