// internal/session/session.go
//
// TechHub: one-shot flash cookie.
//
// Context
//   After a successful registration the handler redirects (303) back to the
//   form so a reload cannot re-post.  The success notice has to survive that
//   redirect, and the site keeps no server-side state, so it rides in a
//   short-lived cookie named “techhub_flash”.  The next GET reads it once
//   and clears it.
//
//   The cookie carries a key such as “csc:submitted”, never display text.
//   The reader maps the key back to a notice it already knows, so a forged
//   cookie can at worst show a real notice out of turn.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"encoding/base64"
	"net/http"
	"time"
)

const (
	cookieName = "techhub_flash"
	flashTTL   = 5 * time.Minute
)

// SetFlash stores value for the next request.
func SetFlash(w http.ResponseWriter, r *http.Request, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(value)),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flashTTL / time.Second),
	})
}

// PopFlash returns the pending flash value and clears the cookie.
//
// ok == false when the cookie is missing, empty, or malformed.
func PopFlash(w http.ResponseWriter, r *http.Request) (value string, ok bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}
