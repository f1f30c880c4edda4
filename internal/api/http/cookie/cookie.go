// Package cookie centralizes the auth cookies: one long-lived session cookie
// and one short-lived pre-2FA challenge cookie. Login always sets one and
// clears the other so a browser never holds both.
package cookie

import (
	"net/http"
	"time"

	"github.com/blacknode/vault-server/internal/model"
)

const (
	// SessionName holds the opaque session token.
	SessionName = "vault_session"
	// ChallengeName holds the pre-2FA challenge token between password
	// verification and the TOTP step.
	ChallengeName = "vault_pre2fa"
)

// Writer stamps auth cookies with consistent flags.
type Writer struct {
	secure bool
}

// NewWriter creates a cookie writer. secure controls the Secure flag, off
// for plain-HTTP development setups.
func NewWriter(secure bool) *Writer {
	return &Writer{secure: secure}
}

func (cw *Writer) set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cw.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (cw *Writer) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cw.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetSession stores the session token for the full session lifetime.
func (cw *Writer) SetSession(w http.ResponseWriter, token string) {
	cw.set(w, SessionName, token, model.SessionDuration)
}

// ClearSession expires the session cookie.
func (cw *Writer) ClearSession(w http.ResponseWriter) {
	cw.clear(w, SessionName)
}

// SetChallenge stores the pre-2FA challenge token for the challenge window.
func (cw *Writer) SetChallenge(w http.ResponseWriter, token string) {
	cw.set(w, ChallengeName, token, model.ChallengeDuration)
}

// ClearChallenge expires the pre-2FA challenge cookie.
func (cw *Writer) ClearChallenge(w http.ResponseWriter) {
	cw.clear(w, ChallengeName)
}
