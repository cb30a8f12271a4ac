package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/nish-jain4/qr-code-generator/internal/domain/port/driven"
)

const (
	sessionName  = "quantumtrust_session"
	adminFlagKey = "admin"

	// Admin sessions expire after 8 hours.
	sessionMaxAge = 8 * 60 * 60
)

// SessionManager tracks the per-session admin capability in a signed cookie.
// The flag is granted only by the Authorizer and checked by every gated
// handler; nothing mutates it in place elsewhere.
type SessionManager struct {
	store *sessions.CookieStore
	auth  driven.Authorizer
}

// NewSessionManager creates a SessionManager. key signs the session cookie;
// when it is random per process, admin sessions simply do not survive a
// restart.
func NewSessionManager(key []byte, auth driven.Authorizer) *SessionManager {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false, // set true when served over HTTPS
	}
	return &SessionManager{store: store, auth: auth}
}

// Login grants the admin flag to the caller's session when the submitted
// password passes the Authorizer. Returns false without touching the session
// on a wrong password.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, password string) (bool, error) {
	if !m.auth.Authorize(password) {
		return false, nil
	}

	session, _ := m.store.Get(r, sessionName)
	session.Values[adminFlagKey] = true
	if err := session.Save(r, w); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	return true, nil
}

// Logout drops the session.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// IsAdmin reports whether the request's session carries the admin flag.
func (m *SessionManager) IsAdmin(r *http.Request) bool {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return false
	}
	admin, ok := session.Values[adminFlagKey].(bool)
	return ok && admin
}
