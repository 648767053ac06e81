package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName     = "predict-session"
	SessionUsername = "username"
)

// Origin records how a session became authenticated.
type Origin string

const (
	OriginLogin  Origin = "login"
	OriginMarker Origin = "marker"
)

// Session is the per-request view of who is calling. Handlers receive it
// explicitly instead of reading cookies themselves.
type Session struct {
	Username      string
	Authenticated bool
	Origin        Origin
}

type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string, maxAge int) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

func (m *SessionManager) Get(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, SessionName)
}

func (m *SessionManager) SetUser(w http.ResponseWriter, r *http.Request, username string) error {
	session, err := m.Get(r)
	if err != nil && session == nil {
		return err
	}

	session.Values[SessionUsername] = username
	return session.Save(r, w)
}

func (m *SessionManager) GetUsername(r *http.Request) (string, bool) {
	session, err := m.Get(r)
	if err != nil {
		return "", false
	}

	username, ok := session.Values[SessionUsername].(string)
	return username, ok && username != ""
}
