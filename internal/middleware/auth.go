package middleware

import (
	"context"
	"net/http"

	"cancerpredict/internal/auth"
	"cancerpredict/internal/metrics"

	"github.com/rs/zerolog"
)

type contextKey string

const SessionContextKey contextKey = "session"

type AuthMiddleware struct {
	sessions      *auth.SessionManager
	marker        *auth.LastUserMarker
	autoReconnect bool
	log           zerolog.Logger
}

func NewAuthMiddleware(sessions *auth.SessionManager, marker *auth.LastUserMarker, autoReconnect bool, log zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:      sessions,
		marker:        marker,
		autoReconnect: autoReconnect,
		log:           log,
	}
}

// Resolve works out who is calling. A signed session cookie wins; without
// one, the last user marker is trusted as is and a cookie is issued for it.
func (m *AuthMiddleware) Resolve(w http.ResponseWriter, r *http.Request) (auth.Session, error) {
	if username, ok := m.sessions.GetUsername(r); ok {
		return auth.Session{Username: username, Authenticated: true, Origin: auth.OriginLogin}, nil
	}

	if !m.autoReconnect {
		return auth.Session{}, nil
	}

	username, err := m.marker.Read()
	if err != nil || username == "" {
		return auth.Session{}, err
	}

	if err := m.sessions.SetUser(w, r, username); err != nil {
		return auth.Session{}, err
	}
	metrics.AutoReconnectsTotal.Inc()
	m.log.Info().Str("user", username).Msg("session restored from last user marker")

	return auth.Session{Username: username, Authenticated: true, Origin: auth.OriginMarker}, nil
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Resolve(w, r)
		if err != nil {
			m.log.Error().Err(err).Msg("failed to resolve session")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !session.Authenticated {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSession returns the session RequireAuth stored in the request context.
func GetSession(r *http.Request) auth.Session {
	session, _ := r.Context().Value(SessionContextKey).(auth.Session)
	return session
}
