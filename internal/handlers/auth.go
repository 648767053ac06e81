package handlers

import (
	"net/http"
	"strings"

	"cancerpredict/internal/auth"
	"cancerpredict/internal/metrics"
	"cancerpredict/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const msgIncorrectCredentials = "Incorrect credentials. Try again."

type loginForm struct {
	Username string `validate:"required,max=128"`
	Password string `validate:"required"`
}

type AuthHandler struct {
	templates   TemplateExecutor
	sessions    *auth.SessionManager
	userService *auth.UserService
	marker      *auth.LastUserMarker
	resolver    *middleware.AuthMiddleware
	validate    *validator.Validate
	log         zerolog.Logger
}

func NewAuthHandler(
	templates TemplateExecutor,
	sessions *auth.SessionManager,
	userService *auth.UserService,
	marker *auth.LastUserMarker,
	resolver *middleware.AuthMiddleware,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		templates:   templates,
		sessions:    sessions,
		userService: userService,
		marker:      marker,
		resolver:    resolver,
		validate:    validator.New(),
		log:         log,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already logged in, or restored from the marker
	session, err := h.resolver.Resolve(w, r)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to resolve session")
	}
	if session.Authenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, http.StatusOK, &LoginView{Title: "Login"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "", "Invalid form data")
		return
	}

	form := loginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}

	if err := h.validate.Struct(form); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		h.renderLoginError(w, r, form.Username, msgIncorrectCredentials)
		return
	}

	result, err := h.userService.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		h.log.Error().Err(err).Str("user", form.Username).Msg("credential store unavailable")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	metrics.LoginsTotal.WithLabelValues(result.String()).Inc()

	if !result.OK() {
		h.log.Warn().Str("user", form.Username).Str("remote", getClientIP(r)).Msg("login rejected")
		h.renderLoginError(w, r, form.Username, msgIncorrectCredentials)
		return
	}

	if err := h.sessions.SetUser(w, r, form.Username); err != nil {
		h.log.Error().Err(err).Msg("session error")
		h.renderLoginError(w, r, form.Username, "Failed to create session")
		return
	}

	if err := h.marker.Write(form.Username); err != nil {
		h.log.Error().Err(err).Msg("failed to write last user marker")
	}

	h.log.Info().Str("user", form.Username).Str("result", result.String()).Msg("login succeeded")

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, username, message string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.templates.ExecuteTemplate(w, "alert.html", &Alert{Type: "error", Message: message}); err != nil {
			h.log.Error().Err(err).Msg("template error")
		}
		return
	}

	h.render(w, http.StatusUnauthorized, &LoginView{Title: "Login", Username: username, Error: message})
}

func (h *AuthHandler) render(w http.ResponseWriter, status int, view *LoginView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "login.html", view); err != nil {
		h.log.Error().Err(err).Msg("template error")
	}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
