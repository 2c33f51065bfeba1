package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/addreeh/ph-shopping-list/internal/auth"
	"github.com/addreeh/ph-shopping-list/internal/middleware"
)

// sessionCookieMaxAge mirrors the session TTL.
const sessionCookieMaxAge = 30 * 24 * time.Hour

type AuthHandler struct {
	svc    *auth.Service
	secure bool // mark cookies Secure when serving over HTTPS
	logger *slog.Logger
}

func NewAuthHandler(svc *auth.Service, secure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, secure: secure, logger: logger}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	creds, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	h.setSessionCookie(w, creds.Token)
	writeJSON(w, http.StatusOK, map[string]any{"user": creds.User})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		DisplayName     string `json:"display_name"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	creds, err := h.svc.Register(req.Username, req.DisplayName, req.Password, req.PasswordConfirm)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			status = http.StatusConflict
		case errors.Is(err, auth.ErrAccountCreation):
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	h.setSessionCookie(w, creds.Token)
	writeJSON(w, http.StatusCreated, map[string]any{"user": creds.User})
}

// Logout always succeeds from the client's point of view: the cookie is
// cleared even when the session row was already gone.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.svc.Logout(cookie.Value)
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me resolves the session cookie to the current user. An invalid or expired
// session answers 401 and clears the cookie so the client starts clean.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	user, _ := h.svc.CurrentUser(cookie.Value)
	if user == nil {
		h.clearSessionCookie(w)
		writeError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
