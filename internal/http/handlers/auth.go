package handlers

import (
	"errors"
	"net/http"
	"time"

	authdomain "github.com/smart-office/dashboard/backend/internal/domain/auth"
)

const internalAuthMessage = "Something went wrong. Please try again."

type authResponse struct {
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expiresAt"`
	User      authdomain.User `json:"user"`
}

func (a *API) SignUp(w http.ResponseWriter, r *http.Request) {
	var payload authdomain.Credentials
	if !decodeJSON(r, &payload) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	session, err := a.auth.SignUp(r.Context(), payload)
	if err != nil {
		a.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAuthResponse(session))
}

func (a *API) SignIn(w http.ResponseWriter, r *http.Request) {
	var payload authdomain.Credentials
	if !decodeJSON(r, &payload) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	session, err := a.auth.SignIn(r.Context(), payload)
	if err != nil {
		a.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuthResponse(session))
}

func (a *API) SignOut(w http.ResponseWriter, r *http.Request) {
	principal, ok := authdomain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Sign in required")
		return
	}
	if err := a.auth.SignOut(r.Context(), principal); err != nil {
		a.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authdomain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "auth/invalid-email", "Please enter a valid email address.")
	case errors.Is(err, authdomain.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "auth/weak-password", "Password must be at most 72 bytes.")
	case errors.Is(err, authdomain.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "auth/weak-password", "Password should be at least 6 characters.")
	case errors.Is(err, authdomain.ErrEmailInUse):
		writeError(w, http.StatusConflict, "auth/email-already-in-use", "An account with this email already exists.")
	case errors.Is(err, authdomain.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, "auth/wrong-password", "Incorrect email or password.")
	case errors.Is(err, authdomain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "Sign in required")
	default:
		a.logger.Error("auth request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "auth/internal", internalAuthMessage)
	}
}

func toAuthResponse(session authdomain.Session) authResponse {
	return authResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		User:      session.User,
	}
}
