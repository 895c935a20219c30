package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"impact/internal/auth"
	"impact/internal/domain"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates a new account and returns a session token.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Email == "" || req.Name == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "email, name, and password are required")
		return
	}

	user, token, err := a.Auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooShort):
			a.error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrEmailTaken):
			a.error(w, http.StatusBadRequest, "email already registered")
		default:
			a.Logger.Error().Err(err).Msg("register failed")
			a.error(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	a.json(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login verifies credentials and returns a session token.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			a.error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		a.Logger.Error().Err(err).Msg("login failed")
		a.error(w, http.StatusInternalServerError, "login failed")
		return
	}

	a.json(w, http.StatusOK, authResponse{Token: token, User: user})
}
