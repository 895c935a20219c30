// Package handlers contains the HTTP route handlers. Handlers validate
// input, delegate to the auth/dashboard/storage services and map service
// failures onto HTTP status codes. Internal errors are logged server-side
// and never leak into responses.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"impact/internal/auth"
	"impact/internal/dashboard"
	"impact/internal/domain"
)

// App bundles the dependencies shared by every handler.
type App struct {
	Store     domain.Store
	Auth      *auth.Service
	Dashboard *dashboard.Service
	Logger    zerolog.Logger
	StartedAt time.Time
}

// NewApp wires the handler container.
func NewApp(store domain.Store, authSvc *auth.Service, dashSvc *dashboard.Service, logger zerolog.Logger) *App {
	return &App{
		Store:     store,
		Auth:      authSvc,
		Dashboard: dashSvc,
		Logger:    logger,
		StartedAt: time.Now(),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// AuthedHandler is a handler requiring an authenticated caller. The identity
// is passed explicitly rather than stashed in the request context.
type AuthedHandler func(w http.ResponseWriter, r *http.Request, id auth.Identity)

// Authed verifies the bearer token before invoking h. A missing or
// malformed Authorization header yields 401; a token that fails signature
// or expiry checks yields 403.
func (a *App) Authed(h AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			a.error(w, http.StatusUnauthorized, "authorization token required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			a.error(w, http.StatusUnauthorized, "authorization token required")
			return
		}
		id, err := a.Auth.VerifyToken(parts[1])
		if err != nil {
			a.error(w, http.StatusForbidden, "invalid or expired token")
			return
		}
		h(w, r, id)
	}
}
