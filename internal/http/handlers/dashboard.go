package handlers

import (
	"errors"
	"net/http"

	"impact/internal/auth"
	"impact/internal/domain"
)

// GetDashboard returns the caller's aggregated impact view.
func (a *App) GetDashboard(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	dash, err := a.Dashboard.GetDashboard(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "user not found")
			return
		}
		a.Logger.Error().Err(err).Int64("user_id", id.UserID).Msg("dashboard failed")
		a.error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	a.json(w, http.StatusOK, dash)
}
