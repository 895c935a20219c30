package handlers

import (
	"encoding/json"
	"net/http"

	"impact/internal/auth"
	"impact/internal/domain"
)

type donationRequest struct {
	Organization string   `json:"organization"`
	Amount       *float64 `json:"amount"`
	Date         string   `json:"date"`
	Notes        string   `json:"notes"`
}

// CreateDonation records a monetary contribution for the caller.
func (a *App) CreateDonation(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Organization == "" || req.Amount == nil || req.Date == "" {
		a.error(w, http.StatusBadRequest, "organization, amount, and date are required")
		return
	}
	if *req.Amount < 0 {
		a.error(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	donation := &domain.Donation{
		UserID:       id.UserID,
		Organization: req.Organization,
		Amount:       *req.Amount,
		Date:         req.Date,
		Notes:        req.Notes,
	}
	if err := a.Store.CreateDonation(r.Context(), donation); err != nil {
		a.Logger.Error().Err(err).Msg("create donation failed")
		a.error(w, http.StatusInternalServerError, "failed to record donation")
		return
	}

	a.json(w, http.StatusCreated, map[string]int64{"id": donation.ID})
}
