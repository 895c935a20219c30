package handlers

import (
	"encoding/json"
	"net/http"

	"impact/internal/auth"
	"impact/internal/domain"
)

type mediaShareRequest struct {
	Platform      string `json:"platform"`
	ContentType   string `json:"content_type"`
	Date          string `json:"date"`
	ReachEstimate *int64 `json:"reach_estimate"`
	URL           string `json:"url"`
	Notes         string `json:"notes"`
}

// CreateMediaShare records a shared piece of advocacy media.
func (a *App) CreateMediaShare(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req mediaShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Platform == "" || req.ContentType == "" || req.Date == "" {
		a.error(w, http.StatusBadRequest, "platform, content_type, and date are required")
		return
	}

	var reach int64
	if req.ReachEstimate != nil {
		reach = *req.ReachEstimate
	}
	if reach < 0 {
		a.error(w, http.StatusBadRequest, "reach_estimate must not be negative")
		return
	}

	share := &domain.MediaShare{
		UserID:        id.UserID,
		Platform:      req.Platform,
		ContentType:   req.ContentType,
		ReachEstimate: reach,
		Date:          req.Date,
		URL:           req.URL,
		Notes:         req.Notes,
	}
	if err := a.Store.CreateMediaShare(r.Context(), share); err != nil {
		a.Logger.Error().Err(err).Msg("create media share failed")
		a.error(w, http.StatusInternalServerError, "failed to record media share")
		return
	}

	a.json(w, http.StatusCreated, map[string]int64{"id": share.ID})
}
