package handlers

import (
	"encoding/json"
	"net/http"

	"impact/internal/auth"
	"impact/internal/domain"
)

type campaignRequest struct {
	CampaignName      string `json:"campaign_name"`
	Organization      string `json:"organization"`
	ParticipationType string `json:"participation_type"`
	Date              string `json:"date"`
	ImpactDescription string `json:"impact_description"`
}

// CreateCampaign records participation in an advocacy campaign.
func (a *App) CreateCampaign(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CampaignName == "" || req.ParticipationType == "" || req.Date == "" {
		a.error(w, http.StatusBadRequest, "campaign_name, participation_type, and date are required")
		return
	}

	campaign := &domain.Campaign{
		UserID:            id.UserID,
		CampaignName:      req.CampaignName,
		Organization:      req.Organization,
		ParticipationType: req.ParticipationType,
		Date:              req.Date,
		ImpactDescription: req.ImpactDescription,
	}
	if err := a.Store.CreateCampaign(r.Context(), campaign); err != nil {
		a.Logger.Error().Err(err).Msg("create campaign failed")
		a.error(w, http.StatusInternalServerError, "failed to record campaign participation")
		return
	}

	a.json(w, http.StatusCreated, map[string]int64{"id": campaign.ID})
}
