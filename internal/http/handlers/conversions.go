package handlers

import (
	"encoding/json"
	"net/http"

	"impact/internal/auth"
	"impact/internal/domain"
)

type conversionRequest struct {
	PersonName     string `json:"person_name"`
	ConversionDate string `json:"conversion_date"`
	InfluenceType  string `json:"influence_type"`
	Notes          string `json:"notes"`
}

// CreateConversion records a person influenced to go vegan.
func (a *App) CreateConversion(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req conversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.PersonName == "" || req.ConversionDate == "" {
		a.error(w, http.StatusBadRequest, "person_name and conversion_date are required")
		return
	}

	conversion := &domain.Conversion{
		UserID:         id.UserID,
		PersonName:     req.PersonName,
		ConversionDate: req.ConversionDate,
		InfluenceType:  req.InfluenceType,
		Notes:          req.Notes,
	}
	if err := a.Store.CreateConversion(r.Context(), conversion); err != nil {
		a.Logger.Error().Err(err).Msg("create conversion failed")
		a.error(w, http.StatusInternalServerError, "failed to record conversion")
		return
	}

	a.json(w, http.StatusCreated, map[string]int64{"id": conversion.ID})
}
