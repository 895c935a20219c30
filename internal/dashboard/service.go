// Package dashboard computes per-user summary statistics. Every call
// re-scans the user's full record set; per-user volume is expected to stay
// small, so there is no caching or incremental maintenance.
package dashboard

import (
	"context"
	"fmt"

	"impact/internal/domain"
)

// AnimalsPerConversion is the research-derived estimate of animals spared
// annually by one person adopting a vegan diet.
const AnimalsPerConversion = 365

// recentLimit caps the per-category "recent" lists.
const recentLimit = 10

// Stats aggregates every record owned by one user.
type Stats struct {
	TotalDonations  float64 `json:"totalDonations"`
	ConversionCount int     `json:"conversionCount"`
	MediaShareCount int     `json:"mediaShareCount"`
	TotalReach      int64   `json:"totalReach"`
	CampaignCount   int     `json:"campaignCount"`
	AnimalsImpact   int     `json:"animalsImpact"`
}

// Recent holds the newest records per category, at most 10 each, ordered by
// the record's own date descending with creation time as tie-break.
type Recent struct {
	Donations   []domain.Donation   `json:"donations"`
	Conversions []domain.Conversion `json:"conversions"`
	MediaShares []domain.MediaShare `json:"mediaShares"`
	Campaigns   []domain.Campaign   `json:"campaigns"`
}

// Dashboard is the full aggregated view returned to the client.
type Dashboard struct {
	User   *domain.User `json:"user"`
	Stats  Stats        `json:"stats"`
	Recent Recent       `json:"recent"`
}

// Service aggregates stored records into dashboards.
type Service struct {
	store domain.Store
}

// NewService builds a dashboard service over the given store.
func NewService(store domain.Store) *Service {
	return &Service{store: store}
}

// GetDashboard returns the aggregated view for userID, or domain.ErrNotFound
// when the user no longer exists.
func (s *Service) GetDashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	donations, err := s.store.ListDonationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load donations: %w", err)
	}
	conversions, err := s.store.ListConversionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load conversions: %w", err)
	}
	shares, err := s.store.ListMediaSharesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load media shares: %w", err)
	}
	campaigns, err := s.store.ListCampaignsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}

	stats := Stats{
		ConversionCount: len(conversions),
		MediaShareCount: len(shares),
		CampaignCount:   len(campaigns),
		AnimalsImpact:   len(conversions) * AnimalsPerConversion,
	}
	for _, d := range donations {
		stats.TotalDonations += d.Amount
	}
	for _, m := range shares {
		stats.TotalReach += m.ReachEstimate
	}

	return &Dashboard{
		User:  user,
		Stats: stats,
		Recent: Recent{
			Donations:   head(donations),
			Conversions: head(conversions),
			MediaShares: head(shares),
			Campaigns:   head(campaigns),
		},
	}, nil
}

// head returns at most the first recentLimit items. Lists arrive from the
// store already ordered newest first.
func head[T any](items []T) []T {
	if len(items) > recentLimit {
		return items[:recentLimit]
	}
	return items
}
