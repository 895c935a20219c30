package domain

import "time"

// Dates are carried as YYYY-MM-DD strings on the wire and in storage, so
// lexicographic order matches chronological order.

// Donation records a monetary contribution to an organization.
type Donation struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Organization string    `json:"organization"`
	Amount       float64   `json:"amount"`
	Date         string    `json:"date"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Conversion records one person influenced to adopt a vegan diet.
type Conversion struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	PersonName     string    `json:"person_name"`
	ConversionDate string    `json:"conversion_date"`
	InfluenceType  string    `json:"influence_type,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// MediaShare records a piece of advocacy media shared on a platform.
type MediaShare struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Platform      string    `json:"platform"`
	ContentType   string    `json:"content_type"`
	ReachEstimate int64     `json:"reach_estimate"`
	Date          string    `json:"date"`
	URL           string    `json:"url,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Campaign records participation in an advocacy campaign.
type Campaign struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	CampaignName      string    `json:"campaign_name"`
	Organization      string    `json:"organization,omitempty"`
	ParticipationType string    `json:"participation_type"`
	Date              string    `json:"date"`
	ImpactDescription string    `json:"impact_description,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
