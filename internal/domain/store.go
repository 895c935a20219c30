package domain

import "context"

// Store defines persistence for users and their impact records. Three
// interchangeable backends implement it: sqlite, postgres and jsonfile.
//
// Create methods assign ID and CreatedAt on the passed record. List methods
// return every record owned by the user ordered by the record's own date
// descending, then CreatedAt descending, then ID descending.
type Store interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)

	CreateDonation(ctx context.Context, donation *Donation) error
	ListDonationsByUser(ctx context.Context, userID int64) ([]Donation, error)

	CreateConversion(ctx context.Context, conversion *Conversion) error
	ListConversionsByUser(ctx context.Context, userID int64) ([]Conversion, error)

	CreateMediaShare(ctx context.Context, share *MediaShare) error
	ListMediaSharesByUser(ctx context.Context, userID int64) ([]MediaShare, error)

	CreateCampaign(ctx context.Context, campaign *Campaign) error
	ListCampaignsByUser(ctx context.Context, userID int64) ([]Campaign, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
