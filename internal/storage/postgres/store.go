// Package postgres provides a PostgreSQL-backed Store for deployments that
// prefer a database server over the default SQLite file.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"impact/internal/domain"
)

const uniqueViolationCode = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS donations (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	organization TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
	date TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_donations_user_id ON donations(user_id);

CREATE TABLE IF NOT EXISTS conversions (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	person_name TEXT NOT NULL,
	conversion_date TEXT NOT NULL,
	influence_type TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_conversions_user_id ON conversions(user_id);

CREATE TABLE IF NOT EXISTS media_shares (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	platform TEXT NOT NULL,
	content_type TEXT NOT NULL,
	reach_estimate BIGINT NOT NULL DEFAULT 0,
	date TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_media_shares_user_id ON media_shares(user_id);

CREATE TABLE IF NOT EXISTS campaigns (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	campaign_name TEXT NOT NULL,
	organization TEXT NOT NULL DEFAULT '',
	participation_type TEXT NOT NULL,
	date TEXT NOT NULL,
	impact_description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_campaigns_user_id ON campaigns(user_id);
`

// Store persists impact records in PostgreSQL via a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the database at databaseURL and ensures the schema exists.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("postgres: DATABASE_URL is required")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse database url: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: apply schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	row := s.pool.QueryRow(ctx, `
INSERT INTO users (email, name, password_hash)
VALUES ($1, $2, $3)
RETURNING id, created_at;
`, user.Email, user.Name, user.PasswordHash)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("postgres: insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `
SELECT id, email, name, password_hash, created_at
FROM users
WHERE email = $1;
`, email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `
SELECT id, email, name, password_hash, created_at
FROM users
WHERE id = $1;
`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: scan user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	row := s.pool.QueryRow(ctx, `
INSERT INTO donations (user_id, organization, amount, date, notes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at;
`, donation.UserID, donation.Organization, donation.Amount, donation.Date, donation.Notes)
	if err := row.Scan(&donation.ID, &donation.CreatedAt); err != nil {
		return fmt.Errorf("postgres: insert donation: %w", err)
	}
	return nil
}

func (s *Store) ListDonationsByUser(ctx context.Context, userID int64) ([]domain.Donation, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, organization, amount, date, notes, created_at
FROM donations
WHERE user_id = $1
ORDER BY date DESC, created_at DESC, id DESC;
`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list donations: %w", err)
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.UserID, &d.Organization, &d.Amount, &d.Date, &d.Notes, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan donation: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (s *Store) CreateConversion(ctx context.Context, conversion *domain.Conversion) error {
	row := s.pool.QueryRow(ctx, `
INSERT INTO conversions (user_id, person_name, conversion_date, influence_type, notes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at;
`, conversion.UserID, conversion.PersonName, conversion.ConversionDate, conversion.InfluenceType, conversion.Notes)
	if err := row.Scan(&conversion.ID, &conversion.CreatedAt); err != nil {
		return fmt.Errorf("postgres: insert conversion: %w", err)
	}
	return nil
}

func (s *Store) ListConversionsByUser(ctx context.Context, userID int64) ([]domain.Conversion, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, person_name, conversion_date, influence_type, notes, created_at
FROM conversions
WHERE user_id = $1
ORDER BY conversion_date DESC, created_at DESC, id DESC;
`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list conversions: %w", err)
	}
	defer rows.Close()

	var items []domain.Conversion
	for rows.Next() {
		var c domain.Conversion
		if err := rows.Scan(&c.ID, &c.UserID, &c.PersonName, &c.ConversionDate, &c.InfluenceType, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan conversion: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *Store) CreateMediaShare(ctx context.Context, share *domain.MediaShare) error {
	row := s.pool.QueryRow(ctx, `
INSERT INTO media_shares (user_id, platform, content_type, reach_estimate, date, url, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at;
`, share.UserID, share.Platform, share.ContentType, share.ReachEstimate, share.Date, share.URL, share.Notes)
	if err := row.Scan(&share.ID, &share.CreatedAt); err != nil {
		return fmt.Errorf("postgres: insert media share: %w", err)
	}
	return nil
}

func (s *Store) ListMediaSharesByUser(ctx context.Context, userID int64) ([]domain.MediaShare, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, platform, content_type, reach_estimate, date, url, notes, created_at
FROM media_shares
WHERE user_id = $1
ORDER BY date DESC, created_at DESC, id DESC;
`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list media shares: %w", err)
	}
	defer rows.Close()

	var items []domain.MediaShare
	for rows.Next() {
		var m domain.MediaShare
		if err := rows.Scan(&m.ID, &m.UserID, &m.Platform, &m.ContentType, &m.ReachEstimate, &m.Date, &m.URL, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan media share: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (s *Store) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	row := s.pool.QueryRow(ctx, `
INSERT INTO campaigns (user_id, campaign_name, organization, participation_type, date, impact_description)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at;
`, campaign.UserID, campaign.CampaignName, campaign.Organization, campaign.ParticipationType, campaign.Date, campaign.ImpactDescription)
	if err := row.Scan(&campaign.ID, &campaign.CreatedAt); err != nil {
		return fmt.Errorf("postgres: insert campaign: %w", err)
	}
	return nil
}

func (s *Store) ListCampaignsByUser(ctx context.Context, userID int64) ([]domain.Campaign, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, campaign_name, organization, participation_type, date, impact_description, created_at
FROM campaigns
WHERE user_id = $1
ORDER BY date DESC, created_at DESC, id DESC;
`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list campaigns: %w", err)
	}
	defer rows.Close()

	var items []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.UserID, &c.CampaignName, &c.Organization, &c.ParticipationType, &c.Date, &c.ImpactDescription, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan campaign: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

var _ domain.Store = (*Store)(nil)
