// Package sqlite provides the default file-backed relational Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"impact/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS donations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	organization TEXT NOT NULL,
	amount REAL NOT NULL CHECK (amount >= 0),
	date TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_donations_user_id ON donations(user_id);

CREATE TABLE IF NOT EXISTS conversions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	person_name TEXT NOT NULL,
	conversion_date TEXT NOT NULL,
	influence_type TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversions_user_id ON conversions(user_id);

CREATE TABLE IF NOT EXISTS media_shares (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	platform TEXT NOT NULL,
	content_type TEXT NOT NULL,
	reach_estimate INTEGER NOT NULL DEFAULT 0,
	date TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_media_shares_user_id ON media_shares(user_id);

CREATE TABLE IF NOT EXISTS campaigns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	campaign_name TEXT NOT NULL,
	organization TEXT NOT NULL DEFAULT '',
	participation_type TEXT NOT NULL,
	date TEXT NOT NULL,
	impact_description TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_campaigns_user_id ON campaigns(user_id);
`

// Store persists impact records in a single SQLite database file.
// Timestamps are stored as unix milliseconds.
type Store struct {
	db *sql.DB

	now func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists. WAL and foreign key enforcement are enabled via the DSN.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: ensure data directory: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports whether the database file is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	user.CreatedAt = s.now().UTC()
	row := s.db.QueryRowContext(ctx, `
INSERT INTO users (email, name, password_hash, created_at)
VALUES (?, ?, ?, ?)
RETURNING id;
`, user.Email, user.Name, user.PasswordHash, toMillis(user.CreatedAt))
	if err := row.Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("sqlite: insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, email, name, password_hash, created_at
FROM users
WHERE email = ?;
`, email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, email, name, password_hash, created_at
FROM users
WHERE id = ?;
`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("sqlite: scan user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

func (s *Store) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	donation.CreatedAt = s.now().UTC()
	row := s.db.QueryRowContext(ctx, `
INSERT INTO donations (user_id, organization, amount, date, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id;
`, donation.UserID, donation.Organization, donation.Amount, donation.Date, donation.Notes, toMillis(donation.CreatedAt))
	if err := row.Scan(&donation.ID); err != nil {
		return fmt.Errorf("sqlite: insert donation: %w", err)
	}
	return nil
}

func (s *Store) ListDonationsByUser(ctx context.Context, userID int64) ([]domain.Donation, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, organization, amount, date, notes, created_at
FROM donations
WHERE user_id = ?
ORDER BY date DESC, created_at DESC, id DESC;
`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list donations: %w", err)
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		var createdAt int64
		if err := rows.Scan(&d.ID, &d.UserID, &d.Organization, &d.Amount, &d.Date, &d.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan donation: %w", err)
		}
		d.CreatedAt = fromMillis(createdAt)
		items = append(items, d)
	}
	return items, rows.Err()
}

func (s *Store) CreateConversion(ctx context.Context, conversion *domain.Conversion) error {
	conversion.CreatedAt = s.now().UTC()
	row := s.db.QueryRowContext(ctx, `
INSERT INTO conversions (user_id, person_name, conversion_date, influence_type, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id;
`, conversion.UserID, conversion.PersonName, conversion.ConversionDate, conversion.InfluenceType, conversion.Notes, toMillis(conversion.CreatedAt))
	if err := row.Scan(&conversion.ID); err != nil {
		return fmt.Errorf("sqlite: insert conversion: %w", err)
	}
	return nil
}

func (s *Store) ListConversionsByUser(ctx context.Context, userID int64) ([]domain.Conversion, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, person_name, conversion_date, influence_type, notes, created_at
FROM conversions
WHERE user_id = ?
ORDER BY conversion_date DESC, created_at DESC, id DESC;
`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list conversions: %w", err)
	}
	defer rows.Close()

	var items []domain.Conversion
	for rows.Next() {
		var c domain.Conversion
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.UserID, &c.PersonName, &c.ConversionDate, &c.InfluenceType, &c.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan conversion: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *Store) CreateMediaShare(ctx context.Context, share *domain.MediaShare) error {
	share.CreatedAt = s.now().UTC()
	row := s.db.QueryRowContext(ctx, `
INSERT INTO media_shares (user_id, platform, content_type, reach_estimate, date, url, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id;
`, share.UserID, share.Platform, share.ContentType, share.ReachEstimate, share.Date, share.URL, share.Notes, toMillis(share.CreatedAt))
	if err := row.Scan(&share.ID); err != nil {
		return fmt.Errorf("sqlite: insert media share: %w", err)
	}
	return nil
}

func (s *Store) ListMediaSharesByUser(ctx context.Context, userID int64) ([]domain.MediaShare, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, platform, content_type, reach_estimate, date, url, notes, created_at
FROM media_shares
WHERE user_id = ?
ORDER BY date DESC, created_at DESC, id DESC;
`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list media shares: %w", err)
	}
	defer rows.Close()

	var items []domain.MediaShare
	for rows.Next() {
		var m domain.MediaShare
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.UserID, &m.Platform, &m.ContentType, &m.ReachEstimate, &m.Date, &m.URL, &m.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan media share: %w", err)
		}
		m.CreatedAt = fromMillis(createdAt)
		items = append(items, m)
	}
	return items, rows.Err()
}

func (s *Store) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	campaign.CreatedAt = s.now().UTC()
	row := s.db.QueryRowContext(ctx, `
INSERT INTO campaigns (user_id, campaign_name, organization, participation_type, date, impact_description, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id;
`, campaign.UserID, campaign.CampaignName, campaign.Organization, campaign.ParticipationType, campaign.Date, campaign.ImpactDescription, toMillis(campaign.CreatedAt))
	if err := row.Scan(&campaign.ID); err != nil {
		return fmt.Errorf("sqlite: insert campaign: %w", err)
	}
	return nil
}

func (s *Store) ListCampaignsByUser(ctx context.Context, userID int64) ([]domain.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, campaign_name, organization, participation_type, date, impact_description, created_at
FROM campaigns
WHERE user_id = ?
ORDER BY date DESC, created_at DESC, id DESC;
`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list campaigns: %w", err)
	}
	defer rows.Close()

	var items []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.UserID, &c.CampaignName, &c.Organization, &c.ParticipationType, &c.Date, &c.ImpactDescription, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan campaign: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		items = append(items, c)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ domain.Store = (*Store)(nil)
