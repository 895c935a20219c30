// Package jsonfile provides a flat-document Store backed by a single JSON
// file. The whole document is rewritten on every mutation via a temp file
// and rename, so a crash never leaves a partially written document. Email
// uniqueness and referential integrity are enforced here in the application
// layer; the file format itself guarantees nothing.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"impact/internal/domain"
)

// document is the entire persisted state. A single shared counter hands out
// monotonically increasing ids across every entity type.
type document struct {
	LastID      int64               `json:"last_id"`
	Users       []domain.User       `json:"users"`
	Donations   []domain.Donation   `json:"donations"`
	Conversions []domain.Conversion `json:"conversions"`
	MediaShares []domain.MediaShare `json:"media_shares"`
	Campaigns   []domain.Campaign   `json:"campaigns"`
}

// persistedUser carries the password hash, which domain.User hides from JSON.
type persistedUser struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

type persistedDocument struct {
	LastID      int64               `json:"last_id"`
	Users       []persistedUser     `json:"users"`
	Donations   []domain.Donation   `json:"donations"`
	Conversions []domain.Conversion `json:"conversions"`
	MediaShares []domain.MediaShare `json:"media_shares"`
	Campaigns   []domain.Campaign   `json:"campaigns"`
}

// Store owns the in-process document. All reads and writes go through the
// mutex; mutations persist the full document before returning.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document

	now func() time.Time
}

// Open loads the document at path, starting from an empty document when the
// file does not exist yet.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("jsonfile: storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("jsonfile: ensure data directory: %w", err)
		}
	}

	s := &Store{path: cleanPath, now: time.Now}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("jsonfile: read document: %w", err)
	}

	var persisted persistedDocument
	if err := json.Unmarshal(data, &persisted); err != nil {
		return nil, fmt.Errorf("jsonfile: parse document: %w", err)
	}
	s.doc = document{
		LastID:      persisted.LastID,
		Donations:   persisted.Donations,
		Conversions: persisted.Conversions,
		MediaShares: persisted.MediaShares,
		Campaigns:   persisted.Campaigns,
	}
	for _, u := range persisted.Users {
		user := u.User
		user.PasswordHash = u.PasswordHash
		s.doc.Users = append(s.doc.Users, user)
	}
	return s, nil
}

// Close is a no-op; every mutation is already flushed to disk.
func (s *Store) Close() error {
	return nil
}

// Ping reports whether the document's directory is accessible.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("jsonfile: storage unreachable: %w", err)
	}
	return nil
}

// persistLocked writes the full document atomically. Callers must hold mu.
func (s *Store) persistLocked() error {
	persisted := persistedDocument{
		LastID:      s.doc.LastID,
		Donations:   s.doc.Donations,
		Conversions: s.doc.Conversions,
		MediaShares: s.doc.MediaShares,
		Campaigns:   s.doc.Campaigns,
	}
	for _, u := range s.doc.Users {
		persisted.Users = append(persisted.Users, persistedUser{User: u, PasswordHash: u.PasswordHash})
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".impact-*.json")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: replace document: %w", err)
	}
	return nil
}

func (s *Store) nextIDLocked() int64 {
	s.doc.LastID++
	return s.doc.LastID
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.doc.Users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.ID = s.nextIDLocked()
	user.CreatedAt = s.now().UTC()
	s.doc.Users = append(s.doc.Users, *user)
	if err := s.persistLocked(); err != nil {
		s.doc.Users = s.doc.Users[:len(s.doc.Users)-1]
		s.doc.LastID--
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.doc.Users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.doc.Users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	donation.ID = s.nextIDLocked()
	donation.CreatedAt = s.now().UTC()
	s.doc.Donations = append(s.doc.Donations, *donation)
	if err := s.persistLocked(); err != nil {
		s.doc.Donations = s.doc.Donations[:len(s.doc.Donations)-1]
		s.doc.LastID--
		return err
	}
	return nil
}

func (s *Store) ListDonationsByUser(ctx context.Context, userID int64) ([]domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []domain.Donation
	for _, d := range s.doc.Donations {
		if d.UserID == userID {
			items = append(items, d)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return recentFirst(items[i].Date, items[i].CreatedAt, items[i].ID, items[j].Date, items[j].CreatedAt, items[j].ID)
	})
	return items, nil
}

func (s *Store) CreateConversion(ctx context.Context, conversion *domain.Conversion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	conversion.ID = s.nextIDLocked()
	conversion.CreatedAt = s.now().UTC()
	s.doc.Conversions = append(s.doc.Conversions, *conversion)
	if err := s.persistLocked(); err != nil {
		s.doc.Conversions = s.doc.Conversions[:len(s.doc.Conversions)-1]
		s.doc.LastID--
		return err
	}
	return nil
}

func (s *Store) ListConversionsByUser(ctx context.Context, userID int64) ([]domain.Conversion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []domain.Conversion
	for _, c := range s.doc.Conversions {
		if c.UserID == userID {
			items = append(items, c)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return recentFirst(items[i].ConversionDate, items[i].CreatedAt, items[i].ID, items[j].ConversionDate, items[j].CreatedAt, items[j].ID)
	})
	return items, nil
}

func (s *Store) CreateMediaShare(ctx context.Context, share *domain.MediaShare) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	share.ID = s.nextIDLocked()
	share.CreatedAt = s.now().UTC()
	s.doc.MediaShares = append(s.doc.MediaShares, *share)
	if err := s.persistLocked(); err != nil {
		s.doc.MediaShares = s.doc.MediaShares[:len(s.doc.MediaShares)-1]
		s.doc.LastID--
		return err
	}
	return nil
}

func (s *Store) ListMediaSharesByUser(ctx context.Context, userID int64) ([]domain.MediaShare, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []domain.MediaShare
	for _, m := range s.doc.MediaShares {
		if m.UserID == userID {
			items = append(items, m)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return recentFirst(items[i].Date, items[i].CreatedAt, items[i].ID, items[j].Date, items[j].CreatedAt, items[j].ID)
	})
	return items, nil
}

func (s *Store) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign.ID = s.nextIDLocked()
	campaign.CreatedAt = s.now().UTC()
	s.doc.Campaigns = append(s.doc.Campaigns, *campaign)
	if err := s.persistLocked(); err != nil {
		s.doc.Campaigns = s.doc.Campaigns[:len(s.doc.Campaigns)-1]
		s.doc.LastID--
		return err
	}
	return nil
}

func (s *Store) ListCampaignsByUser(ctx context.Context, userID int64) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []domain.Campaign
	for _, c := range s.doc.Campaigns {
		if c.UserID == userID {
			items = append(items, c)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return recentFirst(items[i].Date, items[i].CreatedAt, items[i].ID, items[j].Date, items[j].CreatedAt, items[j].ID)
	})
	return items, nil
}

// recentFirst orders by date descending, then creation time descending, then
// id descending. Dates are YYYY-MM-DD strings, so string comparison suffices.
func recentFirst(dateI string, createdI time.Time, idI int64, dateJ string, createdJ time.Time, idJ int64) bool {
	if dateI != dateJ {
		return dateI > dateJ
	}
	if !createdI.Equal(createdJ) {
		return createdI.After(createdJ)
	}
	return idI > idJ
}

var _ domain.Store = (*Store)(nil)
