package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"impact/internal/domain"
)

// fakeStore serves canned records for a single user.
type fakeStore struct {
	user        *domain.User
	donations   []domain.Donation
	conversions []domain.Conversion
	shares      []domain.MediaShare
	campaigns   []domain.Campaign
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) ListDonationsByUser(context.Context, int64) ([]domain.Donation, error) {
	return f.donations, nil
}

func (f *fakeStore) ListConversionsByUser(context.Context, int64) ([]domain.Conversion, error) {
	return f.conversions, nil
}

func (f *fakeStore) ListMediaSharesByUser(context.Context, int64) ([]domain.MediaShare, error) {
	return f.shares, nil
}

func (f *fakeStore) ListCampaignsByUser(context.Context, int64) ([]domain.Campaign, error) {
	return f.campaigns, nil
}

func (f *fakeStore) CreateUser(context.Context, *domain.User) error { return nil }
func (f *fakeStore) GetUserByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeStore) CreateDonation(context.Context, *domain.Donation) error { return nil }
func (f *fakeStore) CreateConversion(context.Context, *domain.Conversion) error { return nil }
func (f *fakeStore) CreateMediaShare(context.Context, *domain.MediaShare) error { return nil }
func (f *fakeStore) CreateCampaign(context.Context, *domain.Campaign) error { return nil }
func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close() error { return nil }

func TestGetDashboardUserGone(t *testing.T) {
	svc := NewService(&fakeStore{})
	_, err := svc.GetDashboard(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetDashboardStats(t *testing.T) {
	store := &fakeStore{
		user: &domain.User{ID: 1, Email: "alice@example.com", Name: "Alice"},
		donations: []domain.Donation{
			{ID: 1, UserID: 1, Organization: "X", Amount: 50, Date: "2024-01-01"},
			{ID: 2, UserID: 1, Organization: "Y", Amount: 12.25, Date: "2023-12-10"},
		},
		conversions: []domain.Conversion{
			{ID: 3, UserID: 1, PersonName: "A", ConversionDate: "2024-01-02"},
			{ID: 4, UserID: 1, PersonName: "B", ConversionDate: "2024-01-03"},
			{ID: 5, UserID: 1, PersonName: "C", ConversionDate: "2024-01-04"},
		},
		shares: []domain.MediaShare{
			{ID: 6, UserID: 1, Platform: "x", ContentType: "post", ReachEstimate: 1500, Date: "2024-02-01"},
			{ID: 7, UserID: 1, Platform: "yt", ContentType: "video", ReachEstimate: 820, Date: "2024-02-02"},
		},
		campaigns: []domain.Campaign{
			{ID: 8, UserID: 1, CampaignName: "Z", ParticipationType: "petition", Date: "2024-03-01"},
		},
	}

	dash, err := NewService(store).GetDashboard(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, 62.25, dash.Stats.TotalDonations)
	require.Equal(t, 3, dash.Stats.ConversionCount)
	require.Equal(t, 2, dash.Stats.MediaShareCount)
	require.Equal(t, int64(2320), dash.Stats.TotalReach)
	require.Equal(t, 1, dash.Stats.CampaignCount)
	require.Equal(t, 3*AnimalsPerConversion, dash.Stats.AnimalsImpact)
	require.Equal(t, "alice@example.com", dash.User.Email)
}

func TestAnimalsImpactIsExactlyConversionsTimes365(t *testing.T) {
	for _, count := range []int{0, 1, 8, 100} {
		store := &fakeStore{user: &domain.User{ID: 1}}
		for i := 0; i < count; i++ {
			store.conversions = append(store.conversions, domain.Conversion{
				ID: int64(i + 1), UserID: 1, PersonName: fmt.Sprintf("p%d", i), ConversionDate: "2024-01-01",
			})
		}
		dash, err := NewService(store).GetDashboard(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, count*365, dash.Stats.AnimalsImpact)
	}
}

func TestAddingDonationIncreasesTotalByExactlyThatAmount(t *testing.T) {
	store := &fakeStore{
		user:      &domain.User{ID: 1},
		donations: []domain.Donation{{ID: 1, UserID: 1, Amount: 10.75, Date: "2024-01-01"}},
	}
	svc := NewService(store)

	before, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)

	store.donations = append(store.donations, domain.Donation{ID: 2, UserID: 1, Amount: 33.33, Date: "2024-01-02"})

	after, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.InDelta(t, before.Stats.TotalDonations+33.33, after.Stats.TotalDonations, 1e-9)
}

func TestRecentListsCappedAtTen(t *testing.T) {
	store := &fakeStore{user: &domain.User{ID: 1}}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// Store contract delivers newest first; build 15 records already ordered.
	for i := 0; i < 15; i++ {
		store.donations = append(store.donations, domain.Donation{
			ID:        int64(15 - i),
			UserID:    1,
			Amount:    1,
			Date:      fmt.Sprintf("2024-01-%02d", 15-i),
			CreatedAt: base.AddDate(0, 0, 15-i),
		})
	}

	dash, err := NewService(store).GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, dash.Recent.Donations, 10)
	require.Equal(t, "2024-01-15", dash.Recent.Donations[0].Date)
	require.Equal(t, "2024-01-06", dash.Recent.Donations[9].Date)
	require.Equal(t, float64(15), dash.Stats.TotalDonations, "stats still aggregate the full set")
}
