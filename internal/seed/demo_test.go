package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"impact/internal/dashboard"
	"impact/internal/storage/jsonfile"
)

func TestEnsureDemoUser(t *testing.T) {
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "impact.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, EnsureDemoUser(ctx, store))

	user, err := store.GetUserByEmail(ctx, DemoEmail)
	require.NoError(t, err)
	require.Equal(t, "John Doe", user.Name)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	dash, err := dashboard.NewService(store).GetDashboard(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 8, dash.Stats.ConversionCount)
	require.Equal(t, 2920, dash.Stats.AnimalsImpact)
	require.NotZero(t, dash.Stats.TotalDonations)
	require.NotZero(t, dash.Stats.TotalReach)
}

func TestEnsureDemoUserIsIdempotent(t *testing.T) {
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "impact.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, EnsureDemoUser(ctx, store))
	require.NoError(t, EnsureDemoUser(ctx, store))

	user, err := store.GetUserByEmail(ctx, DemoEmail)
	require.NoError(t, err)

	conversions, err := store.ListConversionsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, conversions, 8, "second run must not duplicate demo records")
}
