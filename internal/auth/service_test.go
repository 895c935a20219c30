package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"impact/internal/domain"
	"impact/internal/storage/jsonfile"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "impact.json"))
	require.NoError(t, err)
	return NewService(store, "test-secret")
}

func TestRegisterAndVerifyToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@example.com", "Alice", "secret1")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEmpty(t, token)
	require.NotEqual(t, "secret1", user.PasswordHash, "password must never be stored in the clear")

	id, err := svc.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, id.UserID)
	require.Equal(t, "alice@example.com", id.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice@example.com", "Someone Else", "different-password")
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterShortPasswordNeverStored(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "bob@example.com", "Bob", "abc")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.store.GetUserByEmail(ctx, "bob@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "alice@example.com", "Alice", "secret1")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	id, err := svc.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, id.UserID)
	require.Equal(t, "alice@example.com", id.Email)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestService(t)
	other := newTestService(t)
	other.secret = []byte("another-secret")

	_, token, err := other.Register(context.Background(), "eve@example.com", "Eve", "secret1")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t)

	past := time.Now().Add(-8 * 24 * time.Hour)
	svc.now = func() time.Time { return past }
	_, token, err := svc.Register(context.Background(), "old@example.com", "Old", "secret1")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.VerifyToken("not.a.token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
