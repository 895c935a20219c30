// Package auth implements password verification and stateless signed
// session tokens. No session state is kept server-side: logout is a
// client-side token discard.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"impact/internal/domain"
)

const (
	// MinPasswordLength is enforced at registration, before anything is stored.
	MinPasswordLength = 6

	bcryptCost = 10
	tokenTTL   = 7 * 24 * time.Hour
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

	// ErrTokenInvalid covers malformed tokens, bad signatures and expiry.
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// Identity is the authenticated caller extracted from a verified token.
// Handlers receive it as an explicit parameter, never via request context.
type Identity struct {
	UserID int64
	Email  string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// Service registers users, verifies credentials and signs session tokens.
type Service struct {
	store  domain.Store
	secret []byte
	now    func() time.Time
}

// NewService builds an auth service signing tokens with the given secret.
func NewService(store domain.Store, secret string) *Service {
	return &Service{store: store, secret: []byte(secret), now: time.Now}
}

// Register creates a new user and returns it with a freshly signed token.
// The email must not already be registered (exact match as stored).
func (s *Service) Register(ctx context.Context, email, name, password string) (*domain.User, string, error) {
	if len(password) < MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user with a new token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyToken validates the signature and expiry of a token and returns the
// identity embedded in it.
func (s *Service) VerifyToken(token string) (Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *Service) signToken(user *domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
