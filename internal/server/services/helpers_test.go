package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/server/auth"
	"github.com/dmitrijs2005/fitkeeper/internal/server/models"
	"github.com/dmitrijs2005/fitkeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

var (
	t0           = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	errStoreDown = errors.New("connection refused")
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fixture struct {
	repo    *users.MemoryRepository
	hasher  *auth.BcryptHasher
	tokens  *auth.TokenManager
	clock   *fakeClock
	auth    *AuthService
	refresh *RefreshService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{now: t0}
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, auth.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}

	repo := users.NewMemoryRepository()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	return &fixture{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		clock:   clock,
		auth:    NewAuthService(repo, hasher, tokens),
		refresh: NewRefreshService(tokens),
	}
}

// seed stores a record with hash(password) directly, bypassing Signup.
func (f *fixture) seed(t *testing.T, email, password string) *models.User {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	u, err := f.repo.Insert(context.Background(), &models.User{
		Name: "Ann", Email: email, PasswordHash: hash, Phone: "555", Address: "Main st",
	})
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
	return u
}

// stubRepo lets a test pick the error each store call returns.
type stubRepo struct {
	findOut   *models.User
	findErr   error
	insertErr error
	updateErr error
	deleteErr error
}

func (s *stubRepo) FindByEmail(context.Context, string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := *s.findOut
	return &out, nil
}

func (s *stubRepo) Insert(_ context.Context, u *models.User) (*models.User, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	out := *u
	out.ID = 1
	return &out, nil
}

func (s *stubRepo) UpdatePasswordHash(context.Context, string, string) error { return s.updateErr }

func (s *stubRepo) DeleteByEmail(context.Context, string) error { return s.deleteErr }

type failingMinter struct{}

func (failingMinter) Mint(auth.Kind, auth.Identity) (string, error) {
	return "", errors.New("sign failed")
}
