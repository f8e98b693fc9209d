// Package auth implements the identity core of the server: password
// hashing, minting and verifying signed tokens, and the bearer-token gate
// that turns an Authorization header into an Identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind selects the token flavour. Each kind has its own secret and lifetime.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")

	ErrUnknownKind   = errors.New("unknown token kind")
	ErrMissingSecret = errors.New("token secret is empty")
	ErrSameSecret    = errors.New("access and refresh secrets must differ")
)

// Claims is the payload of both token kinds.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity returns the identity part of the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}

// TokenConfig carries the signing secrets and lifetimes. It is built once
// at startup and never changes afterwards.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type kindParams struct {
	secret []byte
	ttl    time.Duration
}

// TokenManager mints and verifies HS256 tokens. It holds no mutable state
// and is safe for concurrent use.
type TokenManager struct {
	kinds map[Kind]kindParams
	now   func() time.Time
}

type TokenOption func(*TokenManager)

// WithClock replaces time.Now for both minting and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) {
		m.now = now
	}
}

func NewTokenManager(cfg TokenConfig, opts ...TokenOption) (*TokenManager, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, ErrMissingSecret
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, ErrSameSecret
	}

	m := &TokenManager{
		kinds: map[Kind]kindParams{
			KindAccess:  {secret: cfg.AccessSecret, ttl: cfg.AccessTTL},
			KindRefresh: {secret: cfg.RefreshSecret, ttl: cfg.RefreshTTL},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Mint signs a token of the given kind for id, valid from now for the
// kind's lifetime.
func (m *TokenManager) Mint(kind Kind, id Identity) (string, error) {
	p, ok := m.kinds[kind]
	if !ok {
		return "", ErrUnknownKind
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	})

	return token.SignedString(p.secret)
}

// Verify checks the token's signature against the secret of kind and its
// expiry. Failures wrap ErrTokenMalformed, ErrTokenBadSignature or
// ErrTokenExpired; a token of the other kind fails with ErrTokenBadSignature.
func (m *TokenManager) Verify(tokenString string, kind Kind) (*Claims, error) {
	p, ok := m.kinds[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		// missing exp, bad nbf and similar claim problems
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
