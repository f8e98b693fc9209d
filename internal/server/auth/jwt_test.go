package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func testTokenConfig() TokenConfig {
	return TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func newTestManager(t *testing.T, clock *fakeClock) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testTokenConfig(), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}
	return m
}

func TestNewTokenManager_SecretChecks(t *testing.T) {
	t.Parallel()

	cfg := testTokenConfig()
	cfg.RefreshSecret = nil
	_, err := NewTokenManager(cfg)
	assert.ErrorIs(t, err, ErrMissingSecret)

	cfg = testTokenConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	_, err = NewTokenManager(cfg)
	assert.ErrorIs(t, err, ErrSameSecret)
}

func TestMintVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})
	id := Identity{UserID: 7, Email: "ann@example.com"}

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		tok, err := m.Mint(kind, id)
		require.NoError(t, err, kind.String())

		claims, err := m.Verify(tok, kind)
		require.NoError(t, err, kind.String())
		assert.Equal(t, id, claims.Identity())
		assert.Equal(t, t0, claims.IssuedAt.Time.UTC())
	}
}

func TestMint_Lifetimes(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})
	id := Identity{UserID: 1, Email: "a@x.com"}

	access, err := m.Mint(KindAccess, id)
	require.NoError(t, err)
	refresh, err := m.Mint(KindRefresh, id)
	require.NoError(t, err)

	ac, err := m.Verify(access, KindAccess)
	require.NoError(t, err)
	rc, err := m.Verify(refresh, KindRefresh)
	require.NoError(t, err)

	assert.Equal(t, t0.Add(15*time.Minute), ac.ExpiresAt.Time.UTC())
	assert.Equal(t, t0.Add(7*24*time.Hour), rc.ExpiresAt.Time.UTC())
	assert.Equal(t, ac.Identity(), rc.Identity())
}

func TestMint_Deterministic(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})
	id := Identity{UserID: 3, Email: "c@x.com"}

	a, err := m.Mint(KindAccess, id)
	require.NoError(t, err)
	b, err := m.Mint(KindAccess, id)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVerify_Expiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	m := newTestManager(t, clock)

	tok, err := m.Mint(KindAccess, Identity{UserID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	clock.now = t0.Add(15*time.Minute - time.Second)
	_, err = m.Verify(tok, KindAccess)
	require.NoError(t, err)

	clock.now = t0.Add(15 * time.Minute)
	_, err = m.Verify(tok, KindAccess)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_RefreshOutlivesAccess(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: t0}
	m := newTestManager(t, clock)
	id := Identity{UserID: 1, Email: "a@x.com"}

	access, err := m.Mint(KindAccess, id)
	require.NoError(t, err)
	refresh, err := m.Mint(KindRefresh, id)
	require.NoError(t, err)

	clock.now = t0.Add(16 * time.Minute)
	_, err = m.Verify(access, KindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = m.Verify(refresh, KindRefresh)
	assert.NoError(t, err)

	clock.now = t0.Add(7 * 24 * time.Hour)
	_, err = m.Verify(refresh, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_CrossKindRejected(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})
	id := Identity{UserID: 1, Email: "a@x.com"}

	access, err := m.Mint(KindAccess, id)
	require.NoError(t, err)
	refresh, err := m.Mint(KindRefresh, id)
	require.NoError(t, err)

	_, err = m.Verify(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
	_, err = m.Verify(access, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestVerify_ForeignSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})
	other, err := NewTokenManager(TokenConfig{
		AccessSecret:  []byte("other-access"),
		RefreshSecret: []byte("other-refresh"),
		AccessTTL:     time.Hour,
		RefreshTTL:    time.Hour,
	}, WithClock(func() time.Time { return t0 }))
	require.NoError(t, err)

	tok, err := other.Mint(KindAccess, Identity{UserID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = m.Verify(tok, KindAccess)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})
	tok, err := m.Mint(KindAccess, Identity{UserID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 2,
		Email:  "b@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
		},
	}).SignedString([]byte("guess"))
	require.NoError(t, err)

	// keep the original signature over a different payload
	swapped := parts[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]
	_, err = m.Verify(swapped, KindAccess)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 1,
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(tok, KindAccess)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})

	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!.??.##"} {
		_, err := m.Verify(tok, KindAccess)
		if !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Email: "a@x.com"}).
		SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = m.Verify(tok, KindAccess)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestUnknownKind(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeClock{now: t0})

	_, err := m.Mint(Kind(9), Identity{})
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = m.Verify("x", Kind(9))
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "kind(9)", Kind(9).String())
}
