package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dodream/blog-api/internal/config"
	"github.com/dodream/blog-api/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AdminEmail:      "admin@admin.com",
		AdminPassword:   "12341234",
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  900 * time.Second,
		RefreshTokenTTL: 604800 * time.Second,
	}
}

func TestIssuePair_RoundTrip(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testAuthConfig())
	pair, err := tm.IssuePair("admin@admin.com")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := tm.ParseToken(domain.TokenTypeAccess, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.AdminSubject, access.Subject)
	assert.Equal(t, "admin@admin.com", access.Email)
	assert.Equal(t, domain.TokenTypeAccess, access.Type)

	refresh, err := tm.ParseToken(domain.TokenTypeRefresh, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeRefresh, refresh.Type)
	assert.Equal(t, "admin@admin.com", refresh.Email)
}

func TestIssuePair_Expiry(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testAuthConfig())
	fixed := time.Unix(1_700_000_000, 0)
	tm.now = func() time.Time { return fixed }

	pair, err := tm.IssuePair("admin@admin.com")
	require.NoError(t, err)

	access, err := tm.ParseToken(domain.TokenTypeAccess, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(900*time.Second).Unix(), access.ExpiresAt.Unix())

	refresh, err := tm.ParseToken(domain.TokenTypeRefresh, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(604800*time.Second).Unix(), refresh.ExpiresAt.Unix())
}

func TestParseToken_CrossTypeRejected(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testAuthConfig())
	pair, err := tm.IssuePair("admin@admin.com")
	require.NoError(t, err)

	_, err = tm.ParseToken(domain.TokenTypeRefresh, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.ParseToken(domain.TokenTypeAccess, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_TypeMismatchWithValidSignature(t *testing.T) {
	t.Parallel()

	// Same secret for both kinds isolates the type check from the signature check.
	cfg := testAuthConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	tm := NewTokenManager(cfg)

	refresh, err := tm.GenerateToken(domain.TokenTypeRefresh, "admin@admin.com")
	require.NoError(t, err)

	_, err = tm.ParseToken(domain.TokenTypeAccess, refresh)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestParseToken_UnknownTypeClaim(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	tm := NewTokenManager(cfg)
	claims := &Claims{
		Email: "admin@admin.com",
		Type:  domain.TokenType("session"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   domain.AdminSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	_, err = tm.ParseToken(domain.TokenTypeAccess, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestTokenManager_RejectsUnknownType(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testAuthConfig())
	_, err := tm.GenerateToken(domain.TokenType("session"), "admin@admin.com")
	assert.Error(t, err)

	pair, err := tm.IssuePair("admin@admin.com")
	require.NoError(t, err)
	_, err = tm.ParseToken(domain.TokenType(""), pair.AccessToken)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testAuthConfig())
	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := tm.GenerateToken(domain.TokenTypeAccess, "admin@admin.com")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(domain.TokenTypeAccess, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testAuthConfig())
	_, err := tm.ParseToken(domain.TokenTypeAccess, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	tm := NewTokenManager(cfg)

	claims := &Claims{
		Email: "admin@admin.com",
		Type:  domain.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   domain.AdminSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	_, err = tm.ParseToken(domain.TokenTypeAccess, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAndComparePassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("12341234", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "12341234"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestCookieOptionsFor(t *testing.T) {
	t.Parallel()

	for _, production := range []bool{true, false} {
		opts := CookieOptionsFor(production)
		assert.Equal(t, production, opts.Secure)
		assert.True(t, opts.HTTPOnly)
		assert.Equal(t, "strict", opts.SameSite)
		assert.Equal(t, "/", opts.Path)
	}
}

func TestCookieName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "access_token", CookieName(domain.TokenTypeAccess))
	assert.Equal(t, "refresh_token", CookieName(domain.TokenTypeRefresh))
}
