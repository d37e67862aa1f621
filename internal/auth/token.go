package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dodream/blog-api/internal/config"
	"github.com/dodream/blog-api/internal/domain"
)

var (
	// ErrInvalidToken covers malformed, expired and badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenTypeMismatch is returned when a valid token carries the other type.
	ErrTokenTypeMismatch = errors.New("invalid token type")
)

// Claims describes JWT payload.
type Claims struct {
	Email string           `json:"email"`
	Type  domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type signingKey struct {
	secret []byte
	ttl    time.Duration
}

// TokenManager issues and validates access and refresh tokens, each with its own secret.
type TokenManager struct {
	keys map[domain.TokenType]signingKey
	now  func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		keys: map[domain.TokenType]signingKey{
			domain.TokenTypeAccess:  {secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTokenTTL},
			domain.TokenTypeRefresh: {secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTokenTTL},
		},
		now: time.Now,
	}
}

// TTL returns the lifetime of tokens of the given type.
func (tm *TokenManager) TTL(tokenType domain.TokenType) time.Duration {
	return tm.keys[tokenType].ttl
}

// IssuePair signs a fresh access/refresh pair for email.
func (tm *TokenManager) IssuePair(email string) (TokenPair, error) {
	access, err := tm.GenerateToken(domain.TokenTypeAccess, email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := tm.GenerateToken(domain.TokenTypeRefresh, email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// GenerateToken builds and signs a JWT of the given type.
func (tm *TokenManager) GenerateToken(tokenType domain.TokenType, email string) (string, error) {
	if !tokenType.Valid() {
		return "", fmt.Errorf("unknown token type %q", tokenType)
	}
	key := tm.keys[tokenType]

	now := tm.now()
	claims := &Claims{
		Email: email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   domain.AdminSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key.secret)
}

// ParseToken verifies tokenStr against the secret for tokenType and then
// requires the embedded type claim to match it.
func (tm *TokenManager) ParseToken(tokenType domain.TokenType, tokenStr string) (*Claims, error) {
	if !tokenType.Valid() {
		return nil, fmt.Errorf("unknown token type %q", tokenType)
	}
	key := tm.keys[tokenType]

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key.secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || !claims.Type.Valid() {
		return nil, ErrInvalidToken
	}
	if claims.Type != tokenType {
		return nil, ErrTokenTypeMismatch
	}
	return claims, nil
}
