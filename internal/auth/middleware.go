package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dodream/blog-api/internal/domain"
	apperrors "github.com/dodream/blog-api/pkg/util"
)

const principalKey = "auth_principal"

// Guard validates the token cookie of one token type and loads the principal.
type Guard struct {
	tokens    *TokenManager
	tokenType domain.TokenType
	cookie    string
	logger    *zap.Logger
}

// NewGuard constructs a guard for tokenType.
func NewGuard(tokens *TokenManager, tokenType domain.TokenType, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{tokens: tokens, tokenType: tokenType, cookie: CookieName(tokenType), logger: logger}
}

// NewAccessGuard protects regular API calls.
func NewAccessGuard(tokens *TokenManager, logger *zap.Logger) *Guard {
	return NewGuard(tokens, domain.TokenTypeAccess, logger)
}

// NewRefreshGuard protects the refresh endpoint.
func NewRefreshGuard(tokens *TokenManager, logger *zap.Logger) *Guard {
	return NewGuard(tokens, domain.TokenTypeRefresh, logger)
}

// Handle enforces authentication for protected routes.
func (g *Guard) Handle(c *fiber.Ctx) error {
	raw := c.Cookies(g.cookie)
	if raw == "" {
		g.logger.Debug("token cookie missing", zap.String("cookie", g.cookie))
		return apperrors.NewUnauthorized("unauthorized")
	}

	claims, err := g.tokens.ParseToken(g.tokenType, raw)
	if err != nil {
		g.logger.Debug("token rejected", zap.String("cookie", g.cookie), zap.Error(err))
		return apperrors.NewUnauthorized("unauthorized")
	}

	c.Locals(principalKey, &domain.Principal{UserID: claims.Subject, Email: claims.Email})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
