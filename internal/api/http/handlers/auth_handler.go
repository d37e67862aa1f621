package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dodream/blog-api/internal/api/dto"
	"github.com/dodream/blog-api/internal/auth"
	"github.com/dodream/blog-api/internal/domain"
	"github.com/dodream/blog-api/internal/service"
	"github.com/dodream/blog-api/internal/validation"
	apperrors "github.com/dodream/blog-api/pkg/util"
)

// AuthHandler exposes the admin session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setTokenCookies(c, pair)
	return c.JSON(dto.MessageResponse{Message: "login successful"})
}

// Logout handles POST /auth/logout. It needs no token so a stale session can
// always be cleared.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	opts := h.auth.CookieOptions()
	c.Cookie(opts.ExpiredCookie(auth.AccessTokenCookie))
	c.Cookie(opts.ExpiredCookie(auth.RefreshTokenCookie))
	return c.JSON(dto.MessageResponse{Message: "logout successful"})
}

// Refresh handles POST /auth/refresh behind the refresh guard.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	pair, err := h.auth.Refresh(c.UserContext(), principal.Email)
	if err != nil {
		return err
	}
	h.setTokenCookies(c, pair)
	return c.JSON(dto.MessageResponse{Message: "token refreshed"})
}

// Me handles GET /auth/me behind the access guard.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	profile := h.auth.Me(*principal)
	return c.JSON(dto.MeResponse{ID: profile.ID, Email: profile.Email, Name: profile.Name})
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, pair auth.TokenPair) {
	opts := h.auth.CookieOptions()
	c.Cookie(opts.NewCookie(auth.AccessTokenCookie, pair.AccessToken, h.auth.TokenTTL(domain.TokenTypeAccess)))
	c.Cookie(opts.NewCookie(auth.RefreshTokenCookie, pair.RefreshToken, h.auth.TokenTTL(domain.TokenTypeRefresh)))
}
