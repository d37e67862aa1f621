package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dodream/blog-api/internal/domain"
)

// Cookie names carrying the token pair.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieOptions is the transport policy for token cookies.
type CookieOptions struct {
	HTTPOnly bool
	Secure   bool
	SameSite string
	Path     string
}

// CookieOptionsFor returns the policy for the current environment. Cookies are
// never readable from scripts and only require TLS in production.
func CookieOptionsFor(isProduction bool) CookieOptions {
	return CookieOptions{
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	}
}

// CookieName maps a token type to the cookie that carries it.
func CookieName(tokenType domain.TokenType) string {
	if tokenType == domain.TokenTypeRefresh {
		return RefreshTokenCookie
	}
	return AccessTokenCookie
}

// NewCookie builds a token cookie with the given lifetime.
func (o CookieOptions) NewCookie(name, value string, maxAge time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		MaxAge:   int(maxAge / time.Second),
		Secure:   o.Secure,
		HTTPOnly: o.HTTPOnly,
		SameSite: o.SameSite,
	}
}

// ExpiredCookie builds a cookie that makes the browser drop name.
func (o CookieOptions) ExpiredCookie(name string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     o.Path,
		Expires:  time.Unix(0, 0),
		Secure:   o.Secure,
		HTTPOnly: o.HTTPOnly,
		SameSite: o.SameSite,
	}
}
