package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"900": 900 * time.Second,
		"15m": 15 * time.Minute,
		"7d":  7 * 24 * time.Hour,
		"1h":  time.Hour,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "")
	t.Setenv("JWT_REFRESH_EXPIRES_IN", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "admin@admin.com", cfg.Auth.AdminEmail)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "/api", cfg.App.APIPrefix)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "owner@blog.dev")
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "900")
	t.Setenv("JWT_REFRESH_EXPIRES_IN", "7d")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "owner@blog.dev", cfg.Auth.AdminEmail)
	assert.Equal(t, 900*time.Second, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 604800*time.Second, cfg.Auth.RefreshTokenTTL)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_ACCESS_EXPIRES_IN")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Auth: AuthConfig{
			AdminEmail:      "a@b.c",
			AdminPassword:   "pw",
			AccessSecret:    "a",
			RefreshSecret:   "r",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		}}
	}

	require.NoError(t, valid().Validate())

	sameSecrets := valid()
	sameSecrets.Auth.RefreshSecret = "a"
	assert.Error(t, sameSecrets.Validate())

	noPassword := valid()
	noPassword.Auth.AdminPassword = ""
	assert.Error(t, noPassword.Validate())

	noPassword.Auth.AdminPasswordHash = "$2a$04$hash"
	assert.NoError(t, noPassword.Validate())

	zeroTTL := valid()
	zeroTTL.Auth.AccessTokenTTL = 0
	assert.Error(t, zeroTTL.Validate())
}
