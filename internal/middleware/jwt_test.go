package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(cfg JWTConfig) *fiber.App {
	app := fiber.New()
	app.Use(JWTMiddleware(cfg))
	app.Get("/me", func(c fiber.Ctx) error {
		uc := GetUserContext(c)
		return c.JSON(fiber.Map{"user_id": uc.UserID, "host_token": uc.HostToken})
	})
	return app
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := JWTConfig{Secret: "s3cret", Issuer: "changelogd"}
	app := newProtectedApp(cfg)

	claims := NewClaims("u1", "Sam", "gh_tok", "changelogd", time.Hour)
	token := SignClaims(claims, cfg.Secret)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTMissingToken(t *testing.T) {
	app := newProtectedApp(JWTConfig{Secret: "s3cret", Issuer: "changelogd"})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTExpired(t *testing.T) {
	cfg := JWTConfig{Secret: "s3cret", Issuer: "changelogd"}
	app := newProtectedApp(cfg)

	claims := NewClaims("u1", "Sam", "gh_tok", "changelogd", -time.Hour)
	token := SignClaims(claims, cfg.Secret)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTWrongIssuer(t *testing.T) {
	cfg := JWTConfig{Secret: "s3cret", Issuer: "changelogd"}
	app := newProtectedApp(cfg)

	claims := NewClaims("u1", "Sam", "gh_tok", "someone-else", time.Hour)
	token := SignClaims(claims, cfg.Secret)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTTamperedSignature(t *testing.T) {
	cfg := JWTConfig{Secret: "s3cret", Issuer: "changelogd"}
	app := newProtectedApp(cfg)

	claims := NewClaims("u1", "Sam", "gh_tok", "changelogd", time.Hour)
	token := SignClaims(claims, "other-secret")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
