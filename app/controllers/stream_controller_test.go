package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/watchhubtv/watchhub/internal/pkg/security"
)

func TestHandleVerifyStream(t *testing.T) {
	t.Setenv("STREAM_TOKEN_SECRET", "test-secret")

	app := fiber.New()
	app.Get("/stream/verify", HandleVerifyStream)

	token, err := security.GenerateStreamToken(7, 12, "HD", time.Minute, "test-secret")
	assert.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/stream/verify?token="+token, nil))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var claims struct {
		UserID  uint   `json:"user_id"`
		MovieID uint   `json:"movie_id"`
		Quality string `json:"quality"`
	}
	assert.NoError(t, json.Unmarshal(body, &claims))
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(12), claims.MovieID)
	assert.Equal(t, "HD", claims.Quality)
}

func TestHandleVerifyStreamRejectsBadToken(t *testing.T) {
	t.Setenv("STREAM_TOKEN_SECRET", "test-secret")

	app := fiber.New()
	app.Get("/stream/verify", HandleVerifyStream)

	resp, err := app.Test(httptest.NewRequest("GET", "/stream/verify?token=not-a-token", nil))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleVerifyStreamWithoutSecret(t *testing.T) {
	t.Setenv("STREAM_TOKEN_SECRET", "")

	app := fiber.New()
	app.Get("/stream/verify", HandleVerifyStream)

	resp, err := app.Test(httptest.NewRequest("GET", "/stream/verify?token=whatever", nil))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
