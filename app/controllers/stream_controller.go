package controllers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/entitlements"
	"github.com/watchhubtv/watchhub/internal/pkg/env"
	"github.com/watchhubtv/watchhub/internal/pkg/security"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

const streamTokenTTL = 4 * time.Hour

// HandleGetStream mints a signed playback URL for a title. The quality is
// capped by the subscriber's plan.
func HandleGetStream(c *fiber.Ctx) error {
	movieID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid movie id"})
	}

	secret := env.GetEnv("STREAM_TOKEN_SECRET", "")
	if secret == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "not_configured", "message": "Streaming is not configured"})
	}

	movie, err := repository.GetGlobalRepositories().Movie.GetByID(movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Movie not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load movie"})
	}
	if !movie.IsPublished() || movie.VideoURL == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Movie not found"})
	}

	uc := usercontext.GetUserContext(c)
	quality := entitlements.MaxQuality(entitlements.Normalize(uc.Tier))

	streamToken, err := security.GenerateStreamToken(uc.UserID, movieID, quality, streamTokenTTL, secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to sign stream URL"})
	}

	streamURL, err := url.Parse(movie.VideoURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Invalid video URL"})
	}
	query := streamURL.Query()
	query.Set("token", streamToken)
	streamURL.RawQuery = query.Encode()

	return c.JSON(fiber.Map{
		"stream_url": streamURL.String(),
		"quality":    quality,
		"expires_in": int64(streamTokenTTL.Seconds()),
	})
}

// HandleVerifyStream is the callback the video edge uses to validate a
// playback token before serving the file.
func HandleVerifyStream(c *fiber.Ctx) error {
	secret := env.GetEnv("STREAM_TOKEN_SECRET", "")
	if secret == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "not_configured", "message": "Streaming is not configured"})
	}

	claims, err := security.VerifyStreamToken(c.Query("token"), secret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid stream token"})
	}

	return c.JSON(fiber.Map{
		"user_id":  claims.UserID,
		"movie_id": claims.MovieID,
		"quality":  claims.Quality,
	})
}
