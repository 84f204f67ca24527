package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

// HandleGetWatchlist returns the caller's saved titles, newest first.
func HandleGetWatchlist(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	items, err := repository.GetGlobalRepositories().Watchlist.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load watchlist"})
	}
	return c.JSON(fiber.Map{"watchlist": items})
}

// HandleAddToWatchlist saves a title. Adding a title twice is a no-op.
func HandleAddToWatchlist(c *fiber.Ctx) error {
	var req struct {
		ImdbID    string `json:"imdb_id"`
		Title     string `json:"title"`
		PosterURL string `json:"poster_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	imdbID := strings.TrimSpace(req.ImdbID)
	if imdbID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing imdb id"})
	}

	userID := usercontext.GetUserID(c)
	repo := repository.GetGlobalRepositories().Watchlist

	if exists, err := repo.Exists(userID, imdbID); err == nil && exists {
		return c.JSON(fiber.Map{"message": "Already on the watchlist"})
	}

	item := &models.WatchlistItem{
		UserID:    userID,
		ImdbID:    imdbID,
		Title:     strings.TrimSpace(req.Title),
		PosterURL: strings.TrimSpace(req.PosterURL),
	}
	if err := repo.Add(item); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save title"})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleRemoveFromWatchlist deletes a title from the caller's list.
func HandleRemoveFromWatchlist(c *fiber.Ctx) error {
	imdbID := strings.TrimSpace(c.Params("imdbID"))
	if imdbID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing imdb id"})
	}

	userID := usercontext.GetUserID(c)
	if err := repository.GetGlobalRepositories().Watchlist.Remove(userID, imdbID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to remove title"})
	}
	return c.JSON(fiber.Map{"message": "Removed from watchlist"})
}
