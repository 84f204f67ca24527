package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/statistics"
)

// HandleAdminMetrics returns the cached dashboard numbers.
func HandleAdminMetrics(c *fiber.Ctx) error {
	return c.JSON(statistics.GetStatistics())
}

// HandleAdminListUsers returns a page of accounts, optionally filtered.
func HandleAdminListUsers(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	if query := strings.TrimSpace(c.Query("q")); query != "" {
		users, err := repos.User.Search(query)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Search failed"})
		}
		return c.JSON(fiber.Map{"users": users})
	}

	offset, limit := parsePagination(c)
	users, err := repos.User.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load users"})
	}
	total, err := repos.User.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load users"})
	}
	return c.JSON(fiber.Map{"users": users, "total": total})
}

// HandleAdminListSubscriptions returns a page of all subscription rows
// with per-status counts.
func HandleAdminListSubscriptions(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	offset, limit := parsePagination(c)

	subs, err := repos.Subscription.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscriptions"})
	}
	total, err := repos.Subscription.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscriptions"})
	}

	counts := fiber.Map{}
	for _, status := range []string{
		models.SubscriptionStatusPending,
		models.SubscriptionStatusActive,
		models.SubscriptionStatusCancelled,
		models.SubscriptionStatusSuspended,
		models.SubscriptionStatusExpired,
	} {
		count, err := repos.Subscription.CountByStatus(status)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscriptions"})
		}
		counts[status] = count
	}

	return c.JSON(fiber.Map{"subscriptions": subs, "total": total, "by_status": counts})
}

// HandleAdminCreateMovie adds a catalog entry.
func HandleAdminCreateMovie(c *fiber.Ctx) error {
	var movie models.Movie
	if err := c.BodyParser(&movie); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if movie.Status == "" {
		movie.Status = models.MovieStatusDraft
	}
	if err := movie.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := repository.GetGlobalRepositories().Movie.Create(&movie); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create movie"})
	}
	return c.Status(fiber.StatusCreated).JSON(movie)
}

// HandleAdminUpdateMovie edits a catalog entry.
func HandleAdminUpdateMovie(c *fiber.Ctx) error {
	movieID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid movie id"})
	}

	repos := repository.GetGlobalRepositories()
	movie, err := repos.Movie.GetByID(movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Movie not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load movie"})
	}

	if err := c.BodyParser(movie); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := movie.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := repos.Movie.Update(movie); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update movie"})
	}
	return c.JSON(movie)
}

// HandleAdminDeleteMovie removes a catalog entry.
func HandleAdminDeleteMovie(c *fiber.Ctx) error {
	movieID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid movie id"})
	}

	if err := repository.GetGlobalRepositories().Movie.Delete(movieID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete movie"})
	}
	return c.JSON(fiber.Map{"message": "Movie deleted"})
}

// HandleAdminQueueStats reports the sizes of the background job queues.
func HandleAdminQueueStats(c *fiber.Ctx) error {
	queueRepo := repository.GetGlobalRepositories().Queue

	keys, err := queueRepo.FindKeysByPatterns([]string{"jobqueue:*"})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to inspect queues"})
	}

	queues := make([]fiber.Map, 0, len(keys))
	for _, key := range keys {
		length, err := queueRepo.GetListLength(key)
		if err != nil {
			continue
		}
		queues = append(queues, fiber.Map{"key": key, "length": length})
	}
	return c.JSON(fiber.Map{"queues": queues})
}
