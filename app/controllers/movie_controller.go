package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/metrics/counter"
	"github.com/watchhubtv/watchhub/internal/pkg/omdb"
)

var omdbClient *omdb.Client

// SetOMDbClient wires the metadata client used for catalog enrichment.
func SetOMDbClient(client *omdb.Client) {
	omdbClient = client
}

// HandleBrowseCatalog returns a page of published titles.
func HandleBrowseCatalog(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)

	repos := repository.GetGlobalRepositories()
	movies, err := repos.Movie.GetPublished(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load catalog"})
	}
	total, err := repos.Movie.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load catalog"})
	}

	return c.JSON(fiber.Map{"movies": movies, "total": total})
}

// HandleTrending returns the most-watched published titles.
func HandleTrending(c *fiber.Ctx) error {
	movies, err := repository.GetGlobalRepositories().Movie.GetTopViewed(10)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load trending titles"})
	}
	return c.JSON(fiber.Map{"movies": movies})
}

// HandleSearchCatalog searches titles locally and falls back to OMDb when
// the local catalog has no match.
func HandleSearchCatalog(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing search query"})
	}

	movies, err := repository.GetGlobalRepositories().Movie.Search(query)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Search failed"})
	}
	if len(movies) > 0 {
		return c.JSON(fiber.Map{"movies": movies, "source": "catalog"})
	}

	result, err := omdbClient.Search(c.Context(), query, 1)
	if err != nil {
		if errors.Is(err, omdb.ErrNotConfigured) {
			return c.JSON(fiber.Map{"movies": movies, "source": "catalog"})
		}
		log.Printf("omdb search for %q failed: %v", query, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "provider_unavailable", "message": "Metadata provider is unavailable"})
	}

	return c.JSON(fiber.Map{"titles": result.Titles, "source": "omdb"})
}

// HandleGetMovie returns one catalog entry, enriched with OMDb metadata
// when an IMDb id is linked.
func HandleGetMovie(c *fiber.Ctx) error {
	movieID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid movie id"})
	}

	movie, err := repository.GetGlobalRepositories().Movie.GetByID(movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Movie not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load movie"})
	}
	if !movie.IsPublished() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Movie not found"})
	}

	response := fiber.Map{"movie": movie}
	if movie.ImdbID != "" {
		if meta, err := omdbClient.GetByImdbID(c.Context(), movie.ImdbID); err == nil {
			response["metadata"] = meta
		} else if !errors.Is(err, omdb.ErrNotConfigured) {
			log.Printf("omdb lookup for %s failed: %v", movie.ImdbID, err)
		}
	}
	return c.JSON(response)
}

// HandleRecordView bumps the play counter for a title. Views are buffered
// in Redis and flushed to the database in batches; when Redis is down the
// counter falls back to a direct update.
func HandleRecordView(c *fiber.Ctx) error {
	movieID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid movie id"})
	}

	if err := counter.AddMovieView(movieID); err != nil {
		log.Printf("buffered view count for movie %d failed, falling back to direct update: %v", movieID, err)
		if err := repository.GetGlobalRepositories().Movie.IncrementViews(movieID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to record view"})
		}
	}
	return c.JSON(fiber.Map{"message": "View recorded"})
}
