package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

type progressRequest struct {
	ProfileID uint    `json:"profile_id"`
	VideoID   string  `json:"video_id"`
	Position  float64 `json:"current_time"`
	Duration  float64 `json:"duration"`
}

// HandleSaveProgress records a playback position for one profile and title.
func HandleSaveProgress(c *fiber.Ctx) error {
	var req progressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if strings.TrimSpace(req.VideoID) == "" || req.ProfileID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing profile or video id"})
	}
	if req.Position < 0 || req.Duration < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Position and duration must be positive"})
	}

	userID := usercontext.GetUserID(c)
	if !ownsProfile(userID, req.ProfileID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	progress := &models.VideoProgress{
		UserID:    userID,
		ProfileID: req.ProfileID,
		VideoID:   strings.TrimSpace(req.VideoID),
	}
	progress.UpdatePosition(req.Position, req.Duration)

	if err := repository.GetGlobalRepositories().Progress.Upsert(progress); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save progress"})
	}
	return c.JSON(progress)
}

// HandleGetProgress returns the saved position for one title.
func HandleGetProgress(c *fiber.Ctx) error {
	videoID := strings.TrimSpace(c.Params("videoID"))
	profileID, err := parseUintParam(c, "profileID")
	if err != nil || videoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing profile or video id"})
	}

	userID := usercontext.GetUserID(c)
	progress, err := repository.GetGlobalRepositories().Progress.Get(userID, profileID, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No progress recorded"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load progress"})
	}

	return c.JSON(fiber.Map{
		"progress":      progress,
		"percentage":    progress.Percentage(),
		"should_resume": progress.ShouldResume(),
	})
}

// HandleContinueWatching returns resumable titles for a profile.
func HandleContinueWatching(c *fiber.Ctx) error {
	profileID, err := parseUintParam(c, "profileID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid profile id"})
	}

	userID := usercontext.GetUserID(c)
	if !ownsProfile(userID, profileID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	rows, err := repository.GetGlobalRepositories().Progress.GetContinueWatching(userID, profileID, 20)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load progress"})
	}
	return c.JSON(fiber.Map{"continue_watching": rows})
}

// HandleDeleteProgress clears the saved position for one title.
func HandleDeleteProgress(c *fiber.Ctx) error {
	videoID := strings.TrimSpace(c.Params("videoID"))
	profileID, err := parseUintParam(c, "profileID")
	if err != nil || videoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing profile or video id"})
	}

	userID := usercontext.GetUserID(c)
	if err := repository.GetGlobalRepositories().Progress.Delete(userID, profileID, videoID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete progress"})
	}
	return c.JSON(fiber.Map{"message": "Progress cleared"})
}

func ownsProfile(userID, profileID uint) bool {
	profile, err := repository.GetGlobalRepositories().Profile.GetByID(profileID)
	if err != nil {
		return false
	}
	return profile.UserID == userID
}
