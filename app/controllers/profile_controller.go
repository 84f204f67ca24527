package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/entitlements"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

type profileRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	AvatarID string `json:"avatar_id"`
}

func validProfileType(t string) bool {
	switch t {
	case models.ProfileTypeAdult, models.ProfileTypeTeen, models.ProfileTypeKids:
		return true
	}
	return false
}

// HandleListProfiles returns the account's viewing profiles, main first.
func HandleListProfiles(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	profiles, err := repository.GetGlobalRepositories().Profile.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profiles"})
	}
	return c.JSON(fiber.Map{"profiles": profiles})
}

// HandleCreateProfile adds a viewing profile, bounded by the plan's limit.
func HandleCreateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Profile name is required"})
	}

	profileType := strings.ToLower(strings.TrimSpace(req.Type))
	if profileType == "" {
		profileType = models.ProfileTypeAdult
	}
	if !validProfileType(profileType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid profile type"})
	}

	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	count, err := repos.Profile.CountByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to check profile limit"})
	}
	limit := entitlements.MaxProfiles(entitlements.Normalize(userCtx.Tier))
	if count >= int64(limit) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "profile_limit_reached", "message": "Your plan does not allow more profiles"})
	}

	profile := &models.UserProfile{
		UserID:   userCtx.UserID,
		Name:     name,
		Type:     profileType,
		AvatarID: strings.TrimSpace(req.AvatarID),
		IsMain:   count == 0,
	}
	if err := repos.Profile.Create(profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// HandleUpdateProfile renames or retypes a profile, scoped to its owner.
func HandleUpdateProfile(c *fiber.Ctx) error {
	profileID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid profile id"})
	}

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	profile, err := repos.Profile.GetByID(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profile"})
	}
	if profile.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		profile.Name = name
	}
	if req.Type != "" {
		profileType := strings.ToLower(strings.TrimSpace(req.Type))
		if !validProfileType(profileType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid profile type"})
		}
		profile.Type = profileType
	}
	if req.AvatarID != "" {
		profile.AvatarID = strings.TrimSpace(req.AvatarID)
	}

	if err := repos.Profile.Update(profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update profile"})
	}
	return c.JSON(profile)
}

// HandleDeleteProfile removes a profile. The main profile cannot be deleted.
func HandleDeleteProfile(c *fiber.Ctx) error {
	profileID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid profile id"})
	}

	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	profile, err := repos.Profile.GetByID(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profile"})
	}
	if profile.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}
	if profile.IsMain {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "The main profile cannot be deleted"})
	}

	if err := repos.Profile.Delete(profileID, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete profile"})
	}
	return c.JSON(fiber.Map{"message": "Profile deleted"})
}
