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

// HandleListPaymentMethods returns the caller's saved payment methods.
func HandleListPaymentMethods(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	methods, err := repository.GetGlobalRepositories().PaymentMethod.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load payment methods"})
	}
	return c.JSON(fiber.Map{"payment_methods": methods})
}

// HandleAddPaymentMethod stores a new payment method's display metadata.
func HandleAddPaymentMethod(c *fiber.Ctx) error {
	var req struct {
		Provider string `json:"provider"`
		Label    string `json:"label"`
		Brand    string `json:"brand"`
		Last4    string `json:"last4"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	method := &models.PaymentMethod{
		UserID:   usercontext.GetUserID(c),
		Provider: strings.ToLower(strings.TrimSpace(req.Provider)),
		Label:    strings.TrimSpace(req.Label),
		Brand:    strings.TrimSpace(req.Brand),
		Last4:    strings.TrimSpace(req.Last4),
	}
	if err := method.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := repository.GetGlobalRepositories().PaymentMethod.Create(method); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save payment method"})
	}
	return c.Status(fiber.StatusCreated).JSON(method)
}

// HandleSetDefaultPaymentMethod makes one saved method the default.
func HandleSetDefaultPaymentMethod(c *fiber.Ctx) error {
	methodID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid payment method id"})
	}

	userID := usercontext.GetUserID(c)
	if err := repository.GetGlobalRepositories().PaymentMethod.SetDefault(methodID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Payment method not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update payment method"})
	}
	return c.JSON(fiber.Map{"message": "Default payment method updated"})
}

// HandleDeletePaymentMethod removes a saved payment method.
func HandleDeletePaymentMethod(c *fiber.Ctx) error {
	methodID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid payment method id"})
	}

	userID := usercontext.GetUserID(c)
	if err := repository.GetGlobalRepositories().PaymentMethod.Delete(methodID, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete payment method"})
	}
	return c.JSON(fiber.Map{"message": "Payment method deleted"})
}
