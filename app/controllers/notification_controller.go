package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
)

// HandleListNotifications returns the caller's notifications, newest first.
func HandleListNotifications(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repo := repository.GetGlobalRepositories().Notification

	notifications, err := repo.GetByUserID(userID, 50)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load notifications"})
	}
	unread, err := repo.CountUnread(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load notifications"})
	}

	return c.JSON(fiber.Map{"notifications": notifications, "unread_count": unread})
}

// HandleMarkNotificationRead marks one notification as read.
func HandleMarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid notification id"})
	}

	userID := usercontext.GetUserID(c)
	if err := repository.GetGlobalRepositories().Notification.MarkAsRead(notificationID, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update notification"})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// HandleMarkAllNotificationsRead marks every unread notification as read.
func HandleMarkAllNotificationsRead(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if err := repository.GetGlobalRepositories().Notification.MarkAllAsRead(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update notifications"})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// HandleDeleteNotification removes one notification.
func HandleDeleteNotification(c *fiber.Ctx) error {
	notificationID, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid notification id"})
	}

	userID := usercontext.GetUserID(c)
	if err := repository.GetGlobalRepositories().Notification.Delete(notificationID, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete notification"})
	}
	return c.JSON(fiber.Map{"message": "Notification deleted"})
}
