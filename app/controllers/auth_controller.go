package controllers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/env"
	"github.com/watchhubtv/watchhub/internal/pkg/hcaptcha"
	"github.com/watchhubtv/watchhub/internal/pkg/mail"
	"github.com/watchhubtv/watchhub/internal/pkg/token"
	"github.com/watchhubtv/watchhub/internal/pkg/usercontext"
	"github.com/watchhubtv/watchhub/internal/pkg/utils"
)

var tokenStore *token.Store

// SetTokenStore wires the bearer token store used by login and logout.
func SetTokenStore(store *token.Store) {
	tokenStore = store
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captcha_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new inactive account and sends the activation link.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if env.GetEnv("HCAPTCHA_SECRET", "") != "" {
		if ok, err := hcaptcha.Verify(req.CaptchaToken); !ok {
			log.Printf("captcha verification failed: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Captcha verification failed"})
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	repos := repository.GetGlobalRepositories()

	if _, err := repos.User.GetByEmail(email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "An account with this email already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to check existing accounts"})
	}

	user, err := models.CreateUser(strings.TrimSpace(req.Name), email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}
	if err := user.GenerateActivationToken(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to prepare activation"})
	}

	if err := repos.User.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create account"})
	}

	// Entitlement row starts unsubscribed; the subscription flow flips it.
	if err := repos.Subscriber.Upsert(&models.Subscriber{UserID: user.ID, Email: user.Email}); err != nil {
		log.Printf("creating subscriber row for user %d failed: %v", user.ID, err)
	}

	activationLink := fmt.Sprintf("%s/api/v1/auth/activate?token=%s",
		strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"), "/"),
		user.ActivationToken)
	go func() {
		if err := mail.SendActivationMail(user.Email, user.Name, activationLink); err != nil {
			log.Printf("sending activation mail to %s failed: %v", user.Email, err)
		}
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created. Check your email to activate it.",
	})
}

// HandleActivate flips an account to active when the token matches.
func HandleActivate(c *fiber.Ctx) error {
	activationToken := strings.TrimSpace(c.Query("token"))
	if activationToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing activation token"})
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByActivationToken(activationToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Invalid activation token"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Activation failed"})
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repos.User.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Activation failed"})
	}

	return c.JSON(fiber.Map{"message": "Account activated. You can log in now."})
}

// HandleLogin verifies credentials and issues a bearer token.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid email or password"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Login failed"})
	}

	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid email or password"})
	}
	if user.Status != models.STATUS_ACTIVE {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Account is not active"})
	}

	bearer, err := tokenStore.Issue(c.Context(), user.ID)
	if err != nil {
		log.Printf("issuing token for user %d failed: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Login failed"})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repos.User.Update(user); err != nil {
		log.Printf("updating last login for user %d failed: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"token": bearer,
		"user": fiber.Map{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"is_admin": user.Role == models.ROLE_ADMIN,
		},
	})
}

// HandleLogout revokes the presented bearer token.
func HandleLogout(c *fiber.Ctx) error {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		if err := tokenStore.Revoke(c.Context(), strings.TrimSpace(auth[7:])); err != nil {
			log.Printf("revoking token failed: %v", err)
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleGetMe returns the authenticated account with its entitlement.
func HandleGetMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	response := fiber.Map{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"avatar_url":    utils.GetGravatarURL(user.Email, 200),
		"is_admin":      user.Role == models.ROLE_ADMIN,
		"created_at":    user.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at": formatTimePtr(user.LastLoginAt),
		"subscription": fiber.Map{
			"subscribed": userCtx.Subscribed,
			"tier":       userCtx.Tier,
		},
	}
	return c.JSON(response)
}

// HandleForgotPassword sends a reset link. The response never reveals
// whether the email exists.
func HandleForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	response := fiber.Map{"message": "If the email exists, a reset link has been sent."}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("password reset lookup failed: %v", err)
		}
		return c.JSON(response)
	}

	resetToken, err := tokenStore.IssueResetToken(c.Context(), user.ID)
	if err != nil {
		log.Printf("issuing reset token for user %d failed: %v", user.ID, err)
		return c.JSON(response)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s",
		strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"), "/"),
		resetToken)
	go func() {
		if err := mail.SendPasswordResetMail(user.Email, resetLink); err != nil {
			log.Printf("sending reset mail to %s failed: %v", user.Email, err)
		}
	}()

	return c.JSON(response)
}

// HandleResetPassword consumes a reset token and sets the new password.
func HandleResetPassword(c *fiber.Ctx) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Password must be at least 6 characters"})
	}

	userID, err := tokenStore.ConsumeResetToken(c.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid or expired reset token"})
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Password reset failed"})
	}
	if err := user.SetPassword(req.Password); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Password reset failed"})
	}
	if err := repos.User.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Password reset failed"})
	}

	return c.JSON(fiber.Map{"message": "Password updated. You can log in now."})
}
