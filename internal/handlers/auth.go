// Package handlers contains the HTTP route handler functions for the Open
// Invitational API. Each exported function follows the "handler factory"
// pattern: it takes its dependencies (a *gorm.DB, config, services) and
// returns a fiber.Handler. This lets us inject dependencies without globals.
//
// This file covers the /api/auth routes: registration, login, and the
// password-reset flow. Passwords are bcrypt-hashed; sessions are stateless
// HS256 JWTs minted by the middleware package.
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/trentd187/open-invitational/internal/config"
	"github.com/trentd187/open-invitational/internal/email"
	"github.com/trentd187/open-invitational/internal/middleware"
	"github.com/trentd187/open-invitational/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// resetTokenLifetime is how long a password-reset link stays valid.
const resetTokenLifetime = time.Hour

// UserResponse is the public shape of an account — no password hash, no
// reset token.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

// randomHexToken returns a cryptographically random token of 2*n hex chars.
// Used for password-reset tokens here and invite tokens in players.go.
func randomHexToken(n int) string {
	buf := make([]byte, n)
	// crypto/rand.Read only fails if the OS entropy source is broken, in
	// which case nothing in this process is trustworthy anyway.
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register creates an account and returns a signed token so the client is
// immediately logged in.
func Register(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.Email == "" || req.Password == "" || req.Name == "" {
			return badRequest(c, "email, password, and name are required")
		}

		var existing models.User
		err := db.Where("email = ?", req.Email).First(&existing).Error
		if err == nil {
			return badRequest(c, "email already registered")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return serverError(c)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return serverError(c)
		}

		user := models.User{
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			return serverError(c)
		}

		token, err := middleware.GenerateToken(cfg.JWTSecret, user.ID, user.Email)
		if err != nil {
			return serverError(c)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User created successfully",
			"token":   token,
			"user":    userResponse(&user),
		})
	}
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and returns a fresh token. Wrong email and wrong
// password produce the identical 401 so the response doesn't reveal which
// accounts exist.
func Login(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.Email == "" || req.Password == "" {
			return badRequest(c, "email and password required")
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
			}
			return serverError(c)
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}

		token, err := middleware.GenerateToken(cfg.JWTSecret, user.ID, user.Email)
		if err != nil {
			return serverError(c)
		}

		return c.JSON(fiber.Map{
			"message": "Login successful",
			"token":   token,
			"user":    userResponse(&user),
		})
	}
}

// forgotPasswordMessage is returned whether or not the email matched an
// account, so the endpoint can't be used to enumerate users.
const forgotPasswordMessage = "If an account with that email exists, a reset link has been sent."

// ForgotPassword stores a one-hour reset token and emails the reset link.
func ForgotPassword(db *gorm.DB, mailer *email.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.Email == "" {
			return badRequest(c, "email is required")
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(fiber.Map{"message": forgotPasswordMessage})
			}
			return serverError(c)
		}

		resetToken := randomHexToken(32)
		expires := time.Now().Add(resetTokenLifetime)
		updates := map[string]interface{}{
			"reset_token":         resetToken,
			"reset_token_expires": expires,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return serverError(c)
		}

		// A mail failure is deliberately not surfaced: the response would
		// otherwise reveal which addresses have accounts. The email service
		// logs the error.
		_ = mailer.SendPasswordReset(user.Email, user.Name, resetToken)

		return c.JSON(fiber.Map{"message": forgotPasswordMessage})
	}
}

// ResetPasswordRequest is the JSON body for POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword sets a new password if the token is valid and unexpired,
// then burns the token.
func ResetPassword(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ResetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.Token == "" || req.Password == "" {
			return badRequest(c, "token and password are required")
		}
		if len(req.Password) < 6 {
			return badRequest(c, "password must be at least 6 characters")
		}

		var user models.User
		err := db.Where("reset_token = ? AND reset_token_expires > ?", req.Token, time.Now()).
			First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return badRequest(c, "invalid or expired reset link")
			}
			return serverError(c)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return serverError(c)
		}

		updates := map[string]interface{}{
			"password_hash":       string(hash),
			"reset_token":         nil,
			"reset_token_expires": nil,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return serverError(c)
		}

		return c.JSON(fiber.Map{"message": "Password reset successful! You can now log in."})
	}
}

// VerifyResetToken lets the frontend check a reset link before showing the
// new-password form.
func VerifyResetToken(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")

		var user models.User
		err := db.Where("reset_token = ? AND reset_token_expires > ?", token, time.Now()).
			First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"valid": false,
					"error": "invalid or expired reset link",
				})
			}
			return serverError(c)
		}

		return c.JSON(fiber.Map{"valid": true, "email": user.Email})
	}
}
