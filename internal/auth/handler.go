package auth

import (
	"errors"
	"log"
	"strings"

	"controlstock-backend/internal/branchdb"
	"controlstock-backend/internal/config"
	"controlstock-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Please provide username and password")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Please provide username and password")
		}

		db := branchdb.FromCtx(c)

		var user models.User
		err := db.
			Where("username = ? AND (deleted IS NULL OR deleted = 0)", strings.TrimSpace(body.Username)).
			First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
			}
			log.Println("login query failed:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Server Error during login")
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Server Error during login")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"token":   token,
			"user": fiber.Map{
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}

// POST /api/auth/register (admin only). The legacy database carried
// plain-text passwords; new accounts are created with a bcrypt hash.
func RegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "username, password (min 6) and role are required")
		}

		db := branchdb.FromCtx(c)

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Username: strings.TrimSpace(body.Username),
			Password: string(hash),
			Role:     body.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"user": fiber.Map{
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}
