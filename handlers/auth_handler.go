package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/middleware"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "All fields are required")
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "All fields are required")
	}

	account, token, err := services.Login(db(c), req.Role, req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidRole):
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid role")
	case errors.Is(err, services.ErrUserNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrInvalidPassword):
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid password")
	case err != nil:
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}

	return utils.Send(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  account,
	})
}

// Verify returns the account behind the bearer token.
func Verify(c *fiber.Ctx) error {
	who, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	account, err := services.LoadAccount(db(c), who)
	if errors.Is(err, services.ErrUserNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "User data fetched successfully", account)
}
