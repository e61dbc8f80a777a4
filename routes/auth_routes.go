package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
	"github.com/gurukul/gurukul-backend/utils"
)

func AuthRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Fail(c, fiber.StatusTooManyRequests, "Too many login attempts, please try again later")
		},
	}), handlers.Login)
	auth.Get("/verify", middleware.Protected(), handlers.Verify)
}
