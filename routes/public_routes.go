package routes

import (
	"github.com/gofiber/fiber/v2"
	config "github.com/gurukul/gurukul-backend/configs"
)

func PublicRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to Gurukul API")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	app.Static("/uploads", config.Config("UPLOADS_DIR"))
}
