package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
)

func SessionRoutes(app *fiber.App) {
	session := app.Group("/api/session", middleware.Protected())

	session.Get("", handlers.GetSessions)
	session.Post("", handlers.CreateSession)
	session.Get("/:id", handlers.GetSession)
	session.Put("/:id/complete", handlers.CompleteSession)
	session.Put("/:id", handlers.UpdateSession)
	session.Delete("/:id", middleware.AdminRequired(), handlers.DeleteSession)
}
