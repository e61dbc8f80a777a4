package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
	"github.com/gurukul/gurukul-backend/models"
)

func ContentRoutes(app *fiber.App, deps Deps) {
	content := app.Group("/api/content")

	content.Get("/guru/:guruId", handlers.GetContentByGuru)
	content.Get("/:id", handlers.GetContent)

	content.Post("", middleware.Protected(), middleware.RequireRole(models.RoleGuru, models.RoleAdmin), handlers.CreateContent(deps.Store))
	content.Put("/:id", middleware.Protected(), handlers.UpdateContent(deps.Store))
	content.Delete("/:id", middleware.Protected(), handlers.DeleteContent(deps.Store))
}
