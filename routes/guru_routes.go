package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
)

func GuruRoutes(app *fiber.App, deps Deps) {
	guru := app.Group("/api/guru")

	guru.Post("", handlers.CreateGuru(deps.Store))
	guru.Get("", handlers.GetGurus)

	guru.Post("/transfer-payment", middleware.Protected(), middleware.AdminRequired(), handlers.TransferPayment(deps.Treasury))
	guru.Post("/add-payment", middleware.Protected(), middleware.AdminRequired(), handlers.AddPayment(deps.Treasury))
	guru.Get("/online/:id", middleware.Protected(), middleware.SelfOrAdmin("id"), handlers.SetGuruPresence(true))
	guru.Get("/offline/:id", middleware.Protected(), middleware.SelfOrAdmin("id"), handlers.SetGuruPresence(false))
	guru.Get("/stats/:id", middleware.Protected(), handlers.GetGuruStats)
	guru.Get("/verify/:id", middleware.Protected(), middleware.AdminRequired(), handlers.VerifyGuru)

	guru.Get("/:id", handlers.GetGuru)
	guru.Put("/:id", middleware.Protected(), middleware.SelfOrAdmin("id"), handlers.UpdateGuru)
	guru.Put("/:id/profile-image", middleware.Protected(), middleware.SelfOrAdmin("id"), handlers.UpdateGuruProfileImage(deps.Store))
	guru.Delete("/:id", middleware.Protected(), middleware.AdminRequired(), handlers.DeleteGuru(deps.Store))
}
