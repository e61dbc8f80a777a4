package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
)

func PaymentRoutes(app *fiber.App, deps Deps) {
	payment := app.Group("/api/payment", middleware.Protected())

	payment.Post("/create-order", handlers.CreateOrder(deps.Payments))
}
