package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
)

func TransactionRoutes(app *fiber.App, deps Deps) {
	txn := app.Group("/api/transaction", middleware.Protected())

	txn.Post("", middleware.AdminRequired(), handlers.CreateTransaction)
	txn.Get("", middleware.AdminRequired(), handlers.GetTransactions)
	txn.Get("/:id/pay-teacher", middleware.AdminRequired(), handlers.PayTeacher(deps.Payments))
	txn.Get("/:id/receipt", handlers.GetReceipt)
}
