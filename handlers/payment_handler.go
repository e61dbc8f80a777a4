package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/payments"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/shopspring/decimal"
)

// OrderCreator opens payment orders with a gateway.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal) (*payments.RazorpayOrder, error)
}

type CreateOrderRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateOrder opens a gateway order for a student's checkout. The gateway's
// order object is returned unchanged.
func CreateOrder(gateway OrderCreator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateOrderRequest
		if err := c.BodyParser(&req); err != nil || !req.Amount.IsPositive() {
			return utils.Fail(c, fiber.StatusBadRequest, "A valid amount is required")
		}

		order, err := gateway.CreateOrder(c.UserContext(), req.Amount)
		if err != nil {
			logFailure(c, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Internal Server Error!",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"data":    order,
		})
	}
}
