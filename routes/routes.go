package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/storage"
	"github.com/gurukul/gurukul-backend/websocket"
)

// Deps are the long-lived collaborators the handlers are built with.
type Deps struct {
	Treasury *services.Treasury
	Hub      *websocket.Hub
	Store    storage.FileStore
	Payments handlers.OrderCreator
	Ratings  services.RatingStrategy
}

func Setup(app *fiber.App, deps Deps) {
	PublicRoutes(app)
	AuthRoutes(app)
	GuruRoutes(app, deps)
	StudentRoutes(app, deps)
	ReviewRoutes(app, deps)
	ContentRoutes(app, deps)
	ChatRoutes(app, deps)
	TransactionRoutes(app, deps)
	SessionRoutes(app)
	PaymentRoutes(app, deps)
}
