package routes

import (
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
)

func ChatRoutes(app *fiber.App, deps Deps) {
	chat := app.Group("/api/chat")

	chat.Use("/ws", func(c *fiber.Ctx) error {
		if !websocketcontrib.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	chat.Get("/ws", websocketcontrib.New(handlers.ServeWs(deps.Hub)))

	chat.Post("/message", middleware.Protected(), handlers.SendMessage(deps.Hub))
	chat.Get("/getchat", middleware.Protected(), handlers.GetChat)
	chat.Delete("/delete/:chatId/:messageId", middleware.Protected(), handlers.DeleteMessage)
}
