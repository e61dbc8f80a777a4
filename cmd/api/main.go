package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/gurukul/gurukul-backend/configs"
	"github.com/gurukul/gurukul-backend/database"
	"github.com/gurukul/gurukul-backend/jobs"
	"github.com/gurukul/gurukul-backend/notifications"
	"github.com/gurukul/gurukul-backend/payments"
	"github.com/gurukul/gurukul-backend/routes"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/storage"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/gurukul/gurukul-backend/websocket"
	"github.com/robfig/cron/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.Config("JWT_SECRET") == "" {
		log.Fatalf("🔥 JWT_SECRET must be set")
	}

	database.ConnectDB()
	database.Migrate()
	treasury := services.NewTreasury(database.SeedTreasury())
	notifications.InitEmailService()

	store, err := storage.New()
	if err != nil {
		log.Fatalf("🔥 Failed to set up file storage: %v", err)
	}

	hub := websocket.NewHub(newBroker(ctx))
	go hub.Run(ctx)

	c := cron.New()
	if err := jobs.Schedule(c); err != nil {
		log.Fatalf("🔥 Failed to schedule jobs: %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Println("✅ Settlement reminder job scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:      "Gurukul",
		BodyLimit:    50 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return utils.Fail(c, code, message)
		},
	})

	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.Config("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.Setup(app, routes.Deps{
		Treasury: treasury,
		Hub:      hub,
		Store:    store,
		Payments: payments.NewRazorpayClient(),
		Ratings:  services.ParseRatingStrategy(config.Config("RATING_STRATEGY")),
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Server shutdown: %v", err)
		}
	}()

	port := config.Config("PORT")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

// newBroker shares chat rooms through Redis when REDIS_ADDR is set and
// keeps them in process otherwise.
func newBroker(ctx context.Context) websocket.Broker {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		return websocket.NewLocalBroker()
	}
	broker, err := websocket.NewRedisBroker(ctx, addr, config.Config("REDIS_PASSWORD"))
	if err != nil {
		log.Fatalf("🔥 Failed to connect to Redis at %s: %v", addr, err)
	}
	log.Println("✅ Chat rooms shared through Redis")
	return broker
}
