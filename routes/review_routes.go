package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
)

func ReviewRoutes(app *fiber.App, deps Deps) {
	review := app.Group("/api/review")

	review.Get("", handlers.GetReviews)
	review.Get("/guru/:guruId", handlers.GetGuruReviews)
	review.Get("/student/:studentId", handlers.GetStudentReviews)

	review.Post("", middleware.Protected(), handlers.CreateReview(deps.Ratings))
	review.Put("/:id", middleware.Protected(), handlers.UpdateReview(deps.Ratings))
	review.Delete("/:id", middleware.Protected(), handlers.DeleteReview(deps.Ratings))
}
