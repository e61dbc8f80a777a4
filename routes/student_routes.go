package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/handlers"
	"github.com/gurukul/gurukul-backend/middleware"
)

func StudentRoutes(app *fiber.App, deps Deps) {
	student := app.Group("/api/student")
	auth := middleware.Protected()

	student.Post("", handlers.CreateStudent(deps.Store))
	student.Get("", auth, handlers.GetStudents)
	student.Get("/booklesson", auth, handlers.BookLesson)
	student.Get("/enrolled/:id", auth, handlers.GetEnrolledStudents)
	student.Get("/online/:id", auth, middleware.SelfOrAdmin("id"), handlers.SetStudentPresence(true))
	student.Get("/offline/:id", auth, middleware.SelfOrAdmin("id"), handlers.SetStudentPresence(false))

	student.Get("/:id", auth, handlers.GetStudent)
	student.Put("/:id", auth, middleware.SelfOrAdmin("id"), handlers.UpdateStudent)
	student.Put("/:id/profile-image", auth, middleware.SelfOrAdmin("id"), handlers.UpdateStudentProfileImage(deps.Store))
	student.Delete("/:id", auth, middleware.AdminRequired(), handlers.DeleteStudent(deps.Store))
}
