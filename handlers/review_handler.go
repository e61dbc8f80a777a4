package handlers

import (
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

type CreateReviewRequest struct {
	Student string `json:"student"`
	Guru    string `json:"guru"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func CreateReview(strategy services.RatingStrategy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateReviewRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Student, Guru, and Rating are required.")
		}
		if req.Student == "" || req.Guru == "" || req.Rating == 0 {
			return utils.Fail(c, fiber.StatusBadRequest, "Student, Guru, and Rating are required.")
		}
		if req.Rating < 1 || req.Rating > 5 {
			return utils.Fail(c, fiber.StatusBadRequest, "Rating must be between 1 and 5.")
		}
		if utf8.RuneCountInString(req.Comment) > maxCommentLength {
			return utils.Fail(c, fiber.StatusBadRequest, "Comment cannot exceed 1000 characters.")
		}
		studentID, err := uuid.Parse(req.Student)
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Student not found.")
		}
		guruID, err := uuid.Parse(req.Guru)
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Guru not found.")
		}
		if !actingAs(c, studentID) {
			return utils.Fail(c, fiber.StatusForbidden, "Forbidden: you can only review as yourself")
		}

		review, err := services.CreateReview(db(c), strategy, services.ReviewInput{
			StudentID: studentID,
			GuruID:    guruID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		})
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			return utils.Fail(c, fiber.StatusBadRequest, "Rating must be between 1 and 5.")
		case errors.Is(err, services.ErrStudentNotFound):
			return utils.Fail(c, fiber.StatusBadRequest, "Student not found.")
		case errors.Is(err, services.ErrGuruNotFound):
			return utils.Fail(c, fiber.StatusBadRequest, "Guru not found.")
		case errors.Is(err, services.ErrNoCompletedSession):
			return utils.Fail(c, fiber.StatusForbidden, "Review can only be submitted after completing a session with the guru")
		case err != nil:
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		return utils.Send(c, fiber.StatusCreated, "Review submitted successfully", review)
	}
}

func GetReviews(c *fiber.Ctx) error {
	reviews, err := services.ListReviews(db(c), nil, "Student", "Guru")
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Reviews fetched successfully", reviews)
}

// GetGuruReviews lists a guru's reviews with the reviewing students' usernames.
func GetGuruReviews(c *fiber.Ctx) error {
	id, ok := paramID(c, "guruId")
	if !ok {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid guru id")
	}
	reviews, err := services.ListReviews(db(c), map[string]interface{}{"guru_id": id}, "Student")
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Reviews for guru fetched", reviews)
}

// GetStudentReviews lists a student's reviews with the reviewed gurus' usernames.
func GetStudentReviews(c *fiber.Ctx) error {
	id, ok := paramID(c, "studentId")
	if !ok {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid student id")
	}
	reviews, err := services.ListReviews(db(c), map[string]interface{}{"student_id": id}, "Guru")
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Student reviews fetched", reviews)
}

// loadReview fetches the review named by :id. Callers check ownership.
func loadReview(c *fiber.Ctx) (*models.Review, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, services.ErrReviewNotFound
	}
	var review models.Review
	err := db(c).First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrReviewNotFound
	}
	return &review, err
}

func UpdateReview(strategy services.RatingStrategy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req UpdateReviewRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
			return utils.Fail(c, fiber.StatusBadRequest, "Rating must be between 1 and 5.")
		}
		if req.Comment != nil && utf8.RuneCountInString(*req.Comment) > maxCommentLength {
			return utils.Fail(c, fiber.StatusBadRequest, "Comment cannot exceed 1000 characters.")
		}

		existing, err := loadReview(c)
		if errors.Is(err, services.ErrReviewNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Review not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		if !actingAs(c, existing.StudentID) {
			return utils.Fail(c, fiber.StatusForbidden, "Forbidden: you can only change your own reviews")
		}

		review, err := services.UpdateReview(db(c), strategy, existing.ID, req.Rating, req.Comment)
		if errors.Is(err, services.ErrReviewNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Review not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		return utils.Send(c, fiber.StatusOK, "Review updated successfully", review)
	}
}

func DeleteReview(strategy services.RatingStrategy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		existing, err := loadReview(c)
		if errors.Is(err, services.ErrReviewNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Review not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		if !actingAs(c, existing.StudentID) {
			return utils.Fail(c, fiber.StatusForbidden, "Forbidden: you can only change your own reviews")
		}

		err = services.DeleteReview(db(c), strategy, existing.ID)
		if errors.Is(err, services.ErrReviewNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Review not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		return utils.Send(c, fiber.StatusOK, "Review deleted successfully", nil)
	}
}
