package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/database"
	"github.com/gurukul/gurukul-backend/middleware"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/notifications"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookSessionRequest struct {
	Guru     string          `json:"guru" validate:"required,uuid"`
	Student  string          `json:"student" validate:"required,uuid"`
	Date     flexDate        `json:"date"`
	Time     string          `json:"time" validate:"required"`
	Duration int             `json:"duration" validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

var bookSessionMessages = map[string]string{
	"guru":     "A valid guru id is required",
	"student":  "A valid student id is required",
	"time":     "Session time is required",
	"duration": "Duration must be a positive number of minutes",
}

type UpdateSessionRequest struct {
	Date     *flexDate        `json:"date"`
	Time     *string          `json:"time"`
	Duration *int             `json:"duration"`
	Price    *decimal.Decimal `json:"price"`
	Status   *string          `json:"status"`
}

func (r UpdateSessionRequest) update() services.SessionUpdate {
	upd := services.SessionUpdate{
		Time:     r.Time,
		Duration: r.Duration,
		Price:    r.Price,
		Status:   r.Status,
	}
	if r.Date != nil && !r.Date.IsZero() {
		upd.Date = &r.Date.Time
	}
	return upd
}

// sessionParty reports whether the caller is the session's guru or student, or an admin.
func sessionParty(c *fiber.Ctx, s *models.Session) bool {
	return actingAs(c, s.GuruID) || actingAs(c, s.StudentID)
}

// GetSessions lists every session for admins and the caller's own sessions otherwise.
func GetSessions(c *fiber.Ctx) error {
	scope := db(c)
	if who, ok := middleware.CurrentUser(c); ok && who.Role != models.RoleAdmin {
		scope = scope.Where("guru_id = ? OR student_id = ?", who.ID, who.ID)
	}
	sessions, err := services.ListSessions(scope)
	if err != nil {
		logFailure(c, err)
		return utils.SendSession(c, fiber.StatusInternalServerError, 1, "Server error", nil)
	}
	return utils.SendSession(c, fiber.StatusOK, 0, "Fetched all sessions", sessions)
}

func GetSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "No data found", nil)
	}
	session, err := services.GetSession(db(c), id)
	if errors.Is(err, services.ErrSessionNotFound) {
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "No data found", nil)
	}
	if err != nil {
		logFailure(c, err)
		return utils.SendSession(c, fiber.StatusInternalServerError, 1, "Server error", nil)
	}
	if !sessionParty(c, session) {
		return utils.SendSession(c, fiber.StatusForbidden, 1, "Forbidden: not a party to this session", nil)
	}
	return utils.SendSession(c, fiber.StatusOK, 0, "Fetched session", session)
}

// CreateSession books a session for a student. Students may only book for themselves.
func CreateSession(c *fiber.Ctx) error {
	var req BookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendSession(c, fiber.StatusBadRequest, 1, "Invalid request body", nil)
	}
	if msg := utils.ValidationMessage(req, bookSessionMessages); msg != "" {
		return utils.SendSession(c, fiber.StatusBadRequest, 1, msg, nil)
	}
	if req.Date.IsZero() {
		return utils.SendSession(c, fiber.StatusBadRequest, 1, "Session date is required", nil)
	}
	if req.Price.IsNegative() {
		return utils.SendSession(c, fiber.StatusBadRequest, 1, "Price cannot be negative", nil)
	}

	studentID := uuid.MustParse(req.Student)
	guruID := uuid.MustParse(req.Guru)
	if !actingAs(c, studentID) {
		return utils.SendSession(c, fiber.StatusForbidden, 1, "Students can only book sessions for themselves", nil)
	}

	booking, err := services.BookSession(db(c), services.BookingInput{
		GuruID:    guruID,
		StudentID: studentID,
		Date:      req.Date.Time,
		Time:      strings.TrimSpace(req.Time),
		Duration:  req.Duration,
		Price:     req.Price,
	})
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "Student not found")
	case errors.Is(err, services.ErrGuruNotFound):
		return utils.SendSession(c, fiber.StatusNotFound, "Guru not found", "No data found", nil)
	case err != nil:
		logFailure(c, err)
		return utils.SendSession(c, fiber.StatusInternalServerError, 1, "Server error", nil)
	}

	if notifications.EmailClient != nil {
		go notifyBooking(database.DB, booking.Session)
	}

	return utils.SendSession(c, fiber.StatusCreated, 0, "Session created successfully", booking.Session)
}

// notifyBooking emails both parties about a new session. It runs after the
// response is sent, so it uses its own context.
func notifyBooking(conn *gorm.DB, session models.Session) {
	tx := conn.WithContext(context.Background())

	var guru models.Guru
	var student models.Student
	if err := tx.Select("id", "username", "email").First(&guru, "id = ?", session.GuruID).Error; err != nil {
		log.Printf("⚠️ Booking email skipped, guru %s: %v", session.GuruID, err)
		return
	}
	if err := tx.Select("id", "username", "email").First(&student, "id = ?", session.StudentID).Error; err != nil {
		log.Printf("⚠️ Booking email skipped, student %s: %v", session.StudentID, err)
		return
	}

	subject, body := notifications.BookingConfirmedStudent(guru.Username, session.Date, session.Time, session.Price)
	notifications.SendEmail(student.Username, student.Email, subject, body)
	subject, body = notifications.BookingReceivedGuru(student.Username, session.Date, session.Time)
	notifications.SendEmail(guru.Username, guru.Email, subject, body)
}

func UpdateSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "Update failed", nil)
	}
	var req UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendSession(c, fiber.StatusBadRequest, 1, "Invalid request body", nil)
	}
	if req.Duration != nil && *req.Duration < 1 {
		return utils.SendSession(c, fiber.StatusBadRequest, 1, "Duration must be a positive number of minutes", nil)
	}
	if req.Price != nil && req.Price.IsNegative() {
		return utils.SendSession(c, fiber.StatusBadRequest, 1, "Price cannot be negative", nil)
	}

	current, err := services.GetSession(db(c), id)
	if errors.Is(err, services.ErrSessionNotFound) {
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "Update failed", nil)
	}
	if err != nil {
		logFailure(c, err)
		return utils.SendSession(c, fiber.StatusInternalServerError, 1, "Server error", nil)
	}
	if !actingAs(c, current.GuruID) {
		return utils.SendSession(c, fiber.StatusForbidden, 1, "Only the session's guru can update it", nil)
	}

	session, err := services.UpdateSession(db(c), id, req.update())
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "Update failed", nil)
	case errors.Is(err, services.ErrInvalidStatus):
		return utils.SendSession(c, fiber.StatusBadRequest, 1, "Status must be 'pending' or 'completed'", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		return utils.SendSession(c, fiber.StatusBadRequest, 1, "A completed session cannot be moved back to pending", nil)
	case err != nil:
		logFailure(c, err)
		return utils.SendSession(c, fiber.StatusInternalServerError, 1, "Server error", nil)
	}
	return utils.SendSession(c, fiber.StatusOK, 0, "Session updated successfully", session)
}

func CompleteSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "Update failed", nil)
	}
	current, err := services.GetSession(db(c), id)
	if errors.Is(err, services.ErrSessionNotFound) {
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "Update failed", nil)
	}
	if err != nil {
		logFailure(c, err)
		return utils.SendSession(c, fiber.StatusInternalServerError, 1, "Server error", nil)
	}
	if !actingAs(c, current.GuruID) {
		return utils.SendSession(c, fiber.StatusForbidden, 1, "Only the session's guru can complete it", nil)
	}

	session, err := services.CompleteSession(db(c), id)
	if err != nil {
		logFailure(c, err)
		return utils.SendSession(c, fiber.StatusInternalServerError, 1, "Server error", nil)
	}
	return utils.SendSession(c, fiber.StatusOK, 0, "session updated to 'completed'", session)
}

func DeleteSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "Delete failed", nil)
	}
	session, err := services.DeleteSession(db(c), id)
	if errors.Is(err, services.ErrSessionNotFound) {
		return utils.SendSession(c, fiber.StatusNotFound, "Session not found", "Delete failed", nil)
	}
	if err != nil {
		logFailure(c, err)
		return utils.SendSession(c, fiber.StatusInternalServerError, 1, "Server error", nil)
	}
	return utils.SendSession(c, fiber.StatusOK, 0, "Session deleted successfully", session)
}
