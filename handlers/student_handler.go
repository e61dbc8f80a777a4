package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/storage"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const studentTaken = "A student with this username, email or phone already exists"

// studentConflict reports whether any of the non-empty values is used by another student.
func studentConflict(tx *gorm.DB, username, email, phone string, except uuid.UUID) (bool, error) {
	checks := []struct{ column, value string }{
		{"username", strings.TrimSpace(username)},
		{"email", strings.ToLower(strings.TrimSpace(email))},
		{"phone", phone},
	}
	for _, check := range checks {
		if check.value == "" {
			continue
		}
		taken, err := valueTaken(tx, &models.Student{}, check.column, check.value, except)
		if err != nil || taken {
			return taken, err
		}
	}
	return false, nil
}

func loadStudent(c *fiber.Ctx) (*models.Student, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, services.ErrStudentNotFound
	}
	var student models.Student
	err := db(c).First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrStudentNotFound
	}
	return &student, err
}

// studentLookupFailed writes the response for an error from loadStudent.
func studentLookupFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrStudentNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "Student not found")
	}
	logFailure(c, err)
	return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
}

func CreateStudent(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := bindStudentSignup(c)
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if msg := utils.ValidationMessage(req, studentSignupMessages); msg != "" {
			return utils.Fail(c, fiber.StatusBadRequest, msg)
		}

		taken, err := studentConflict(db(c), req.Username, req.Email, req.Phone, uuid.Nil)
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		if taken {
			return utils.Fail(c, fiber.StatusConflict, studentTaken)
		}

		hashed, err := services.HashPassword(req.Password)
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}

		image, err := saveUpload(c, store, storage.KindProfile, "profileImage")
		if err != nil {
			return uploadFailed(c, storage.KindProfile, err)
		}

		languages := req.Languages
		if languages == nil {
			languages = []string{}
		}
		student := models.Student{
			Username:      req.Username,
			Email:         strings.ToLower(strings.TrimSpace(req.Email)),
			Password:      hashed,
			Phone:         req.Phone,
			ProfileImage:  image,
			AboutMe:       req.AboutMe,
			Languages:     languages,
			EnrolledGurus: []uuid.UUID{},
		}
		if req.Address != nil {
			student.Address = req.Address.model()
		}
		if err := db(c).Create(&student).Error; err != nil {
			discard(c, store, image)
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.Fail(c, fiber.StatusConflict, studentTaken)
			}
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}

		return utils.Send(c, fiber.StatusCreated, "Student created successfully", student)
	}
}

func GetStudents(c *fiber.Ctx) error {
	var students []models.Student
	if err := db(c).Order("created_at asc").Find(&students).Error; err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Students fetched successfully", students)
}

func GetStudent(c *fiber.Ctx) error {
	student, err := loadStudent(c)
	if err != nil {
		return studentLookupFailed(c, err)
	}
	return utils.Send(c, fiber.StatusOK, "Student fetched successfully", student)
}

func UpdateStudent(c *fiber.Ctx) error {
	var req StudentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if msg := utils.ValidationMessage(req, studentUpdateMessages); msg != "" {
		return utils.Fail(c, fiber.StatusBadRequest, msg)
	}

	student, err := loadStudent(c)
	if err != nil {
		return studentLookupFailed(c, err)
	}

	var username, email, phone string
	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	taken, err := studentConflict(db(c), username, email, phone, student.ID)
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	if taken {
		return utils.Fail(c, fiber.StatusConflict, studentTaken)
	}

	var columns []string
	if req.Username != nil {
		student.Username = *req.Username
		columns = append(columns, "username")
	}
	if req.Email != nil {
		student.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		columns = append(columns, "email")
	}
	if req.Password != nil {
		hashed, err := services.HashPassword(*req.Password)
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		student.Password = hashed
		columns = append(columns, "password")
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
		columns = append(columns, "phone")
	}
	if req.Address != nil {
		req.Address.apply(&student.Address)
		columns = append(columns, "address_city", "address_state", "address_country", "address_zip_code")
	}
	if req.AboutMe != nil {
		student.AboutMe = *req.AboutMe
		columns = append(columns, "about_me")
	}
	if req.Languages != nil {
		student.Languages = *req.Languages
		columns = append(columns, "languages")
	}

	if len(columns) > 0 {
		err := db(c).Model(student).Select(append(columns, "updated_at")).Updates(student).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Fail(c, fiber.StatusConflict, studentTaken)
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
	}
	return utils.Send(c, fiber.StatusOK, "Student updated successfully", student)
}

func UpdateStudentProfileImage(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		student, err := loadStudent(c)
		if err != nil {
			return studentLookupFailed(c, err)
		}

		image, err := saveUpload(c, store, storage.KindProfile, "profileImage")
		if err != nil {
			return uploadFailed(c, storage.KindProfile, err)
		}
		if image == nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Profile image is required")
		}

		previous := student.ProfileImage
		if err := db(c).Model(student).Update("profile_image", *image).Error; err != nil {
			discard(c, store, image)
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		student.ProfileImage = image
		discardReplaced(c, store, previous, image)

		return utils.Send(c, fiber.StatusOK, "Profile image updated successfully", student)
	}
}

func DeleteStudent(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		student, err := loadStudent(c)
		if err != nil {
			return studentLookupFailed(c, err)
		}

		err = db(c).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("student_id = ?", student.ID).Delete(&models.Enrollment{}).Error; err != nil {
				return errors.Wrap(err, "delete enrollments")
			}
			return errors.Wrap(tx.Delete(student).Error, "delete student")
		})
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		discard(c, store, student.ProfileImage)

		return utils.Send(c, fiber.StatusOK, "Student deleted successfully", student)
	}
}

func SetStudentPresence(online bool) fiber.Handler {
	message := "Student set to offline successfully"
	if online {
		message = "Student set to online successfully"
	}
	return func(c *fiber.Ctx) error {
		student, err := loadStudent(c)
		if err != nil {
			return studentLookupFailed(c, err)
		}
		if err := db(c).Model(student).Update("is_online", online).Error; err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		student.IsOnline = online
		return utils.Send(c, fiber.StatusOK, message, student)
	}
}

// GetEnrolledStudents lists the students enrolled with the guru named by :id.
func GetEnrolledStudents(c *fiber.Ctx) error {
	guruID, ok := paramID(c, "id")
	if !ok {
		return utils.Fail(c, fiber.StatusNotFound, "No students found for this guru")
	}
	students, err := services.EnrolledStudents(db(c), guruID)
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	if len(students) == 0 {
		return utils.Fail(c, fiber.StatusNotFound, "No students found for this guru")
	}
	return utils.Send(c, fiber.StatusOK, "Enrolled students fetched successfully", students)
}

// BookLesson enrolls the student named by ?studentId with the guru named by ?guruId.
func BookLesson(c *fiber.Ctx) error {
	rawStudent, rawGuru := c.Query("studentId"), c.Query("guruId")
	if rawStudent == "" || rawGuru == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Both studentId and guruId are required")
	}
	studentID, errS := uuid.Parse(rawStudent)
	guruID, errG := uuid.Parse(rawGuru)
	if errS != nil || errG != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid studentId or guruId")
	}
	if !actingAs(c, studentID) {
		return utils.Fail(c, fiber.StatusForbidden, "Forbidden: you can only act on your own account")
	}

	student, err := services.EnrollStudent(db(c), studentID, guruID)
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "Student not found")
	case errors.Is(err, services.ErrGuruNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return utils.SendCode(c, fiber.StatusBadRequest, 2, "Student is already subscribed to this guru", nil)
	case err != nil:
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}

	return utils.Send(c, fiber.StatusOK, "Guru successfully added to student's enrolledGurus", fiber.Map{
		"username":      student.Username,
		"enrolledGurus": student.EnrolledGurus,
	})
}
