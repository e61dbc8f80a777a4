package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingInput struct {
	GuruID    uuid.UUID
	StudentID uuid.UUID
	Date      time.Time
	Time      string
	Duration  int
	Price     decimal.Decimal
}

// Booking is everything one booking call wrote.
type Booking struct {
	Session     models.Session
	Transaction models.Transaction
	// NewlyEnrolled is true when this booking added the guru to the student's enrollments.
	NewlyEnrolled bool
}

// BookSession creates the pending session, its ledger entry and the enrollment
// in a single transaction. Nothing is written when either party is missing.
func BookSession(db *gorm.DB, in BookingInput) (*Booking, error) {
	var booking Booking

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Student{}, in.StudentID, ErrStudentNotFound); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Guru{}, in.GuruID, ErrGuruNotFound); err != nil {
			return err
		}

		booking.Session = models.Session{
			GuruID:    in.GuruID,
			StudentID: in.StudentID,
			Date:      in.Date,
			Time:      in.Time,
			Duration:  in.Duration,
			Price:     in.Price,
			Status:    models.SessionPending,
		}
		if err := tx.Create(&booking.Session).Error; err != nil {
			return errors.Wrap(err, "create session")
		}

		code, err := utils.GenerateUniqueTransactionCode(tx)
		if err != nil {
			return errors.Wrap(err, "generate transaction code")
		}
		booking.Transaction = models.Transaction{
			GuruID:        in.GuruID,
			StudentID:     in.StudentID,
			TransactionID: code,
			Date:          time.Now(),
			PaidToTeacher: false,
			Amount:        in.Price,
		}
		if err := tx.Create(&booking.Transaction).Error; err != nil {
			return errors.Wrap(err, "create transaction")
		}

		added, err := enroll(tx, in.StudentID, in.GuruID)
		if err != nil {
			return err
		}
		booking.NewlyEnrolled = added
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// EnrollStudent adds guruID to the student's enrollments. Both accounts must
// exist, and it fails with ErrAlreadyEnrolled when the pair is already recorded.
func EnrollStudent(db *gorm.DB, studentID, guruID uuid.UUID) (*models.Student, error) {
	var student models.Student

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Student{}, studentID, ErrStudentNotFound); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Guru{}, guruID, ErrGuruNotFound); err != nil {
			return err
		}
		added, err := enroll(tx, studentID, guruID)
		if err != nil {
			return err
		}
		if !added {
			return ErrAlreadyEnrolled
		}
		return tx.First(&student, "id = ?", studentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// enroll inserts the pair unless it exists and reports whether a row was added.
func enroll(tx *gorm.DB, studentID, guruID uuid.UUID) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Enrollment{StudentID: studentID, GuruID: guruID})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "enroll student")
	}
	return res.RowsAffected > 0, nil
}

func mustExist(tx *gorm.DB, model interface{}, id uuid.UUID, notFound error) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.Wrap(err, "lookup")
	}
	if count == 0 {
		return notFound
	}
	return nil
}
