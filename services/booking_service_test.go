package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingFor(guru *models.Guru, studentID uuid.UUID) BookingInput {
	return BookingInput{
		GuruID:    guru.ID,
		StudentID: studentID,
		Date:      time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		Time:      "10:00 AM",
		Duration:  60,
		Price:     decimal.RequireFromString("750.50"),
	}
}

func TestBookSessionWritesSessionTransactionAndEnrollment(t *testing.T) {
	db := testutil.NewDB(t)
	guru := createGuru(t, db, "asha", 0)
	student := createStudent(t, db, "ravi")

	booking, err := BookSession(db, bookingFor(guru, student.ID))
	require.NoError(t, err)

	assert.Equal(t, models.SessionPending, booking.Session.Status)
	assert.True(t, booking.NewlyEnrolled)
	assert.True(t, strings.HasPrefix(booking.Transaction.TransactionID, "TXN"))
	assert.False(t, booking.Transaction.PaidToTeacher)
	assert.True(t, booking.Transaction.Amount.Equal(decimal.RequireFromString("750.50")))

	var sessions, txns int64
	require.NoError(t, db.Model(&models.Session{}).Count(&sessions).Error)
	require.NoError(t, db.Model(&models.Transaction{}).Count(&txns).Error)
	assert.EqualValues(t, 1, sessions)
	assert.EqualValues(t, 1, txns)

	var reloaded models.Student
	require.NoError(t, db.First(&reloaded, "id = ?", student.ID).Error)
	assert.Equal(t, []uuid.UUID{guru.ID}, reloaded.EnrolledGurus)
}

func TestBookSessionTwiceEnrollsOnceWithDistinctCodes(t *testing.T) {
	db := testutil.NewDB(t)
	guru := createGuru(t, db, "asha", 0)
	student := createStudent(t, db, "ravi")

	first, err := BookSession(db, bookingFor(guru, student.ID))
	require.NoError(t, err)
	second, err := BookSession(db, bookingFor(guru, student.ID))
	require.NoError(t, err)

	assert.True(t, first.NewlyEnrolled)
	assert.False(t, second.NewlyEnrolled)
	assert.NotEqual(t, first.Transaction.TransactionID, second.Transaction.TransactionID)

	var enrollments int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	assert.EqualValues(t, 1, enrollments)
}

func TestBookSessionForMissingStudentWritesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	guru := createGuru(t, db, "asha", 0)

	_, err := BookSession(db, bookingFor(guru, uuid.New()))
	assert.ErrorIs(t, err, ErrStudentNotFound)

	for _, model := range []interface{}{&models.Session{}, &models.Transaction{}, &models.Enrollment{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestBookSessionForMissingGuru(t *testing.T) {
	db := testutil.NewDB(t)
	student := createStudent(t, db, "ravi")

	_, err := BookSession(db, bookingFor(&models.Guru{Model: models.Model{ID: uuid.New()}}, student.ID))
	assert.ErrorIs(t, err, ErrGuruNotFound)
}

func TestEnrollStudent(t *testing.T) {
	db := testutil.NewDB(t)
	guru := createGuru(t, db, "asha", 0)
	student := createStudent(t, db, "ravi")

	enrolled, err := EnrollStudent(db, student.ID, guru.ID)
	require.NoError(t, err)
	assert.True(t, enrolled.IsEnrolledWith(guru.ID))

	_, err = EnrollStudent(db, student.ID, guru.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = EnrollStudent(db, uuid.New(), guru.ID)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestEnrollStudentWithMissingGuruWritesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	student := createStudent(t, db, "ravi")

	_, err := EnrollStudent(db, student.ID, uuid.New())
	assert.ErrorIs(t, err, ErrGuruNotFound)

	var enrollments int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	assert.Zero(t, enrollments)
}
