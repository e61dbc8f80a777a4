package services

import (
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GuruStats struct {
	TotalStudents int64   `json:"totalStudents"`
	TotalSessions int64   `json:"totalSessions"`
	Rating        float64 `json:"rating"`
}

func StatsForGuru(db *gorm.DB, guruID uuid.UUID) (*GuruStats, error) {
	var guru models.Guru
	err := db.Select("id", "rating").First(&guru, "id = ?", guruID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGuruNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load guru")
	}

	stats := GuruStats{Rating: guru.Rating}
	if err := db.Model(&models.Session{}).Where("guru_id = ?", guruID).Count(&stats.TotalSessions).Error; err != nil {
		return nil, errors.Wrap(err, "count sessions")
	}
	if err := db.Model(&models.Enrollment{}).Where("guru_id = ?", guruID).Count(&stats.TotalStudents).Error; err != nil {
		return nil, errors.Wrap(err, "count students")
	}
	return &stats, nil
}

// EnrolledStudents lists the students enrolled with guruID, oldest enrollment first.
func EnrolledStudents(db *gorm.DB, guruID uuid.UUID) ([]models.Student, error) {
	var students []models.Student
	err := db.Joins("JOIN enrollments ON enrollments.student_id = students.id").
		Where("enrollments.guru_id = ?", guruID).
		Order("enrollments.created_at asc").
		Find(&students).Error
	return students, errors.Wrap(err, "list enrolled students")
}
