package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment records that a student has booked a guru at least once.
// The composite key keeps a student's enrolled gurus free of duplicates.
type Enrollment struct {
	StudentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GuruID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}
