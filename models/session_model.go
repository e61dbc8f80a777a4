package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SessionPending   = "pending"
	SessionCompleted = "completed"
)

type Session struct {
	Model
	GuruID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"guru"`
	StudentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"student"`
	Date      time.Time       `gorm:"not null" json:"date"`
	Time      string          `gorm:"size:20;not null" json:"time"`
	Duration  int             `gorm:"not null" json:"duration"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Status    string          `gorm:"size:20;not null;default:'pending'" json:"status"`

	Guru    *Guru    `gorm:"foreignKey:GuruID" json:"-"`
	Student *Student `gorm:"foreignKey:StudentID" json:"-"`
}

// PopulatedSession replaces the guru and student ids with their usernames.
type PopulatedSession struct {
	Session
	Guru    *UserRef `json:"guru"`
	Student *UserRef `json:"student"`
}

func (s Session) Populated() PopulatedSession {
	p := PopulatedSession{Session: s}
	if s.Guru != nil {
		ref := s.Guru.Ref()
		p.Guru = &ref
	}
	if s.Student != nil {
		ref := s.Student.Ref()
		p.Student = &ref
	}
	return p
}
