package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	Model
	Username      string      `gorm:"size:50;not null;unique" json:"username"`
	Email         string      `gorm:"size:255;not null;unique" json:"email"`
	Password      string      `gorm:"not null" json:"-"`
	Phone         string      `gorm:"size:20;not null;unique" json:"phone"`
	Address       Address     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	IsOnline      bool        `gorm:"default:false" json:"isOnline"`
	ProfileImage  *string     `gorm:"size:512" json:"profileImage"`
	AboutMe       string      `gorm:"type:text" json:"aboutMe"`
	Languages     []string    `gorm:"type:text;serializer:json" json:"languages"`
	EnrolledGurus []uuid.UUID `gorm:"-" json:"enrolledGurus"`
}

func (s *Student) BeforeSave(tx *gorm.DB) error {
	s.Username = strings.TrimSpace(s.Username)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	return nil
}

// AfterFind fills EnrolledGurus from the enrollment table, oldest first.
func (s *Student) AfterFind(tx *gorm.DB) error {
	s.EnrolledGurus = []uuid.UUID{}
	return tx.Session(&gorm.Session{NewDB: true}).
		Model(&Enrollment{}).
		Where("student_id = ?", s.ID).
		Order("created_at asc").
		Pluck("guru_id", &s.EnrolledGurus).Error
}

func (s *Student) IsEnrolledWith(guruID uuid.UUID) bool {
	for _, id := range s.EnrolledGurus {
		if id == guruID {
			return true
		}
	}
	return false
}

func (s *Student) Ref() UserRef {
	return UserRef{ID: s.ID, Username: s.Username}
}
