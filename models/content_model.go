package models

import "github.com/google/uuid"

// Content is a file a guru shared with their students.
type Content struct {
	Model
	GuruID      uuid.UUID `gorm:"type:uuid;not null;index" json:"guru"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	File        string    `gorm:"size:512;not null" json:"file"`
	Size        float64   `json:"size"`
}
