package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money travels as plain JSON numbers, the way clients already send it.
	decimal.MarshalJSONWithoutQuotes = true
}

// Model carries the id and timestamps shared by every record.
type Model struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserRef is the trimmed account shape returned when a record is populated with its owner.
type UserRef struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
}

type Address struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

const (
	RoleGuru    = "guru"
	RoleStudent = "student"
	RoleAdmin   = "admin"
)
