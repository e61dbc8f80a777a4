package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the ledger entry opened for a booked session.
type Transaction struct {
	Model
	GuruID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"guruId"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"studentId"`
	TransactionID string          `gorm:"size:64;not null;unique" json:"transactionId"`
	Date          time.Time       `gorm:"not null" json:"date"`
	PaidToTeacher bool            `gorm:"not null;default:false" json:"paidToTeacher"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	Guru    *Guru    `gorm:"foreignKey:GuruID" json:"-"`
	Student *Student `gorm:"foreignKey:StudentID" json:"-"`
}

// PopulatedTransaction replaces the party ids with their usernames.
type PopulatedTransaction struct {
	Transaction
	GuruID    *UserRef `json:"guruId"`
	StudentID *UserRef `json:"studentId"`
}

func (t Transaction) Populated() PopulatedTransaction {
	p := PopulatedTransaction{Transaction: t}
	if t.Guru != nil {
		ref := t.Guru.Ref()
		p.GuruID = &ref
	}
	if t.Student != nil {
		ref := t.Student.Ref()
		p.StudentID = &ref
	}
	return p
}
