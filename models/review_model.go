package models

import "github.com/google/uuid"

type Review struct {
	Model
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student"`
	GuruID    uuid.UUID `gorm:"type:uuid;not null;index" json:"guru"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`

	Student *Student `gorm:"foreignKey:StudentID" json:"-"`
	Guru    *Guru    `gorm:"foreignKey:GuruID" json:"-"`
}

// PopulatedReview shows a loaded party as {_id, username} and an unloaded one as its id.
type PopulatedReview struct {
	Review
	Student interface{} `json:"student"`
	Guru    interface{} `json:"guru"`
}

func (r Review) Populated() PopulatedReview {
	p := PopulatedReview{Review: r, Student: r.StudentID, Guru: r.GuruID}
	if r.Student != nil {
		p.Student = r.Student.Ref()
	}
	if r.Guru != nil {
		p.Guru = r.Guru.Ref()
	}
	return p
}
