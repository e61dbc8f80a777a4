package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat is the single conversation between one guru and one student.
type Chat struct {
	Model
	GuruID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_chat_pair" json:"guru"`
	StudentID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_chat_pair" json:"student"`
	Messages  []ChatMessage `gorm:"foreignKey:ChatID" json:"messages"`

	Guru    *Guru    `gorm:"foreignKey:GuruID" json:"-"`
	Student *Student `gorm:"foreignKey:StudentID" json:"-"`
}

func (c Chat) Populated() PopulatedChat {
	p := PopulatedChat{Chat: c}
	if c.Guru != nil {
		ref := c.Guru.Ref()
		p.Guru = &ref
	}
	if c.Student != nil {
		ref := c.Student.Ref()
		p.Student = &ref
	}
	return p
}

// SenderRole reports which side of the chat id belongs to.
func (c Chat) SenderRole(id uuid.UUID) string {
	switch id {
	case c.GuruID:
		return RoleGuru
	case c.StudentID:
		return RoleStudent
	}
	return ""
}

// Room is the websocket room name shared by both participants.
func (c Chat) Room() string {
	return c.ID.String()
}

func (c Chat) HasMember(id uuid.UUID) bool {
	return c.GuruID == id || c.StudentID == id
}

// PopulatedChat carries both participants' usernames.
type PopulatedChat struct {
	Chat
	Guru    *UserRef `json:"guru"`
	Student *UserRef `json:"student"`
}

// ChatMessage is one message in a chat. Sender is the author's role and Seq
// orders messages within the chat.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_seq" json:"-"`
	Seq       int64     `gorm:"not null;uniqueIndex:idx_chat_seq" json:"-"`
	Sender    string    `gorm:"size:10;not null" json:"sender"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}
