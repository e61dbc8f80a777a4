package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderedMessages(db *gorm.DB) *gorm.DB {
	return db.Order("seq asc")
}

// SendMessage appends a message to the pair's chat, creating the chat on first use.
// sender is the author's role.
func SendMessage(db *gorm.DB, guruID, studentID uuid.UUID, sender, text string) (*models.Chat, *models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyMessage
	}

	var chat models.Chat
	var msg *models.ChatMessage
	err := db.Transaction(func(tx *gorm.DB) error {
		fresh := models.Chat{GuruID: guruID, StudentID: studentID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guru_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).Create(&fresh).Error; err != nil {
			return errors.Wrap(err, "create chat")
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("guru_id = ? AND student_id = ?", guruID, studentID).
			First(&chat).Error; err != nil {
			return errors.Wrap(err, "lock chat")
		}

		var err error
		msg, err = appendMessage(tx, &chat, sender, text)
		if err != nil {
			return err
		}
		return tx.Preload("Messages", orderedMessages).First(&chat, "id = ?", chat.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &chat, msg, nil
}

// SendToChat appends a message from senderID to an existing chat. The sender must be
// the chat's guru or student.
func SendToChat(db *gorm.DB, chatID, senderID uuid.UUID, text string) (*models.Chat, *models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyMessage
	}

	var chat models.Chat
	var msg *models.ChatMessage
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&chat, "id = ?", chatID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChatNotFound
		}
		if err != nil {
			return errors.Wrap(err, "lock chat")
		}

		role := chat.SenderRole(senderID)
		if role == "" {
			return ErrNotChatMember
		}
		msg, err = appendMessage(tx, &chat, role, text)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &chat, msg, nil
}

// appendMessage must run with the chat row locked so sequence numbers stay gapless per writer.
func appendMessage(tx *gorm.DB, chat *models.Chat, sender, text string) (*models.ChatMessage, error) {
	var last int64
	if err := tx.Model(&models.ChatMessage{}).
		Where("chat_id = ?", chat.ID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error; err != nil {
		return nil, errors.Wrap(err, "next sequence")
	}

	msg := models.ChatMessage{
		ID:        uuid.New(),
		ChatID:    chat.ID,
		Seq:       last + 1,
		Sender:    sender,
		Message:   text,
		Timestamp: time.Now(),
	}
	if err := tx.Create(&msg).Error; err != nil {
		return nil, errors.Wrap(err, "append message")
	}
	if err := tx.Model(chat).Update("updated_at", msg.Timestamp).Error; err != nil {
		return nil, errors.Wrap(err, "touch chat")
	}
	return &msg, nil
}

// GetChat loads the pair's chat with both usernames and its messages in order.
func GetChat(db *gorm.DB, guruID, studentID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := db.Preload("Guru", selectRef).
		Preload("Student", selectRef).
		Preload("Messages", orderedMessages).
		Where("guru_id = ? AND student_id = ?", guruID, studentID).
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load chat")
	}
	return &chat, nil
}

func FindChat(db *gorm.DB, chatID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := db.First(&chat, "id = ?", chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load chat")
	}
	return &chat, nil
}

// DeleteMessage removes exactly one message. The rest keep their order.
func DeleteMessage(db *gorm.DB, chatID, messageID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Chat{}, chatID, ErrChatNotFound); err != nil {
			return err
		}
		res := tx.Where("id = ? AND chat_id = ?", messageID, chatID).Delete(&models.ChatMessage{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete message")
		}
		if res.RowsAffected == 0 {
			return ErrMessageNotFound
		}
		return nil
	})
}
