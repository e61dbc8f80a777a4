package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionUpdate holds the fields a caller may change. Nil fields are left alone.
type SessionUpdate struct {
	Date     *time.Time
	Time     *string
	Duration *int
	Price    *decimal.Decimal
	Status   *string
}

func selectRef(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

func ListSessions(db *gorm.DB) ([]models.PopulatedSession, error) {
	var sessions []models.Session
	if err := db.Preload("Guru", selectRef).Preload("Student", selectRef).
		Order("date asc").Find(&sessions).Error; err != nil {
		return nil, errors.Wrap(err, "list sessions")
	}

	out := make([]models.PopulatedSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Populated())
	}
	return out, nil
}

func GetSession(db *gorm.DB, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := db.First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	return &session, nil
}

// CompleteSession marks the session completed. Completing twice is allowed.
func CompleteSession(db *gorm.DB, id uuid.UUID) (*models.Session, error) {
	session, err := GetSession(db, id)
	if err != nil {
		return nil, err
	}
	session.Status = models.SessionCompleted
	if err := db.Model(session).Update("status", models.SessionCompleted).Error; err != nil {
		return nil, errors.Wrap(err, "complete session")
	}
	return session, nil
}

// UpdateSession applies upd. Status may only move forward from pending to completed.
// Only the fields named in upd are written, so a concurrent completion is never undone.
func UpdateSession(db *gorm.DB, id uuid.UUID, upd SessionUpdate) (*models.Session, error) {
	var session models.Session

	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := GetSession(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}
		session = *current

		var columns []string
		if upd.Status != nil {
			switch *upd.Status {
			case models.SessionPending, models.SessionCompleted:
			default:
				return ErrInvalidStatus
			}
			if session.Status == models.SessionCompleted && *upd.Status == models.SessionPending {
				return ErrInvalidTransition
			}
			if *upd.Status != session.Status {
				session.Status = *upd.Status
				columns = append(columns, "status")
			}
		}
		if upd.Date != nil {
			session.Date = *upd.Date
			columns = append(columns, "date")
		}
		if upd.Time != nil {
			session.Time = *upd.Time
			columns = append(columns, "time")
		}
		if upd.Duration != nil {
			session.Duration = *upd.Duration
			columns = append(columns, "duration")
		}
		if upd.Price != nil {
			session.Price = *upd.Price
			columns = append(columns, "price")
		}
		if len(columns) == 0 {
			return nil
		}

		if err := tx.Model(&session).Select(append(columns, "updated_at")).Updates(&session).Error; err != nil {
			return errors.Wrap(err, "update session")
		}
		return errors.Wrap(tx.First(&session, "id = ?", id).Error, "reload session")
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func DeleteSession(db *gorm.DB, id uuid.UUID) (*models.Session, error) {
	session, err := GetSession(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(session).Error; err != nil {
		return nil, errors.Wrap(err, "delete session")
	}
	return session, nil
}
