package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Treasury is the platform account that collects student payments and pays tutors out.
type Treasury struct {
	AccountID uuid.UUID
}

func NewTreasury(accountID uuid.UUID) *Treasury {
	return &Treasury{AccountID: accountID}
}

// Is reports whether a client-supplied account id names the treasury.
// An empty id means the treasury.
func (t *Treasury) Is(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	id, err := uuid.Parse(raw)
	return err == nil && id == t.AccountID
}

// Settlement is the state of both accounts and the ledger entry after a transfer.
type Settlement struct {
	Sender      models.Guru        `json:"sender"`
	Receiver    models.Guru        `json:"receiver"`
	Transaction models.Transaction `json:"transaction"`
}

// Transfer moves amount from the treasury to receiverID and marks the transaction paid.
// All three rows are locked and written in one database transaction, and a transaction
// that is already paid is rejected so a retried call never pays twice.
func (t *Treasury) Transfer(db *gorm.DB, receiverID, transactionID uuid.UUID, amount decimal.Decimal) (*Settlement, error) {
	if t.AccountID == uuid.Nil {
		return nil, ErrTreasuryUnset
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if receiverID == t.AccountID {
		return nil, ErrSelfTransfer
	}

	var s Settlement
	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock both accounts in id order so concurrent transfers cannot deadlock.
		var accounts []models.Guru
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", []uuid.UUID{t.AccountID, receiverID}).
			Order("id").
			Find(&accounts).Error; err != nil {
			return errors.Wrap(err, "lock accounts")
		}

		var senderFound, receiverFound bool
		for _, a := range accounts {
			switch a.ID {
			case t.AccountID:
				s.Sender, senderFound = a, true
			case receiverID:
				s.Receiver, receiverFound = a, true
			}
		}
		if !senderFound {
			return ErrTreasuryNotFound
		}
		if !receiverFound {
			return ErrReceiverNotFound
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s.Transaction, "id = ?", transactionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return errors.Wrap(err, "lock transaction")
		}
		if s.Transaction.PaidToTeacher {
			return ErrAlreadySettled
		}

		if s.Sender.Earnings.LessThan(amount) {
			return ErrInsufficientBalance
		}

		s.Sender.Earnings = s.Sender.Earnings.Sub(amount)
		s.Receiver.Earnings = s.Receiver.Earnings.Add(amount)
		s.Transaction.PaidToTeacher = true

		if err := tx.Model(&s.Sender).Update("earnings", s.Sender.Earnings).Error; err != nil {
			return errors.Wrap(err, "debit treasury")
		}
		if err := tx.Model(&s.Receiver).Update("earnings", s.Receiver.Earnings).Error; err != nil {
			return errors.Wrap(err, "credit receiver")
		}
		if err := tx.Model(&s.Transaction).Update("paid_to_teacher", true).Error; err != nil {
			return errors.Wrap(err, "mark transaction paid")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Fund credits the treasury with amount collected from students.
func (t *Treasury) Fund(db *gorm.DB, amount decimal.Decimal) (*models.Guru, error) {
	if t.AccountID == uuid.Nil {
		return nil, ErrTreasuryUnset
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var account models.Guru
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, "id = ?", t.AccountID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTreasuryNotFound
		}
		if err != nil {
			return errors.Wrap(err, "lock treasury")
		}
		account.Earnings = account.Earnings.Add(amount)
		return errors.Wrap(tx.Model(&account).Update("earnings", account.Earnings).Error, "fund treasury")
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}
