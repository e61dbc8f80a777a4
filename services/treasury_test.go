package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTransaction(t *testing.T, db *gorm.DB, guru *models.Guru, code string, amount int64) *models.Transaction {
	t.Helper()
	txn := models.Transaction{
		GuruID:        guru.ID,
		StudentID:     uuid.New(),
		TransactionID: code,
		Date:          time.Now(),
		Amount:        decimal.NewFromInt(amount),
	}
	require.NoError(t, db.Create(&txn).Error)
	return &txn
}

func earnings(t *testing.T, db *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var guru models.Guru
	require.NoError(t, db.First(&guru, "id = ?", id).Error)
	return guru.Earnings
}

func TestTransferMovesExactAmountAndSettles(t *testing.T) {
	db := testutil.NewDB(t)
	admin := createTreasury(t, db, 1000)
	guru := createGuru(t, db, "asha", 50)
	txn := createTransaction(t, db, guru, "TXN1", 300)
	treasury := NewTreasury(admin.ID)

	s, err := treasury.Transfer(db, guru.ID, txn.ID, decimal.RequireFromString("300.25"))
	require.NoError(t, err)

	assert.True(t, s.Sender.Earnings.Equal(decimal.RequireFromString("699.75")))
	assert.True(t, s.Receiver.Earnings.Equal(decimal.RequireFromString("350.25")))
	assert.True(t, earnings(t, db, admin.ID).Equal(decimal.RequireFromString("699.75")))
	assert.True(t, earnings(t, db, guru.ID).Equal(decimal.RequireFromString("350.25")))

	var stored models.Transaction
	require.NoError(t, db.First(&stored, "id = ?", txn.ID).Error)
	assert.True(t, stored.PaidToTeacher)
}

func TestTransferReplayIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	admin := createTreasury(t, db, 1000)
	guru := createGuru(t, db, "asha", 0)
	txn := createTransaction(t, db, guru, "TXN1", 100)
	treasury := NewTreasury(admin.ID)

	_, err := treasury.Transfer(db, guru.ID, txn.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = treasury.Transfer(db, guru.ID, txn.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrAlreadySettled)

	assert.True(t, earnings(t, db, admin.ID).Equal(decimal.NewFromInt(900)))
	assert.True(t, earnings(t, db, guru.ID).Equal(decimal.NewFromInt(100)))
}

func TestTransferWithInsufficientBalanceChangesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	admin := createTreasury(t, db, 100)
	guru := createGuru(t, db, "asha", 10)
	txn := createTransaction(t, db, guru, "TXN1", 500)
	treasury := NewTreasury(admin.ID)

	_, err := treasury.Transfer(db, guru.ID, txn.ID, decimal.NewFromInt(500))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	assert.True(t, earnings(t, db, admin.ID).Equal(decimal.NewFromInt(100)))
	assert.True(t, earnings(t, db, guru.ID).Equal(decimal.NewFromInt(10)))
	var stored models.Transaction
	require.NoError(t, db.First(&stored, "id = ?", txn.ID).Error)
	assert.False(t, stored.PaidToTeacher)
}

func TestTransferValidation(t *testing.T) {
	db := testutil.NewDB(t)
	admin := createTreasury(t, db, 100)
	guru := createGuru(t, db, "asha", 0)
	txn := createTransaction(t, db, guru, "TXN1", 10)
	treasury := NewTreasury(admin.ID)

	tests := []struct {
		name     string
		treasury *Treasury
		receiver uuid.UUID
		txn      uuid.UUID
		amount   decimal.Decimal
		want     error
	}{
		{"unset treasury", NewTreasury(uuid.Nil), guru.ID, txn.ID, decimal.NewFromInt(1), ErrTreasuryUnset},
		{"zero amount", treasury, guru.ID, txn.ID, decimal.Zero, ErrInvalidAmount},
		{"negative amount", treasury, guru.ID, txn.ID, decimal.NewFromInt(-5), ErrInvalidAmount},
		{"pay itself", treasury, admin.ID, txn.ID, decimal.NewFromInt(1), ErrSelfTransfer},
		{"missing receiver", treasury, uuid.New(), txn.ID, decimal.NewFromInt(1), ErrReceiverNotFound},
		{"missing transaction", treasury, guru.ID, uuid.New(), decimal.NewFromInt(1), ErrTransactionNotFound},
		{"missing treasury row", NewTreasury(uuid.New()), guru.ID, txn.ID, decimal.NewFromInt(1), ErrTreasuryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.treasury.Transfer(db, tt.receiver, tt.txn, tt.amount)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFundCreditsTreasury(t *testing.T) {
	db := testutil.NewDB(t)
	admin := createTreasury(t, db, 100)
	treasury := NewTreasury(admin.ID)

	account, err := treasury.Fund(db, decimal.RequireFromString("49.50"))
	require.NoError(t, err)
	assert.True(t, account.Earnings.Equal(decimal.RequireFromString("149.50")))
	assert.True(t, earnings(t, db, admin.ID).Equal(decimal.RequireFromString("149.50")))

	_, err = treasury.Fund(db, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = NewTreasury(uuid.New()).Fund(db, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrTreasuryNotFound)
}
