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
)

func TestRenderReceiptHTML(t *testing.T) {
	txn := &models.Transaction{
		TransactionID: "TXN42",
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.RequireFromString("1250.5"),
		PaidToTeacher: true,
		Guru:          &models.Guru{Username: "asha"},
		Student:       &models.Student{Username: "<ravi>"},
	}

	html, err := RenderReceiptHTML(txn)
	require.NoError(t, err)
	assert.Contains(t, html, "TXN42")
	assert.Contains(t, html, "March 14, 2026")
	assert.Contains(t, html, "1250.50")
	assert.Contains(t, html, "asha")
	assert.Contains(t, html, "&lt;ravi&gt;")
	assert.NotContains(t, html, "<ravi>")
}

func TestLoadReceiptTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	guru := createGuru(t, db, "asha", 0)
	student := createStudent(t, db, "ravi")
	txn := models.Transaction{
		GuruID:        guru.ID,
		StudentID:     student.ID,
		TransactionID: "TXN7",
		Date:          time.Now(),
		Amount:        decimal.NewFromInt(99),
	}
	require.NoError(t, db.Create(&txn).Error)

	loaded, err := LoadReceiptTransaction(db, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Guru)
	require.NotNil(t, loaded.Student)
	assert.Equal(t, "asha", loaded.Guru.Username)
	assert.Equal(t, "ravi", loaded.Student.Username)

	_, err = LoadReceiptTransaction(db, uuid.New())
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
