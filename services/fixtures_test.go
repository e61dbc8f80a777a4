package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/gurukul/gurukul-backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var phoneSeq int64 = 1000000000

func nextPhone() string {
	return fmt.Sprintf("+91%d", atomic.AddInt64(&phoneSeq, 1))
}

func createGuru(t *testing.T, db *gorm.DB, username string, earnings int64) *models.Guru {
	t.Helper()
	guru := models.Guru{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Phone:    nextPhone(),
		Role:     models.RoleGuru,
		Earnings: decimal.NewFromInt(earnings),
	}
	require.NoError(t, db.Create(&guru).Error)
	return &guru
}

func createTreasury(t *testing.T, db *gorm.DB, balance int64) *models.Guru {
	t.Helper()
	admin := createGuru(t, db, "treasury", balance)
	require.NoError(t, db.Model(admin).Update("role", models.RoleAdmin).Error)
	admin.Role = models.RoleAdmin
	return admin
}

func createStudent(t *testing.T, db *gorm.DB, username string) *models.Student {
	t.Helper()
	student := models.Student{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Phone:    nextPhone(),
	}
	require.NoError(t, db.Create(&student).Error)
	return &student
}

func createSession(t *testing.T, db *gorm.DB, guru *models.Guru, student *models.Student, status string) *models.Session {
	t.Helper()
	session := models.Session{
		GuruID:    guru.ID,
		StudentID: student.ID,
		Time:      "10:00",
		Duration:  60,
		Price:     decimal.NewFromInt(500),
		Status:    status,
	}
	require.NoError(t, db.Create(&session).Error)
	return &session
}
