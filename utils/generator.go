package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gurukul/gurukul-backend/models"
	"gorm.io/gorm"
)

const transactionCodePrefix = "TXN"
const transactionCodeSpace = 1000000000

// GenerateUniqueTransactionCode returns a TXN code not yet used by any transaction.
// It must be called with the same tx that will insert the transaction.
func GenerateUniqueTransactionCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		code := fmt.Sprintf("%s%d", transactionCodePrefix, seededRand.Intn(transactionCodeSpace))

		var count int64
		if err := tx.Model(&models.Transaction{}).Where("transaction_id = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}
