package jobs

import (
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	config "github.com/gurukul/gurukul-backend/configs"
	"github.com/gurukul/gurukul-backend/database"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/notifications"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Schedule registers the background jobs on c.
func Schedule(c *cron.Cron) error {
	_, err := c.AddFunc(config.Config("SETTLEMENT_REMINDER_SCHEDULE"), ReportUnsettledTransactions)
	return err
}

// UnsettledTransactions returns transactions still owed to gurus that are older than cutoff.
func UnsettledTransactions(db *gorm.DB, cutoff time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := db.Preload("Guru", func(db *gorm.DB) *gorm.DB { return db.Select("id", "username") }).
		Where("paid_to_teacher = ? AND date < ?", false, cutoff).
		Order("date asc").
		Find(&txns).Error
	return txns, err
}

func ReportUnsettledTransactions() {
	log.Println("Running job: ReportUnsettledTransactions...")

	adminEmail := config.Config("ADMIN_EMAIL")
	if adminEmail == "" {
		return
	}

	cutoff := time.Now().Add(-config.Duration("UNSETTLED_AFTER"))
	txns, err := UnsettledTransactions(database.DB, cutoff)
	if err != nil {
		log.Printf("Error checking for unsettled transactions: %v", err)
		return
	}
	if len(txns) == 0 {
		return
	}

	log.Printf("Found %d unsettled transactions older than %s", len(txns), cutoff.Format(time.RFC3339))
	subject, body := unsettledReport(txns)
	go notifications.SendEmail("Admin", adminEmail, subject, body)
}

func unsettledReport(txns []models.Transaction) (string, string) {
	var rows strings.Builder
	for _, t := range txns {
		guru := t.GuruID.String()
		if t.Guru != nil {
			guru = t.Guru.Username
		}
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(t.TransactionID), html.EscapeString(guru), t.Amount.StringFixed(2), t.Date.Format("2006-01-02"))
	}
	subject := fmt.Sprintf("%d guru payouts are waiting", len(txns))
	body := "<h1>Unsettled Transactions</h1><table><tr><th>Transaction</th><th>Guru</th><th>Amount</th><th>Date</th></tr>" +
		rows.String() + "</table>"
	return subject, body
}
