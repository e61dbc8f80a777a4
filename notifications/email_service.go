package notifications

import (
	"fmt"
	"log"
	"strings"

	config "github.com/gurukul/gurukul-backend/configs"
	"gopkg.in/gomail.v2"
)

// Sender delivers one HTML email.
type Sender interface {
	Send(toName, toEmail, subject, htmlContent string) error
}

type SMTPService struct {
	dialer *gomail.Dialer
	from   string
}

var EmailClient Sender

func InitEmailService() {
	host := config.Config("SMTP_HOST")
	user := config.Config("EMAIL_USER")
	pass := config.Config("EMAIL_PASS")

	if host == "" || user == "" || pass == "" {
		log.Println("⚠️ Email service not configured. Missing SMTP_HOST, EMAIL_USER, or EMAIL_PASS.")
		EmailClient = nil
		return
	}

	EmailClient = &SMTPService{
		dialer: gomail.NewDialer(host, config.Int("SMTP_PORT"), user, pass),
		from:   user,
	}
	log.Println("✅ Email service initialized successfully.")
}

func (s *SMTPService) Send(toName, toEmail, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, "Gurukul"))
	m.SetHeader("To", m.FormatAddress(toEmail, toName))
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlContent)

	return s.dialer.DialAndSend(m)
}

// SendEmail is safe to call with go; failures are only logged.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		log.Println("Email client not initialized, skipping email send.")
		return
	}

	if err := EmailClient.Send(toName, toEmail, subject, htmlContent); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}

	log.Printf("✅ Email sent successfully to %s", toEmail)
}
