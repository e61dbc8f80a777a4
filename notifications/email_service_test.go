package notifications

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu   sync.Mutex
	sent []string
}

func (r *recorder) Send(toName, toEmail, subject, htmlContent string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, toEmail+"|"+subject)
	return nil
}

func TestSendEmailWithoutClientIsNoop(t *testing.T) {
	prev := EmailClient
	EmailClient = nil
	defer func() { EmailClient = prev }()

	assert.NotPanics(t, func() { SendEmail("A", "a@example.com", "s", "b") })
}

func TestSendEmailUsesConfiguredClient(t *testing.T) {
	prev := EmailClient
	rec := &recorder{}
	EmailClient = rec
	defer func() { EmailClient = prev }()

	SendEmail("A", "a@example.com", "Hello", "<p>hi</p>")
	assert.Equal(t, []string{"a@example.com|Hello"}, rec.sent)
}

func TestSMTPServiceRejectsBadRecipient(t *testing.T) {
	s := &SMTPService{}
	assert.Error(t, s.Send("x", "not-an-email", "s", "b"))
}

func TestTemplatesEscapeNames(t *testing.T) {
	_, body := BookingReceivedGuru("<script>", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "10:00")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "May 1, 2024")

	subject, body := PayoutSent(decimal.NewFromInt(500), "TXN42")
	assert.NotEmpty(t, subject)
	assert.Contains(t, body, "500.00")
	assert.Contains(t, body, "TXN42")
}
