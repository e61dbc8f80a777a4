package notifications

import (
	"fmt"
	"html"
	"time"

	"github.com/shopspring/decimal"
)

func BookingConfirmedStudent(guru string, date time.Time, slot string, price decimal.Decimal) (string, string) {
	return "Your Gurukul session is booked",
		fmt.Sprintf("<h1>Session Booked</h1><p>Your session with <b>%s</b> is scheduled for %s at %s.</p><p>Amount: %s</p>",
			html.EscapeString(guru), date.Format("January 2, 2006"), html.EscapeString(slot), price.StringFixed(2))
}

func BookingReceivedGuru(student string, date time.Time, slot string) (string, string) {
	return "You have a new Gurukul booking",
		fmt.Sprintf("<h1>New Booking</h1><p><b>%s</b> booked a session with you on %s at %s.</p>",
			html.EscapeString(student), date.Format("January 2, 2006"), html.EscapeString(slot))
}

func PayoutSent(amount decimal.Decimal, code string) (string, string) {
	return "Your Gurukul payout is on its way",
		fmt.Sprintf("<h1>Payout Sent</h1><p>%s has been added to your earnings for transaction %s.</p>",
			amount.StringFixed(2), html.EscapeString(code))
}
