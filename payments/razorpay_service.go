package payments

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	config "github.com/gurukul/gurukul-backend/configs"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrGatewayUnconfigured = errors.New("payment gateway keys are not configured")

// RazorpayOrder is the order object returned by the gateway, passed through to clients as-is.
type RazorpayOrder struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  int64             `json:"created_at"`
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type RazorpayClient struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Currency  string
	HTTP      *http.Client
}

func NewRazorpayClient() *RazorpayClient {
	return &RazorpayClient{
		BaseURL:   config.Config("RAZORPAY_API_BASE_URL"),
		KeyID:     config.Config("RAZORPAY_KEY_ID"),
		KeySecret: config.Config("RAZORPAY_KEY_SECRET"),
		Currency:  config.Config("PAYMENT_CURRENCY"),
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

// ToSubunits converts a rupee amount to paise, rounding to the nearest paisa.
func ToSubunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func newReceipt() (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CreateOrder opens a gateway order for amount, given in the major currency unit.
func (r *RazorpayClient) CreateOrder(ctx context.Context, amount decimal.Decimal) (*RazorpayOrder, error) {
	if r.KeyID == "" || r.KeySecret == "" {
		return nil, ErrGatewayUnconfigured
	}
	if !amount.IsPositive() {
		return nil, errors.New("order amount must be positive")
	}

	receipt, err := newReceipt()
	if err != nil {
		return nil, errors.Wrap(err, "generate receipt")
	}

	body, err := json.Marshal(orderRequest{
		Amount:   ToSubunits(amount),
		Currency: r.Currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/orders", r.BaseURL), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(r.KeyID, r.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call gateway")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("failed to create order, status %s: %s", resp.Status, string(respBody))
	}

	var order RazorpayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, errors.Wrap(err, "decode order")
	}
	return &order, nil
}
