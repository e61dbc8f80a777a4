package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *RazorpayClient {
	return &RazorpayClient{
		BaseURL:   url,
		KeyID:     "rzp_test_key",
		KeySecret: "secret",
		Currency:  "INR",
		HTTP:      http.DefaultClient,
	}
}

func TestCreateOrderSendsPaiseWithBasicAuth(t *testing.T) {
	var got orderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(RazorpayOrder{
			ID:       "order_123",
			Entity:   "order",
			Amount:   got.Amount,
			Currency: got.Currency,
			Receipt:  got.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	order, err := newTestClient(srv.URL).CreateOrder(context.Background(), decimal.RequireFromString("499.50"))
	require.NoError(t, err)

	assert.Equal(t, int64(49950), got.Amount)
	assert.Equal(t, "INR", got.Currency)
	assert.Len(t, got.Receipt, 20)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(49950), order.Amount)
}

func TestCreateOrderSurfacesGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), decimal.NewFromInt(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_REQUEST_ERROR")
}

func TestCreateOrderRejectsMissingKeysAndBadAmounts(t *testing.T) {
	c := newTestClient("http://127.0.0.1:0")
	_, err := c.CreateOrder(context.Background(), decimal.Zero)
	assert.Error(t, err)

	c.KeyID = ""
	_, err = c.CreateOrder(context.Background(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrGatewayUnconfigured)
}

func TestToSubunits(t *testing.T) {
	assert.Equal(t, int64(50000), ToSubunits(decimal.NewFromInt(500)))
	assert.Equal(t, int64(1), ToSubunits(decimal.RequireFromString("0.005")))
}
