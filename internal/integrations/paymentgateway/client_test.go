package paymentgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
)

const testServerKey = "SB-Mid-server-test"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL+"/", testServerKey, 2*time.Second, logger.NewNop())
}

func TestCreateTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, testServerKey, user)
		assert.Empty(t, pass)

		var body snapRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "HOTEL-5-1700000000000", body.TransactionDetails.OrderID)
		assert.Equal(t, int64(450), body.TransactionDetails.GrossAmount)
		if assert.NotNil(t, body.CustomerDetails) {
			assert.Equal(t, "ann@example.com", body.CustomerDetails.Email)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"tok-1","redirect_url":"https://pay.example/tok-1"}`))
	})

	tx, err := client.CreateTransaction(context.Background(), CreateTransactionRequest{
		OrderID:     "HOTEL-5-1700000000000",
		GrossAmount: 450,
		Customer:    Customer{Name: "Ann", Email: "ann@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tx.Token)
	assert.Equal(t, "https://pay.example/tok-1", tx.RedirectURL)
}

func TestCreateTransaction_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_messages":["transaction_details.order_id has already been taken"]}`))
	})

	_, err := client.CreateTransaction(context.Background(), CreateTransactionRequest{OrderID: "HOTEL-1-1", GrossAmount: 10})
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Contains(t, err.Error(), "already been taken")
}

func TestCreateTransaction_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.CreateTransaction(context.Background(), CreateTransactionRequest{OrderID: "HOTEL-1-1", GrossAmount: 10})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/HOTEL-5-1/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"status_code":"200","order_id":"HOTEL-5-1","transaction_status":"settlement","fraud_status":"accept","gross_amount":"450.00","transaction_id":"trx-9"}`))
	})

	status, err := client.GetStatus(context.Background(), "HOTEL-5-1")
	require.NoError(t, err)
	assert.Equal(t, "settlement", status.TransactionStatus)
	assert.Equal(t, "trx-9", status.TransactionID)
}

func TestGetStatus_NotFoundInBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status_code":"404","status_message":"Transaction doesn't exist."}`))
	})

	_, err := client.GetStatus(context.Background(), "HOTEL-5-1")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestGetStatus_OrderIDMismatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status_code":"200","order_id":"HOTEL-6-1","transaction_status":"settlement"}`))
	})

	_, err := client.GetStatus(context.Background(), "HOTEL-5-1")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetStatus_NetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "http://127.0.0.1:1", testServerKey, time.Second, logger.NewNop())

	_, err := client.GetStatus(context.Background(), "HOTEL-5-1")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestVerifySignature(t *testing.T) {
	client := NewClient("http://snap", "http://api", testServerKey, time.Second, logger.NewNop())
	sig := Signature("HOTEL-5-1", "200", "450.00", testServerKey)

	assert.Len(t, sig, 128)
	assert.True(t, client.VerifySignature("HOTEL-5-1", "200", "450.00", sig))
	assert.True(t, client.VerifySignature("HOTEL-5-1", "200", "450.00", strings.ToUpper(sig)))
	assert.False(t, client.VerifySignature("HOTEL-5-1", "200", "451.00", sig))
	assert.False(t, client.VerifySignature("HOTEL-5-1", "200", "450.00", ""))
}
