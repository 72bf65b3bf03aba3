package payment_notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	reconcilePayment "github.com/m04kA/SMC-HotelBookingService/internal/usecase/reconcile_payment"
	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
)

type fakeUseCase struct {
	result *reconcilePayment.Result
	err    error
	got    *reconcilePayment.Notification
}

func (f *fakeUseCase) HandleNotification(_ context.Context, n *reconcilePayment.Notification) (*reconcilePayment.Result, error) {
	f.got = n
	return f.result, f.err
}

const body = `{"order_id":"HOTEL-5-1","status_code":"200","gross_amount":"300.00","signature_key":"abc",
"transaction_status":"settlement","fraud_status":"accept","transaction_id":"tx-1","payment_type":"bank_transfer",
"currency":"IDR"}`

func serve(uc *fakeUseCase, payload string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments/notification", strings.NewReader(payload)))
	return rec
}

func TestHandle_Reconciled(t *testing.T) {
	uc := &fakeUseCase{result: &reconcilePayment.Result{BookingID: 5, Status: domain.StatusConfirmed, Changed: true}}

	rec := serve(uc, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NotificationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)

	// неизвестные поля шлюза не ломают разбор
	assert.Equal(t, "300.00", uc.got.GrossAmount)
	assert.Equal(t, "abc", uc.got.SignatureKey)
	assert.Equal(t, "accept", uc.got.FraudStatus)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantSuccess bool
	}{
		{name: "invalid", err: reconcilePayment.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "forged", err: reconcilePayment.ErrVerificationFailed, wantStatus: http.StatusForbidden},
		{name: "not found", err: reconcilePayment.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "conflict stops retries", err: reconcilePayment.ErrConflict, wantStatus: http.StatusOK},
		{name: "retryable", err: reconcilePayment.ErrConcurrentUpdate, wantStatus: http.StatusInternalServerError},
		{name: "internal", err: reconcilePayment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp NotificationResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantSuccess, resp.Success)
		})
	}

	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, `not json`).Code)
}
