package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-HotelBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

type fakeUseCase struct {
	resp *createBooking.Response
	err  error
	got  *createBooking.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{"roomTypeId":3,"checkIn":"2025-06-01","checkOut":"2025-06-04","guestCount":2,
"guestName":"Ann","guestEmail":"ann@example.com","paymentMethod":"gateway"}`

func serve(uc *fakeUseCase, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: userID, Role: domain.RoleGuest}))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:         10,
		RoomTypeID: 3,
		UserID:     7,
		CheckIn:    types.MustParseDate("2025-06-01"),
		CheckOut:   types.MustParseDate("2025-06-04"),
		Status:     domain.StatusPending,
	}
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{Booking: pendingBooking(), PaymentToken: "tok", RedirectURL: "https://pay/tok"}}

	rec := serve(uc, validBody, 7)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body CreateBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(10), body.Booking.ID)
	assert.Equal(t, 3, body.Booking.Nights)
	assert.Equal(t, "tok", body.PaymentToken)

	assert.Equal(t, int64(7), uc.got.UserID)
	assert.Equal(t, "2025-06-04", uc.got.CheckOut.String())
}

func TestHandle_ExistingReturns200(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{Booking: pendingBooking(), Existing: true}}

	rec := serve(uc, validBody, 7)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_RequestErrors(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeUseCase{}, validBody, 0).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, `{"roomTypeId":`, 7).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, `{"unknown":1}`, 7).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, `{"roomTypeId":3,"checkIn":"June 1","checkOut":"2025-06-04"}`, 7).Code)
}

func TestHandle_GatewayUnavailableCarriesOrderID(t *testing.T) {
	gwErr := &createBooking.GatewayError{BookingID: 10, OrderID: "HOTEL-10-1700000000000", Err: fmt.Errorf("timeout")}

	rec := serve(&fakeUseCase{err: gwErr}, validBody, 7)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body GatewayUnavailableResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(10), body.BookingID)
	assert.Equal(t, "HOTEL-10-1700000000000", body.OrderID)
	assert.Equal(t, msgGatewayUnavailable, body.Error)
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{createBooking.ErrNoInventory, http.StatusConflict},
		{createBooking.ErrOrderIDConflict, http.StatusConflict},
		{createBooking.ErrRoomTypeNotFound, http.StatusNotFound},
		{createBooking.ErrInvalidRange, http.StatusBadRequest},
		{createBooking.ErrInvalidDate, http.StatusBadRequest},
		{createBooking.ErrCapacityExceeded, http.StatusBadRequest},
		{fmt.Errorf("%w: guestEmail", createBooking.ErrInvalidInput), http.StatusBadRequest},
		{createBooking.ErrGatewayUnavailable, http.StatusBadGateway},
		{createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, validBody, 7)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
