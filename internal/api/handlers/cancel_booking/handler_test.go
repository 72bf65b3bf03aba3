package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HotelBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-HotelBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
)

type fakeService struct {
	err         error
	requesterID int64
}

func (f *fakeService) CancelByGuest(_ context.Context, bookingID int64, requesterID int64) (*models.BookingResponse, error) {
	f.requesterID = requesterID
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: bookingID, Status: "cancelled"}, nil
}

func serve(svc *fakeService, target string) int {
	r := mux.NewRouter()
	r.Handle("/bookings/{bookingId}/cancel", middleware.Auth(http.HandlerFunc(NewHandler(svc, logger.NewNop()).Handle)))
	req := httptest.NewRequest(http.MethodPatch, target, nil)
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	assert.Equal(t, http.StatusOK, serve(svc, "/bookings/5/cancel"))
	assert.Equal(t, int64(7), svc.requesterID)

	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/bookings/0/cancel"))
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: bookings.ErrBookingNotFound}, "/bookings/5/cancel"))
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: bookings.ErrForbidden}, "/bookings/5/cancel"))
	assert.Equal(t, http.StatusConflict, serve(&fakeService{err: bookings.ErrInvalidTransition}, "/bookings/5/cancel"))
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: bookings.ErrInternal}, "/bookings/5/cancel"))
}
