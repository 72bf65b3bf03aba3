package check_availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkAvailability "github.com/m04kA/SMC-HotelBookingService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp *checkAvailability.Response
	err  error
	got  *checkAvailability.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/room-types/{roomTypeId}/availability", NewHandler(uc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{}
	uc.resp = &checkAvailability.Response{RoomTypeID: 3, UnitCount: 4, Occupied: 5, RawAvailable: -1, Available: 0}

	rec := serve(uc, "/room-types/3/availability?checkIn=2025-06-01&checkOut=2025-06-04")
	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 0, body.Available)
	assert.Equal(t, 4, body.UnitCount)
	assert.Equal(t, "2025-06-01", uc.got.CheckIn.String())
	assert.Equal(t, int64(3), uc.got.RoomTypeID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad id", target: "/room-types/x/availability?checkIn=2025-06-01&checkOut=2025-06-02", wantStatus: http.StatusBadRequest},
		{name: "bad date", target: "/room-types/1/availability?checkIn=01.06.2025&checkOut=2025-06-02", wantStatus: http.StatusBadRequest},
		{name: "inverted range", target: "/room-types/1/availability?checkIn=2025-06-05&checkOut=2025-06-02", err: checkAvailability.ErrInvalidRange, wantStatus: http.StatusBadRequest},
		{name: "not found", target: "/room-types/1/availability?checkIn=2025-06-01&checkOut=2025-06-02", err: checkAvailability.ErrRoomTypeNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", target: "/room-types/1/availability?checkIn=2025-06-01&checkOut=2025-06-02", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
