package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RoomTypeID <= 0 {
		return fmt.Errorf("%w: roomTypeID must be positive", ErrInvalidInput)
	}

	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return fmt.Errorf("%w: checkIn and checkOut are required", ErrInvalidInput)
	}

	if !domain.ValidRange(req.CheckIn, req.CheckOut) {
		return fmt.Errorf("%w: checkIn=%s, checkOut=%s", ErrInvalidRange, req.CheckIn, req.CheckOut)
	}

	return nil
}
