package get_slot_assignments

import (
	"fmt"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RoomTypeID <= 0 {
		return fmt.Errorf("%w: roomTypeID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	if !domain.ValidRange(req.From, req.To) {
		return fmt.Errorf("%w: from=%s, to=%s", ErrInvalidRange, req.From, req.To)
	}

	if days := req.From.DaysUntil(req.To); days > MaxWindowDays {
		return fmt.Errorf("%w: window of %d days exceeds %d", ErrInvalidInput, days, MaxWindowDays)
	}

	return nil
}
