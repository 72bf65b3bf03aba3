package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.RoomTypeID <= 0 {
		return fmt.Errorf("%w: roomTypeID must be positive", ErrInvalidInput)
	}

	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return fmt.Errorf("%w: checkIn and checkOut are required", ErrInvalidInput)
	}

	if !domain.ValidRange(req.CheckIn, req.CheckOut) {
		return fmt.Errorf("%w: checkIn=%s, checkOut=%s", ErrInvalidRange, req.CheckIn, req.CheckOut)
	}

	if nights := req.CheckIn.DaysUntil(req.CheckOut); nights > domain.MaxStayNights {
		return fmt.Errorf("%w: stay of %d nights exceeds %d", ErrInvalidInput, nights, domain.MaxStayNights)
	}

	if req.GuestCount < domain.MinGuestCount || req.GuestCount > domain.MaxGuestCount {
		return fmt.Errorf("%w: guestCount must be between %d and %d", ErrInvalidInput, domain.MinGuestCount, domain.MaxGuestCount)
	}

	name := strings.TrimSpace(req.GuestName)
	if name == "" || len(name) > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: guestName is required (max %d chars)", ErrInvalidInput, domain.MaxGuestNameLength)
	}

	if len(req.GuestEmail) > domain.MaxGuestEmailLength {
		return fmt.Errorf("%w: guestEmail is too long", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.GuestEmail); err != nil {
		return fmt.Errorf("%w: invalid guestEmail: %v", ErrInvalidInput, err)
	}

	if _, err := domain.ParsePaymentMethod(req.PaymentMethod); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.OrderID != nil && strings.TrimSpace(*req.OrderID) == "" {
		return fmt.Errorf("%w: orderId must not be blank", ErrInvalidInput)
	}

	return nil
}

// validateCheckIn проверяет, что дата заезда не в прошлом (по UTC)
func validateCheckIn(checkIn types.Date, now time.Time) error {
	if checkIn.Before(types.NewDate(now)) {
		return fmt.Errorf("%w: checkIn=%s", ErrInvalidDate, checkIn)
	}
	return nil
}
