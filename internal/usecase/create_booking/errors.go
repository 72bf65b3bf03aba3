package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidRange возвращается, когда дата выезда не позже даты заезда
	ErrInvalidRange = errors.New("create_booking: check-out must be after check-in")

	// ErrInvalidDate возвращается, когда дата заезда в прошлом
	ErrInvalidDate = errors.New("create_booking: check-in date is in the past")

	// ErrRoomTypeNotFound возвращается, когда тип номера не найден
	ErrRoomTypeNotFound = errors.New("create_booking: room type not found")

	// ErrCapacityExceeded возвращается, когда гостей больше, чем вмещает номер
	ErrCapacityExceeded = errors.New("create_booking: guest count exceeds room capacity")

	// ErrNoInventory возвращается, когда на период не осталось свободных номеров
	ErrNoInventory = errors.New("create_booking: no rooms available for the selected dates")

	// ErrOrderIDConflict возвращается, когда order id уже использован другим бронированием
	ErrOrderIDConflict = errors.New("create_booking: order id belongs to another booking")

	// ErrGatewayUnavailable возвращается, когда платежный шлюз не выдал токен.
	// Бронирование остаётся pending, повтор с тем же order id безопасен.
	ErrGatewayUnavailable = errors.New("create_booking: payment gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// GatewayError ошибка шлюза при выдаче токена.
// Несёт бронирование, оставшееся pending, чтобы клиент мог повторить запрос с его order id.
type GatewayError struct {
	BookingID int64
	OrderID   string
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%v: booking id=%d, order id=%s stays pending: %v", ErrGatewayUnavailable, e.BookingID, e.OrderID, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return ErrGatewayUnavailable
}
