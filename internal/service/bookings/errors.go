package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrForbidden возвращается, когда у пользователя нет прав на бронирование
	ErrForbidden = errors.New("bookings: access denied")

	// ErrInvalidTransition возвращается, когда переход статуса запрещён
	// или статус изменился параллельно
	ErrInvalidTransition = errors.New("bookings: invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
