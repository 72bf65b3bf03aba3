package reconcile_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reconcile_payment: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование для платежа не найдено
	ErrBookingNotFound = errors.New("reconcile_payment: booking not found")

	// ErrForbidden возвращается, когда гость подтверждает чужое бронирование
	ErrForbidden = errors.New("reconcile_payment: booking belongs to another user")

	// ErrVerificationFailed возвращается, когда уведомление не прошло проверку подписи или статуса в шлюзе
	ErrVerificationFailed = errors.New("reconcile_payment: notification verification failed")

	// ErrConflict возвращается, когда платёж относится к отменённому бронированию
	// или order id не совпадает с сохранённым. Повторять бессмысленно.
	ErrConflict = errors.New("reconcile_payment: payment conflicts with booking state")

	// ErrConcurrentUpdate возвращается, когда статус бронирования изменился параллельно. Можно повторить.
	ErrConcurrentUpdate = errors.New("reconcile_payment: booking changed concurrently")

	// ErrInternal возвращается при внутренних ошибках usecase. Можно повторить.
	ErrInternal = errors.New("reconcile_payment: internal error")
)
