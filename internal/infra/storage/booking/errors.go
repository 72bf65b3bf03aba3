package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStatusChanged возвращается, когда условное обновление не применилось:
	// статус бронирования уже не тот, что ожидал вызывающий
	ErrStatusChanged = errors.New("booking.repository: booking status changed concurrently")

	// ErrOrderIDTaken возвращается при нарушении уникальности order id
	ErrOrderIDTaken = errors.New("booking.repository: order id already used")

	// ErrOrderIDAlreadySet возвращается при попытке перезаписать order id
	ErrOrderIDAlreadySet = errors.New("booking.repository: order id already set")

	// ErrNoTransaction возвращается, когда операция требует транзакцию в контексте
	ErrNoTransaction = errors.New("booking.repository: operation requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
