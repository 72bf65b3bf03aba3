package get_slot_assignments

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_slot_assignments: invalid input data")

	// ErrInvalidRange возвращается, когда конец окна не позже начала
	ErrInvalidRange = errors.New("get_slot_assignments: 'to' must be after 'from'")

	// ErrRoomTypeNotFound возвращается, когда тип номера не найден
	ErrRoomTypeNotFound = errors.New("get_slot_assignments: room type not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_slot_assignments: internal error")
)
