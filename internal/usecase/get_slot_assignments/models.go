package get_slot_assignments

import (
	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// MaxWindowDays максимальная ширина окна календаря
const MaxWindowDays = 366

// Request модель запроса календарной раскладки
type Request struct {
	RoomTypeID int64
	From       types.Date // начало окна
	To         types.Date // конец окна (не включается)
}

// Response модель ответа: строки календаря с бронированиями
type Response struct {
	RoomTypeID   int64
	RoomTypeName string
	UnitCount    int
	From         types.Date
	To           types.Date
	SlotCount    int
	Rows         []Row   // ровно SlotCount строк, по возрастанию номера
	Collisions   []int64 // бронирования, размещённые поверх других
}

// Row строка календаря
type Row struct {
	Slot     int
	Bookings []domain.SlotEntry
}
