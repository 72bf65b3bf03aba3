package domain

import "github.com/m04kA/SMC-HotelBookingService/pkg/types"

// SlotEntry бронирование, размещённое в строке календаря
type SlotEntry struct {
	BookingID int64
	CheckIn   types.Date
	CheckOut  types.Date
	Status    BookingStatus
	Collision bool // не нашлось свободной строки, размещено в слот 1 поверх других
}

// SlotAssignment раскладка бронирований одного типа номера по K пронумерованным строкам.
// Производное представление: не хранится, пересчитывается при каждом чтении.
type SlotAssignment struct {
	RoomTypeID  int64
	SlotCount   int
	Slots       map[int][]SlotEntry // номер слота (1..K) -> бронирования
	BookingSlot map[int64]int       // ID бронирования -> номер слота
	Collisions  []int64             // ID бронирований, размещённых с наложением
}

// SlotOf возвращает номер слота бронирования
func (a *SlotAssignment) SlotOf(bookingID int64) (int, bool) {
	slot, ok := a.BookingSlot[bookingID]
	return slot, ok
}

// HasCollisions returns true if any booking was placed over another one
func (a *SlotAssignment) HasCollisions() bool {
	return len(a.Collisions) > 0
}
