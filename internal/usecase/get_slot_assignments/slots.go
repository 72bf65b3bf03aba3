package get_slot_assignments

import (
	"sort"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
)

// AssignSlots раскладывает бронирования одного типа номера по k строкам календаря.
//
// Бронирования сортируются по дате заезда (при равенстве по времени создания, затем по ID),
// каждое занимает первую строку, в которой нет пересечения. Если такой строки нет,
// бронирование кладётся в строку 1 с пометкой коллизии.
// Результат зависит только от входа: повторный вызов с теми же данными даёт ту же раскладку.
// Отменённые бронирования вызывающий отфильтровывает сам.
func AssignSlots(roomTypeID int64, bookings []*domain.Booking, k int) *domain.SlotAssignment {
	if k < 1 {
		k = domain.DefaultSlotCount
	}

	ordered := make([]*domain.Booking, len(bookings))
	copy(ordered, bookings)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CheckIn.Equal(b.CheckIn) {
			return a.CheckIn.Before(b.CheckIn)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	assignment := &domain.SlotAssignment{
		RoomTypeID:  roomTypeID,
		SlotCount:   k,
		Slots:       make(map[int][]domain.SlotEntry, k),
		BookingSlot: make(map[int64]int, len(ordered)),
		Collisions:  make([]int64, 0),
	}
	for slot := 1; slot <= k; slot++ {
		assignment.Slots[slot] = make([]domain.SlotEntry, 0)
	}

	for _, b := range ordered {
		entry := domain.SlotEntry{
			BookingID: b.ID,
			CheckIn:   b.CheckIn,
			CheckOut:  b.CheckOut,
			Status:    b.Status,
		}

		slot := firstFreeSlot(assignment.Slots, k, b)
		if slot == 0 {
			slot = 1
			entry.Collision = true
			assignment.Collisions = append(assignment.Collisions, b.ID)
		}

		assignment.Slots[slot] = append(assignment.Slots[slot], entry)
		assignment.BookingSlot[b.ID] = slot
	}

	return assignment
}

// firstFreeSlot возвращает первую строку без пересечений или 0
func firstFreeSlot(slots map[int][]domain.SlotEntry, k int, b *domain.Booking) int {
	for slot := 1; slot <= k; slot++ {
		free := true
		for _, placed := range slots[slot] {
			if b.Overlaps(placed.CheckIn, placed.CheckOut) {
				free = false
				break
			}
		}
		if free {
			return slot
		}
	}
	return 0
}
