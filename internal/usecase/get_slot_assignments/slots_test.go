package get_slot_assignments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

func d(s string) types.Date { return types.MustParseDate(s) }

var base = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func booking(id int64, in, out string, createdOffset time.Duration) *domain.Booking {
	return &domain.Booking{
		ID:         id,
		RoomTypeID: 1,
		CheckIn:    d(in),
		CheckOut:   d(out),
		Status:     domain.StatusConfirmed,
		CreatedAt:  base.Add(createdOffset),
	}
}

func TestAssignSlots_FirstFreeSlot(t *testing.T) {
	bookings := []*domain.Booking{
		booking(1, "2025-06-01", "2025-06-05", 0),
		booking(2, "2025-06-03", "2025-06-06", time.Minute),
		booking(3, "2025-06-05", "2025-06-07", 2*time.Minute),
	}

	a := AssignSlots(1, bookings, 3)

	slot, ok := a.SlotOf(1)
	require.True(t, ok)
	assert.Equal(t, 1, slot)

	slot, _ = a.SlotOf(2)
	assert.Equal(t, 2, slot)

	// выезд 1-го 5 июня освобождает первую строку для заезда в тот же день
	slot, _ = a.SlotOf(3)
	assert.Equal(t, 1, slot)

	assert.False(t, a.HasCollisions())
	assert.Len(t, a.Slots, 3)
	assert.Empty(t, a.Slots[3])
}

func TestAssignSlots_TieBreakByCreatedAtThenID(t *testing.T) {
	bookings := []*domain.Booking{
		booking(9, "2025-06-01", "2025-06-03", time.Hour),
		booking(5, "2025-06-01", "2025-06-03", 0),
		booking(4, "2025-06-01", "2025-06-03", time.Hour),
	}

	a := AssignSlots(1, bookings, 3)

	assert.Equal(t, 1, a.BookingSlot[5])
	assert.Equal(t, 2, a.BookingSlot[4])
	assert.Equal(t, 3, a.BookingSlot[9])
}

func TestAssignSlots_CollisionGoesToFirstSlot(t *testing.T) {
	bookings := []*domain.Booking{
		booking(1, "2025-06-01", "2025-06-05", 0),
		booking(2, "2025-06-01", "2025-06-05", time.Minute),
		booking(3, "2025-06-02", "2025-06-04", 2*time.Minute),
	}

	a := AssignSlots(1, bookings, 2)

	assert.Equal(t, []int64{3}, a.Collisions)
	assert.Equal(t, 1, a.BookingSlot[3])
	require.Len(t, a.Slots[1], 2)
	assert.False(t, a.Slots[1][0].Collision)
	assert.True(t, a.Slots[1][1].Collision)
}

func TestAssignSlots_Deterministic(t *testing.T) {
	bookings := []*domain.Booking{
		booking(3, "2025-06-02", "2025-06-04", 0),
		booking(1, "2025-06-01", "2025-06-05", 0),
		booking(2, "2025-06-03", "2025-06-08", 0),
		booking(4, "2025-06-04", "2025-06-06", 0),
	}
	reversed := []*domain.Booking{bookings[3], bookings[2], bookings[1], bookings[0]}

	first := AssignSlots(1, bookings, 2)
	second := AssignSlots(1, reversed, 2)

	assert.Equal(t, first.BookingSlot, second.BookingSlot)
	assert.Equal(t, first.Collisions, second.Collisions)

	// входной срез не переупорядочивается
	assert.Equal(t, int64(3), bookings[0].ID)
}

func TestAssignSlots_DefaultSlotCount(t *testing.T) {
	a := AssignSlots(1, nil, 0)

	assert.Equal(t, domain.DefaultSlotCount, a.SlotCount)
	assert.Len(t, a.Slots, domain.DefaultSlotCount)
	assert.Empty(t, a.BookingSlot)
	assert.False(t, a.HasCollisions())
}
