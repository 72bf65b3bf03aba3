package domain

import (
	"time"

	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// Booking represents a room reservation.
// Бронирования не удаляются - только переводятся в терминальный статус.
type Booking struct {
	ID         int64
	RoomTypeID int64
	UserID     int64
	CheckIn    types.Date
	CheckOut   types.Date // не включается: гость выезжает в этот день
	GuestCount int
	TotalPrice float64
	Status     BookingStatus
	Payment    PaymentRecord

	// Контакты гостя (для уведомлений)
	GuestName  string
	GuestEmail string
	GuestPhone *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the booking consumes inventory
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// CanBeCancelledByGuest returns true if the guest may cancel the booking
func (b *Booking) CanBeCancelledByGuest() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsOwnedBy returns true if the booking belongs to the user
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// Nights количество ночей проживания
func (b *Booking) Nights() int {
	return b.CheckIn.DaysUntil(b.CheckOut)
}

// Overlaps returns true if the booking stay intersects [checkIn, checkOut)
func (b *Booking) Overlaps(checkIn, checkOut types.Date) bool {
	return Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut)
}

// Overlaps проверяет пересечение полуинтервалов [aIn, aOut) и [bIn, bOut).
// Бронирование, заканчивающееся в день D, не конфликтует с заездом в день D.
func Overlaps(aIn, aOut, bIn, bOut types.Date) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// ValidRange returns true if checkOut is strictly after checkIn
func ValidRange(checkIn, checkOut types.Date) bool {
	return !checkIn.IsZero() && !checkOut.IsZero() && checkOut.After(checkIn)
}

// BookingFilter фильтр для выборки бронирований
type BookingFilter struct {
	RoomTypeID      *int64
	UserID          *int64
	From            *types.Date // бронирования, пересекающиеся с [From, To)
	To              *types.Date
	Statuses        []BookingStatus // пусто - любые статусы
	ExcludeStatuses []BookingStatus
}

// Availability результат подсчёта свободных номеров на период
type Availability struct {
	RoomTypeID int64
	CheckIn    types.Date
	CheckOut   types.Date
	UnitCount  int
	Occupied   int // активные бронирования, пересекающиеся с периодом
	Raw        int // UnitCount - Occupied, может быть отрицательным при овербукинге
}

// Available количество свободных номеров для отображения (не меньше 0)
func (a *Availability) Available() int {
	if a.Raw < 0 {
		return 0
	}
	return a.Raw
}

// IsOversold returns true if more active bookings overlap than units exist
func (a *Availability) IsOversold() bool {
	return a.Raw < 0
}
