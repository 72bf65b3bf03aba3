package events

import (
	"time"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
)

// Типы событий жизненного цикла бронирования (routing key топика)
const (
	TypeBookingCreated    = "booking.created"
	TypeBookingConfirmed  = "booking.confirmed"
	TypeBookingCheckedIn  = "booking.checked_in"
	TypeBookingCheckedOut = "booking.checked_out"
	TypeBookingCancelled  = "booking.cancelled"
	TypeBookingPending    = "booking.pending"
)

// BookingEvent событие для почтового сервиса и других подписчиков
type BookingEvent struct {
	Type           string     `json:"type"`
	BookingID      int64      `json:"booking_id"`
	RoomTypeID     int64      `json:"room_type_id"`
	UserID         int64      `json:"user_id"`
	Status         string     `json:"status"`
	PreviousStatus string     `json:"previous_status,omitempty"`
	CheckIn        string     `json:"check_in"`
	CheckOut       string     `json:"check_out"`
	GuestName      string     `json:"guest_name"`
	GuestEmail     string     `json:"guest_email"`
	TotalPrice     float64    `json:"total_price"`
	PaymentMethod  string     `json:"payment_method"`
	PaymentStatus  string     `json:"payment_status"`
	OrderID        *string    `json:"order_id,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

// TypeForStatus возвращает тип события для нового статуса бронирования
func TypeForStatus(status domain.BookingStatus) string {
	return "booking." + string(status)
}

// NewBookingEvent собирает событие из бронирования
func NewBookingEvent(eventType string, b *domain.Booking, previous domain.BookingStatus, at time.Time) BookingEvent {
	return BookingEvent{
		Type:           eventType,
		BookingID:      b.ID,
		RoomTypeID:     b.RoomTypeID,
		UserID:         b.UserID,
		Status:         string(b.Status),
		PreviousStatus: string(previous),
		CheckIn:        b.CheckIn.String(),
		CheckOut:       b.CheckOut.String(),
		GuestName:      b.GuestName,
		GuestEmail:     b.GuestEmail,
		TotalPrice:     b.TotalPrice,
		PaymentMethod:  string(b.Payment.Method),
		PaymentStatus:  b.Payment.Status,
		OrderID:        b.Payment.OrderID,
		OccurredAt:     at.UTC(),
		CancelledAt:    b.CancelledAt,
	}
}
