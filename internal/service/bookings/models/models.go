package models

import (
	"time"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// ListBookingsRequest запрос персонала на выборку бронирований
type ListBookingsRequest struct {
	RoomTypeID *int64      `json:"roomTypeId,omitempty"`
	UserID     *int64      `json:"userId,omitempty"`
	From       *types.Date `json:"from,omitempty"` // бронирования, пересекающиеся с [From, To)
	To         *types.Date `json:"to,omitempty"`
	Status     *string     `json:"status,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Force  bool   `json:"force,omitempty"` // переход в обход автомата статусов
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingFilter, error) {
	filter := domain.BookingFilter{
		RoomTypeID: r.RoomTypeID,
		UserID:     r.UserID,
		From:       r.From,
		To:         r.To,
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.BookingStatus{status}
	}

	return filter, nil
}

// Response модели

// PaymentResponse платёжная часть бронирования
type PaymentResponse struct {
	Method        string     `json:"method"`
	OrderID       *string    `json:"orderId,omitempty"`
	TransactionID *string    `json:"transactionId,omitempty"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64   `json:"id"`
	RoomTypeID int64   `json:"roomTypeId"`
	UserID     int64   `json:"userId"`
	CheckIn    string  `json:"checkIn"`  // "2025-10-15"
	CheckOut   string  `json:"checkOut"` // не включается
	Nights     int     `json:"nights"`
	GuestCount int     `json:"guestCount"`
	GuestName  string  `json:"guestName"`
	GuestEmail string  `json:"guestEmail"`
	GuestPhone *string `json:"guestPhone,omitempty"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`

	Payment PaymentResponse `json:"payment"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:         b.ID,
		RoomTypeID: b.RoomTypeID,
		UserID:     b.UserID,
		CheckIn:    b.CheckIn.String(),
		CheckOut:   b.CheckOut.String(),
		Nights:     b.Nights(),
		GuestCount: b.GuestCount,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		GuestPhone: b.GuestPhone,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		Payment: PaymentResponse{
			Method:        string(b.Payment.Method),
			OrderID:       b.Payment.OrderID,
			TransactionID: b.Payment.TransactionID,
			Amount:        b.Payment.Amount,
			Status:        b.Payment.Status,
			UpdatedAt:     b.Payment.UpdatedAt,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
