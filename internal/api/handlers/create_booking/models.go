package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HotelBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-HotelBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	RoomTypeID    int64   `json:"roomTypeId"`
	CheckIn       string  `json:"checkIn"`  // "2025-10-15"
	CheckOut      string  `json:"checkOut"` // не включается
	GuestCount    int     `json:"guestCount"`
	GuestName     string  `json:"guestName"`
	GuestEmail    string  `json:"guestEmail"`
	GuestPhone    *string `json:"guestPhone,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"` // cash | gateway
	OrderID       *string `json:"orderId,omitempty"`       // ключ идемпотентности
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking      *models.BookingResponse `json:"booking"`
	PaymentToken string                  `json:"paymentToken,omitempty"`
	RedirectURL  string                  `json:"redirectUrl,omitempty"`
}

// GatewayUnavailableResponse ответ 502: бронирование создано и ждёт оплаты,
// повторный запрос с этим orderId вернёт его вместе с новым токеном
type GatewayUnavailableResponse struct {
	Error     string `json:"error"`
	BookingID int64  `json:"bookingId,omitempty"`
	OrderID   string `json:"orderId,omitempty"`
}

// FromGatewayError достаёт бронирование из ошибки шлюза
func FromGatewayError(err error, message string) *GatewayUnavailableResponse {
	resp := &GatewayUnavailableResponse{Error: message}

	var gwErr *createBooking.GatewayError
	if errors.As(err, &gwErr) {
		resp.BookingID = gwErr.BookingID
		resp.OrderID = gwErr.OrderID
	}

	return resp
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом дат)
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	checkIn, err := types.ParseDate(r.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("checkIn: %w", err)
	}

	checkOut, err := types.ParseDate(r.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("checkOut: %w", err)
	}

	return &createBooking.Request{
		UserID:        userID,
		RoomTypeID:    r.RoomTypeID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		GuestCount:    r.GuestCount,
		GuestName:     r.GuestName,
		GuestEmail:    r.GuestEmail,
		GuestPhone:    r.GuestPhone,
		PaymentMethod: r.PaymentMethod,
		OrderID:       r.OrderID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:      models.FromDomainBooking(resp.Booking),
		PaymentToken: resp.PaymentToken,
		RedirectURL:  resp.RedirectURL,
	}
}
