package payment_success

import (
	reconcilePayment "github.com/m04kA/SMC-HotelBookingService/internal/usecase/reconcile_payment"
)

// PaymentSuccessRequest HTTP request model: сообщение страницы оплаты об успехе
type PaymentSuccessRequest struct {
	BookingID     int64   `json:"bookingId"`
	OrderID       string  `json:"orderId"`
	TransactionID string  `json:"transactionId,omitempty"`
	GrossAmount   float64 `json:"grossAmount,omitempty"`
}

// PaymentResponse HTTP response model
type PaymentResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID int64  `json:"bookingId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PaymentSuccessRequest) ToUseCaseRequest(userID int64) *reconcilePayment.ClientCallback {
	return &reconcilePayment.ClientCallback{
		UserID:        userID,
		BookingID:     r.BookingID,
		OrderID:       r.OrderID,
		TransactionID: r.TransactionID,
		GrossAmount:   r.GrossAmount,
	}
}
