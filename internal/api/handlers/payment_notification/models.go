package payment_notification

import (
	reconcilePayment "github.com/m04kA/SMC-HotelBookingService/internal/usecase/reconcile_payment"
)

// NotificationRequest уведомление платёжного шлюза (формат шлюза, snake_case)
type NotificationRequest struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
}

// NotificationResponse HTTP response model
type NotificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToUseCaseRequest конвертирует уведомление в модель use case
func (r *NotificationRequest) ToUseCaseRequest() *reconcilePayment.Notification {
	return &reconcilePayment.Notification{
		OrderID:           r.OrderID,
		StatusCode:        r.StatusCode,
		GrossAmount:       r.GrossAmount,
		SignatureKey:      r.SignatureKey,
		TransactionStatus: r.TransactionStatus,
		FraudStatus:       r.FraudStatus,
		TransactionID:     r.TransactionID,
		PaymentType:       r.PaymentType,
	}
}
