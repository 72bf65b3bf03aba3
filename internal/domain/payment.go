package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PaymentMethod способ оплаты бронирования
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodGateway PaymentMethod = "gateway"
)

// Статусы платежа, которые выставляет сам сервис.
// Остальные значения PaymentRecord.Status - статусы транзакции из шлюза как есть.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusPayAtHotel = "pay at hotel"
)

// Статусы транзакции платежного шлюза
const (
	GatewayStatusCapture    = "capture"
	GatewayStatusSettlement = "settlement"
	GatewayStatusPending    = "pending"
	GatewayStatusDeny       = "deny"
	GatewayStatusCancel     = "cancel"
	GatewayStatusExpire     = "expire"
	GatewayStatusFailure    = "failure"
)

// Fraud статусы платежного шлюза
const (
	FraudStatusAccept    = "accept"
	FraudStatusChallenge = "challenge"
	FraudStatusDeny      = "deny"
)

var (
	// ErrInvalidPaymentMethod возвращается при неизвестном способе оплаты
	ErrInvalidPaymentMethod = errors.New("domain: invalid payment method")

	// ErrInvalidOrderID возвращается, если order id не в формате PREFIX-{bookingId}-{timestamp}
	ErrInvalidOrderID = errors.New("domain: invalid order id format")
)

// PaymentRecord платёжные данные, встроенные в бронирование.
// OrderID после установки не меняется и служит ключом идемпотентности.
type PaymentRecord struct {
	Method        PaymentMethod
	OrderID       *string
	TransactionID *string
	Amount        float64
	Status        string
	UpdatedAt     *time.Time

	// Токен и ссылка страницы оплаты, выданные шлюзом. Повторный запрос создания их переиспользует.
	Token       *string
	RedirectURL *string
}

// ParsePaymentMethod конвертирует строку в PaymentMethod. Пустая строка - gateway.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", PaymentMethodGateway:
		return PaymentMethodGateway, nil
	case PaymentMethodCash:
		return PaymentMethodCash, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
	}
}

// MapGatewayStatus переводит статус транзакции шлюза в статус бронирования.
// Неизвестный статус никогда не подтверждает бронирование.
func MapGatewayStatus(transactionStatus, fraudStatus string) BookingStatus {
	transactionStatus = strings.ToLower(strings.TrimSpace(transactionStatus))
	fraudStatus = strings.ToLower(strings.TrimSpace(fraudStatus))

	switch transactionStatus {
	case GatewayStatusCapture, GatewayStatusSettlement:
		switch fraudStatus {
		case "", FraudStatusAccept:
			return StatusConfirmed
		case FraudStatusChallenge:
			return StatusPending
		case FraudStatusDeny:
			return StatusCancelled
		default:
			return StatusPending
		}
	case GatewayStatusCancel, GatewayStatusDeny, GatewayStatusExpire, GatewayStatusFailure:
		return StatusCancelled
	default:
		return StatusPending
	}
}

// FormatOrderID формирует order id шлюза: PREFIX-{bookingId}-{timestamp}
func FormatOrderID(prefix string, bookingID int64, at time.Time) string {
	return fmt.Sprintf("%s-%d-%d", prefix, bookingID, at.UnixMilli())
}

// ParseOrderID извлекает ID бронирования из order id формата PREFIX-{bookingId}-{timestamp}.
// Префикс сам может содержать дефисы, поэтому разбор идёт с конца.
func ParseOrderID(orderID string) (int64, error) {
	parts := strings.Split(orderID, "-")
	if len(parts) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderID, orderID)
	}

	if _, err := strconv.ParseInt(parts[len(parts)-1], 10, 64); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderID, orderID)
	}

	bookingID, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil || bookingID <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderID, orderID)
	}

	if strings.Join(parts[:len(parts)-2], "-") == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderID, orderID)
	}

	return bookingID, nil
}
