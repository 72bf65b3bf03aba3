package reconcile_payment

import "github.com/m04kA/SMC-HotelBookingService/internal/domain"

// Каналы подтверждения оплаты (метка метрик)
const (
	ChannelClient  = "client"
	ChannelGateway = "gateway"
)

// Исходы сверки (метка метрик)
const (
	outcomeConfirmed        = "confirmed"
	outcomeCancelled        = "cancelled"
	outcomePending          = "pending"
	outcomeAlreadyFinal     = "already_final"
	outcomeConflict         = "conflict"
	outcomeNotFound         = "not_found"
	outcomeVerification     = "verification_failed"
	outcomeConcurrentUpdate = "concurrent_update"
	outcomeError            = "error"
)

// ClientCallback сообщение об успешной оплате от браузера гостя. Не проверяется в шлюзе.
type ClientCallback struct {
	UserID        int64 // ID гостя из заголовка идентификации, 0 - не проверять владельца
	BookingID     int64
	OrderID       string
	TransactionID string
	GrossAmount   float64
}

// Notification серверное уведомление шлюза о статусе транзакции
type Notification struct {
	OrderID           string
	StatusCode        string
	GrossAmount       string // строка как есть, участвует в подписи
	SignatureKey      string
	TransactionStatus string
	FraudStatus       string
	TransactionID     string
	PaymentType       string
}

// Result результат сверки
type Result struct {
	BookingID        int64
	PreviousStatus   domain.BookingStatus
	Status           domain.BookingStatus
	AlreadyConfirmed bool // бронирование уже было подтверждено, запись не выполнялась
	Changed          bool // статус бронирования изменился
}

// gatewayUpdate проверенные данные платежа, которые применяются к бронированию
type gatewayUpdate struct {
	channel           string
	bookingID         int64
	userID            int64
	orderID           string
	transactionID     string
	transactionStatus string
	fraudStatus       string
	amount            float64
}
