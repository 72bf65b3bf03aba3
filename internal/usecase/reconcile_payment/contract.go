package reconcile_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error)
	ApplyPayment(ctx context.Context, id int64, from, to domain.BookingStatus, payment domain.PaymentRecord) error
	LockRoomType(ctx context.Context, roomTypeID int64) error
}

// RoomTypeRepository интерфейс каталога типов номеров
type RoomTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
}

// AvailabilityCounter счётчик номерного фонда (check_availability.UseCase)
type AvailabilityCounter interface {
	Count(ctx context.Context, roomType *domain.RoomType, checkIn, checkOut types.Date, excludeID int64) (*domain.Availability, error)
}

// PaymentGateway интерфейс клиента платежного шлюза
type PaymentGateway interface {
	GetStatus(ctx context.Context, orderID string) (*paymentgateway.TransactionStatus, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

// EventPublisher интерфейс публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	ReconciliationEvent(channel, outcome string)
	InventoryOversell(roomTypeID int64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
