package create_booking

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
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	SetOrderID(ctx context.Context, id int64, orderID string) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error)
	LockRoomType(ctx context.Context, roomTypeID int64) error
	SetPaymentToken(ctx context.Context, id int64, token, redirectURL string) error
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
	CreateTransaction(ctx context.Context, in paymentgateway.CreateTransactionRequest) (*paymentgateway.Transaction, error)
}

// EventPublisher интерфейс публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	BookingCreated(method string)
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
