package check_availability

import (
	"context"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountOverlapping(ctx context.Context, roomTypeID int64, checkIn, checkOut types.Date, excludeID int64) (int, error)
}

// RoomTypeRepository интерфейс каталога типов номеров
type RoomTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
}

// Metrics счётчики доменных аномалий
type Metrics interface {
	InventoryOversell(roomTypeID int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
