package list_room_types

import (
	"context"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
)

type RoomTypeCatalog interface {
	List(ctx context.Context) ([]*domain.RoomType, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
