package roomtype

import (
	"context"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Reader чтение каталога типов номеров
type Reader interface {
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
}
