package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	roomTypeRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/roomtype"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// UseCase счётчик номерного фонда: сколько номеров типа свободно на период
type UseCase struct {
	bookingRepo  BookingRepository
	roomTypeRepo RoomTypeRepository
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomTypeRepo RoomTypeRepository,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomTypeRepo: roomTypeRepo,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет use case проверки доступности. Только чтение.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: room_type=%d, check_in=%s, check_out=%s",
		req.RoomTypeID, req.CheckIn, req.CheckOut)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тип номера из каталога
	roomType, err := uc.roomTypeRepo.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, roomTypeRepo.ErrRoomTypeNotFound) {
			uc.logger.Warn("CheckAvailability: room type id=%d not found", req.RoomTypeID)
			return nil, ErrRoomTypeNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get room type id=%d: %v", req.RoomTypeID, err)
		return nil, fmt.Errorf("%w: failed to get room type: %v", ErrInternal, err)
	}

	// 3. Считаем занятость
	availability, err := uc.Count(ctx, roomType, req.CheckIn, req.CheckOut, 0)
	if err != nil {
		return nil, err
	}

	return &Response{
		RoomTypeID:   availability.RoomTypeID,
		CheckIn:      availability.CheckIn,
		CheckOut:     availability.CheckOut,
		UnitCount:    availability.UnitCount,
		Occupied:     availability.Occupied,
		RawAvailable: availability.Raw,
		Available:    availability.Available(),
	}, nil
}

// Count считает доступность типа номера на [checkIn, checkOut).
// Вызывается и внутри транзакций create_booking и reconcile_payment: репозиторий
// подхватывает транзакцию из контекста. excludeID > 0 исключает бронирование из подсчёта.
func (uc *UseCase) Count(
	ctx context.Context,
	roomType *domain.RoomType,
	checkIn, checkOut types.Date,
	excludeID int64,
) (*domain.Availability, error) {
	occupied, err := uc.bookingRepo.CountOverlapping(ctx, roomType.ID, checkIn, checkOut, excludeID)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to count bookings for room_type=%d: %v", roomType.ID, err)
		return nil, fmt.Errorf("%w: failed to count bookings: %w", ErrInternal, err)
	}

	availability := &domain.Availability{
		RoomTypeID: roomType.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		UnitCount:  roomType.UnitCount,
		Occupied:   occupied,
		Raw:        roomType.UnitCount - occupied,
	}

	if availability.IsOversold() {
		uc.logger.Warn("CheckAvailability: room_type=%d oversold by %d for %s..%s",
			roomType.ID, -availability.Raw, checkIn, checkOut)
		uc.metrics.InventoryOversell(roomType.ID)
	}

	return availability, nil
}
