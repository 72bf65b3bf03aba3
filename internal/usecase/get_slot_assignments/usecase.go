package get_slot_assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	roomTypeRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/roomtype"
)

// UseCase use case календарной раскладки бронирований для персонала. Ничего не пишет.
type UseCase struct {
	bookingRepo  BookingRepository
	roomTypeRepo RoomTypeRepository
	metrics      Metrics
	logger       Logger
	slotCount    int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomTypeRepo RoomTypeRepository,
	metrics Metrics,
	logger Logger,
	slotCount int,
) *UseCase {
	if slotCount < 1 {
		slotCount = domain.DefaultSlotCount
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomTypeRepo: roomTypeRepo,
		metrics:      metrics,
		logger:       logger,
		slotCount:    slotCount,
	}
}

// Execute выполняет use case получения раскладки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSlotAssignments: room_type=%d, from=%s, to=%s", req.RoomTypeID, req.From, req.To)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSlotAssignments: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тип номера
	roomType, err := uc.roomTypeRepo.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, roomTypeRepo.ErrRoomTypeNotFound) {
			uc.logger.Warn("GetSlotAssignments: room type id=%d not found", req.RoomTypeID)
			return nil, ErrRoomTypeNotFound
		}
		uc.logger.Error("GetSlotAssignments: failed to get room type id=%d: %v", req.RoomTypeID, err)
		return nil, fmt.Errorf("%w: failed to get room type: %v", ErrInternal, err)
	}

	// 3. Загружаем все неотменённые бронирования типа номера, начинающиеся до конца окна.
	// Нижней границы нет: строка бронирования не должна зависеть от того, какое окно смотрят.
	from, to := req.From, req.To
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingFilter{
		RoomTypeID:      &roomType.ID,
		To:              &to,
		ExcludeStatuses: []domain.BookingStatus{domain.StatusCancelled},
	})
	if err != nil {
		uc.logger.Error("GetSlotAssignments: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	// 4. Раскладываем по строкам и оставляем только то, что пересекается с окном
	assignment := AssignSlots(roomType.ID, bookings, uc.slotCount)

	rows := make([]Row, 0, assignment.SlotCount)
	collisions := make([]int64, 0, len(assignment.Collisions))
	for slot := 1; slot <= assignment.SlotCount; slot++ {
		entries := make([]domain.SlotEntry, 0, len(assignment.Slots[slot]))
		for _, entry := range assignment.Slots[slot] {
			if domain.Overlaps(entry.CheckIn, entry.CheckOut, from, to) {
				entries = append(entries, entry)
				if entry.Collision {
					collisions = append(collisions, entry.BookingID)
				}
			}
		}
		rows = append(rows, Row{Slot: slot, Bookings: entries})
	}

	if len(collisions) > 0 {
		uc.logger.Warn("GetSlotAssignments: room_type=%d has %d bookings without a free row (slot count %d): %v",
			roomType.ID, len(collisions), assignment.SlotCount, collisions)
		uc.metrics.SlotCollisions(roomType.ID, len(collisions))
	}

	return &Response{
		RoomTypeID:   roomType.ID,
		RoomTypeName: roomType.Name,
		UnitCount:    roomType.UnitCount,
		From:         req.From,
		To:           req.To,
		SlotCount:    assignment.SlotCount,
		Rows:         rows,
		Collisions:   collisions,
	}, nil
}
