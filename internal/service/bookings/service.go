package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-HotelBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: чтение, отмена, смена статуса
type Service struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Владелец видит своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	// Проверяем права доступа
	if !actor.IsAdmin() && !booking.IsOwnedBy(actor.UserID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrForbidden
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу. Чужую историю видит только администратор.
func (s *Service) GetUserBookings(ctx context.Context, actor domain.Actor, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}

	if !actor.IsAdmin() && actor.UserID != req.UserID {
		s.logger.Warn("GetUserBookings: user=%d is not allowed to read bookings of user=%d", actor.UserID, req.UserID)
		return nil, ErrForbidden
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// ListBookings выборка бронирований для персонала
//
// Примеры использования:
// - Все бронирования типа номера: указать RoomTypeID
// - Бронирования, пересекающиеся с периодом: From и To
// - Только подтвержденные: Status = "confirmed"
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBookings: room_type=%v, user=%v, from=%v, to=%v, status=%v",
		req.RoomTypeID, req.UserID, req.From, req.To, req.Status)

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if filter.From != nil && filter.To != nil && !domain.ValidRange(*filter.From, *filter.To) {
		s.logger.Warn("ListBookings: invalid period %s - %s", filter.From, filter.To)
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// CancelByGuest отменяет бронирование по запросу гостя
// Гость может отменить только своё бронирование в статусе pending или confirmed
func (s *Service) CancelByGuest(ctx context.Context, bookingID int64, requesterID int64) (*models.BookingResponse, error) {
	s.logger.Info("CancelByGuest: cancelling booking id=%d by user=%d", bookingID, requesterID)

	booking, err := s.getBooking(ctx, "CancelByGuest", bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(requesterID) {
		s.logger.Warn("CancelByGuest: access denied for user=%d to cancel booking id=%d", requesterID, bookingID)
		return nil, ErrForbidden
	}

	if !booking.CanBeCancelledByGuest() {
		s.logger.Warn("CancelByGuest: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
	}

	if err := s.apply(ctx, "CancelByGuest", booking, domain.StatusCancelled, false); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// UpdateStatus меняет статус бронирования по запросу администратора.
// Force пропускает проверку автомата статусов.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	if req.Force {
		return s.ForceTransition(ctx, bookingID, req.Status)
	}
	return s.Transition(ctx, bookingID, req.Status)
}

// Transition переводит бронирование в новый статус по автомату статусов
func (s *Service) Transition(ctx context.Context, bookingID int64, newStatus string) (*models.BookingResponse, error) {
	s.logger.Info("Transition: updating booking id=%d to status=%s", bookingID, newStatus)

	status, err := domain.ParseBookingStatus(newStatus)
	if err != nil {
		s.logger.Warn("Transition: invalid status=%s for booking id=%d", newStatus, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "Transition", bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(status) {
		s.logger.Warn("Transition: %s -> %s is not allowed for booking id=%d", booking.Status, status, bookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, status)
	}

	if err := s.apply(ctx, "Transition", booking, status, false); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// ForceTransition переводит бронирование в любой статус без проверки автомата.
// Только для администраторов: ручное исправление данных.
func (s *Service) ForceTransition(ctx context.Context, bookingID int64, newStatus string) (*models.BookingResponse, error) {
	status, err := domain.ParseBookingStatus(newStatus)
	if err != nil {
		s.logger.Warn("ForceTransition: invalid status=%s for booking id=%d", newStatus, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "ForceTransition", bookingID)
	if err != nil {
		return nil, err
	}

	s.logger.Warn("ForceTransition: forcing booking id=%d from %s to %s", bookingID, booking.Status, status)

	if err := s.apply(ctx, "ForceTransition", booking, status, true); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

// getBooking загружает бронирование и переводит ошибки репозитория в ошибки сервиса
func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// apply записывает новый статус и обновляет booking на месте.
// Обычный переход применяется только если статус в БД не изменился с момента чтения.
func (s *Service) apply(ctx context.Context, op string, booking *domain.Booking, to domain.BookingStatus, forced bool) error {
	from := booking.Status

	var err error
	if forced {
		err = s.bookingRepo.ForceStatus(ctx, booking.ID, to)
	} else {
		err = s.bookingRepo.UpdateStatus(ctx, booking.ID, from, to)
	}

	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("%s: booking id=%d not found during update", op, booking.ID)
			return ErrBookingNotFound
		case errors.Is(err, bookingRepo.ErrStatusChanged):
			s.logger.Warn("%s: booking id=%d changed status concurrently, expected %s", op, booking.ID, from)
			return fmt.Errorf("%w: booking was modified concurrently", ErrInvalidTransition)
		default:
			s.logger.Error("%s: repository error for booking id=%d: %v", op, booking.ID, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
	}

	now := s.timeProvider.Now()
	booking.Status = to
	booking.UpdatedAt = now
	if to == domain.StatusCancelled {
		booking.CancelledAt = &now
	}

	s.logger.Info("%s: successfully updated booking id=%d from %s to %s", op, booking.ID, from, to)
	s.metrics.BookingTransition(string(from), string(to), forced)

	if from != to {
		event := events.NewBookingEvent(events.TypeForStatus(to), booking, from, now)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("%s: failed to publish %s for booking id=%d: %v", op, event.Type, booking.ID, err)
		}
	}

	return nil
}
