package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/booking"
	roomTypeRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/roomtype"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-HotelBookingService/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	roomTypeRepo RoomTypeRepository
	counter      AvailabilityCounter
	gateway      PaymentGateway
	publisher    EventPublisher
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	orderPrefix  string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomTypeRepo RoomTypeRepository,
	counter AvailabilityCounter,
	gateway PaymentGateway,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	orderPrefix string,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomTypeRepo: roomTypeRepo,
		counter:      counter,
		gateway:      gateway,
		publisher:    publisher,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		orderPrefix:  orderPrefix,
	}
}

// Execute выполняет use case создания бронирования.
// Подсчёт доступности и вставка выполняются в сериализуемой транзакции
// под advisory-блокировкой типа номера, поэтому параллельные запросы не продают последний номер дважды.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, room_type=%d, check_in=%s, check_out=%s, guests=%d, method=%s",
		req.UserID, req.RoomTypeID, req.CheckIn, req.CheckOut, req.GuestCount, req.PaymentMethod)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	method, _ := domain.ParsePaymentMethod(req.PaymentMethod)

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if err := validateCheckIn(req.CheckIn, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 3. Идемпотентность: повторный запрос с тем же order id возвращает существующее бронирование
	if req.OrderID != nil {
		existing, err := uc.findByOrderID(ctx, *req.OrderID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.UserID != req.UserID {
				uc.logger.Warn("CreateBooking: order_id=%s belongs to booking id=%d of another user", *req.OrderID, existing.ID)
				return nil, ErrOrderIDConflict
			}
			uc.logger.Info("CreateBooking: order_id=%s already used by booking id=%d, returning existing", *req.OrderID, existing.ID)
			return uc.resume(ctx, existing)
		}
	}

	// 4. Получаем тип номера из каталога
	roomType, err := uc.roomTypeRepo.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, roomTypeRepo.ErrRoomTypeNotFound) {
			uc.logger.Warn("CreateBooking: room type id=%d not found", req.RoomTypeID)
			return nil, ErrRoomTypeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get room type id=%d: %v", req.RoomTypeID, err)
		return nil, fmt.Errorf("%w: failed to get room type: %v", ErrInternal, err)
	}

	// 5. Проверяем вместимость
	if !roomType.FitsGuests(req.GuestCount) {
		uc.logger.Warn("CreateBooking: %d guests exceed capacity %d of room type id=%d",
			req.GuestCount, roomType.Capacity, roomType.ID)
		return nil, ErrCapacityExceeded
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 6. Подсчёт и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Сериализуем запись по типу номера
		if err := uc.bookingRepo.LockRoomType(txCtx, roomType.ID); err != nil {
			uc.logger.Error("CreateBooking: failed to lock room type id=%d: %v", roomType.ID, err)
			return fmt.Errorf("%w: failed to lock room type: %w", ErrInternal, err)
		}

		// 6.2. Считаем свободные номера на период
		availability, err := uc.counter.Count(txCtx, roomType, req.CheckIn, req.CheckOut, 0)
		if err != nil {
			return err
		}

		if availability.Available() <= 0 {
			uc.logger.Warn("CreateBooking: no inventory for room_type=%d, %d/%d units taken",
				roomType.ID, availability.Occupied, availability.UnitCount)
			return ErrNoInventory
		}

		uc.logger.Info("CreateBooking: inventory available, %d/%d units taken",
			availability.Occupied, availability.UnitCount)

		// 6.3. Создаем бронирование
		booking := newBooking(req, roomType, method)

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrOrderIDTaken) {
				uc.logger.Warn("CreateBooking: order_id already taken by a concurrent request")
				return ErrOrderIDConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 6.4. Для оплаты через шлюз генерируем order id, если клиент его не передал
		if method == domain.PaymentMethodGateway && created.Payment.OrderID == nil {
			orderID := domain.FormatOrderID(uc.orderPrefix, created.ID, now)
			if err := uc.bookingRepo.SetOrderID(txCtx, created.ID, orderID); err != nil {
				uc.logger.Error("CreateBooking: failed to store order_id for booking id=%d: %v", created.ID, err)
				return fmt.Errorf("%w: failed to store order id: %w", ErrInternal, err)
			}
			created.Payment.OrderID = ptr.Ptr(orderID)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)
	uc.metrics.BookingCreated(string(method))

	response := &Response{Booking: result}

	// 7. Публикуем события (ошибки брокера не влияют на результат)
	uc.publish(ctx, events.TypeBookingCreated, result)
	if result.Status == domain.StatusConfirmed {
		uc.publish(ctx, events.TypeBookingConfirmed, result)
	}

	// 8. Для оплаты через шлюз получаем токен после фиксации транзакции
	if method == domain.PaymentMethodGateway {
		if err := uc.issueToken(ctx, result, roomType.Name); err != nil {
			return nil, err
		}
		response.PaymentToken = ptr.Deref(result.Payment.Token, "")
		response.RedirectURL = ptr.Deref(result.Payment.RedirectURL, "")
	}

	return response, nil
}

// resume возвращает уже созданное бронирование повторного запроса.
// Pending-бронирование через шлюз получает сохранённый токен, а если шлюз его так и не выдал, токен запрашивается снова.
func (uc *UseCase) resume(ctx context.Context, existing *domain.Booking) (*Response, error) {
	response := &Response{Booking: existing, Existing: true}

	if existing.Status != domain.StatusPending || existing.Payment.Method != domain.PaymentMethodGateway {
		return response, nil
	}

	if existing.Payment.Token == nil {
		roomType, err := uc.roomTypeRepo.GetByID(ctx, existing.RoomTypeID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get room type id=%d for booking id=%d: %v", existing.RoomTypeID, existing.ID, err)
			return nil, fmt.Errorf("%w: failed to get room type: %v", ErrInternal, err)
		}

		uc.logger.Info("CreateBooking: booking id=%d has no payment token yet, requesting it again", existing.ID)
		if err := uc.issueToken(ctx, existing, roomType.Name); err != nil {
			return nil, err
		}
	}

	response.PaymentToken = ptr.Deref(existing.Payment.Token, "")
	response.RedirectURL = ptr.Deref(existing.Payment.RedirectURL, "")
	return response, nil
}

// issueToken создаёт транзакцию в шлюзе и сохраняет токен в бронировании.
// Ошибка сохранения токена не отменяет ответ: токен уже выдан гостю.
func (uc *UseCase) issueToken(ctx context.Context, b *domain.Booking, roomTypeName string) error {
	orderID := ptr.Deref(b.Payment.OrderID, "")

	tx, err := uc.gateway.CreateTransaction(ctx, paymentgateway.CreateTransactionRequest{
		OrderID:     orderID,
		GrossAmount: b.TotalPrice,
		Customer: paymentgateway.Customer{
			Name:  b.GuestName,
			Email: b.GuestEmail,
			Phone: ptr.Deref(b.GuestPhone, ""),
		},
		ItemName: fmt.Sprintf("%s x%d nights", roomTypeName, b.Nights()),
	})
	if err != nil {
		uc.logger.Error("CreateBooking: gateway transaction failed for booking id=%d, order_id=%s: %v", b.ID, orderID, err)
		return &GatewayError{BookingID: b.ID, OrderID: orderID, Err: err}
	}

	b.Payment.Token = ptr.Ptr(tx.Token)
	b.Payment.RedirectURL = ptr.Ptr(tx.RedirectURL)

	if err := uc.bookingRepo.SetPaymentToken(ctx, b.ID, tx.Token, tx.RedirectURL); err != nil {
		uc.logger.Warn("CreateBooking: failed to store payment token for booking id=%d: %v", b.ID, err)
	}

	return nil
}

// findByOrderID возвращает nil без ошибки, если бронирования с order id нет
func (uc *UseCase) findByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	existing, err := uc.bookingRepo.GetByOrderID(ctx, orderID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, nil
	}
	if err != nil {
		uc.logger.Error("CreateBooking: failed to look up order_id=%s: %v", orderID, err)
		return nil, fmt.Errorf("%w: failed to look up order id: %v", ErrInternal, err)
	}
	return existing, nil
}

func (uc *UseCase) publish(ctx context.Context, eventType string, b *domain.Booking) {
	event := events.NewBookingEvent(eventType, b, "", uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s for booking id=%d: %v", eventType, b.ID, err)
	}
}

// newBooking собирает бронирование: наличные сразу подтверждаются, шлюз ждёт оплату
func newBooking(req *Request, roomType *domain.RoomType, method domain.PaymentMethod) *domain.Booking {
	total := roomType.PriceFor(req.CheckIn.DaysUntil(req.CheckOut))

	booking := &domain.Booking{
		RoomTypeID: roomType.ID,
		UserID:     req.UserID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		GuestCount: req.GuestCount,
		GuestName:  strings.TrimSpace(req.GuestName),
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		GuestPhone: req.GuestPhone,
		TotalPrice: total,
		Payment: domain.PaymentRecord{
			Method:  method,
			OrderID: req.OrderID,
			Amount:  total,
		},
	}

	switch method {
	case domain.PaymentMethodCash:
		booking.Status = domain.StatusConfirmed
		booking.Payment.Status = domain.PaymentStatusPayAtHotel
	default:
		booking.Status = domain.StatusPending
		booking.Payment.Status = domain.PaymentStatusPending
	}

	return booking
}
