package reconcile_payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-HotelBookingService/pkg/ptr"
)

// UseCase сверка платежей: приводит статус бронирования в соответствие со статусом оплаты.
// Оба канала (клиент и шлюз) сходятся в один идемпотентный шаг apply.
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
	}
}

// HandleClientCallback обрабатывает сообщение браузера об успешной оплате.
// Сообщение трактуется как settlement и проверяется только на владельца бронирования.
func (uc *UseCase) HandleClientCallback(ctx context.Context, cb *ClientCallback) (*Result, error) {
	uc.logger.Info("ReconcilePayment: client callback booking=%d, order_id=%s, transaction_id=%s",
		cb.BookingID, cb.OrderID, cb.TransactionID)

	// 1. Валидация входных данных
	if err := validateCallback(cb); err != nil {
		uc.logger.Warn("ReconcilePayment: callback validation failed: %v", err)
		uc.metrics.ReconciliationEvent(ChannelClient, outcomeError)
		return nil, err
	}

	// 2. Применяем
	return uc.apply(ctx, gatewayUpdate{
		channel:           ChannelClient,
		bookingID:         cb.BookingID,
		userID:            cb.UserID,
		orderID:           strings.TrimSpace(cb.OrderID),
		transactionID:     cb.TransactionID,
		transactionStatus: domain.GatewayStatusSettlement,
		amount:            cb.GrossAmount,
	})
}

// HandleNotification обрабатывает серверное уведомление шлюза.
// Доверяем только статусу, полученному от шлюза при повторной проверке.
func (uc *UseCase) HandleNotification(ctx context.Context, n *Notification) (*Result, error) {
	uc.logger.Info("ReconcilePayment: gateway notification order_id=%s, status=%s, fraud=%s",
		n.OrderID, n.TransactionStatus, n.FraudStatus)

	// 1. Валидация входных данных
	if err := validateNotification(n); err != nil {
		uc.logger.Warn("ReconcilePayment: notification validation failed: %v", err)
		uc.metrics.ReconciliationEvent(ChannelGateway, outcomeFor(err))
		return nil, err
	}

	// 2. Проверяем подпись
	if !uc.gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		uc.logger.Warn("ReconcilePayment: invalid signature for order_id=%s", n.OrderID)
		uc.metrics.ReconciliationEvent(ChannelGateway, outcomeVerification)
		return nil, fmt.Errorf("%w: invalid signature", ErrVerificationFailed)
	}

	// 3. Перепроверяем статус транзакции в шлюзе
	status, err := uc.gateway.GetStatus(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrTransactionNotFound) || errors.Is(err, paymentgateway.ErrUnauthorized) {
			uc.logger.Warn("ReconcilePayment: gateway does not confirm order_id=%s: %v", n.OrderID, err)
			uc.metrics.ReconciliationEvent(ChannelGateway, outcomeVerification)
			return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
		uc.logger.Error("ReconcilePayment: failed to get gateway status for order_id=%s: %v", n.OrderID, err)
		uc.metrics.ReconciliationEvent(ChannelGateway, outcomeError)
		return nil, fmt.Errorf("%w: failed to get gateway status: %v", ErrInternal, err)
	}

	if !strings.EqualFold(status.TransactionStatus, n.TransactionStatus) {
		uc.logger.Warn("ReconcilePayment: notification status %s differs from gateway status %s for order_id=%s, using gateway",
			n.TransactionStatus, status.TransactionStatus, n.OrderID)
	}

	// 4. Определяем бронирование по order id
	bookingID, err := uc.resolveBookingID(ctx, n.OrderID)
	if err != nil {
		uc.metrics.ReconciliationEvent(ChannelGateway, outcomeFor(err))
		return nil, err
	}

	transactionID := status.TransactionID
	if transactionID == "" {
		transactionID = n.TransactionID
	}

	// 5. Применяем проверенный статус
	return uc.apply(ctx, gatewayUpdate{
		channel:           ChannelGateway,
		bookingID:         bookingID,
		orderID:           n.OrderID,
		transactionID:     transactionID,
		transactionStatus: status.TransactionStatus,
		fraudStatus:       status.FraudStatus,
		amount:            parseAmount(status.GrossAmount, n.GrossAmount),
	})
}

// resolveBookingID ищет бронирование по сохранённому order id (ключ идемпотентности).
// Разбор формата PREFIX-{bookingId}-{timestamp} используется только если такого order id ещё нет в базе:
// order id клиента может совпасть с форматом и указывать на чужое бронирование.
func (uc *UseCase) resolveBookingID(ctx context.Context, orderID string) (int64, error) {
	booking, err := uc.bookingRepo.GetByOrderID(ctx, orderID)
	if err == nil {
		return booking.ID, nil
	}
	if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Error("ReconcilePayment: failed to look up order_id=%s: %v", orderID, err)
		return 0, fmt.Errorf("%w: failed to look up order id: %v", ErrInternal, err)
	}

	id, parseErr := domain.ParseOrderID(orderID)
	if parseErr != nil {
		uc.logger.Warn("ReconcilePayment: no booking for order_id=%s", orderID)
		return 0, ErrBookingNotFound
	}

	uc.logger.Info("ReconcilePayment: order_id=%s is not stored yet, decoded booking id=%d", orderID, id)
	return id, nil
}

// apply идемпотентно применяет статус оплаты к бронированию.
// Строка бронирования блокируется (FOR UPDATE), запись условная по предыдущему статусу.
func (uc *UseCase) apply(ctx context.Context, upd gatewayUpdate) (*Result, error) {
	var (
		result  *Result
		updated *domain.Booking
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Загружаем бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, upd.bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ReconcilePayment: booking id=%d not found", upd.bookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("ReconcilePayment: failed to load booking id=%d: %v", upd.bookingID, err)
			return fmt.Errorf("%w: failed to load booking: %w", ErrInternal, err)
		}

		if upd.userID > 0 && !booking.IsOwnedBy(upd.userID) {
			uc.logger.Warn("ReconcilePayment: user=%d is not the owner of booking id=%d", upd.userID, booking.ID)
			return ErrForbidden
		}

		// 2. order id должен совпадать с уже сохранённым
		if upd.orderID != "" && booking.Payment.OrderID != nil && *booking.Payment.OrderID != upd.orderID {
			uc.logger.Warn("ReconcilePayment: order_id=%s does not match stored order_id=%s of booking id=%d",
				upd.orderID, *booking.Payment.OrderID, booking.ID)
			return fmt.Errorf("%w: order id mismatch", ErrConflict)
		}

		target := domain.MapGatewayStatus(upd.transactionStatus, upd.fraudStatus)
		result = &Result{BookingID: booking.ID, PreviousStatus: booking.Status, Status: booking.Status}

		// 3. Уже подтверждено (или гость уже заехал/выехал) - ничего не пишем
		switch booking.Status {
		case domain.StatusConfirmed, domain.StatusCheckedIn, domain.StatusCheckedOut:
			uc.logger.Info("ReconcilePayment: booking id=%d already %s, %s ignored",
				booking.ID, booking.Status, upd.transactionStatus)
			result.AlreadyConfirmed = true
			return nil
		case domain.StatusCancelled:
			if target == domain.StatusCancelled {
				uc.logger.Info("ReconcilePayment: booking id=%d already cancelled", booking.ID)
				return nil
			}
			uc.logger.Warn("ReconcilePayment: payment %s for cancelled booking id=%d, order_id=%s needs manual refund",
				upd.transactionStatus, booking.ID, upd.orderID)
			return fmt.Errorf("%w: booking id=%d is cancelled", ErrConflict, booking.ID)
		}

		// 4. Подтверждение: пересчитываем фонд под блокировкой типа номера
		if target == domain.StatusConfirmed {
			if err := uc.checkInventory(txCtx, booking); err != nil {
				return err
			}
		}

		// 5. Условная запись статуса и платёжных данных одной командой
		payment := uc.paymentRecord(booking, upd)
		if err := uc.bookingRepo.ApplyPayment(txCtx, booking.ID, booking.Status, target, payment); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusChanged) {
				uc.logger.Warn("ReconcilePayment: booking id=%d changed concurrently", booking.ID)
				return ErrConcurrentUpdate
			}
			if errors.Is(err, bookingRepo.ErrOrderIDTaken) {
				uc.logger.Warn("ReconcilePayment: order_id=%s already used by another booking", upd.orderID)
				return fmt.Errorf("%w: order id used by another booking", ErrConflict)
			}
			uc.logger.Error("ReconcilePayment: failed to apply payment to booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to apply payment: %w", ErrInternal, err)
		}

		booking.Status = target
		booking.Payment = payment
		result.Status = target
		result.Changed = target != result.PreviousStatus
		updated = booking

		return nil
	})

	if err != nil {
		uc.metrics.ReconciliationEvent(upd.channel, outcomeFor(err))
		return nil, err
	}

	uc.metrics.ReconciliationEvent(upd.channel, outcomeOf(result))
	uc.logger.Info("ReconcilePayment: booking id=%d %s -> %s via %s",
		result.BookingID, result.PreviousStatus, result.Status, upd.channel)

	if result.Changed {
		event := events.NewBookingEvent(events.TypeForStatus(result.Status), updated, result.PreviousStatus, uc.timeProvider.Now())
		if err := uc.publisher.Publish(ctx, event); err != nil {
			uc.logger.Warn("ReconcilePayment: failed to publish %s for booking id=%d: %v", event.Type, result.BookingID, err)
		}
	}

	return result, nil
}

// checkInventory пересчитывает фонд без учёта самого бронирования.
// Деньги уже списаны, поэтому нехватка номеров не блокирует подтверждение, а фиксируется для персонала.
func (uc *UseCase) checkInventory(ctx context.Context, booking *domain.Booking) error {
	if err := uc.bookingRepo.LockRoomType(ctx, booking.RoomTypeID); err != nil {
		uc.logger.Error("ReconcilePayment: failed to lock room type id=%d: %v", booking.RoomTypeID, err)
		return fmt.Errorf("%w: failed to lock room type: %w", ErrInternal, err)
	}

	roomType, err := uc.roomTypeRepo.GetByID(ctx, booking.RoomTypeID)
	if err != nil {
		uc.logger.Error("ReconcilePayment: failed to get room type id=%d: %v", booking.RoomTypeID, err)
		return fmt.Errorf("%w: failed to get room type: %w", ErrInternal, err)
	}

	availability, err := uc.counter.Count(ctx, roomType, booking.CheckIn, booking.CheckOut, booking.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to count inventory: %w", ErrInternal, err)
	}

	if availability.Raw < 1 {
		uc.logger.Warn("ReconcilePayment: OVERSELL confirming booking id=%d, room_type=%d, %s..%s: %d/%d units already taken",
			booking.ID, booking.RoomTypeID, booking.CheckIn, booking.CheckOut, availability.Occupied, availability.UnitCount)
		uc.metrics.InventoryOversell(booking.RoomTypeID)
	}

	return nil
}

func (uc *UseCase) paymentRecord(booking *domain.Booking, upd gatewayUpdate) domain.PaymentRecord {
	now := uc.timeProvider.Now()

	payment := booking.Payment
	payment.Method = domain.PaymentMethodGateway
	payment.Status = strings.ToLower(upd.transactionStatus)
	payment.UpdatedAt = &now

	if payment.OrderID == nil && upd.orderID != "" {
		payment.OrderID = ptr.Ptr(upd.orderID)
	}
	if upd.transactionID != "" {
		payment.TransactionID = ptr.Ptr(upd.transactionID)
	}
	if upd.amount > 0 {
		payment.Amount = upd.amount
	} else if payment.Amount == 0 {
		payment.Amount = booking.TotalPrice
	}

	return payment
}

// parseAmount берёт сумму из ответа шлюза, иначе из уведомления
func parseAmount(values ...string) float64 {
	for _, v := range values {
		if amount, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && amount > 0 {
			return amount
		}
	}
	return 0
}

func outcomeOf(r *Result) string {
	if r.AlreadyConfirmed || (!r.Changed && r.Status != domain.StatusPending) {
		return outcomeAlreadyFinal
	}
	switch r.Status {
	case domain.StatusConfirmed:
		return outcomeConfirmed
	case domain.StatusCancelled:
		return outcomeCancelled
	default:
		return outcomePending
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrConflict), errors.Is(err, ErrForbidden):
		return outcomeConflict
	case errors.Is(err, ErrBookingNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrVerificationFailed):
		return outcomeVerification
	case errors.Is(err, ErrConcurrentUpdate):
		return outcomeConcurrentUpdate
	default:
		return outcomeError
	}
}
