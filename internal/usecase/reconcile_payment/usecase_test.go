package reconcile_payment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
	"github.com/m04kA/SMC-HotelBookingService/pkg/ptr"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

type memRepo struct {
	bookings map[int64]*domain.Booking
	writes   int
	applyErr error
}

func (r *memRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (r *memRepo) GetByOrderID(_ context.Context, orderID string) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.Payment.OrderID != nil && *b.Payment.OrderID == orderID {
			out := *b
			return &out, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *memRepo) ApplyPayment(_ context.Context, id int64, from, to domain.BookingStatus, payment domain.PaymentRecord) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != from {
		return bookingRepo.ErrStatusChanged
	}
	if b.Payment.OrderID != nil {
		payment.OrderID = b.Payment.OrderID
	}
	b.Status = to
	b.Payment = payment
	r.writes++
	return nil
}

func (r *memRepo) LockRoomType(context.Context, int64) error { return nil }

func (r *memRepo) Count(_ context.Context, roomType *domain.RoomType, checkIn, checkOut types.Date, excludeID int64) (*domain.Availability, error) {
	occupied := 0
	for _, b := range r.bookings {
		if b.RoomTypeID == roomType.ID && b.ID != excludeID && b.IsActive() && b.Overlaps(checkIn, checkOut) {
			occupied++
		}
	}
	return &domain.Availability{RoomTypeID: roomType.ID, UnitCount: roomType.UnitCount, Occupied: occupied, Raw: roomType.UnitCount - occupied}, nil
}

type fakeRoomTypes struct{ units int }

func (f fakeRoomTypes) GetByID(_ context.Context, id int64) (*domain.RoomType, error) {
	return &domain.RoomType{ID: id, UnitCount: f.units}, nil
}

// lockingTx сериализует транзакции, как блокировка строки FOR UPDATE
type lockingTx struct{ mu sync.Mutex }

func (l *lockingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

type fakeGateway struct {
	status    *paymentgateway.TransactionStatus
	statusErr error
	validSig  bool
}

func (g *fakeGateway) GetStatus(context.Context, string) (*paymentgateway.TransactionStatus, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	return g.status, nil
}

func (g *fakeGateway) VerifySignature(_, _, _, signature string) bool {
	return g.validSig && signature != ""
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *fakePublisher) Publish(_ context.Context, e events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
	oversell int
}

func (m *fakeMetrics) ReconciliationEvent(channel, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, channel+":"+outcome)
}

func (m *fakeMetrics) InventoryOversell(int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oversell++
}

type fixture struct {
	uc        *UseCase
	repo      *memRepo
	gateway   *fakeGateway
	publisher *fakePublisher
	metrics   *fakeMetrics
}

const orderID = "HOTEL-1-1700000000000"

func pendingBooking(id int64, order string) *domain.Booking {
	b := &domain.Booking{
		ID:         id,
		RoomTypeID: 3,
		UserID:     7,
		CheckIn:    types.MustParseDate("2025-06-01"),
		CheckOut:   types.MustParseDate("2025-06-04"),
		TotalPrice: 300,
		Status:     domain.StatusPending,
		Payment:    domain.PaymentRecord{Method: domain.PaymentMethodGateway, Amount: 300, Status: domain.PaymentStatusPending},
	}
	if order != "" {
		b.Payment.OrderID = ptr.Ptr(order)
	}
	return b
}

func newFixture(units int, bookings ...*domain.Booking) *fixture {
	repo := &memRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	gw := &fakeGateway{
		validSig: true,
		status: &paymentgateway.TransactionStatus{
			StatusCode:        "200",
			OrderID:           orderID,
			TransactionID:     "trx-1",
			TransactionStatus: "settlement",
			FraudStatus:       "accept",
			GrossAmount:       "300.00",
		},
	}
	pub := &fakePublisher{}
	m := &fakeMetrics{}

	uc := NewUseCase(repo, fakeRoomTypes{units: units}, repo, gw, pub, &lockingTx{}, m, logger.NewNop())
	return &fixture{uc: uc, repo: repo, gateway: gw, publisher: pub, metrics: m}
}

func notification() *Notification {
	return &Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       "300.00",
		SignatureKey:      "sig",
		TransactionStatus: "settlement",
		FraudStatus:       "accept",
		TransactionID:     "trx-1",
	}
}

func TestHandleClientCallback_ConfirmsPendingBooking(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))

	res, err := f.uc.HandleClientCallback(context.Background(), &ClientCallback{
		UserID: 7, BookingID: 1, OrderID: orderID, TransactionID: "trx-1", GrossAmount: 300,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, res.Status)
	assert.True(t, res.Changed)
	assert.False(t, res.AlreadyConfirmed)

	stored := f.repo.bookings[1]
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, domain.GatewayStatusSettlement, stored.Payment.Status)
	assert.Equal(t, "trx-1", *stored.Payment.TransactionID)
	assert.NotNil(t, stored.Payment.UpdatedAt)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeBookingConfirmed, f.publisher.events[0].Type)
	assert.Equal(t, []string{"client:confirmed"}, f.metrics.outcomes)
}

func TestHandleClientCallback_StoresOrderIDWhenMissing(t *testing.T) {
	f := newFixture(1, pendingBooking(1, ""))

	_, err := f.uc.HandleClientCallback(context.Background(), &ClientCallback{BookingID: 1, OrderID: orderID})
	require.NoError(t, err)
	assert.Equal(t, orderID, *f.repo.bookings[1].Payment.OrderID)
}

func TestHandleClientCallback_NotOwner(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))

	_, err := f.uc.HandleClientCallback(context.Background(), &ClientCallback{UserID: 8, BookingID: 1})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, domain.StatusPending, f.repo.bookings[1].Status)
}

func TestHandleClientCallback_NotFound(t *testing.T) {
	f := newFixture(1)

	_, err := f.uc.HandleClientCallback(context.Background(), &ClientCallback{BookingID: 42})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Equal(t, []string{"client:not_found"}, f.metrics.outcomes)
}

func TestBothChannelsConvergeOnSingleWrite(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))

	first, err := f.uc.HandleNotification(context.Background(), notification())
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := f.uc.HandleClientCallback(context.Background(), &ClientCallback{BookingID: 1, OrderID: orderID})
	require.NoError(t, err)
	assert.True(t, second.AlreadyConfirmed)

	third, err := f.uc.HandleNotification(context.Background(), notification())
	require.NoError(t, err)
	assert.True(t, third.AlreadyConfirmed)

	assert.Equal(t, 1, f.repo.writes)
	assert.Len(t, f.publisher.events, 1)
}

func TestConcurrentDeliveriesWriteOnce(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.uc.HandleNotification(context.Background(), notification())
		}()
		go func() {
			defer wg.Done()
			_, _ = f.uc.HandleClientCallback(context.Background(), &ClientCallback{BookingID: 1, OrderID: orderID})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.repo.writes)
	assert.Equal(t, domain.StatusConfirmed, f.repo.bookings[1].Status)
}

func TestHandleNotification_MapsGatewayStatuses(t *testing.T) {
	tests := []struct {
		status, fraud string
		want          domain.BookingStatus
	}{
		{"capture", "accept", domain.StatusConfirmed},
		{"settlement", "", domain.StatusConfirmed},
		{"capture", "challenge", domain.StatusPending},
		{"capture", "deny", domain.StatusCancelled},
		{"deny", "", domain.StatusCancelled},
		{"cancel", "", domain.StatusCancelled},
		{"expire", "", domain.StatusCancelled},
		{"failure", "", domain.StatusCancelled},
		{"pending", "", domain.StatusPending},
		{"refund", "", domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			f := newFixture(1, pendingBooking(1, orderID))
			f.gateway.status.TransactionStatus = tt.status
			f.gateway.status.FraudStatus = tt.fraud

			res, err := f.uc.HandleNotification(context.Background(), notification())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.want, f.repo.bookings[1].Status)
			assert.Equal(t, tt.status, f.repo.bookings[1].Payment.Status)
		})
	}
}

func TestHandleNotification_TrustsGatewayOverPayload(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))
	f.gateway.status.TransactionStatus = "pending"

	res, err := f.uc.HandleNotification(context.Background(), notification())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, res.Status)
}

func TestHandleNotification_InvalidSignature(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))
	f.gateway.validSig = false

	_, err := f.uc.HandleNotification(context.Background(), notification())
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, domain.StatusPending, f.repo.bookings[1].Status)
	assert.Equal(t, 0, f.repo.writes)
}

func TestHandleNotification_UnknownToGateway(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))
	f.gateway.statusErr = paymentgateway.ErrTransactionNotFound

	_, err := f.uc.HandleNotification(context.Background(), notification())
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, 0, f.repo.writes)
}

func TestHandleNotification_GatewayUnreachableIsRetryable(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))
	f.gateway.statusErr = paymentgateway.ErrInternal

	_, err := f.uc.HandleNotification(context.Background(), notification())
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrVerificationFailed)
}

func TestHandleNotification_CaptureForCancelledBooking(t *testing.T) {
	b := pendingBooking(1, orderID)
	b.Status = domain.StatusCancelled
	f := newFixture(1, b)

	_, err := f.uc.HandleNotification(context.Background(), notification())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, domain.StatusCancelled, f.repo.bookings[1].Status)
	assert.Equal(t, 0, f.repo.writes)
}

func TestHandleNotification_ExpireForCancelledBookingIsNoop(t *testing.T) {
	b := pendingBooking(1, orderID)
	b.Status = domain.StatusCancelled
	f := newFixture(1, b)
	f.gateway.status.TransactionStatus = "expire"

	res, err := f.uc.HandleNotification(context.Background(), notification())
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 0, f.repo.writes)
}

func TestHandleNotification_OrderIDMismatch(t *testing.T) {
	f := newFixture(1, pendingBooking(1, "HOTEL-1-1600000000000"))

	_, err := f.uc.HandleNotification(context.Background(), notification())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestHandleNotification_UndecodableOrderIDFallsBackToLookup(t *testing.T) {
	f := newFixture(1, pendingBooking(5, "client-supplied"))
	n := notification()
	n.OrderID = "client-supplied"
	f.gateway.status.OrderID = "client-supplied"

	res, err := f.uc.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.BookingID)
	assert.Equal(t, domain.StatusConfirmed, res.Status)
}

func TestHandleNotification_StoredOrderIDWinsOverDecodedID(t *testing.T) {
	// order id клиента совпадает с форматом PREFIX-{id}-{ts}, но принадлежит бронированию 9
	f := newFixture(2, pendingBooking(1, orderID), pendingBooking(9, "SHOP-1-42"))
	n := notification()
	n.OrderID = "SHOP-1-42"
	f.gateway.status.OrderID = "SHOP-1-42"

	res, err := f.uc.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.BookingID)
	assert.Equal(t, domain.StatusConfirmed, f.repo.bookings[9].Status)
	assert.Equal(t, domain.StatusPending, f.repo.bookings[1].Status)
}

func TestHandleNotification_DecodesOrderIDNotStoredYet(t *testing.T) {
	f := newFixture(1, pendingBooking(1, ""))

	res, err := f.uc.HandleNotification(context.Background(), notification())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.BookingID)
	require.NotNil(t, f.repo.bookings[1].Payment.OrderID)
	assert.Equal(t, orderID, *f.repo.bookings[1].Payment.OrderID)
}

func TestHandleNotification_UnknownOrderID(t *testing.T) {
	f := newFixture(1)
	n := notification()
	n.OrderID = "nobody"

	_, err := f.uc.HandleNotification(context.Background(), n)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirmWithoutInventoryFlagsOversell(t *testing.T) {
	other := pendingBooking(2, "HOTEL-2-1")
	other.Status = domain.StatusConfirmed
	f := newFixture(1, pendingBooking(1, orderID), other)

	res, err := f.uc.HandleNotification(context.Background(), notification())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, res.Status)
	assert.Equal(t, 1, f.metrics.oversell)
}

func TestConcurrentStatusChangeIsRetryable(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))
	f.repo.applyErr = bookingRepo.ErrStatusChanged

	_, err := f.uc.HandleNotification(context.Background(), notification())
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestPersistenceErrorIsInternal(t *testing.T) {
	f := newFixture(1, pendingBooking(1, orderID))
	f.repo.applyErr = errors.New("connection reset")

	_, err := f.uc.HandleNotification(context.Background(), notification())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 300.0, parseAmount("300.00", "1"))
	assert.Equal(t, 1.5, parseAmount("", "1.5"))
	assert.Equal(t, 0.0, parseAmount("", "abc"))
}
