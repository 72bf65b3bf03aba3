package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:         5,
		RoomTypeID: 3,
		UserID:     7,
		CheckIn:    types.MustParseDate("2025-06-01"),
		CheckOut:   types.MustParseDate("2025-06-03"),
		GuestName:  "Ann",
		GuestEmail: "ann@example.com",
		TotalPrice: 200,
		Status:     domain.StatusConfirmed,
		Payment:    domain.PaymentRecord{Method: domain.PaymentMethodCash, Status: domain.PaymentStatusPayAtHotel},
	}
}

func TestRabbitPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	pub := &RabbitPublisher{ch: ch, exchange: "hotel.bookings"}
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	event := NewBookingEvent(TypeForStatus(domain.StatusConfirmed), testBooking(), domain.StatusPending, at)
	require.NoError(t, pub.Publish(context.Background(), event))

	assert.Equal(t, "hotel.bookings", ch.exchange)
	assert.Equal(t, TypeBookingConfirmed, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var decoded BookingEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, int64(5), decoded.BookingID)
	assert.Equal(t, "pending", decoded.PreviousStatus)
	assert.Equal(t, "2025-06-01", decoded.CheckIn)
	assert.Equal(t, "pay at hotel", decoded.PaymentStatus)

	require.NoError(t, pub.Close())
	assert.True(t, ch.closed)
}

func TestRabbitPublisher_PublishError(t *testing.T) {
	pub := &RabbitPublisher{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}

	err := pub.Publish(context.Background(), NewBookingEvent(TypeBookingCreated, testBooking(), "", time.Now()))
	assert.ErrorIs(t, err, ErrPublish)
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), BookingEvent{}))
	assert.NoError(t, pub.Close())
}
