package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrPublish возвращается, когда событие не удалось отправить в брокер
	ErrPublish = errors.New("events: failed to publish event")

	// ErrConnect возвращается, когда не удалось подключиться к брокеру
	ErrConnect = errors.New("events: failed to connect to broker")
)

// Publisher отправка событий жизненного цикла бронирования
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

// channel часть *amqp.Channel, которая нужна издателю
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher публикует события в topic exchange RabbitMQ
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// NewRabbitPublisher подключается к брокеру и объявляет durable topic exchange
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial rabbitmq: %v", ErrConnect, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange: %v", ErrConnect, err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish отправляет событие с routing key = event.Type
func (p *RabbitPublisher) Publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPublish, event.Type, err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %s booking_id=%d: %v", ErrPublish, event.Type, event.BookingID, err)
	}

	return nil
}

// Close закрывает канал и соединение
func (p *RabbitPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher используется, когда публикация событий выключена
type NoopPublisher struct{}

// Publish implements Publisher
func (NoopPublisher) Publish(context.Context, BookingEvent) error { return nil }

// Close implements Publisher
func (NoopPublisher) Close() error { return nil }
