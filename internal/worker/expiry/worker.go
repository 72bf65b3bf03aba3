package expiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/events"
)

var (
	// ErrInternal возвращается при ошибке прохода воркера
	ErrInternal = errors.New("expiry: internal error")
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CancelExpiredPending(ctx context.Context, cutoff time.Time) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// EventPublisher интерфейс публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// Metrics доменные метрики
type Metrics interface {
	ExpiredBookings(count int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker периодически отменяет бронирования, так и не оплаченные через шлюз.
// Отмена условная: бронирование, успевшее подтвердиться, не затрагивается.
type Worker struct {
	repo      BookingRepository
	publisher EventPublisher
	metrics   Metrics
	logger    Logger
	ttl       time.Duration
	interval  time.Duration
	now       func() time.Time
}

// NewWorker создает воркер истечения pending-бронирований
func NewWorker(
	repo BookingRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
	ttl, interval time.Duration,
) *Worker {
	return &Worker{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		ttl:       ttl,
		interval:  interval,
		now:       time.Now,
	}
}

// Start запускает воркер в отдельной горутине до отмены ctx.
// Возвращаемый канал закрывается после остановки.
func (w *Worker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		w.logger.Info("Expiry worker started: ttl=%s, interval=%s", w.ttl, w.interval)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := w.RunOnce(ctx); err != nil {
					w.logger.Error("Expiry worker: %v", err)
				}
			case <-ctx.Done():
				w.logger.Info("Expiry worker shutting down")
				return
			}
		}
	}()

	return done
}

// RunOnce выполняет один проход и возвращает количество отменённых бронирований
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	cutoff := w.now().Add(-w.ttl)

	ids, err := w.repo.CancelExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: RunOnce - cancel expired: %v", ErrInternal, err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	w.logger.Warn("Expiry worker: cancelled %d pending bookings created before %s: %v",
		len(ids), cutoff.Format(time.RFC3339), ids)
	w.metrics.ExpiredBookings(len(ids))

	for _, id := range ids {
		booking, err := w.repo.GetByID(ctx, id)
		if err != nil {
			w.logger.Warn("Expiry worker: failed to load booking id=%d for event: %v", id, err)
			continue
		}

		event := events.NewBookingEvent(events.TypeBookingCancelled, booking, domain.StatusPending, w.now())
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.logger.Warn("Expiry worker: failed to publish %s for booking id=%d: %v", event.Type, id, err)
		}
	}

	return len(ids), nil
}
