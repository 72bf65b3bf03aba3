package expiry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
)

type fakeRepo struct {
	mu      sync.Mutex
	ids     []int64
	err     error
	cutoffs []time.Time
}

func (f *fakeRepo) CancelExpiredPending(_ context.Context, cutoff time.Time) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return nil, f.err
	}
	ids := f.ids
	f.ids = nil
	return ids, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if id == 404 {
		return nil, errors.New("not found")
	}
	return &domain.Booking{ID: id, Status: domain.StatusCancelled}, nil
}

func (f *fakeRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (f *fakePublisher) Publish(_ context.Context, event events.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeMetrics struct{ expired int }

func (f *fakeMetrics) ExpiredBookings(count int) { f.expired += count }

func TestRunOnce_CancelsAndPublishes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{ids: []int64{4, 404, 9}}
	pub := &fakePublisher{}
	m := &fakeMetrics{}

	w := NewWorker(repo, pub, m, logger.NewNop(), 30*time.Minute, time.Minute)
	w.now = func() time.Time { return now }

	count, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, m.expired)
	assert.Equal(t, now.Add(-30*time.Minute), repo.cutoffs[0])

	// бронирование, которое не удалось перечитать, пропускается
	require.Len(t, pub.events, 2)
	assert.Equal(t, events.TypeBookingCancelled, pub.events[0].Type)
	assert.Equal(t, "pending", pub.events[0].PreviousStatus)
}

func TestRunOnce_NothingExpired(t *testing.T) {
	m := &fakeMetrics{}
	w := NewWorker(&fakeRepo{}, &fakePublisher{}, m, logger.NewNop(), time.Hour, time.Minute)

	count, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, m.expired)
}

func TestRunOnce_RepositoryError(t *testing.T) {
	w := NewWorker(&fakeRepo{err: errors.New("db down")}, &fakePublisher{}, &fakeMetrics{}, logger.NewNop(), time.Hour, time.Minute)

	_, err := w.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestStart_StopsOnCancel(t *testing.T) {
	repo := &fakeRepo{}
	w := NewWorker(repo, &fakePublisher{}, &fakeMetrics{}, logger.NewNop(), time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := w.Start(ctx)

	assert.Eventually(t, func() bool { return repo.calls() > 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for worker to stop")
	}
}
