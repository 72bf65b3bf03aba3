package get_slot_assignments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	roomTypeRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/roomtype"
	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	filter   domain.BookingFilter
	err      error
}

func (f *fakeBookingRepo) List(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	// Границы окна применяются так же, как в SQL: check_in < To, check_out > From
	result := make([]*domain.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		if filter.To != nil && !b.CheckIn.Before(*filter.To) {
			continue
		}
		if filter.From != nil && !b.CheckOut.After(*filter.From) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

type fakeRoomTypes map[int64]*domain.RoomType

func (f fakeRoomTypes) GetByID(_ context.Context, id int64) (*domain.RoomType, error) {
	rt, ok := f[id]
	if !ok {
		return nil, roomTypeRepo.ErrRoomTypeNotFound
	}
	return rt, nil
}

type fakeMetrics struct{ collisions map[int64]int }

func (f *fakeMetrics) SlotCollisions(roomTypeID int64, count int) {
	if f.collisions == nil {
		f.collisions = make(map[int64]int)
	}
	f.collisions[roomTypeID] += count
}

func newUseCase(repo *fakeBookingRepo, slots int) (*UseCase, *fakeMetrics) {
	m := &fakeMetrics{}
	uc := NewUseCase(repo, fakeRoomTypes{1: {ID: 1, Name: "Deluxe", UnitCount: 2}}, m, logger.NewNop(), slots)
	return uc, m
}

func TestExecute_ReturnsRowsForEverySlot(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, "2025-06-01", "2025-06-05", 0),
		booking(2, "2025-06-02", "2025-06-04", time.Minute),
	}}
	uc, m := newUseCase(repo, 3)

	resp, err := uc.Execute(context.Background(), &Request{RoomTypeID: 1, From: d("2025-06-01"), To: d("2025-07-01")})
	require.NoError(t, err)

	assert.Equal(t, "Deluxe", resp.RoomTypeName)
	assert.Equal(t, 3, resp.SlotCount)
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, 1, resp.Rows[0].Slot)
	assert.Len(t, resp.Rows[0].Bookings, 1)
	assert.Len(t, resp.Rows[1].Bookings, 1)
	assert.Empty(t, resp.Rows[2].Bookings)
	assert.Empty(t, resp.Collisions)
	assert.Empty(t, m.collisions)

	// отменённые исключаются на уровне выборки
	assert.Equal(t, []domain.BookingStatus{domain.StatusCancelled}, repo.filter.ExcludeStatuses)
	// нижней границы нет, верхняя совпадает с концом окна
	assert.Nil(t, repo.filter.From)
	require.NotNil(t, repo.filter.To)
	assert.Equal(t, "2025-07-01", repo.filter.To.String())
}

func TestExecute_SlotDoesNotDependOnWindow(t *testing.T) {
	// Бронирование 1 занимает строку 1 в мае, поэтому 2 уходит во вторую строку.
	// Окно, начинающееся после выезда 1, не должно перекладывать 2 в первую строку.
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, "2025-05-28", "2025-06-03", 0),
		booking(2, "2025-05-30", "2025-06-10", time.Minute),
		booking(3, "2025-06-04", "2025-06-08", 2*time.Minute),
	}}
	uc, _ := newUseCase(repo, 3)

	slotOf := func(resp *Response) map[int64]int {
		result := make(map[int64]int)
		for _, row := range resp.Rows {
			for _, entry := range row.Bookings {
				result[entry.BookingID] = row.Slot
			}
		}
		return result
	}

	wide, err := uc.Execute(context.Background(), &Request{RoomTypeID: 1, From: d("2025-05-25"), To: d("2025-06-15")})
	require.NoError(t, err)
	narrow, err := uc.Execute(context.Background(), &Request{RoomTypeID: 1, From: d("2025-06-05"), To: d("2025-06-15")})
	require.NoError(t, err)

	wideSlots := slotOf(wide)
	narrowSlots := slotOf(narrow)
	assert.Equal(t, map[int64]int{1: 1, 2: 2, 3: 1}, wideSlots)

	// в узкое окно бронирование 1 не попадает, но строки остальных те же
	assert.Equal(t, map[int64]int{2: 2, 3: 1}, narrowSlots)
	for id, slot := range narrowSlots {
		assert.Equal(t, wideSlots[id], slot, "booking %d moved between windows", id)
	}
}

func TestExecute_CollisionsOutsideWindowNotReported(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, "2025-05-01", "2025-05-05", 0),
		booking(2, "2025-05-01", "2025-05-05", time.Minute),
		booking(3, "2025-06-01", "2025-06-05", 2*time.Minute),
	}}
	uc, m := newUseCase(repo, 1)

	resp, err := uc.Execute(context.Background(), &Request{RoomTypeID: 1, From: d("2025-06-01"), To: d("2025-06-10")})
	require.NoError(t, err)

	assert.Empty(t, resp.Collisions)
	assert.Empty(t, m.collisions)
	require.Len(t, resp.Rows, 1)
	require.Len(t, resp.Rows[0].Bookings, 1)
	assert.Equal(t, int64(3), resp.Rows[0].Bookings[0].BookingID)
}

func TestExecute_ReportsCollisions(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, "2025-06-01", "2025-06-05", 0),
		booking(2, "2025-06-01", "2025-06-05", time.Minute),
	}}
	uc, m := newUseCase(repo, 1)

	resp, err := uc.Execute(context.Background(), &Request{RoomTypeID: 1, From: d("2025-06-01"), To: d("2025-06-10")})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, resp.Collisions)
	assert.Equal(t, 1, m.collisions[1])
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		repo    *fakeBookingRepo
		req     *Request
		wantErr error
	}{
		{
			name:    "missing room type id",
			repo:    &fakeBookingRepo{},
			req:     &Request{From: d("2025-06-01"), To: d("2025-06-02")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "inverted range",
			repo:    &fakeBookingRepo{},
			req:     &Request{RoomTypeID: 1, From: d("2025-06-05"), To: d("2025-06-01")},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "window too wide",
			repo:    &fakeBookingRepo{},
			req:     &Request{RoomTypeID: 1, From: d("2025-01-01"), To: d("2026-06-01")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown room type",
			repo:    &fakeBookingRepo{},
			req:     &Request{RoomTypeID: 2, From: d("2025-06-01"), To: d("2025-06-02")},
			wantErr: ErrRoomTypeNotFound,
		},
		{
			name:    "storage failure",
			repo:    &fakeBookingRepo{err: errors.New("db down")},
			req:     &Request{RoomTypeID: 1, From: d("2025-06-01"), To: d("2025-06-02")},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUseCase(tt.repo, 5)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
