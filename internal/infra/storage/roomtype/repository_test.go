package roomtype

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, name, price, capacity, unit_count, created_at, updated_at FROM room_types WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(roomTypeColumns).AddRow(int64(3), "Deluxe", 120.5, 2, 4, now, now))

	roomType, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Deluxe", roomType.Name)
	assert.Equal(t, 4, roomType.UnitCount)
	assert.Equal(t, 120.5, roomType.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM room_types").WillReturnRows(sqlmock.NewRows(roomTypeColumns))

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)
}

func TestList(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM room_types ORDER BY id ASC").
		WillReturnRows(sqlmock.NewRows(roomTypeColumns).
			AddRow(int64(1), "Standard", 80.0, 2, 10, now, now).
			AddRow(int64(2), "Suite", 300.0, 4, 1, now, now))

	roomTypes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roomTypes, 2)
	assert.Equal(t, "Suite", roomTypes[1].Name)
}

type countingReader struct {
	calls int
	err   error
}

func (r *countingReader) GetByID(_ context.Context, id int64) (*domain.RoomType, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &domain.RoomType{ID: id, Name: "Deluxe", UnitCount: 2}, nil
}

func TestCachedRepository_HitsCache(t *testing.T) {
	reader := &countingReader{}
	cached := NewCachedRepository(reader, time.Minute, time.Minute)

	first, err := cached.GetByID(context.Background(), 3)
	require.NoError(t, err)
	first.UnitCount = 99

	second, err := cached.GetByID(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, 2, second.UnitCount, "callers must not mutate cached value")
}

func TestCachedRepository_RefetchesAfterTTL(t *testing.T) {
	reader := &countingReader{}
	cached := NewCachedRepository(reader, 10*time.Millisecond, time.Minute)

	_, err := cached.GetByID(context.Background(), 3)
	require.NoError(t, err)

	// изменение каталога в БД видно после истечения TTL
	time.Sleep(30 * time.Millisecond)
	_, err = cached.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)
}

func TestCachedRepository_DoesNotCacheErrors(t *testing.T) {
	reader := &countingReader{err: ErrRoomTypeNotFound}
	cached := NewCachedRepository(reader, time.Minute, time.Minute)

	_, err := cached.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)
	_, err = cached.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)
	assert.Equal(t, 2, reader.calls)
}
