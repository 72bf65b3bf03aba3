package roomtype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HotelBookingService/pkg/psqlbuilder"
)

const tableRoomTypes = "room_types"

var roomTypeColumns = []string{
	"id",
	"name",
	"price",
	"capacity",
	"unit_count",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога типов номеров (только чтение).
// Каталогом управляет внешний сервис, здесь он нужен для unit_count, цены и вместимости.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов номеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тип номера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(roomTypeColumns...).
		From(tableRoomTypes).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	roomType, err := scanRoomType(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan room type: %w", ErrScanRow, err)
	}

	return roomType, nil
}

// List получает все типы номеров, упорядоченные по ID
func (r *Repository) List(ctx context.Context) ([]*domain.RoomType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(roomTypeColumns...).
		From(tableRoomTypes).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	roomTypes := make([]*domain.RoomType, 0)
	for rows.Next() {
		roomType, err := scanRoomType(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		roomTypes = append(roomTypes, roomType)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return roomTypes, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoomType(row rowScanner) (*domain.RoomType, error) {
	var roomType domain.RoomType
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&roomType.ID,
		&roomType.Name,
		&roomType.Price,
		&roomType.Capacity,
		&roomType.UnitCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	roomType.CreatedAt = createdAt.Time
	roomType.UpdatedAt = updatedAt.Time

	return &roomType, nil
}
