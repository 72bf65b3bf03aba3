package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HotelBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

const (
	tableBookings = "bookings"

	// pgUniqueViolation код ошибки PostgreSQL при нарушении уникального индекса
	pgUniqueViolation = "23505"
)

// bookingColumns порядок колонок совпадает с порядком полей в scanBooking
var bookingColumns = []string{
	"id",
	"room_type_id",
	"user_id",
	"check_in",
	"check_out",
	"guest_count",
	"guest_name",
	"guest_email",
	"guest_phone",
	"total_price",
	"status",
	"payment_method",
	"payment_order_id",
	"payment_transaction_id",
	"payment_amount",
	"payment_status",
	"payment_updated_at",
	"payment_token",
	"payment_redirect_url",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Вызывается из create_booking внутри сериализуемой транзакции вместе с подсчётом доступности.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"room_type_id",
			"user_id",
			"check_in",
			"check_out",
			"guest_count",
			"guest_name",
			"guest_email",
			"guest_phone",
			"total_price",
			"status",
			"payment_method",
			"payment_order_id",
			"payment_amount",
			"payment_status",
		).
		Values(
			booking.RoomTypeID,
			booking.UserID,
			booking.CheckIn,
			booking.CheckOut,
			booking.GuestCount,
			booking.GuestName,
			booking.GuestEmail,
			booking.GuestPhone,
			booking.TotalPrice,
			booking.Status,
			booking.Payment.Method,
			booking.Payment.OrderID,
			booking.Payment.Amount,
			booking.Payment.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrOrderIDTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// SetOrderID записывает order id шлюза. Уже установленный order id не перезаписывается.
func (r *Repository) SetOrderID(ctx context.Context, id int64, orderID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("payment_order_id", orderID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"payment_order_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetOrderID - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrOrderIDTaken
		}
		return fmt.Errorf("%w: SetOrderID - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetOrderID - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if err := r.ensureExists(ctx, id); err != nil {
			return err
		}
		return ErrOrderIDAlreadySet
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate получает бронирование по ID с блокировкой строки (SELECT ... FOR UPDATE).
// Блокировка держится до конца транзакции, поэтому без транзакции вызов запрещён.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNoTransaction
	}
	return r.getOne(ctx, "GetByIDForUpdate", squirrel.Eq{"id": id}, true)
}

// GetByOrderID получает бронирование по order id платежного шлюза
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByOrderID", squirrel.Eq{"payment_order_id": orderID}, false)
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("check_in DESC", "id DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// List получает бронирования с гибкой фильтрацией.
// Сортировка: по дате заезда, затем по порядку создания - на ней держится
// детерминированность календарной раскладки.
//
// Примеры использования:
//
//  1. Все бронирования типа номера:
//     filter := domain.BookingFilter{RoomTypeID: ptr.Ptr(int64(3))}
//
//  2. Бронирования, пересекающиеся с июнем, кроме отменённых:
//     from, to := types.MustParseDate("2025-06-01"), types.MustParseDate("2025-07-01")
//     filter := domain.BookingFilter{From: &from, To: &to, ExcludeStatuses: []domain.BookingStatus{domain.StatusCancelled}}
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).From(tableBookings)

	if filter.RoomTypeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_type_id": *filter.RoomTypeID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}

	// Полуинтервалы: бронирование попадает в окно, если пересекается с [From, To)
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"check_in": *filter.To})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"check_out": *filter.From})
	}

	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusStrings(filter.Statuses)})
	}
	if len(filter.ExcludeStatuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusStrings(filter.ExcludeStatuses)})
	}

	selectBuilder = selectBuilder.OrderBy("check_in ASC", "created_at ASC", "id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountOverlapping считает активные (confirmed, checked_in) бронирования типа номера,
// пересекающиеся с [checkIn, checkOut). excludeID > 0 исключает бронирование из подсчёта.
func (r *Repository) CountOverlapping(ctx context.Context, roomTypeID int64, checkIn, checkOut types.Date, excludeID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From(tableBookings).
		Where(squirrel.Eq{"room_type_id": roomTypeID}).
		Where(squirrel.Eq{"status": domain.StatusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"check_in": checkOut}).
		Where(squirrel.Gt{"check_out": checkIn})

	if excludeID > 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountOverlapping - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// LockRoomType берёт транзакционную advisory-блокировку на тип номера.
// Сериализует "подсчёт активных бронирований + запись" для одного типа номера.
func (r *Repository) LockRoomType(ctx context.Context, roomTypeID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", roomTypeID); err != nil {
		return fmt.Errorf("%w: LockRoomType - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// UpdateStatus меняет статус, только если текущий статус равен from (compare-and-swap)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	updateBuilder := statusUpdate(to).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	return r.execConditional(ctx, "UpdateStatus", id, updateBuilder)
}

// ForceStatus безусловно выставляет статус (административный путь)
func (r *Repository) ForceStatus(ctx context.Context, id int64, to domain.BookingStatus) error {
	updateBuilder := statusUpdate(to).Where(squirrel.Eq{"id": id})

	return r.execConditional(ctx, "ForceStatus", id, updateBuilder)
}

// SetPaymentToken сохраняет токен оплаты, пока бронирование ещё pending
func (r *Repository) SetPaymentToken(ctx context.Context, id int64, token, redirectURL string) error {
	updateBuilder := psqlbuilder.Update(tableBookings).
		Set("payment_token", token).
		Set("payment_redirect_url", redirectURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPending})

	return r.execConditional(ctx, "SetPaymentToken", id, updateBuilder)
}

// ApplyPayment одной командой записывает статус и платёжные данные, если текущий статус равен from.
// Наблюдатель не может увидеть новые платёжные данные со старым статусом.
// Order id записывается только если ещё не установлен.
func (r *Repository) ApplyPayment(ctx context.Context, id int64, from, to domain.BookingStatus, payment domain.PaymentRecord) error {
	updateBuilder := statusUpdate(to).
		Set("payment_method", payment.Method).
		Set("payment_order_id", squirrel.Expr("COALESCE(payment_order_id, ?)", payment.OrderID)).
		Set("payment_transaction_id", payment.TransactionID).
		Set("payment_amount", payment.Amount).
		Set("payment_status", payment.Status).
		Set("payment_updated_at", payment.UpdatedAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	return r.execConditional(ctx, "ApplyPayment", id, updateBuilder)
}

// CancelExpiredPending отменяет неоплаченные бронирования через шлюз, созданные раньше cutoff.
// Возвращает ID отменённых бронирований.
func (r *Repository) CancelExpiredPending(ctx context.Context, cutoff time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := statusUpdate(domain.StatusCancelled).
		Set("payment_status", domain.GatewayStatusExpire).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Eq{"payment_method": domain.PaymentMethodGateway}).
		Where(squirrel.Lt{"created_at": cutoff}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CancelExpiredPending - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CancelExpiredPending - execute update: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: CancelExpiredPending - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CancelExpiredPending - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// statusUpdate UPDATE со сменой статуса; для отмены проставляет cancelled_at
func statusUpdate(to domain.BookingStatus) squirrel.UpdateBuilder {
	updateBuilder := psqlbuilder.Update(tableBookings).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()"))

	if to == domain.StatusCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	return updateBuilder
}

// execConditional выполняет UPDATE и различает "нет строки" и "статус уже другой"
func (r *Repository) execConditional(ctx context.Context, op string, id int64, updateBuilder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrOrderIDTaken
		}
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		if err := r.ensureExists(ctx, id); err != nil {
			return err
		}
		return ErrStatusChanged
	}

	return nil
}

// ensureExists возвращает ErrBookingNotFound, если бронирования нет
func (r *Repository) ensureExists(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(tableBookings).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ensureExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: ensureExists - scan: %w", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(where)

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
	}

	return booking, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.RoomTypeID,
		&booking.UserID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.GuestCount,
		&booking.GuestName,
		&booking.GuestEmail,
		&booking.GuestPhone,
		&booking.TotalPrice,
		&booking.Status,
		&booking.Payment.Method,
		&booking.Payment.OrderID,
		&booking.Payment.TransactionID,
		&booking.Payment.Amount,
		&booking.Payment.Status,
		&booking.Payment.UpdatedAt,
		&booking.Payment.Token,
		&booking.Payment.RedirectURL,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
