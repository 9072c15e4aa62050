package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"tenant_id",
	"calendar_id",
	"service_type_id",
	"owner_id",
	"start_datetime",
	"end_datetime",
	"status",
	"source",
	"lead_id",
	"client_name",
	"client_phone",
	"client_email",
	"notes",
	"created_by",
	"cancellation_reason",
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

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её: создание всегда идет
// в одной транзакции с проверкой конфликтов под блокировкой календаря.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tenant_id",
			"calendar_id",
			"service_type_id",
			"owner_id",
			"start_datetime",
			"end_datetime",
			"status",
			"source",
			"lead_id",
			"client_name",
			"client_phone",
			"client_email",
			"notes",
			"created_by",
		).
		Values(
			booking.TenantID,
			booking.CalendarID,
			booking.ServiceTypeID,
			booking.OwnerID,
			booking.Start,
			booking.End,
			booking.Status,
			booking.Source,
			booking.LeadID,
			booking.ClientName,
			booking.ClientPhone,
			booking.ClientEmail,
			booking.Notes,
			booking.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// В транзакции блокируем строку до смены статуса
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// Update сохраняет изменяемые поля бронирования (интервал, клиент, заметки).
// Владелец и статус здесь не меняются.
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_datetime", booking.Start).
		Set("end_datetime", booking.End).
		Set("lead_id", booking.LeadID).
		Set("client_name", booking.ClientName).
		Set("client_phone", booking.ClientPhone).
		Set("client_email", booking.ClientEmail).
		Set("notes", booking.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// UpdateStatus обновляет статус бронирования.
// Для отмены дополнительно сохраняются причина и время отмены.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, reason *string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	update := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", at)

	if status == domain.StatusCancelled {
		update = update.
			Set("cancellation_reason", reason).
			Set("cancelled_at", at)
	}

	query, args, err := update.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ListActiveOverlapping возвращает pending/confirmed бронирования календаря, пересекающиеся с [from, to).
// excludeID исключает само редактируемое бронирование.
func (r *Repository) ListActiveOverlapping(ctx context.Context, calendarID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"calendar_id": calendarID, "status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"start_datetime": to}).
		Where(squirrel.Gt{"end_datetime": from}).
		OrderBy("start_datetime ASC", "id ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByFilter получает бронирования календаря с фильтрацией по периоду, статусам и владельцу
func (r *Repository) ListByFilter(ctx context.Context, filter domain.CalendarBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"calendar_id": filter.CalendarID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_datetime": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_datetime": *filter.To})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if filter.OwnerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"owner_id": *filter.OwnerID})
	}

	query, args, err := selectBuilder.OrderBy("start_datetime ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountByOwner считает бронирования владельцев календаря, начинающиеся в [from, to), с указанными статусами.
// Владельцы без бронирований в результат не попадают.
func (r *Repository) CountByOwner(ctx context.Context, calendarID int64, from, to time.Time, statuses []domain.BookingStatus) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("owner_id", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"calendar_id": calendarID, "status": statusStrings(statuses)}).
		Where(squirrel.GtOrEq{"start_datetime": from}).
		Where(squirrel.Lt{"start_datetime": to}).
		GroupBy("owner_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByOwner - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var ownerID int64
		var count int
		if err := rows.Scan(&ownerID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByOwner - scan row: %w", ErrScanRow, err)
		}
		counts[ownerID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByOwner - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

// CountActiveByServiceType считает pending/confirmed бронирования типа услуги, начинающиеся в [from, to)
func (r *Repository) CountActiveByServiceType(ctx context.Context, serviceTypeID int64, from, to time.Time, excludeID *int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"service_type_id": serviceTypeID, "status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.GtOrEq{"start_datetime": from}).
		Where(squirrel.Lt{"start_datetime": to})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByServiceType - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByServiceType - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.CalendarID,
		&booking.ServiceTypeID,
		&booking.OwnerID,
		&booking.Start,
		&booking.End,
		&booking.Status,
		&booking.Source,
		&booking.LeadID,
		&booking.ClientName,
		&booking.ClientPhone,
		&booking.ClientEmail,
		&booking.Notes,
		&booking.CreatedBy,
		&booking.CancellationReason,
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
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
