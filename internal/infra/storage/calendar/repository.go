package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var calendarColumns = []string{
	"id",
	"tenant_id",
	"name",
	"timezone",
	"is_active",
	"public_booking",
	"slug",
	"min_advance_hours",
	"max_advance_days",
	"max_simultaneous_bookings_per_slot",
	"created_by",
	"created_at",
	"updated_at",
}

var ownerColumns = []string{
	"id",
	"calendar_id",
	"user_id",
	"display_name",
	"role",
	"can_receive_bookings",
	"weight",
	"created_at",
}

// Repository репозиторий календарей и их владельцев
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календарей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает календарь. Нарушение уникальности slug возвращается как ErrSlugTaken.
func (r *Repository) Create(ctx context.Context, cal *domain.Calendar) (*domain.Calendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("calendars").
		Columns(
			"tenant_id",
			"name",
			"timezone",
			"is_active",
			"public_booking",
			"slug",
			"min_advance_hours",
			"max_advance_days",
			"max_simultaneous_bookings_per_slot",
			"created_by",
		).
		Values(
			cal.TenantID,
			cal.Name,
			cal.Timezone,
			cal.IsActive,
			cal.PublicBooking,
			cal.Slug,
			cal.MinAdvanceHours,
			cal.MaxAdvanceDays,
			cal.MaxSimultaneousBookingsPerSlot,
			cal.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&cal.ID, &cal.CreatedAt, &cal.UpdatedAt)
	if err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return cal, nil
}

// GetByID получает календарь по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Calendar, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetBySlug получает календарь по публичному slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Calendar, error) {
	return r.getOne(ctx, "GetBySlug", squirrel.Eq{"slug": slug})
}

func (r *Repository) getOne(ctx context.Context, method string, where squirrel.Sqlizer) (*domain.Calendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(calendarColumns...).
		From("calendars").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	cal, err := scanCalendar(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCalendarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan calendar: %w", ErrScanRow, method, err)
	}

	return cal, nil
}

// SlugExists проверяет, занят ли slug
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("calendars").
		Where(squirrel.Eq{"slug": slug}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: SlugExists - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: SlugExists - scan: %w", ErrScanRow, err)
	}

	return exists, nil
}

// ListByTenant возвращает календари тенанта
func (r *Repository) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Calendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(calendarColumns...).
		From("calendars").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	calendars := make([]*domain.Calendar, 0)
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTenant - scan calendar: %w", ErrScanRow, err)
		}
		calendars = append(calendars, cal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - rows error: %w", ErrScanRow, err)
	}

	return calendars, nil
}

// Lock берет транзакционную advisory-блокировку календаря.
// Все записи бронирований одного календаря выполняются под этой блокировкой.
func (r *Repository) Lock(ctx context.Context, calendarID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", calendarID); err != nil {
		return fmt.Errorf("%w: Lock - acquire advisory lock: %w", ErrExecQuery, err)
	}

	return nil
}

// AddOwner добавляет пользователя в календарь
func (r *Repository) AddOwner(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("calendar_owners").
		Columns("calendar_id", "user_id", "display_name", "role", "can_receive_bookings", "weight").
		Values(owner.CalendarID, owner.UserID, owner.DisplayName, owner.Role, owner.CanReceiveBookings, owner.Weight).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddOwner - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&owner.ID, &owner.CreatedAt); err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrOwnerExists
		}
		return nil, fmt.Errorf("%w: AddOwner - execute insert: %w", ErrExecQuery, err)
	}

	return owner, nil
}

// ListOwners возвращает владельцев календаря в порядке добавления
func (r *Repository) ListOwners(ctx context.Context, calendarID int64) ([]domain.Owner, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ownerColumns...).
		From("calendar_owners").
		Where(squirrel.Eq{"calendar_id": calendarID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOwners - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOwners - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	owners := make([]domain.Owner, 0)
	for rows.Next() {
		var o domain.Owner
		if err := rows.Scan(
			&o.ID,
			&o.CalendarID,
			&o.UserID,
			&o.DisplayName,
			&o.Role,
			&o.CanReceiveBookings,
			&o.Weight,
			&o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListOwners - scan owner: %w", ErrScanRow, err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOwners - rows error: %w", ErrScanRow, err)
	}

	return owners, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCalendar(row rowScanner) (*domain.Calendar, error) {
	var cal domain.Calendar
	err := row.Scan(
		&cal.ID,
		&cal.TenantID,
		&cal.Name,
		&cal.Timezone,
		&cal.IsActive,
		&cal.PublicBooking,
		&cal.Slug,
		&cal.MinAdvanceHours,
		&cal.MaxAdvanceDays,
		&cal.MaxSimultaneousBookingsPerSlot,
		&cal.CreatedBy,
		&cal.CreatedAt,
		&cal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cal, nil
}
