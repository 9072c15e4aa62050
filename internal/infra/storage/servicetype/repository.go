package servicetype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"calendar_id",
	"name",
	"duration_minutes",
	"buffer_before_minutes",
	"buffer_after_minutes",
	"min_advance_hours",
	"max_per_day",
	"is_active",
	"position",
	"created_at",
	"updated_at",
}

// Repository репозиторий типов услуг календаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает тип услуги
func (r *Repository) Create(ctx context.Context, st *domain.ServiceType) (*domain.ServiceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_types").
		Columns(
			"calendar_id",
			"name",
			"duration_minutes",
			"buffer_before_minutes",
			"buffer_after_minutes",
			"min_advance_hours",
			"max_per_day",
			"is_active",
			"position",
		).
		Values(
			st.CalendarID,
			st.Name,
			st.DurationMinutes,
			st.BufferBeforeMinutes,
			st.BufferAfterMinutes,
			st.MinAdvanceHours,
			st.MaxPerDay,
			st.IsActive,
			st.Position,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return st, nil
}

// Update обновляет тип услуги
func (r *Repository) Update(ctx context.Context, st *domain.ServiceType) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_types").
		Set("name", st.Name).
		Set("duration_minutes", st.DurationMinutes).
		Set("buffer_before_minutes", st.BufferBeforeMinutes).
		Set("buffer_after_minutes", st.BufferAfterMinutes).
		Set("min_advance_hours", st.MinAdvanceHours).
		Set("max_per_day", st.MaxPerDay).
		Set("is_active", st.IsActive).
		Set("position", st.Position).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": st.ID, "calendar_id": st.CalendarID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrServiceTypeNotFound
	}

	return nil
}

// GetByID получает тип услуги по ID в пределах календаря
func (r *Repository) GetByID(ctx context.Context, calendarID, id int64) (*domain.ServiceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("service_types").
		Where(squirrel.Eq{"id": id, "calendar_id": calendarID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	st, err := scanServiceType(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service type: %w", ErrScanRow, err)
	}

	return st, nil
}

// ListByCalendar возвращает типы услуг календаря в порядке отображения
func (r *Repository) ListByCalendar(ctx context.Context, calendarID int64, onlyActive bool) ([]*domain.ServiceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.Eq{"calendar_id": calendarID}
	if onlyActive {
		where["is_active"] = true
	}

	query, args, err := psqlbuilder.Select(columns...).
		From("service_types").
		Where(where).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCalendar - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCalendar - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ServiceType, 0)
	for rows.Next() {
		st, err := scanServiceType(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByCalendar - scan service type: %w", ErrScanRow, err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCalendar - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanServiceType(row rowScanner) (*domain.ServiceType, error) {
	var st domain.ServiceType
	err := row.Scan(
		&st.ID,
		&st.CalendarID,
		&st.Name,
		&st.DurationMinutes,
		&st.BufferBeforeMinutes,
		&st.BufferAfterMinutes,
		&st.MinAdvanceHours,
		&st.MaxPerDay,
		&st.IsActive,
		&st.Position,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
