package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository хранилище недельных окон доступности календаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActiveWindows возвращает активные окна на день недели по возрастанию start_time.
// Отсутствие окон не ошибка: слотов на эту дату просто нет.
func (r *Repository) ListActiveWindows(ctx context.Context, calendarID int64, day time.Weekday) ([]domain.AvailabilityWindow, error) {
	return r.list(ctx, "ListActiveWindows", squirrel.Eq{
		"calendar_id": calendarID,
		"day_of_week": int(day),
		"is_active":   true,
	})
}

// ListByCalendar возвращает все окна календаря
func (r *Repository) ListByCalendar(ctx context.Context, calendarID int64) ([]domain.AvailabilityWindow, error) {
	return r.list(ctx, "ListByCalendar", squirrel.Eq{"calendar_id": calendarID})
}

func (r *Repository) list(ctx context.Context, method string, where squirrel.Eq) ([]domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "calendar_id", "day_of_week", "start_time", "end_time", "is_active").
		From("availability_windows").
		Where(where).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, method, err)
	}
	defer rows.Close()

	windows := make([]domain.AvailabilityWindow, 0)
	for rows.Next() {
		var (
			w   domain.AvailabilityWindow
			day int
		)
		if err := rows.Scan(&w.ID, &w.CalendarID, &day, &w.StartTime, &w.EndTime, &w.IsActive); err != nil {
			return nil, fmt.Errorf("%w: %s - scan window: %w", ErrScanRow, method, err)
		}
		w.DayOfWeek = time.Weekday(day)
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, method, err)
	}

	return windows, nil
}

// Replace полностью заменяет окна календаря (delete-then-insert).
// Вызывать внутри транзакции, иначе читатели могут увидеть пустое расписание.
func (r *Repository) Replace(ctx context.Context, calendarID int64, windows []domain.AvailabilityWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_windows").
		Where(squirrel.Eq{"calendar_id": calendarID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - execute delete: %w", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("availability_windows").
		Columns("calendar_id", "day_of_week", "start_time", "end_time", "is_active")
	for _, w := range windows {
		insert = insert.Values(calendarID, int(w.DayOfWeek), w.StartTime, w.EndTime, w.IsActive)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}
