package block

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий блокировок календаря (праздники, техработы)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блокировку
func (r *Repository) Create(ctx context.Context, b *domain.Block) (*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocks").
		Columns("calendar_id", "start_datetime", "end_datetime", "reason", "created_by").
		Values(b.CalendarID, b.Start, b.End, b.Reason, b.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return b, nil
}

// Delete удаляет блокировку календаря и возвращает удалённую запись
func (r *Repository) Delete(ctx context.Context, calendarID, id int64) (*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocks").
		Where(squirrel.Eq{"id": id, "calendar_id": calendarID}).
		Suffix("RETURNING id, calendar_id, start_datetime, end_datetime, reason, created_by, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks, err := scanBlocks(rows)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrBlockNotFound
	}

	return &blocks[0], nil
}

// ListOverlapping возвращает блокировки, пересекающиеся с [from, to)
func (r *Repository) ListOverlapping(ctx context.Context, calendarID int64, from, to time.Time) ([]domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "calendar_id", "start_datetime", "end_datetime", "reason", "created_by", "created_at").
		From("blocks").
		Where(squirrel.Eq{"calendar_id": calendarID}).
		Where(squirrel.Lt{"start_datetime": to}).
		Where(squirrel.Gt{"end_datetime": from}).
		OrderBy("start_datetime ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBlocks(rows)
}

func scanBlocks(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]domain.Block, error) {
	blocks := make([]domain.Block, 0)
	for rows.Next() {
		var b domain.Block
		if err := rows.Scan(&b.ID, &b.CalendarID, &b.Start, &b.End, &b.Reason, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanBlocks - scan row: %w", ErrScanRow, err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBlocks - rows error: %w", ErrScanRow, err)
	}
	return blocks, nil
}
