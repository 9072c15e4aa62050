package allocator

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// OwnerRepository чтение владельцев календаря
type OwnerRepository interface {
	ListOwners(ctx context.Context, calendarID int64) ([]domain.Owner, error)
}

// LoadRepository подсчет нагрузки владельцев
type LoadRepository interface {
	CountByOwner(ctx context.Context, calendarID int64, from, to time.Time, statuses []domain.BookingStatus) (map[int64]int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
