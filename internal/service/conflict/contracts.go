package conflict

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository чтение занятых интервалов календаря
type BookingRepository interface {
	ListActiveOverlapping(ctx context.Context, calendarID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// BlockRepository чтение блокировок календаря
type BlockRepository interface {
	ListOverlapping(ctx context.Context, calendarID int64, from, to time.Time) ([]domain.Block, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
