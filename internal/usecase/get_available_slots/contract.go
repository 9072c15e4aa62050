package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CalendarRepository интерфейс репозитория календарей
type CalendarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Calendar, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Calendar, error)
	ListOwners(ctx context.Context, calendarID int64) ([]domain.Owner, error)
}

// ServiceTypeRepository интерфейс репозитория типов услуг
type ServiceTypeRepository interface {
	GetByID(ctx context.Context, calendarID, id int64) (*domain.ServiceType, error)
}

// AvailabilityRepository хранилище окон доступности
type AvailabilityRepository interface {
	// ListActiveWindows активные окна на день недели, по возрастанию start_time
	ListActiveWindows(ctx context.Context, calendarID int64, day time.Weekday) ([]domain.AvailabilityWindow, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveOverlapping(ctx context.Context, calendarID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error)
	CountActiveByServiceType(ctx context.Context, serviceTypeID int64, from, to time.Time, excludeID *int64) (int, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	ListOverlapping(ctx context.Context, calendarID int64, from, to time.Time) ([]domain.Block, error)
}

// SlotCache кэш кандидатов в слоты, разбитый на поколения календаря
type SlotCache interface {
	Generation(ctx context.Context, calendarID int64) (int64, error)
	Get(ctx context.Context, calendarID, generation, serviceTypeID int64, date string) ([]domain.AvailableSlot, error)
	Set(ctx context.Context, calendarID, generation, serviceTypeID int64, date string, slots []domain.AvailableSlot) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
