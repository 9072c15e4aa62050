package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/interval"
)

// CalendarRepository интерфейс репозитория календарей
type CalendarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Calendar, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Calendar, error)
	// Lock сериализует записи бронирований календаря до конца транзакции
	Lock(ctx context.Context, calendarID int64) error
}

// ServiceTypeRepository интерфейс репозитория типов услуг
type ServiceTypeRepository interface {
	GetByID(ctx context.Context, calendarID, id int64) (*domain.ServiceType, error)
}

// AvailabilityRepository хранилище окон доступности
type AvailabilityRepository interface {
	ListActiveWindows(ctx context.Context, calendarID int64, day time.Weekday) ([]domain.AvailabilityWindow, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CountActiveByServiceType(ctx context.Context, serviceTypeID int64, from, to time.Time, excludeID *int64) (int, error)
}

// ConflictValidator проверка интервала по сохраненному состоянию
type ConflictValidator interface {
	IsAvailable(ctx context.Context, calendar *domain.Calendar, candidate interval.Interval, excludeID *int64) (bool, error)
}

// OwnerAllocator выбор владельца для нового бронирования
type OwnerAllocator interface {
	Allocate(ctx context.Context, calendar *domain.Calendar, start time.Time, policy domain.FairnessPolicy) (*domain.Owner, error)
}

// Notifier сообщает об изменении доступности календаря
type Notifier interface {
	CalendarChanged(ctx context.Context, calendarID int64, loc *time.Location, at ...time.Time)
}

// TransactionManager интерфейс для управления транзакциями (READ COMMITTED)
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
