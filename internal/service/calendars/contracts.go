package calendars

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CalendarRepository интерфейс репозитория календарей и владельцев
type CalendarRepository interface {
	Create(ctx context.Context, cal *domain.Calendar) (*domain.Calendar, error)
	GetByID(ctx context.Context, id int64) (*domain.Calendar, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Calendar, error)
	AddOwner(ctx context.Context, owner *domain.Owner) (*domain.Owner, error)
	ListOwners(ctx context.Context, calendarID int64) ([]domain.Owner, error)
}

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListByCalendar(ctx context.Context, calendarID int64) ([]domain.AvailabilityWindow, error)
	Replace(ctx context.Context, calendarID int64, windows []domain.AvailabilityWindow) error
}

// ServiceTypeRepository интерфейс репозитория типов услуг
type ServiceTypeRepository interface {
	Create(ctx context.Context, st *domain.ServiceType) (*domain.ServiceType, error)
	Update(ctx context.Context, st *domain.ServiceType) error
	GetByID(ctx context.Context, calendarID, id int64) (*domain.ServiceType, error)
	ListByCalendar(ctx context.Context, calendarID int64, onlyActive bool) ([]*domain.ServiceType, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	Create(ctx context.Context, b *domain.Block) (*domain.Block, error)
	Delete(ctx context.Context, calendarID, id int64) (*domain.Block, error)
}

// Notifier сообщает об изменении доступности календаря
type Notifier interface {
	CalendarChanged(ctx context.Context, calendarID int64, loc *time.Location, at ...time.Time)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
