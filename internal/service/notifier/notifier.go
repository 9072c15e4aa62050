// Package notifier сообщает об изменении доступности календаря: сбрасывает кэш слотов и уведомляет подписчиков.
package notifier

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// SlotCache кэш слотов
type SlotCache interface {
	InvalidateCalendar(ctx context.Context, calendarID int64) error
}

// Publisher рассылка событий подписчикам календаря
type Publisher interface {
	Publish(calendarID int64, date string)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Notifier вызывается после успешной записи, поэтому собственные ошибки только логирует
type Notifier struct {
	cache     SlotCache
	publisher Publisher
	logger    Logger
}

// NewNotifier создает нотификатор; publisher может быть nil
func NewNotifier(cache SlotCache, publisher Publisher, logger Logger) *Notifier {
	return &Notifier{cache: cache, publisher: publisher, logger: logger}
}

// CalendarChanged сбрасывает кэш календаря и публикует события по затронутым датам.
// Пустой список дат означает изменение без привязки к дате (например, расписание).
func (n *Notifier) CalendarChanged(ctx context.Context, calendarID int64, loc *time.Location, at ...time.Time) {
	if err := n.cache.InvalidateCalendar(ctx, calendarID); err != nil {
		n.logger.Warn("CalendarChanged: failed to invalidate slot cache for calendar=%d: %v", calendarID, err)
	}

	if n.publisher == nil {
		return
	}

	if len(at) == 0 {
		n.publisher.Publish(calendarID, "")
		return
	}

	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[string]struct{}, len(at))
	for _, t := range at {
		date := t.In(loc).Format(domain.DateFormat)
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		n.publisher.Publish(calendarID, date)
	}
}
