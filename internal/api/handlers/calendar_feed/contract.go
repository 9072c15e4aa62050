package calendar_feed

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

type CalendarService interface {
	GetCalendar(ctx context.Context, tenant domain.TenantContext, id int64) (*models.CalendarResponse, error)
}

// Feed держит websocket подписку на календарь
type Feed interface {
	Serve(w http.ResponseWriter, r *http.Request, calendarID int64)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
