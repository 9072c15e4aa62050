package get_calendar

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

type CalendarService interface {
	GetCalendar(ctx context.Context, tenant domain.TenantContext, id int64) (*models.CalendarResponse, error)
	ListCalendars(ctx context.Context, tenant domain.TenantContext) ([]*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
