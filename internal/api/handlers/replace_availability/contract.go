package replace_availability

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

type CalendarService interface {
	ReplaceAvailability(ctx context.Context, tenant domain.TenantContext, calendarID int64, windows []models.AvailabilityWindow) ([]models.AvailabilityWindow, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
