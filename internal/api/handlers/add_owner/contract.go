package add_owner

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

type CalendarService interface {
	AddOwner(ctx context.Context, tenant domain.TenantContext, calendarID int64, req *models.AddOwnerRequest) (*models.OwnerResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
