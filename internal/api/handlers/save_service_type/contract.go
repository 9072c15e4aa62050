package save_service_type

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

type CalendarService interface {
	CreateServiceType(ctx context.Context, tenant domain.TenantContext, calendarID int64, req *models.ServiceTypeRequest) (*models.ServiceTypeResponse, error)
	UpdateServiceType(ctx context.Context, tenant domain.TenantContext, calendarID, id int64, req *models.ServiceTypeRequest) (*models.ServiceTypeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
