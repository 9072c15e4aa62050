package manage_blocks

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

type CalendarService interface {
	CreateBlock(ctx context.Context, tenant domain.TenantContext, calendarID int64, req *models.CreateBlockRequest) (*models.BlockResponse, error)
	DeleteBlock(ctx context.Context, tenant domain.TenantContext, calendarID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
