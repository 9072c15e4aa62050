package change_booking_status

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, tenant domain.TenantContext, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error)
	Complete(ctx context.Context, tenant domain.TenantContext, id int64) (*models.BookingResponse, error)
	MarkNoShow(ctx context.Context, tenant domain.TenantContext, id int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
