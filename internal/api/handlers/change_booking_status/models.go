package change_booking_status

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Действия над статусом бронирования
const (
	ActionCancel   = "cancel"
	ActionComplete = "complete"
	ActionNoShow   = "no-show"
)

// ChangeStatusRequest HTTP request model; тело необязательно
type ChangeStatusRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *ChangeStatusRequest) ToServiceRequest() *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		CancellationReason: r.CancellationReason,
	}
}
