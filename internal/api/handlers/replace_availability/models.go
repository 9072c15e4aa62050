package replace_availability

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

// WindowRequest окно доступности
type WindowRequest struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"gte=0,lte=6"` // 0 = воскресенье
	StartTime string `json:"startTime" validate:"required"`    // "09:00"
	EndTime   string `json:"endTime" validate:"required"`      // "18:00"
	IsActive  *bool  `json:"isActive,omitempty"`               // По умолчанию true
}

// ReplaceAvailabilityRequest HTTP request model: расписание заменяется целиком
type ReplaceAvailabilityRequest struct {
	Windows []WindowRequest `json:"windows" validate:"dive"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CalendarID int64                       `json:"calendarId"`
	Windows    []models.AvailabilityWindow `json:"windows"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *ReplaceAvailabilityRequest) ToServiceRequest() []models.AvailabilityWindow {
	windows := make([]models.AvailabilityWindow, 0, len(r.Windows))
	for _, w := range r.Windows {
		active := true
		if w.IsActive != nil {
			active = *w.IsActive
		}
		windows = append(windows, models.AvailabilityWindow{
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			IsActive:  active,
		})
	}
	return windows
}
