package save_service_type

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

// ServiceTypeRequest HTTP request model
type ServiceTypeRequest struct {
	Name                string `json:"name" validate:"required,max=200"`
	DurationMinutes     int    `json:"durationMinutes" validate:"required,gte=5,lte=480"`
	BufferBeforeMinutes int    `json:"bufferBeforeMinutes" validate:"gte=0"`
	BufferAfterMinutes  int    `json:"bufferAfterMinutes" validate:"gte=0"`
	MinAdvanceHours     int    `json:"minAdvanceHours" validate:"gte=0"`
	MaxPerDay           int    `json:"maxPerDay" validate:"gte=0"` // 0 = без ограничения
	IsActive            *bool  `json:"isActive,omitempty"`         // По умолчанию true
	Position            int    `json:"position"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *ServiceTypeRequest) ToServiceRequest() *models.ServiceTypeRequest {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return &models.ServiceTypeRequest{
		Name:                r.Name,
		DurationMinutes:     r.DurationMinutes,
		BufferBeforeMinutes: r.BufferBeforeMinutes,
		BufferAfterMinutes:  r.BufferAfterMinutes,
		MinAdvanceHours:     r.MinAdvanceHours,
		MaxPerDay:           r.MaxPerDay,
		IsActive:            active,
		Position:            r.Position,
	}
}
