package create_calendar

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

// CreateCalendarRequest HTTP request model
type CreateCalendarRequest struct {
	Name                           string  `json:"name" validate:"required,max=200"`
	Timezone                       string  `json:"timezone" validate:"required"`
	PublicBooking                  bool    `json:"publicBooking"`
	Slug                           *string `json:"slug,omitempty" validate:"omitempty,min=3,max=100"`
	MinAdvanceHours                int     `json:"minAdvanceHours" validate:"gte=0"`
	MaxAdvanceDays                 int     `json:"maxAdvanceDays" validate:"gte=0"`
	MaxSimultaneousBookingsPerSlot int     `json:"maxSimultaneousBookingsPerSlot" validate:"gte=0"`
	OwnerDisplayName               string  `json:"ownerDisplayName" validate:"max=200"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateCalendarRequest) ToServiceRequest() *models.CreateCalendarRequest {
	return &models.CreateCalendarRequest{
		Name:                           r.Name,
		Timezone:                       r.Timezone,
		PublicBooking:                  r.PublicBooking,
		Slug:                           r.Slug,
		MinAdvanceHours:                r.MinAdvanceHours,
		MaxAdvanceDays:                 r.MaxAdvanceDays,
		MaxSimultaneousBookingsPerSlot: r.MaxSimultaneousBookingsPerSlot,
		OwnerDisplayName:               r.OwnerDisplayName,
	}
}
