package add_owner

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

// AddOwnerRequest HTTP request model
type AddOwnerRequest struct {
	UserID             int64  `json:"userId" validate:"required,gt=0"`
	DisplayName        string `json:"displayName" validate:"required,max=200"`
	Role               string `json:"role" validate:"omitempty,oneof=admin member"`
	CanReceiveBookings *bool  `json:"canReceiveBookings,omitempty"` // По умолчанию true
	Weight             int    `json:"weight" validate:"gte=0,lte=100"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AddOwnerRequest) ToServiceRequest() *models.AddOwnerRequest {
	canReceive := true
	if r.CanReceiveBookings != nil {
		canReceive = *r.CanReceiveBookings
	}

	return &models.AddOwnerRequest{
		UserID:             r.UserID,
		DisplayName:        r.DisplayName,
		Role:               r.Role,
		CanReceiveBookings: canReceive,
		Weight:             r.Weight,
	}
}
