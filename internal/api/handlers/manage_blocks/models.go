package manage_blocks

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	Start  string  `json:"start" validate:"required"` // RFC3339
	End    string  `json:"end" validate:"required"`   // RFC3339
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateBlockRequest) ToServiceRequest() (*models.CreateBlockRequest, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockRequest{
		Start:  start,
		End:    end,
		Reason: r.Reason,
	}, nil
}
