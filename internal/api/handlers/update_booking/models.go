package update_booking

import (
	"time"

	updateBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model; отсутствующие поля не меняются
type UpdateBookingRequest struct {
	Start       *string `json:"start,omitempty"` // RFC3339, перенос на новое время
	LeadID      *int64  `json:"leadId,omitempty" validate:"omitempty,gt=0"`
	ClientName  *string `json:"clientName,omitempty" validate:"omitempty,max=200"`
	ClientPhone *string `json:"clientPhone,omitempty" validate:"omitempty,max=32"`
	ClientEmail *string `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	CalendarID    int64   `json:"calendarId"`
	ServiceTypeID int64   `json:"serviceTypeId"`
	OwnerID       int64   `json:"ownerId"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	Status        string  `json:"status"`
	Source        string  `json:"source"`
	LeadID        *int64  `json:"leadId,omitempty"`
	ClientName    *string `json:"clientName,omitempty"`
	ClientPhone   *string `json:"clientPhone,omitempty"`
	ClientEmail   *string `json:"clientEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID int64) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		BookingID:   bookingID,
		LeadID:      r.LeadID,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Notes:       r.Notes,
	}

	if r.Start != nil {
		start, err := time.Parse(time.RFC3339, *r.Start)
		if err != nil {
			return nil, err
		}
		req.Start = &start
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		CalendarID:    resp.CalendarID,
		ServiceTypeID: resp.ServiceTypeID,
		OwnerID:       resp.OwnerID,
		Start:         resp.Start.Format(time.RFC3339),
		End:           resp.End.Format(time.RFC3339),
		Status:        resp.Status,
		Source:        resp.Source,
		LeadID:        resp.LeadID,
		ClientName:    resp.ClientName,
		ClientPhone:   resp.ClientPhone,
		ClientEmail:   resp.ClientEmail,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
