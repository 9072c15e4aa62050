package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model (сотрудник)
type CreateBookingRequest struct {
	CalendarID    int64   `json:"calendarId" validate:"required,gt=0"`
	ServiceTypeID int64   `json:"serviceTypeId" validate:"required,gt=0"`
	Start         string  `json:"start" validate:"required"` // RFC3339, "2030-01-07T10:00:00+03:00"
	LeadID        *int64  `json:"leadId,omitempty" validate:"omitempty,gt=0"`
	ClientName    *string `json:"clientName,omitempty" validate:"omitempty,max=200"`
	ClientPhone   *string `json:"clientPhone,omitempty" validate:"omitempty,max=32"`
	ClientEmail   *string `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// PublicBookingRequest HTTP request model (публичная запись по slug)
type PublicBookingRequest struct {
	ServiceTypeID int64   `json:"serviceTypeId" validate:"required,gt=0"`
	Start         string  `json:"start" validate:"required"`
	ClientName    string  `json:"clientName" validate:"required,max=200"`
	ClientPhone   *string `json:"clientPhone,omitempty" validate:"omitempty,max=32"`
	ClientEmail   *string `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	CalendarID    int64   `json:"calendarId"`
	ServiceTypeID int64   `json:"serviceTypeId"`
	OwnerID       int64   `json:"ownerId"`
	OwnerName     string  `json:"ownerName"`
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
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CalendarID:    r.CalendarID,
		ServiceTypeID: r.ServiceTypeID,
		Start:         start,
		LeadID:        r.LeadID,
		ClientName:    r.ClientName,
		ClientPhone:   r.ClientPhone,
		ClientEmail:   r.ClientEmail,
		Notes:         r.Notes,
	}, nil
}

// ToUseCaseRequest конвертирует публичный HTTP запрос в модель use case
func (r *PublicBookingRequest) ToUseCaseRequest(slug string) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}

	name := r.ClientName
	return &createBooking.Request{
		Slug:          slug,
		ServiceTypeID: r.ServiceTypeID,
		Start:         start,
		ClientName:    &name,
		ClientPhone:   r.ClientPhone,
		ClientEmail:   r.ClientEmail,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		CalendarID:    resp.CalendarID,
		ServiceTypeID: resp.ServiceTypeID,
		OwnerID:       resp.OwnerID,
		OwnerName:     resp.OwnerName,
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
