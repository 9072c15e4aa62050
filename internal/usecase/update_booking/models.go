package update_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request частичное изменение бронирования; nil поля не меняются.
// Владелец при изменении не переназначается.
type Request struct {
	Tenant    domain.TenantContext
	BookingID int64
	Start     *time.Time

	LeadID      *int64
	ClientName  *string
	ClientPhone *string
	ClientEmail *string
	Notes       *string
}

// Response модель ответа с измененным бронированием
type Response struct {
	ID            int64
	CalendarID    int64
	ServiceTypeID int64
	OwnerID       int64
	Start         time.Time
	End           time.Time
	Status        string
	Source        string

	LeadID      *int64
	ClientName  *string
	ClientPhone *string
	ClientEmail *string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:            b.ID,
		CalendarID:    b.CalendarID,
		ServiceTypeID: b.ServiceTypeID,
		OwnerID:       b.OwnerID,
		Start:         b.Start,
		End:           b.End,
		Status:        string(b.Status),
		Source:        string(b.Source),
		LeadID:        b.LeadID,
		ClientName:    b.ClientName,
		ClientPhone:   b.ClientPhone,
		ClientEmail:   b.ClientEmail,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// apply переносит заданные поля запроса в бронирование
func (r *Request) apply(b *domain.Booking) {
	if r.LeadID != nil {
		b.LeadID = r.LeadID
	}
	if r.ClientName != nil {
		b.ClientName = r.ClientName
	}
	if r.ClientPhone != nil {
		b.ClientPhone = r.ClientPhone
	}
	if r.ClientEmail != nil {
		b.ClientEmail = r.ClientEmail
	}
	if r.Notes != nil {
		b.Notes = r.Notes
	}
}
