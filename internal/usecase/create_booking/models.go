package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Tenant        domain.TenantContext
	CalendarID    int64  // Для сотрудников
	Slug          string // Для публичной записи
	ServiceTypeID int64
	Start         time.Time // Конец вычисляется по длительности услуги

	// Клиент: ссылка на лид CRM или имя, введенное вручную
	LeadID      *int64
	ClientName  *string
	ClientPhone *string
	ClientEmail *string
	Notes       *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	CalendarID    int64
	ServiceTypeID int64
	OwnerID       int64
	OwnerName     string
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

func toResponse(b *domain.Booking, owner *domain.Owner) *Response {
	return &Response{
		ID:            b.ID,
		CalendarID:    b.CalendarID,
		ServiceTypeID: b.ServiceTypeID,
		OwnerID:       b.OwnerID,
		OwnerName:     owner.DisplayName,
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
