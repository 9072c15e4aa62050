package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда from позже to
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ListCalendarBookingsRequest запрос на получение бронирований календаря
type ListCalendarBookingsRequest struct {
	CalendarID int64      `json:"calendarId"`
	From       *time.Time `json:"from,omitempty"`     // Начало периода (опционально)
	To         *time.Time `json:"to,omitempty"`       // Конец периода (опционально)
	Statuses   []string   `json:"statuses,omitempty"` // Пусто = все статусы
	OwnerID    *int64     `json:"ownerId,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListCalendarBookingsRequest) ToDomainFilter() (domain.CalendarBookingsFilter, error) {
	filter := domain.CalendarBookingsFilter{
		CalendarID: r.CalendarID,
		From:       r.From,
		To:         r.To,
		OwnerID:    r.OwnerID,
	}

	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return filter, ErrInvalidPeriod
	}

	for _, s := range r.Statuses {
		status, err := ToDomainBookingStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64      `json:"id"`
	CalendarID         int64      `json:"calendarId"`
	ServiceTypeID      int64      `json:"serviceTypeId"`
	OwnerID            int64      `json:"ownerId"`
	Start              time.Time  `json:"start"`
	End                time.Time  `json:"end"`
	Status             string     `json:"status"`
	Source             string     `json:"source"`
	LeadID             *int64     `json:"leadId,omitempty"`
	ClientName         *string    `json:"clientName,omitempty"`
	ClientPhone        *string    `json:"clientPhone,omitempty"`
	ClientEmail        *string    `json:"clientEmail,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedBy          *int64     `json:"createdBy,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		CalendarID:         b.CalendarID,
		ServiceTypeID:      b.ServiceTypeID,
		OwnerID:            b.OwnerID,
		Start:              b.Start,
		End:                b.End,
		Status:             string(b.Status),
		Source:             string(b.Source),
		LeadID:             b.LeadID,
		ClientName:         b.ClientName,
		ClientPhone:        b.ClientPhone,
		ClientEmail:        b.ClientEmail,
		Notes:              b.Notes,
		CreatedBy:          b.CreatedBy,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
