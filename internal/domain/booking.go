package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/interval"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// IsValid reports whether the status is known
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// BookingSource tells which path created the booking
type BookingSource string

const (
	SourceStaff  BookingSource = "staff"
	SourcePublic BookingSource = "public"
)

// InitialStatus is confirmed for staff bookings and pending for public ones
func (s BookingSource) InitialStatus() BookingStatus {
	if s == SourcePublic {
		return StatusPending
	}
	return StatusConfirmed
}

// Booking represents a committed reservation in a calendar
type Booking struct {
	ID            int64
	TenantID      int64
	CalendarID    int64
	ServiceTypeID int64
	OwnerID       int64
	Start         time.Time
	End           time.Time // always Start + service type duration
	Status        BookingStatus
	Source        BookingSource

	// Client identity: a CRM lead reference or free-text contact
	LeadID      *int64
	ClientName  *string
	ClientPhone *string
	ClientEmail *string
	Notes       *string

	CreatedBy *int64 // nil for public bookings

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the booking as a half-open interval
func (b *Booking) Interval() interval.Interval {
	return interval.New(b.Start, b.End)
}

// IsActive returns true if the booking occupies its interval
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true for completed, cancelled and no_show
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// CanBeCancelled returns true if the booking is active and has not ended yet
func (b *Booking) CanBeCancelled(now time.Time) bool {
	return b.IsActive() && b.End.After(now)
}

// CanBeCompleted returns true if the booking is confirmed and already ended
func (b *Booking) CanBeCompleted(now time.Time) bool {
	return b.Status == StatusConfirmed && !b.End.After(now)
}

// CanBeMarkedNoShow follows the same rule as completion; the two are mutually exclusive
func (b *Booking) CanBeMarkedNoShow(now time.Time) bool {
	return b.CanBeCompleted(now)
}

// CanBeUpdated returns true if the booking can still be edited
func (b *Booking) CanBeUpdated() bool {
	return b.IsActive()
}

// HasClientIdentity returns true if a lead reference or a non-empty client name is set
func (b *Booking) HasClientIdentity() bool {
	if b.LeadID != nil && *b.LeadID > 0 {
		return true
	}
	return b.ClientName != nil && *b.ClientName != ""
}

// CalendarBookingsFilter фильтр для получения бронирований календаря
type CalendarBookingsFilter struct {
	CalendarID int64           // Обязательный параметр
	From       *time.Time      // Бронирования, заканчивающиеся после From
	To         *time.Time      // Бронирования, начинающиеся до To
	Statuses   []BookingStatus // Пусто = все статусы
	OwnerID    *int64
}
