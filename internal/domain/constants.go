package domain

// Default values
const (
	DefaultOwnerWeight          = 1
	DefaultSimultaneousBookings = 1
	DefaultPublicFairnessDays   = 30
	DefaultOwnerPlaceholder     = "Any available"
	MinSimultaneousBookings     = 1
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxBufferMinutes            = 240
	MaxSimultaneousBookings     = 100
	MaxAdvanceBookingDays       = 365
	MaxMinAdvanceHours          = 24 * 30
	MaxOwnerWeight              = 100
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCalendarNameLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих интервал
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
