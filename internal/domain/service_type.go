package domain

import "time"

// ServiceType is a bookable offering with a fixed duration and buffers
type ServiceType struct {
	ID                  int64
	CalendarID          int64
	Name                string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	MinAdvanceHours     int
	MaxPerDay           int // 0 = unlimited
	IsActive            bool
	Position            int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Duration is the visible length of a slot
func (s *ServiceType) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// FitDuration is the span a slot needs inside a window: duration plus both buffers.
// Buffers only decide whether a slot fits; slots are spaced by Duration.
func (s *ServiceType) FitDuration() time.Duration {
	return time.Duration(s.DurationMinutes+s.BufferBeforeMinutes+s.BufferAfterMinutes) * time.Minute
}

// MinAdvance is the minimum lead time before a slot start
func (s *ServiceType) MinAdvance() time.Duration {
	return time.Duration(s.MinAdvanceHours) * time.Hour
}

// HasDailyLimit returns true if max_per_day is set
func (s *ServiceType) HasDailyLimit() bool {
	return s.MaxPerDay > 0
}
