package domain

import "time"

// AvailableSlot is a computed, unreserved candidate interval.
// OwnerID/OwnerName are a display hint; the allocator decides the owner at commit time.
type AvailableSlot struct {
	Start          time.Time
	End            time.Time
	OwnerID        *int64
	OwnerName      string
	AvailableSpots int
	TotalSpots     int
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsPartiallyAvailable returns true if the slot has some but not all spots available
func (s *AvailableSlot) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}
