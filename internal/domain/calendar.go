package domain

import (
	"time"
)

// Calendar is a bookable resource of one tenant grouping owners, availability,
// service types, blocks and bookings.
type Calendar struct {
	ID            int64
	TenantID      int64
	Name          string
	Timezone      string // IANA name, e.g. "Europe/Moscow"
	IsActive      bool
	PublicBooking bool
	Slug          string

	MinAdvanceHours                int
	MaxAdvanceDays                 int // 0 = unlimited
	MaxSimultaneousBookingsPerSlot int

	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the calendar timezone
func (c *Calendar) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Capacity returns how many pending/confirmed bookings may overlap a single interval
func (c *Calendar) Capacity() int {
	if c.MaxSimultaneousBookingsPerSlot < MinSimultaneousBookings {
		return MinSimultaneousBookings
	}
	return c.MaxSimultaneousBookingsPerSlot
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *Calendar) HasAdvanceBookingLimit() bool {
	return c.MaxAdvanceDays > 0
}

// IsPubliclyBookable returns true if the calendar accepts unauthenticated bookings
func (c *Calendar) IsPubliclyBookable() bool {
	return c.IsActive && c.PublicBooking && c.Slug != ""
}

// OwnerRole is the role of a user inside a calendar
type OwnerRole string

const (
	OwnerRoleAdmin  OwnerRole = "admin"
	OwnerRoleMember OwnerRole = "member"
)

// IsValid reports whether the role is known
func (r OwnerRole) IsValid() bool {
	return r == OwnerRoleAdmin || r == OwnerRoleMember
}

// Owner is a calendar membership of a staff user
type Owner struct {
	ID                 int64
	CalendarID         int64
	UserID             int64
	DisplayName        string
	Role               OwnerRole
	CanReceiveBookings bool
	Weight             int
	CreatedAt          time.Time
}

// EffectiveWeight returns the fairness weight, never less than 1
func (o *Owner) EffectiveWeight() int {
	if o.Weight < 1 {
		return DefaultOwnerWeight
	}
	return o.Weight
}

// EligibleOwners keeps owners that can receive bookings, preserving order
func EligibleOwners(owners []Owner) []Owner {
	eligible := make([]Owner, 0, len(owners))
	for _, o := range owners {
		if o.CanReceiveBookings {
			eligible = append(eligible, o)
		}
	}
	return eligible
}
