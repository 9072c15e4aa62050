package domain

import "time"

// FairnessPolicy describes which bookings count as an owner's load.
// ScopeDays = 0 means the local day of the booking; N means that day plus the N preceding days.
type FairnessPolicy struct {
	ScopeDays int
	Statuses  []BookingStatus
}

// Window returns the [from, to) range of the policy for a booking starting at start
func (p FairnessPolicy) Window(start time.Time, loc *time.Location) (time.Time, time.Time) {
	local := start.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	from := dayStart.AddDate(0, 0, -p.ScopeDays)
	to := dayStart.AddDate(0, 0, 1)
	return from, to
}

// StaffFairnessPolicy same-day pending/confirmed load
func StaffFairnessPolicy() FairnessPolicy {
	return FairnessPolicy{ScopeDays: 0, Statuses: []BookingStatus{StatusPending, StatusConfirmed}}
}

// PublicFairnessPolicy trailing 30-day pending/confirmed/completed load
func PublicFairnessPolicy() FairnessPolicy {
	return FairnessPolicy{
		ScopeDays: DefaultPublicFairnessDays,
		Statuses:  []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted},
	}
}

// FairnessPolicyFromStrings builds a policy from validated config values; unknown statuses are skipped
func FairnessPolicyFromStrings(scopeDays int, statuses []string) FairnessPolicy {
	p := FairnessPolicy{ScopeDays: scopeDays}
	for _, s := range statuses {
		st := BookingStatus(s)
		if st.IsValid() {
			p.Statuses = append(p.Statuses, st)
		}
	}
	return p
}
