package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailabilityWindow is a recurring weekly open interval in calendar-local wall-clock time
type AvailabilityWindow struct {
	ID         int64
	CalendarID int64
	DayOfWeek  time.Weekday // 0 = Sunday .. 6 = Saturday
	StartTime  types.TimeString
	EndTime    types.TimeString
	IsActive   bool
}

// Validate checks weekday range and start < end
func (w *AvailabilityWindow) Validate() error {
	if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day_of_week must be in 0..6, got %d", ErrValidation, w.DayOfWeek)
	}
	if err := w.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrValidation, err)
	}
	if err := w.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end_time: %v", ErrValidation, err)
	}
	if !w.StartTime.IsBefore(w.EndTime) {
		return fmt.Errorf("%w: start_time %s must be before end_time %s", ErrValidation, w.StartTime, w.EndTime)
	}
	return nil
}
