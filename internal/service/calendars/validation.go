package calendars

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/slug"
)

func validateCalendar(req *models.CreateCalendarRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCalendarNameLength {
		return fmt.Errorf("%w: name is too long (max %d)", ErrInvalidInput, domain.MaxCalendarNameLength)
	}

	if req.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", ErrInvalidInput)
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
	}

	if req.Slug != nil && !slug.Valid(*req.Slug) {
		return fmt.Errorf("%w: slug must match [a-z0-9-] and be at least %d characters", ErrInvalidInput, slug.MinLength)
	}

	if req.MinAdvanceHours < 0 || req.MinAdvanceHours > domain.MaxMinAdvanceHours {
		return fmt.Errorf("%w: minAdvanceHours must be between 0 and %d", ErrInvalidInput, domain.MaxMinAdvanceHours)
	}
	if req.MaxAdvanceDays < 0 || req.MaxAdvanceDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: maxAdvanceDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}
	if req.MaxSimultaneousBookingsPerSlot < 0 || req.MaxSimultaneousBookingsPerSlot > domain.MaxSimultaneousBookings {
		return fmt.Errorf("%w: maxSimultaneousBookingsPerSlot must be between 1 and %d", ErrInvalidInput, domain.MaxSimultaneousBookings)
	}

	return nil
}

func validateServiceType(req *models.ServiceTypeRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d", ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if req.BufferBeforeMinutes < 0 || req.BufferBeforeMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferBeforeMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBufferMinutes)
	}
	if req.BufferAfterMinutes < 0 || req.BufferAfterMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferAfterMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBufferMinutes)
	}
	if req.MinAdvanceHours < 0 || req.MinAdvanceHours > domain.MaxMinAdvanceHours {
		return fmt.Errorf("%w: minAdvanceHours must be between 0 and %d", ErrInvalidInput, domain.MaxMinAdvanceHours)
	}
	if req.MaxPerDay < 0 {
		return fmt.Errorf("%w: maxPerDay must not be negative", ErrInvalidInput)
	}
	return nil
}
