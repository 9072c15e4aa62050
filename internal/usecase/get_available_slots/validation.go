package get_available_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Tenant.Public {
		if strings.TrimSpace(req.Slug) == "" {
			return fmt.Errorf("%w: slug is required", ErrInvalidInput)
		}
	} else if req.CalendarID <= 0 {
		return fmt.Errorf("%w: calendarID must be positive", ErrInvalidInput)
	}

	if req.ServiceTypeID <= 0 {
		return fmt.Errorf("%w: serviceTypeID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// parseLocalDate разбирает YYYY-MM-DD в полночь этого дня в таймзоне календаря.
// День недели берется из компонентов даты, а не из UTC-момента.
func parseLocalDate(date string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, date)
	}
	y, m, d := parsed.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// validatePublicWindow проверяет, что локальный день пересекается с окном публичной записи
// [now+minAdvanceHours, today+maxAdvanceDays]
func validatePublicWindow(dayStart, dayEnd, now time.Time, calendar *domain.Calendar) error {
	earliest := now.Add(time.Duration(calendar.MinAdvanceHours) * time.Hour)
	if !dayEnd.After(earliest) {
		return fmt.Errorf("%w: earliest bookable time is %s", ErrDateOutOfRange, earliest.In(dayStart.Location()).Format(time.RFC3339))
	}

	if !calendar.HasAdvanceBookingLimit() {
		return nil
	}

	y, m, d := now.In(dayStart.Location()).Date()
	lastDay := time.Date(y, m, d+calendar.MaxAdvanceDays, 0, 0, 0, 0, dayStart.Location())
	if dayStart.After(lastDay) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateOutOfRange, calendar.MaxAdvanceDays)
	}

	return nil
}
