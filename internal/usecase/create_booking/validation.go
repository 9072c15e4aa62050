package create_booking

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
		if req.LeadID != nil {
			return fmt.Errorf("%w: leadId is not accepted on public bookings", ErrInvalidInput)
		}
	} else if req.CalendarID <= 0 {
		return fmt.Errorf("%w: calendarID must be positive", ErrInvalidInput)
	}

	if req.ServiceTypeID <= 0 {
		return fmt.Errorf("%w: serviceTypeID is required", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if req.ClientName != nil {
		trimmed := strings.TrimSpace(*req.ClientName)
		req.ClientName = &trimmed
	}
	identity := domain.Booking{LeadID: req.LeadID, ClientName: req.ClientName}
	if !identity.HasClientIdentity() {
		return fmt.Errorf("%w: either leadId or clientName is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes is too long (max %d)", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validatePublicWindow проверяет ограничение calendar.maxAdvanceDays для публичной записи
func validatePublicWindow(start, now time.Time, calendar *domain.Calendar, loc *time.Location) error {
	if !calendar.HasAdvanceBookingLimit() {
		return nil
	}

	y, m, d := now.In(loc).Date()
	limit := time.Date(y, m, d+calendar.MaxAdvanceDays+1, 0, 0, 0, 0, loc)
	if !start.Before(limit) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateOutOfRange, calendar.MaxAdvanceDays)
	}
	return nil
}

// fitsAvailability true, если [start, start+fitDuration] помещается в одно из окон дня
// и start лежит на сетке слотов этого окна (шаг равен длительности услуги),
// по тому же правилу, по которому генерируются слоты
func fitsAvailability(start time.Time, st *domain.ServiceType, windows []domain.AvailabilityWindow, loc *time.Location) (bool, error) {
	local := start.In(loc)
	y, m, d := local.Date()
	fitEnd := start.Add(st.FitDuration())

	for _, w := range windows {
		windowStart, err := w.StartTime.On(y, m, d, loc)
		if err != nil {
			return false, err
		}
		windowEnd, err := w.EndTime.On(y, m, d, loc)
		if err != nil {
			return false, err
		}
		if start.Before(windowStart) || fitEnd.After(windowEnd) {
			continue
		}
		if start.Sub(windowStart)%st.Duration() == 0 {
			return true, nil
		}
	}
	return false, nil
}

// localDay границы локального дня, в который начинается бронирование
func localDay(start time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := start.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}
