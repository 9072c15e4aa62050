package update_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/interval"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// UseCase use case для изменения бронирования (перенос, данные клиента, заметки)
type UseCase struct {
	bookingRepo     BookingRepository
	calendarRepo    CalendarRepository
	serviceTypeRepo ServiceTypeRepository
	validator       ConflictValidator
	notifier        Notifier
	txManager       TransactionManager
	metrics         *metrics.Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	calendarRepo CalendarRepository,
	serviceTypeRepo ServiceTypeRepository,
	validator ConflictValidator,
	notifier Notifier,
	txManager TransactionManager,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		calendarRepo:    calendarRepo,
		serviceTypeRepo: serviceTypeRepo,
		validator:       validator,
		notifier:        notifier,
		txManager:       txManager,
		metrics:         m,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет изменение. При переносе конец пересчитывается по длительности услуги,
// а новый интервал перепроверяется без учета самого бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d tenant=%d user=%d reschedule=%t",
		req.BookingID, req.Tenant.TenantID, req.Tenant.UserID, req.Start != nil)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		result   *domain.Booking
		oldStart time.Time
		loc      *time.Location
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if !req.Tenant.Owns(booking.TenantID) {
			uc.logger.Warn("UpdateBooking: tenant=%d has no access to booking id=%d", req.Tenant.TenantID, booking.ID)
			return ErrAccessDenied
		}
		if !booking.CanBeUpdated() {
			uc.logger.Warn("UpdateBooking: booking id=%d has status %s", booking.ID, booking.Status)
			return ErrCannotUpdate
		}

		oldStart = booking.Start
		req.apply(booking)
		if !booking.HasClientIdentity() {
			return fmt.Errorf("%w: either leadId or clientName is required", ErrInvalidInput)
		}

		calendar, err := uc.calendarRepo.GetByID(txCtx, booking.CalendarID)
		if err != nil {
			return fmt.Errorf("%w: failed to get calendar: %w", ErrInternal, err)
		}
		loc, err = calendar.Location()
		if err != nil {
			return fmt.Errorf("%w: load timezone: %w", ErrInternal, err)
		}

		if req.Start != nil && !req.Start.Equal(booking.Start) {
			if err := uc.reschedule(txCtx, calendar, booking, *req.Start, now, loc); err != nil {
				return err
			}
		}

		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		if pgerrors.IsConcurrentWriteConflict(err) {
			uc.logger.Warn("UpdateBooking: concurrent write conflict for booking id=%d: %v", req.BookingID, err)
			uc.metrics.IncBookingConflict("serialization")
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("UpdateBooking: %v", err)
		}
		return nil, err
	}

	if !result.Start.Equal(oldStart) {
		uc.notifier.CalendarChanged(ctx, result.CalendarID, loc, oldStart, result.Start)
	}

	uc.logger.Info("UpdateBooking: booking id=%d updated", result.ID)
	return toResponse(result), nil
}

// reschedule переносит бронирование на newStart под блокировкой календаря
func (uc *UseCase) reschedule(
	ctx context.Context,
	calendar *domain.Calendar,
	booking *domain.Booking,
	newStart, now time.Time,
	loc *time.Location,
) error {
	if err := uc.calendarRepo.Lock(ctx, calendar.ID); err != nil {
		return fmt.Errorf("%w: failed to lock calendar: %w", ErrInternal, err)
	}

	serviceType, err := uc.serviceTypeRepo.GetByID(ctx, calendar.ID, booking.ServiceTypeID)
	if err != nil {
		return fmt.Errorf("%w: failed to get service type: %w", ErrInternal, err)
	}

	if minStart := now.Add(serviceType.MinAdvance()); newStart.Before(minStart) {
		uc.logger.Warn("UpdateBooking: new start %s is before %s", newStart.Format(time.RFC3339), minStart.Format(time.RFC3339))
		return ErrTooEarly
	}

	candidate := interval.FromDuration(newStart, serviceType.Duration())
	excludeID := booking.ID

	free, err := uc.validator.IsAvailable(ctx, calendar, candidate, &excludeID)
	if err != nil {
		return fmt.Errorf("%w: failed to validate interval: %w", ErrInternal, err)
	}
	if !free {
		uc.metrics.IncBookingConflict("validate")
		return ErrSlotNotAvailable
	}

	if serviceType.HasDailyLimit() {
		y, m, d := newStart.In(loc).Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
		booked, err := uc.bookingRepo.CountActiveByServiceType(ctx, serviceType.ID, dayStart, dayStart.AddDate(0, 0, 1), &excludeID)
		if err != nil {
			return fmt.Errorf("%w: failed to count daily bookings: %w", ErrInternal, err)
		}
		if booked >= serviceType.MaxPerDay {
			uc.metrics.IncBookingConflict("daily_limit")
			return ErrDailyLimitReached
		}
	}

	booking.Start = candidate.Start
	booking.End = candidate.End
	return nil
}

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Tenant.Public {
		return ErrAccessDenied
	}
	if req.Start != nil && req.Start.IsZero() {
		return fmt.Errorf("%w: start must not be empty", ErrInvalidInput)
	}
	if req.ClientName != nil {
		trimmed := strings.TrimSpace(*req.ClientName)
		req.ClientName = &trimmed
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes is too long (max %d)", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
