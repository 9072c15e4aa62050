package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/pgerrors"
	serviceTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/servicetype"
	"github.com/m04kA/SMC-SchedulingService/pkg/interval"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// UseCase use case для создания бронирования сотрудником или через публичную запись
type UseCase struct {
	calendarRepo     CalendarRepository
	serviceTypeRepo  ServiceTypeRepository
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	validator        ConflictValidator
	allocator        OwnerAllocator
	notifier         Notifier
	txManager        TransactionManager
	staffPolicy      domain.FairnessPolicy
	publicPolicy     domain.FairnessPolicy
	metrics          *metrics.Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calendarRepo CalendarRepository,
	serviceTypeRepo ServiceTypeRepository,
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	validator ConflictValidator,
	allocator OwnerAllocator,
	notifier Notifier,
	txManager TransactionManager,
	staffPolicy domain.FairnessPolicy,
	publicPolicy domain.FairnessPolicy,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		calendarRepo:     calendarRepo,
		serviceTypeRepo:  serviceTypeRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		validator:        validator,
		allocator:        allocator,
		notifier:         notifier,
		txManager:        txManager,
		staffPolicy:      staffPolicy,
		publicPolicy:     publicPolicy,
		metrics:          m,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка конфликтов, выбор владельца и запись идут в одной транзакции READ COMMITTED
// под advisory-блокировкой календаря. Блокировка берется первым запросом транзакции:
// каждый следующий запрос видит бронирования, зафиксированные предыдущим владельцем блокировки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%d, user=%d, calendar=%d, slug=%q, service_type=%d, start=%s",
		req.Tenant.TenantID, req.Tenant.UserID, req.CalendarID, req.Slug, req.ServiceTypeID, req.Start.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Календарь
	calendar, err := uc.resolveCalendar(ctx, req)
	if err != nil {
		return nil, err
	}

	loc, err := calendar.Location()
	if err != nil {
		uc.logger.Error("CreateBooking: calendar id=%d has invalid timezone %q: %v", calendar.ID, calendar.Timezone, err)
		return nil, fmt.Errorf("%w: load timezone: %v", ErrInternal, err)
	}

	// 3. Тип услуги должен принадлежать этому календарю
	serviceType, err := uc.serviceTypeRepo.GetByID(ctx, calendar.ID, req.ServiceTypeID)
	if err != nil {
		if errors.Is(err, serviceTypeRepo.ErrServiceTypeNotFound) {
			uc.logger.Warn("CreateBooking: service type id=%d not found in calendar id=%d", req.ServiceTypeID, calendar.ID)
			return nil, ErrServiceTypeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service type id=%d: %v", req.ServiceTypeID, err)
		return nil, fmt.Errorf("%w: failed to get service type: %v", ErrInternal, err)
	}
	if !serviceType.IsActive {
		uc.logger.Warn("CreateBooking: service type id=%d is inactive", serviceType.ID)
		return nil, ErrServiceTypeNotFound
	}

	candidate := interval.FromDuration(req.Start, serviceType.Duration())

	// 4. Временные ограничения проверяются до выбора владельца
	if err := uc.checkTiming(ctx, req, calendar, serviceType, loc); err != nil {
		return nil, err
	}

	policy := uc.staffPolicy
	if req.Tenant.Public {
		policy = uc.publicPolicy
	}

	var (
		result *domain.Booking
		owner  *domain.Owner
	)

	// 5. Проверка, выбор владельца и запись в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.calendarRepo.Lock(txCtx, calendar.ID); err != nil {
			uc.logger.Error("CreateBooking: failed to lock calendar id=%d: %v", calendar.ID, err)
			return fmt.Errorf("%w: failed to lock calendar: %w", ErrInternal, err)
		}

		free, err := uc.validator.IsAvailable(txCtx, calendar, candidate, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to validate interval: %w", ErrInternal, err)
		}
		if !free {
			uc.metrics.IncBookingConflict("validate")
			return ErrSlotNotAvailable
		}

		if serviceType.HasDailyLimit() {
			dayStart, dayEnd := localDay(req.Start, loc)
			booked, err := uc.bookingRepo.CountActiveByServiceType(txCtx, serviceType.ID, dayStart, dayEnd, nil)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to count daily bookings: %v", err)
				return fmt.Errorf("%w: failed to count daily bookings: %w", ErrInternal, err)
			}
			if booked >= serviceType.MaxPerDay {
				uc.logger.Warn("CreateBooking: service type id=%d reached max_per_day=%d", serviceType.ID, serviceType.MaxPerDay)
				uc.metrics.IncBookingConflict("daily_limit")
				return ErrDailyLimitReached
			}
		}

		owner, err = uc.allocator.Allocate(txCtx, calendar, req.Start, policy)
		if err != nil {
			if errors.Is(err, domain.ErrNoEligibleOwner) {
				uc.logger.Warn("CreateBooking: calendar id=%d has no eligible owner", calendar.ID)
				return ErrNoEligibleOwner
			}
			return fmt.Errorf("%w: failed to allocate owner: %w", ErrInternal, err)
		}

		booking := &domain.Booking{
			TenantID:      calendar.TenantID,
			CalendarID:    calendar.ID,
			ServiceTypeID: serviceType.ID,
			OwnerID:       owner.ID,
			Start:         candidate.Start,
			End:           candidate.End,
			Status:        req.Tenant.Source().InitialStatus(),
			Source:        req.Tenant.Source(),
			LeadID:        req.LeadID,
			ClientName:    req.ClientName,
			ClientPhone:   req.ClientPhone,
			ClientEmail:   req.ClientEmail,
			Notes:         req.Notes,
		}
		if !req.Tenant.Public {
			createdBy := req.Tenant.UserID
			booking.CreatedBy = &createdBy
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигрыш конкурентной записи равносилен занятому слоту
		if pgerrors.IsConcurrentWriteConflict(err) {
			uc.logger.Warn("CreateBooking: concurrent write conflict on calendar id=%d: %v", calendar.ID, err)
			uc.metrics.IncBookingConflict("serialization")
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateBooking: %v", err)
		}
		return nil, err
	}

	uc.metrics.IncBookingCreated(string(result.Source))
	uc.metrics.IncOwnerAssignment(calendar.ID)
	uc.notifier.CalendarChanged(ctx, calendar.ID, loc, result.Start)

	uc.logger.Info("CreateBooking: successfully created booking id=%d owner=%d status=%s", result.ID, owner.ID, result.Status)

	return toResponse(result, owner), nil
}

// checkTiming проверяет минимальное время записи; для публичной записи также горизонт и окна доступности
func (uc *UseCase) checkTiming(
	ctx context.Context,
	req *Request,
	calendar *domain.Calendar,
	serviceType *domain.ServiceType,
	loc *time.Location,
) error {
	now := uc.timeProvider.Now()

	minStart := now.Add(serviceType.MinAdvance())
	if req.Tenant.Public {
		if calendarMin := now.Add(time.Duration(calendar.MinAdvanceHours) * time.Hour); calendarMin.After(minStart) {
			minStart = calendarMin
		}
	}
	if req.Start.Before(minStart) {
		uc.logger.Warn("CreateBooking: start %s is before %s", req.Start.Format(time.RFC3339), minStart.Format(time.RFC3339))
		return fmt.Errorf("%w: earliest start is %s", ErrTooEarly, minStart.In(loc).Format(time.RFC3339))
	}

	if !req.Tenant.Public {
		return nil
	}

	if err := validatePublicWindow(req.Start, now, calendar, loc); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return err
	}

	windows, err := uc.availabilityRepo.ListActiveWindows(ctx, calendar.ID, req.Start.In(loc).Weekday())
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get availability: %v", err)
		return fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}
	fits, err := fitsAvailability(req.Start, serviceType, windows, loc)
	if err != nil {
		return fmt.Errorf("%w: failed to check availability: %v", ErrInternal, err)
	}
	if !fits {
		uc.logger.Warn("CreateBooking: start %s does not fit calendar id=%d availability", req.Start.Format(time.RFC3339), calendar.ID)
		return ErrOutsideAvailability
	}

	return nil
}

func (uc *UseCase) resolveCalendar(ctx context.Context, req *Request) (*domain.Calendar, error) {
	if req.Tenant.Public {
		calendar, err := uc.calendarRepo.GetBySlug(ctx, req.Slug)
		if err != nil {
			if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
				uc.logger.Warn("CreateBooking: calendar slug=%q not found", req.Slug)
				return nil, ErrCalendarNotFound
			}
			uc.logger.Error("CreateBooking: failed to get calendar slug=%q: %v", req.Slug, err)
			return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
		}
		if !calendar.IsPubliclyBookable() {
			uc.logger.Warn("CreateBooking: calendar slug=%q is not publicly bookable", req.Slug)
			return nil, ErrCalendarNotFound
		}
		return calendar, nil
	}

	calendar, err := uc.calendarRepo.GetByID(ctx, req.CalendarID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			uc.logger.Warn("CreateBooking: calendar id=%d not found", req.CalendarID)
			return nil, ErrCalendarNotFound
		}
		uc.logger.Error("CreateBooking: failed to get calendar id=%d: %v", req.CalendarID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}
	if !req.Tenant.Owns(calendar.TenantID) {
		uc.logger.Warn("CreateBooking: tenant=%d has no access to calendar id=%d", req.Tenant.TenantID, calendar.ID)
		return nil, ErrAccessDenied
	}
	if !calendar.IsActive {
		uc.logger.Warn("CreateBooking: calendar id=%d is inactive", calendar.ID)
		return nil, ErrCalendarInactive
	}
	return calendar, nil
}
