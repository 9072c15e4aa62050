package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotCache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	calendarRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/calendar"
	serviceTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/servicetype"
	"github.com/m04kA/SMC-SchedulingService/internal/service/conflict"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	calendarRepo     CalendarRepository
	serviceTypeRepo  ServiceTypeRepository
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	blockRepo        BlockRepository
	cache            SlotCache
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
	blockRepo BlockRepository,
	cache SlotCache,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		calendarRepo:     calendarRepo,
		serviceTypeRepo:  serviceTypeRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		blockRepo:        blockRepo,
		cache:            cache,
		metrics:          m,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов. Состояние не изменяет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, calendar=%d, slug=%q, service_type=%d, date=%s",
		req.Tenant.TenantID, req.CalendarID, req.Slug, req.ServiceTypeID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Календарь: по ID для сотрудников, по slug для публичных запросов
	calendar, err := uc.resolveCalendar(ctx, req)
	if err != nil {
		return nil, err
	}

	loc, err := calendar.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: calendar id=%d has invalid timezone %q: %v", calendar.ID, calendar.Timezone, err)
		return nil, fmt.Errorf("%w: load timezone: %v", ErrInternal, err)
	}

	// 3. Локальная дата календаря
	dayStart, err := parseLocalDate(req.Date, loc)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}
	dayEnd := nextDay(dayStart)

	// 4. Тип услуги
	serviceType, err := uc.serviceTypeRepo.GetByID(ctx, calendar.ID, req.ServiceTypeID)
	if err != nil {
		if errors.Is(err, serviceTypeRepo.ErrServiceTypeNotFound) {
			uc.logger.Warn("GetAvailableSlots: service type id=%d not found in calendar id=%d", req.ServiceTypeID, calendar.ID)
			return nil, ErrServiceTypeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service type id=%d: %v", req.ServiceTypeID, err)
		return nil, fmt.Errorf("%w: failed to get service type: %v", ErrInternal, err)
	}
	if !serviceType.IsActive {
		uc.logger.Warn("GetAvailableSlots: service type id=%d is inactive", serviceType.ID)
		return nil, ErrServiceTypeNotFound
	}

	// 5. Минимальное время начала слота
	now := uc.timeProvider.Now()
	minStart := now.Add(serviceType.MinAdvance())
	if req.Tenant.Public {
		if err := validatePublicWindow(dayStart, dayEnd, now, calendar); err != nil {
			uc.logger.Warn("GetAvailableSlots: public date %s rejected: %v", req.Date, err)
			return nil, err
		}
		if calendarMin := now.Add(time.Duration(calendar.MinAdvanceHours) * time.Hour); calendarMin.After(minStart) {
			minStart = calendarMin
		}
	}

	// 6. Кандидаты: из кэша или из сохраненного состояния.
	// Поколение читается до загрузки состояния: если календарь изменится во время расчета,
	// запись уйдет под устаревший ключ.
	dateKey := dayStart.Format(domain.DateFormat)
	generation, genErr := uc.cache.Generation(ctx, calendar.ID)
	if genErr != nil {
		uc.metrics.IncSlotCacheLookup("error")
		uc.logger.Warn("GetAvailableSlots: slot cache unavailable: %v", genErr)
	}

	var candidates []domain.AvailableSlot
	if genErr == nil {
		candidates, err = uc.cache.Get(ctx, calendar.ID, generation, serviceType.ID, dateKey)
		switch {
		case err == nil:
			uc.metrics.IncSlotCacheLookup("hit")
		case errors.Is(err, slotCache.ErrCacheMiss):
			uc.metrics.IncSlotCacheLookup("miss")
		default:
			uc.metrics.IncSlotCacheLookup("error")
			uc.logger.Warn("GetAvailableSlots: slot cache unavailable: %v", err)
		}
	}

	if genErr != nil || err != nil {
		candidates, err = uc.buildCandidates(ctx, calendar, serviceType, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		if genErr == nil {
			if err := uc.cache.Set(ctx, calendar.ID, generation, serviceType.ID, dateKey, candidates); err != nil {
				uc.logger.Warn("GetAvailableSlots: failed to cache slots: %v", err)
			}
		}
	}

	// 7. Фильтр по текущему времени
	slots := filterFromMinStart(candidates, minStart)
	uc.metrics.AddSlotsGenerated(len(slots))

	uc.logger.Info("GetAvailableSlots: generated %d slots for calendar=%d, service_type=%d, date=%s",
		len(slots), calendar.ID, serviceType.ID, dateKey)

	return &Response{
		Date:          dateKey,
		Timezone:      loc.String(),
		CalendarID:    calendar.ID,
		ServiceTypeID: serviceType.ID,
		Slots:         fromDomainSlots(slots),
	}, nil
}

func (uc *UseCase) resolveCalendar(ctx context.Context, req *Request) (*domain.Calendar, error) {
	if req.Tenant.Public {
		calendar, err := uc.calendarRepo.GetBySlug(ctx, req.Slug)
		if err != nil {
			if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
				uc.logger.Warn("GetAvailableSlots: calendar slug=%q not found", req.Slug)
				return nil, ErrCalendarNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get calendar slug=%q: %v", req.Slug, err)
			return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
		}
		if !calendar.IsPubliclyBookable() {
			uc.logger.Warn("GetAvailableSlots: calendar slug=%q is not publicly bookable", req.Slug)
			return nil, ErrCalendarNotFound
		}
		return calendar, nil
	}

	calendar, err := uc.calendarRepo.GetByID(ctx, req.CalendarID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			uc.logger.Warn("GetAvailableSlots: calendar id=%d not found", req.CalendarID)
			return nil, ErrCalendarNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get calendar id=%d: %v", req.CalendarID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}
	if !req.Tenant.Owns(calendar.TenantID) {
		uc.logger.Warn("GetAvailableSlots: tenant=%d has no access to calendar id=%d", req.Tenant.TenantID, calendar.ID)
		return nil, ErrAccessDenied
	}
	if !calendar.IsActive {
		uc.logger.Warn("GetAvailableSlots: calendar id=%d is inactive", calendar.ID)
		return nil, ErrCalendarInactive
	}
	return calendar, nil
}

// buildCandidates читает окна, бронирования и блокировки дня и строит кандидатов
func (uc *UseCase) buildCandidates(
	ctx context.Context,
	calendar *domain.Calendar,
	serviceType *domain.ServiceType,
	dayStart, dayEnd time.Time,
) ([]domain.AvailableSlot, error) {
	if serviceType.HasDailyLimit() {
		booked, err := uc.bookingRepo.CountActiveByServiceType(ctx, serviceType.ID, dayStart, dayEnd, nil)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to count bookings: %v", err)
			return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
		}
		if booked >= serviceType.MaxPerDay {
			uc.logger.Info("GetAvailableSlots: service type id=%d reached max_per_day=%d", serviceType.ID, serviceType.MaxPerDay)
			return []domain.AvailableSlot{}, nil
		}
	}

	windows, err := uc.availabilityRepo.ListActiveWindows(ctx, calendar.ID, dayStart.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: calendar=%d has no availability on %s", calendar.ID, dayStart.Weekday())
		return []domain.AvailableSlot{}, nil
	}

	bookings, err := uc.bookingRepo.ListActiveOverlapping(ctx, calendar.ID, dayStart, dayEnd, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	blocks, err := uc.blockRepo.ListOverlapping(ctx, calendar.ID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
	}

	owners, err := uc.calendarRepo.ListOwners(ctx, calendar.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get owners: %v", err)
		return nil, fmt.Errorf("%w: failed to get owners: %v", ErrInternal, err)
	}

	occ := conflict.NewOccupancy(bookings, blocks, calendar.Capacity())
	candidates, err := generateCandidates(dayStart, windows, serviceType, occ, firstEligibleOwner(owners))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	return candidates, nil
}
