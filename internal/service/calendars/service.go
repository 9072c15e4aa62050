package calendars

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	blockRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/block"
	calendarRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/calendar"
	serviceTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/servicetype"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/slug"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// maxSlugAttempts сколько суффиксов перебирается при коллизии slug
const maxSlugAttempts = 20

// Service сервис настройки календарей: владельцы, расписание, типы услуг, блокировки
type Service struct {
	calendarRepo     CalendarRepository
	availabilityRepo AvailabilityRepository
	serviceTypeRepo  ServiceTypeRepository
	blockRepo        BlockRepository
	txManager        TransactionManager
	notifier         Notifier
	logger           Logger
}

// NewService создает новый экземпляр сервиса календарей
func NewService(
	calendarRepo CalendarRepository,
	availabilityRepo AvailabilityRepository,
	serviceTypeRepo ServiceTypeRepository,
	blockRepo BlockRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		calendarRepo:     calendarRepo,
		availabilityRepo: availabilityRepo,
		serviceTypeRepo:  serviceTypeRepo,
		blockRepo:        blockRepo,
		txManager:        txManager,
		notifier:         notifier,
		logger:           logger,
	}
}

// CreateCalendar создает календарь; создатель становится владельцем с ролью admin
func (s *Service) CreateCalendar(ctx context.Context, tenant domain.TenantContext, req *models.CreateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("CreateCalendar: tenant=%d user=%d name=%q", tenant.TenantID, tenant.UserID, req.Name)

	if tenant.Public || tenant.UserID == 0 {
		return nil, ErrAccessDenied
	}
	if err := validateCalendar(req); err != nil {
		s.logger.Warn("CreateCalendar: validation failed: %v", err)
		return nil, err
	}

	calendar := &domain.Calendar{
		TenantID:                       tenant.TenantID,
		Name:                           strings.TrimSpace(req.Name),
		Timezone:                       req.Timezone,
		IsActive:                       true,
		PublicBooking:                  req.PublicBooking,
		MinAdvanceHours:                req.MinAdvanceHours,
		MaxAdvanceDays:                 req.MaxAdvanceDays,
		MaxSimultaneousBookingsPerSlot: req.MaxSimultaneousBookingsPerSlot,
		CreatedBy:                      tenant.UserID,
	}
	if calendar.MaxSimultaneousBookingsPerSlot == 0 {
		calendar.MaxSimultaneousBookingsPerSlot = domain.DefaultSimultaneousBookings
	}

	displayName := strings.TrimSpace(req.OwnerDisplayName)
	if displayName == "" {
		displayName = fmt.Sprintf("user %d", tenant.UserID)
	}

	// Явно заданный slug не подбирается
	base, attempts := slug.Make(calendar.Name), maxSlugAttempts
	if req.Slug != nil {
		base, attempts = *req.Slug, 1
	}

	for n := 1; n <= attempts; n++ {
		candidate := slug.WithSuffix(base, n)

		exists, err := s.calendarRepo.SlugExists(ctx, candidate)
		if err != nil {
			s.logger.Error("CreateCalendar: failed to check slug %q: %v", candidate, err)
			return nil, fmt.Errorf("%w: CreateCalendar - check slug: %v", ErrInternal, err)
		}
		if exists {
			continue
		}

		calendar.Slug = candidate
		owner, err := s.createWithAdmin(ctx, calendar, displayName)
		if errors.Is(err, calendarRepo.ErrSlugTaken) {
			s.logger.Warn("CreateCalendar: slug %q taken concurrently, retrying", candidate)
			continue
		}
		if err != nil {
			s.logger.Error("CreateCalendar: failed to create calendar: %v", err)
			return nil, fmt.Errorf("%w: CreateCalendar - create: %v", ErrInternal, err)
		}

		s.logger.Info("CreateCalendar: created calendar id=%d slug=%s", calendar.ID, calendar.Slug)
		resp := models.FromDomainCalendar(calendar)
		resp.Owners = append(resp.Owners, models.FromDomainOwner(owner))
		return resp, nil
	}

	s.logger.Warn("CreateCalendar: no free slug for base %q", base)
	return nil, ErrSlugUnavailable
}

func (s *Service) createWithAdmin(ctx context.Context, calendar *domain.Calendar, displayName string) (*domain.Owner, error) {
	var owner *domain.Owner

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := s.calendarRepo.Create(txCtx, calendar)
		if err != nil {
			return err
		}

		owner, err = s.calendarRepo.AddOwner(txCtx, &domain.Owner{
			CalendarID:         created.ID,
			UserID:             created.CreatedBy,
			DisplayName:        displayName,
			Role:               domain.OwnerRoleAdmin,
			CanReceiveBookings: true,
			Weight:             domain.DefaultOwnerWeight,
		})
		return err
	})

	return owner, err
}

// GetCalendar получает календарь с владельцами, расписанием и типами услуг
func (s *Service) GetCalendar(ctx context.Context, tenant domain.TenantContext, id int64) (*models.CalendarResponse, error) {
	s.logger.Info("GetCalendar: calendar id=%d tenant=%d", id, tenant.TenantID)

	calendar, err := s.getOwned(ctx, "GetCalendar", tenant, id)
	if err != nil {
		return nil, err
	}

	owners, err := s.calendarRepo.ListOwners(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - list owners: %v", ErrInternal, err)
	}
	windows, err := s.availabilityRepo.ListByCalendar(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - list availability: %v", ErrInternal, err)
	}
	serviceTypes, err := s.serviceTypeRepo.ListByCalendar(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - list service types: %v", ErrInternal, err)
	}

	resp := models.FromDomainCalendar(calendar)
	for i := range owners {
		resp.Owners = append(resp.Owners, models.FromDomainOwner(&owners[i]))
	}
	for i := range windows {
		resp.Availability = append(resp.Availability, models.FromDomainWindow(&windows[i]))
	}
	for _, st := range serviceTypes {
		resp.ServiceTypes = append(resp.ServiceTypes, models.FromDomainServiceType(st))
	}

	return resp, nil
}

// ListCalendars получает календари тенанта
func (s *Service) ListCalendars(ctx context.Context, tenant domain.TenantContext) ([]*models.CalendarResponse, error) {
	calendars, err := s.calendarRepo.ListByTenant(ctx, tenant.TenantID)
	if err != nil {
		s.logger.Error("ListCalendars: repository error for tenant=%d: %v", tenant.TenantID, err)
		return nil, fmt.Errorf("%w: ListCalendars - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.CalendarResponse, 0, len(calendars))
	for _, c := range calendars {
		result = append(result, models.FromDomainCalendar(c))
	}
	return result, nil
}

// AddOwner добавляет сотрудника в календарь
func (s *Service) AddOwner(ctx context.Context, tenant domain.TenantContext, calendarID int64, req *models.AddOwnerRequest) (*models.OwnerResponse, error) {
	s.logger.Info("AddOwner: calendar=%d user=%d role=%s", calendarID, req.UserID, req.Role)

	calendar, err := s.requireAdmin(ctx, "AddOwner", tenant, calendarID)
	if err != nil {
		return nil, err
	}

	owner, err := toDomainOwner(calendarID, req)
	if err != nil {
		s.logger.Warn("AddOwner: validation failed: %v", err)
		return nil, err
	}

	created, err := s.calendarRepo.AddOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrOwnerExists) {
			return nil, ErrOwnerAlreadyExists
		}
		s.logger.Error("AddOwner: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddOwner - repository error: %v", ErrInternal, err)
	}

	// Новый владелец может освободить слоты при распределении
	s.notifier.CalendarChanged(ctx, calendarID, location(calendar))

	resp := models.FromDomainOwner(created)
	return &resp, nil
}

// ReplaceAvailability заменяет недельное расписание календаря целиком
func (s *Service) ReplaceAvailability(ctx context.Context, tenant domain.TenantContext, calendarID int64, windows []models.AvailabilityWindow) ([]models.AvailabilityWindow, error) {
	s.logger.Info("ReplaceAvailability: calendar=%d windows=%d", calendarID, len(windows))

	calendar, err := s.requireAdmin(ctx, "ReplaceAvailability", tenant, calendarID)
	if err != nil {
		return nil, err
	}

	domainWindows := make([]domain.AvailabilityWindow, 0, len(windows))
	for i, w := range windows {
		dw, err := toDomainWindow(calendarID, w)
		if err != nil {
			s.logger.Warn("ReplaceAvailability: window #%d invalid: %v", i, err)
			return nil, fmt.Errorf("%w: window #%d: %v", ErrInvalidInput, i, err)
		}
		domainWindows = append(domainWindows, dw)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.availabilityRepo.Replace(txCtx, calendarID, domainWindows)
	})
	if err != nil {
		s.logger.Error("ReplaceAvailability: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReplaceAvailability - replace: %v", ErrInternal, err)
	}

	s.notifier.CalendarChanged(ctx, calendarID, location(calendar))

	result := make([]models.AvailabilityWindow, 0, len(domainWindows))
	for i := range domainWindows {
		result = append(result, models.FromDomainWindow(&domainWindows[i]))
	}
	return result, nil
}

// CreateServiceType создает тип услуги
func (s *Service) CreateServiceType(ctx context.Context, tenant domain.TenantContext, calendarID int64, req *models.ServiceTypeRequest) (*models.ServiceTypeResponse, error) {
	s.logger.Info("CreateServiceType: calendar=%d name=%q duration=%d", calendarID, req.Name, req.DurationMinutes)

	calendar, err := s.requireAdmin(ctx, "CreateServiceType", tenant, calendarID)
	if err != nil {
		return nil, err
	}
	if err := validateServiceType(req); err != nil {
		s.logger.Warn("CreateServiceType: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceTypeRepo.Create(ctx, toDomainServiceType(calendarID, 0, req))
	if err != nil {
		s.logger.Error("CreateServiceType: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateServiceType - repository error: %v", ErrInternal, err)
	}

	s.notifier.CalendarChanged(ctx, calendarID, location(calendar))

	resp := models.FromDomainServiceType(created)
	return &resp, nil
}

// UpdateServiceType изменяет тип услуги; уже созданные бронирования не пересчитываются
func (s *Service) UpdateServiceType(ctx context.Context, tenant domain.TenantContext, calendarID, id int64, req *models.ServiceTypeRequest) (*models.ServiceTypeResponse, error) {
	s.logger.Info("UpdateServiceType: calendar=%d service_type=%d", calendarID, id)

	calendar, err := s.requireAdmin(ctx, "UpdateServiceType", tenant, calendarID)
	if err != nil {
		return nil, err
	}
	if err := validateServiceType(req); err != nil {
		s.logger.Warn("UpdateServiceType: validation failed: %v", err)
		return nil, err
	}

	st := toDomainServiceType(calendarID, id, req)
	if err := s.serviceTypeRepo.Update(ctx, st); err != nil {
		if errors.Is(err, serviceTypeRepo.ErrServiceTypeNotFound) {
			return nil, ErrServiceTypeNotFound
		}
		s.logger.Error("UpdateServiceType: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateServiceType - repository error: %v", ErrInternal, err)
	}

	updated, err := s.serviceTypeRepo.GetByID(ctx, calendarID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateServiceType - reload: %v", ErrInternal, err)
	}

	s.notifier.CalendarChanged(ctx, calendarID, location(calendar))

	resp := models.FromDomainServiceType(updated)
	return &resp, nil
}

// CreateBlock закрывает интервал календаря для записи
func (s *Service) CreateBlock(ctx context.Context, tenant domain.TenantContext, calendarID int64, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: calendar=%d start=%s end=%s", calendarID, req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))

	calendar, err := s.requireAdmin(ctx, "CreateBlock", tenant, calendarID)
	if err != nil {
		return nil, err
	}
	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: block start must be before end", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is too long (max %d)", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	created, err := s.blockRepo.Create(ctx, &domain.Block{
		CalendarID: calendarID,
		Start:      req.Start,
		End:        req.End,
		Reason:     req.Reason,
		CreatedBy:  tenant.UserID,
	})
	if err != nil {
		s.logger.Error("CreateBlock: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlock - repository error: %v", ErrInternal, err)
	}

	loc := location(calendar)
	s.notifier.CalendarChanged(ctx, calendarID, loc, spannedDays(created.Start, created.End, loc)...)

	return models.FromDomainBlock(created), nil
}

// DeleteBlock снимает блокировку
func (s *Service) DeleteBlock(ctx context.Context, tenant domain.TenantContext, calendarID, id int64) error {
	s.logger.Info("DeleteBlock: calendar=%d block=%d", calendarID, id)

	calendar, err := s.requireAdmin(ctx, "DeleteBlock", tenant, calendarID)
	if err != nil {
		return err
	}

	deleted, err := s.blockRepo.Delete(ctx, calendarID, id)
	if err != nil {
		if errors.Is(err, blockRepo.ErrBlockNotFound) {
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: repository error: %v", err)
		return fmt.Errorf("%w: DeleteBlock - repository error: %v", ErrInternal, err)
	}

	loc := location(calendar)
	s.notifier.CalendarChanged(ctx, calendarID, loc, spannedDays(deleted.Start, deleted.End, loc)...)
	return nil
}

func (s *Service) getOwned(ctx context.Context, op string, tenant domain.TenantContext, id int64) (*domain.Calendar, error) {
	calendar, err := s.calendarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			s.logger.Warn("%s: calendar id=%d not found", op, id)
			return nil, ErrCalendarNotFound
		}
		s.logger.Error("%s: repository error for calendar id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - get calendar: %v", ErrInternal, op, err)
	}

	if tenant.Public || !tenant.Owns(calendar.TenantID) {
		s.logger.Warn("%s: tenant=%d has no access to calendar id=%d", op, tenant.TenantID, id)
		return nil, ErrAccessDenied
	}

	return calendar, nil
}

// requireAdmin разрешает изменение только создателю календаря или владельцу с ролью admin
func (s *Service) requireAdmin(ctx context.Context, op string, tenant domain.TenantContext, id int64) (*domain.Calendar, error) {
	calendar, err := s.getOwned(ctx, op, tenant, id)
	if err != nil {
		return nil, err
	}
	if calendar.CreatedBy == tenant.UserID {
		return calendar, nil
	}

	owners, err := s.calendarRepo.ListOwners(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - list owners: %v", ErrInternal, op, err)
	}
	for _, o := range owners {
		if o.UserID == tenant.UserID && o.Role == domain.OwnerRoleAdmin {
			return calendar, nil
		}
	}

	s.logger.Warn("%s: user=%d is not an admin of calendar id=%d", op, tenant.UserID, id)
	return nil, ErrAccessDenied
}

func location(c *domain.Calendar) *time.Location {
	loc, err := c.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

// spannedDays возвращает по одной точке на каждый локальный день интервала [start, end)
func spannedDays(start, end time.Time, loc *time.Location) []time.Time {
	days := []time.Time{start}
	y, m, d := start.In(loc).Date()
	for day := time.Date(y, m, d+1, 0, 0, 0, 0, loc); day.Before(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func toDomainWindow(calendarID int64, w models.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	start, err := types.NewTimeStringFromString(w.StartTime)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	end, err := types.NewTimeStringFromString(w.EndTime)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}

	dw := domain.AvailabilityWindow{
		CalendarID: calendarID,
		DayOfWeek:  time.Weekday(w.DayOfWeek),
		StartTime:  start,
		EndTime:    end,
		IsActive:   w.IsActive,
	}
	if err := dw.Validate(); err != nil {
		return domain.AvailabilityWindow{}, err
	}
	return dw, nil
}

func toDomainOwner(calendarID int64, req *models.AddOwnerRequest) (*domain.Owner, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("%w: displayName is required", ErrInvalidInput)
	}

	role := domain.OwnerRole(req.Role)
	if req.Role == "" {
		role = domain.OwnerRoleMember
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	weight := req.Weight
	if weight == 0 {
		weight = domain.DefaultOwnerWeight
	}
	if weight < 1 || weight > domain.MaxOwnerWeight {
		return nil, fmt.Errorf("%w: weight must be between 1 and %d", ErrInvalidInput, domain.MaxOwnerWeight)
	}

	return &domain.Owner{
		CalendarID:         calendarID,
		UserID:             req.UserID,
		DisplayName:        name,
		Role:               role,
		CanReceiveBookings: req.CanReceiveBookings,
		Weight:             weight,
	}, nil
}

func toDomainServiceType(calendarID, id int64, req *models.ServiceTypeRequest) *domain.ServiceType {
	return &domain.ServiceType{
		ID:                  id,
		CalendarID:          calendarID,
		Name:                strings.TrimSpace(req.Name),
		DurationMinutes:     req.DurationMinutes,
		BufferBeforeMinutes: req.BufferBeforeMinutes,
		BufferAfterMinutes:  req.BufferAfterMinutes,
		MinAdvanceHours:     req.MinAdvanceHours,
		MaxPerDay:           req.MaxPerDay,
		IsActive:            req.IsActive,
		Position:            req.Position,
	}
}
