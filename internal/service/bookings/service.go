package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований и переходов их жизненного цикла
type Service struct {
	bookingRepo  BookingRepository
	calendarRepo CalendarRepository
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	calendarRepo CalendarRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		calendarRepo: calendarRepo,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID в пределах тенанта
func (s *Service) GetByID(ctx context.Context, tenant domain.TenantContext, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for tenant=%d", id, tenant.TenantID)

	booking, err := s.getOwned(ctx, "GetByID", tenant, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// ListCalendarBookings получает бронирования календаря по периоду, статусам и владельцу
func (s *Service) ListCalendarBookings(ctx context.Context, tenant domain.TenantContext, req *models.ListCalendarBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListCalendarBookings: calendar=%d tenant=%d statuses=%v", req.CalendarID, tenant.TenantID, req.Statuses)

	calendar, err := s.calendarRepo.GetByID(ctx, req.CalendarID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			s.logger.Warn("ListCalendarBookings: calendar id=%d not found", req.CalendarID)
			return nil, ErrCalendarNotFound
		}
		s.logger.Error("ListCalendarBookings: repository error for calendar id=%d: %v", req.CalendarID, err)
		return nil, fmt.Errorf("%w: ListCalendarBookings - get calendar: %v", ErrInternal, err)
	}
	if !tenant.Owns(calendar.TenantID) {
		s.logger.Warn("ListCalendarBookings: tenant=%d has no access to calendar id=%d", tenant.TenantID, calendar.ID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListCalendarBookings: invalid filter for calendar=%d: %v", req.CalendarID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.ListByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListCalendarBookings: repository error for calendar=%d: %v", req.CalendarID, err)
		return nil, fmt.Errorf("%w: ListCalendarBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListCalendarBookings: fetched %d bookings for calendar=%d", len(bookings), req.CalendarID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel переводит pending/confirmed бронирование, которое еще не закончилось, в cancelled
func (s *Service) Cancel(ctx context.Context, tenant domain.TenantContext, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	return s.transition(ctx, "Cancel", tenant, id, domain.StatusCancelled, req.CancellationReason,
		func(b *domain.Booking, now time.Time) error {
			if !b.CanBeCancelled(now) {
				return ErrCannotCancel
			}
			return nil
		})
}

// Complete переводит подтвержденное прошедшее бронирование в completed
func (s *Service) Complete(ctx context.Context, tenant domain.TenantContext, id int64) (*models.BookingResponse, error) {
	return s.transition(ctx, "Complete", tenant, id, domain.StatusCompleted, nil,
		func(b *domain.Booking, now time.Time) error {
			if !b.CanBeCompleted(now) {
				return ErrCannotComplete
			}
			return nil
		})
}

// MarkNoShow переводит подтвержденное прошедшее бронирование в no_show
func (s *Service) MarkNoShow(ctx context.Context, tenant domain.TenantContext, id int64) (*models.BookingResponse, error) {
	return s.transition(ctx, "MarkNoShow", tenant, id, domain.StatusNoShow, nil,
		func(b *domain.Booking, now time.Time) error {
			if !b.CanBeMarkedNoShow(now) {
				return ErrCannotMarkNoShow
			}
			return nil
		})
}

// transition блокирует строку бронирования, проверяет допустимость перехода и сохраняет новый статус
func (s *Service) transition(
	ctx context.Context,
	op string,
	tenant domain.TenantContext,
	id int64,
	target domain.BookingStatus,
	reason *string,
	allowed func(b *domain.Booking, now time.Time) error,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking id=%d tenant=%d user=%d", op, id, tenant.TenantID, tenant.UserID)

	now := s.timeProvider.Now()
	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getOwned(txCtx, op, tenant, id)
		if err != nil {
			return err
		}

		if err := allowed(booking, now); err != nil {
			s.logger.Warn("%s: booking id=%d status=%s end=%s: %v", op, id, booking.Status, booking.End.Format(time.RFC3339), err)
			return err
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, target, reason, now); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
			return fmt.Errorf("%w: %s - update status: %v", ErrInternal, op, err)
		}

		booking.Status = target
		booking.UpdatedAt = now
		if target == domain.StatusCancelled {
			booking.CancellationReason = reason
			booking.CancelledAt = &now
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Освободившийся интервал снова доступен для записи
	if target == domain.StatusCancelled {
		s.notifier.CalendarChanged(ctx, result.CalendarID, s.calendarLocation(ctx, result.CalendarID), result.Start)
	}

	s.logger.Info("%s: booking id=%d is now %s", op, id, target)
	return models.FromDomainBooking(result), nil
}

// getOwned загружает бронирование и проверяет, что оно принадлежит тенанту
func (s *Service) getOwned(ctx context.Context, op string, tenant domain.TenantContext, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - get booking: %v", ErrInternal, op, err)
	}

	if !tenant.Owns(booking.TenantID) {
		s.logger.Warn("%s: tenant=%d has no access to booking id=%d", op, tenant.TenantID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// calendarLocation часовой пояс календаря для уведомлений; при ошибке nil (UTC)
func (s *Service) calendarLocation(ctx context.Context, calendarID int64) *time.Location {
	calendar, err := s.calendarRepo.GetByID(ctx, calendarID)
	if err != nil {
		s.logger.Warn("calendarLocation: failed to get calendar id=%d: %v", calendarID, err)
		return nil
	}
	loc, err := calendar.Location()
	if err != nil {
		return nil
	}
	return loc
}
