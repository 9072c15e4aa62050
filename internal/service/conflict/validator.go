// Package conflict проверяет кандидата в бронирование против текущих бронирований и блокировок календаря.
package conflict

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/interval"
)

// Occupancy занятость календаря на отрезке времени: активные бронирования и блокировки
type Occupancy struct {
	Bookings []interval.Interval
	Blocks   []interval.Interval
	Capacity int
}

// NewOccupancy собирает занятость из доменных записей
func NewOccupancy(bookings []*domain.Booking, blocks []domain.Block, capacity int) Occupancy {
	occ := Occupancy{
		Bookings: make([]interval.Interval, 0, len(bookings)),
		Blocks:   make([]interval.Interval, 0, len(blocks)),
		Capacity: capacity,
	}
	for _, b := range bookings {
		if b.IsActive() {
			occ.Bookings = append(occ.Bookings, b.Interval())
		}
	}
	for i := range blocks {
		occ.Blocks = append(occ.Blocks, blocks[i].Interval())
	}
	if occ.Capacity < domain.MinSimultaneousBookings {
		occ.Capacity = domain.MinSimultaneousBookings
	}
	return occ
}

// SpotsLeft сколько еще бронирований помещается в candidate.
// Пересечение с блокировкой всегда дает 0.
func (o Occupancy) SpotsLeft(candidate interval.Interval) int {
	if candidate.IsEmpty() || candidate.AnyOverlaps(o.Blocks) {
		return 0
	}
	left := o.Capacity - candidate.CountOverlapping(o.Bookings)
	if left < 0 {
		return 0
	}
	return left
}

// IsFree true, если в candidate есть хотя бы одно свободное место
func (o Occupancy) IsFree(candidate interval.Interval) bool {
	return o.SpotsLeft(candidate) > 0
}

// Validator перепроверяет интервал по сохраненному состоянию непосредственно перед записью.
// Вызывать внутри той же транзакции и под той же блокировкой календаря, что и запись.
type Validator struct {
	bookingRepo BookingRepository
	blockRepo   BlockRepository
	logger      Logger
}

// NewValidator создает валидатор конфликтов
func NewValidator(bookingRepo BookingRepository, blockRepo BlockRepository, logger Logger) *Validator {
	return &Validator{
		bookingRepo: bookingRepo,
		blockRepo:   blockRepo,
		logger:      logger,
	}
}

// IsAvailable возвращает false, если candidate пересекается с блокировкой или
// число пересекающихся pending/confirmed бронирований достигло вместимости календаря.
// excludeID исключает редактируемое бронирование.
func (v *Validator) IsAvailable(ctx context.Context, calendar *domain.Calendar, candidate interval.Interval, excludeID *int64) (bool, error) {
	bookings, err := v.bookingRepo.ListActiveOverlapping(ctx, calendar.ID, candidate.Start, candidate.End, excludeID)
	if err != nil {
		v.logger.Error("IsAvailable: failed to load bookings for calendar=%d: %v", calendar.ID, err)
		return false, fmt.Errorf("%w: IsAvailable - load bookings: %w", ErrInternal, err)
	}

	blocks, err := v.blockRepo.ListOverlapping(ctx, calendar.ID, candidate.Start, candidate.End)
	if err != nil {
		v.logger.Error("IsAvailable: failed to load blocks for calendar=%d: %v", calendar.ID, err)
		return false, fmt.Errorf("%w: IsAvailable - load blocks: %w", ErrInternal, err)
	}

	occ := NewOccupancy(bookings, blocks, calendar.Capacity())
	free := occ.IsFree(candidate)
	if !free {
		v.logger.Warn("IsAvailable: calendar=%d interval %s-%s is taken (bookings=%d, blocks=%d, capacity=%d)",
			calendar.ID, candidate.Start.Format("2006-01-02T15:04"), candidate.End.Format("15:04"),
			len(occ.Bookings), len(occ.Blocks), occ.Capacity)
	}

	return free, nil
}
