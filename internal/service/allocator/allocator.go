// Package allocator выбирает владельца, получающего новое бронирование, по взвешенной справедливости.
package allocator

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Pick выбирает владельца с наименьшей нагрузкой count/weight среди тех, кто может принимать бронирования.
// При равенстве побеждает владелец, стоящий раньше в owners. Функция чистая.
func Pick(owners []domain.Owner, counts map[int64]int) (*domain.Owner, error) {
	eligible := domain.EligibleOwners(owners)

	switch len(eligible) {
	case 0:
		return nil, ErrNoEligibleOwner
	case 1:
		return &eligible[0], nil
	}

	best := 0
	for i := 1; i < len(eligible); i++ {
		if lessLoaded(eligible[i], counts[eligible[i].ID], eligible[best], counts[eligible[best].ID]) {
			best = i
		}
	}

	return &eligible[best], nil
}

// lessLoaded сравнивает countA/weightA < countB/weightB без деления
func lessLoaded(a domain.Owner, countA int, b domain.Owner, countB int) bool {
	return countA*b.EffectiveWeight() < countB*a.EffectiveWeight()
}

// Allocator загружает владельцев и их нагрузку и делегирует выбор Pick.
// Данные не изменяет.
type Allocator struct {
	ownerRepo OwnerRepository
	loadRepo  LoadRepository
	logger    Logger
}

// NewAllocator создает аллокатор
func NewAllocator(ownerRepo OwnerRepository, loadRepo LoadRepository, logger Logger) *Allocator {
	return &Allocator{
		ownerRepo: ownerRepo,
		loadRepo:  loadRepo,
		logger:    logger,
	}
}

// Allocate выбирает владельца для бронирования, начинающегося в start.
// Нагрузка считается в окне политики относительно локального дня start.
func (a *Allocator) Allocate(ctx context.Context, calendar *domain.Calendar, start time.Time, policy domain.FairnessPolicy) (*domain.Owner, error) {
	owners, err := a.ownerRepo.ListOwners(ctx, calendar.ID)
	if err != nil {
		a.logger.Error("Allocate: failed to list owners for calendar=%d: %v", calendar.ID, err)
		return nil, fmt.Errorf("%w: Allocate - list owners: %w", ErrInternal, err)
	}

	eligible := domain.EligibleOwners(owners)
	if len(eligible) == 0 {
		a.logger.Warn("Allocate: calendar=%d has no owners that can receive bookings", calendar.ID)
		return nil, ErrNoEligibleOwner
	}
	if len(eligible) == 1 {
		return &eligible[0], nil
	}

	loc, err := calendar.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: Allocate - load timezone %q: %w", ErrInternal, calendar.Timezone, err)
	}

	from, to := policy.Window(start, loc)
	counts, err := a.loadRepo.CountByOwner(ctx, calendar.ID, from, to, policy.Statuses)
	if err != nil {
		a.logger.Error("Allocate: failed to count load for calendar=%d: %v", calendar.ID, err)
		return nil, fmt.Errorf("%w: Allocate - count load: %w", ErrInternal, err)
	}

	owner, err := Pick(eligible, counts)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Allocate: calendar=%d assigned owner=%d (load=%d, weight=%d, candidates=%d)",
		calendar.ID, owner.ID, counts[owner.ID], owner.EffectiveWeight(), len(eligible))

	return owner, nil
}
