package allocator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeOwners struct {
	owners []domain.Owner
}

func (f *fakeOwners) ListOwners(context.Context, int64) ([]domain.Owner, error) {
	return f.owners, nil
}

// fakeLoad хранит назначения и считает их так же, как репозиторий
type fakeLoad struct {
	assigned []struct {
		ownerID int64
		start   time.Time
	}
	lastFrom, lastTo time.Time
	calls            int
}

func (f *fakeLoad) CountByOwner(_ context.Context, _ int64, from, to time.Time, _ []domain.BookingStatus) (map[int64]int, error) {
	f.calls++
	f.lastFrom, f.lastTo = from, to
	counts := make(map[int64]int)
	for _, a := range f.assigned {
		if !a.start.Before(from) && a.start.Before(to) {
			counts[a.ownerID]++
		}
	}
	return counts, nil
}

func (f *fakeLoad) record(ownerID int64, start time.Time) {
	f.assigned = append(f.assigned, struct {
		ownerID int64
		start   time.Time
	}{ownerID, start})
}

func owner(id int64, weight int) domain.Owner {
	return domain.Owner{ID: id, CanReceiveBookings: true, Weight: weight}
}

func TestPickNoEligibleOwner(t *testing.T) {
	_, err := Pick([]domain.Owner{{ID: 1}}, nil)
	assert.ErrorIs(t, err, ErrNoEligibleOwner)
	assert.ErrorIs(t, err, domain.ErrNoEligibleOwner)
}

func TestPickSingleOwnerSkipsScoring(t *testing.T) {
	o, err := Pick([]domain.Owner{{ID: 1}, owner(2, 1)}, map[int64]int{2: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(2), o.ID)
}

func TestPickTieKeepsInputOrder(t *testing.T) {
	o, err := Pick([]domain.Owner{owner(5, 1), owner(3, 1)}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), o.ID)
}

func TestAllocateEqualWeightsSplitsFiveBookings(t *testing.T) {
	load := &fakeLoad{}
	a := NewAllocator(&fakeOwners{owners: []domain.Owner{owner(1, 1), owner(2, 1)}}, load, logger.NewNop())
	cal := &domain.Calendar{ID: 1, Timezone: "UTC"}
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		o, err := a.Allocate(context.Background(), cal, start.Add(time.Duration(i)*30*time.Minute), domain.StaffFairnessPolicy())
		require.NoError(t, err)
		load.record(o.ID, start.Add(time.Duration(i)*30*time.Minute))
	}

	counts, _ := load.CountByOwner(context.Background(), 1, start.Add(-time.Hour), start.Add(24*time.Hour), nil)
	assert.ElementsMatch(t, []int{3, 2}, []int{counts[1], counts[2]})
}

func TestAllocateRoundRobinStaysBalanced(t *testing.T) {
	load := &fakeLoad{}
	owners := []domain.Owner{owner(1, 1), owner(2, 1), owner(3, 1), owner(4, 1)}
	a := NewAllocator(&fakeOwners{owners: owners}, load, logger.NewNop())
	cal := &domain.Calendar{ID: 1}
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 37; i++ {
		s := start.Add(time.Duration(i) * 10 * time.Minute)
		o, err := a.Allocate(context.Background(), cal, s, domain.StaffFairnessPolicy())
		require.NoError(t, err)
		load.record(o.ID, s)
	}

	counts, _ := load.CountByOwner(context.Background(), 1, start, start.Add(24*time.Hour), nil)
	minCount, maxCount := counts[1], counts[1]
	for _, o := range owners {
		if counts[o.ID] < minCount {
			minCount = counts[o.ID]
		}
		if counts[o.ID] > maxCount {
			maxCount = counts[o.ID]
		}
	}
	assert.LessOrEqual(t, maxCount-minCount, 1)
}

func TestAllocateWeightedTwoToOne(t *testing.T) {
	load := &fakeLoad{}
	a := NewAllocator(&fakeOwners{owners: []domain.Owner{owner(1, 2), owner(2, 1)}}, load, logger.NewNop())
	cal := &domain.Calendar{ID: 1}
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 300; i++ {
		s := start.Add(time.Duration(i) * time.Minute)
		o, err := a.Allocate(context.Background(), cal, s, domain.StaffFairnessPolicy())
		require.NoError(t, err)
		load.record(o.ID, s)
	}

	counts, _ := load.CountByOwner(context.Background(), 1, start, start.Add(24*time.Hour), nil)
	assert.InDelta(t, 200, counts[1], 2)
	assert.InDelta(t, 100, counts[2], 2)
}

func TestAllocateUsesPolicyWindow(t *testing.T) {
	load := &fakeLoad{}
	a := NewAllocator(&fakeOwners{owners: []domain.Owner{owner(1, 1), owner(2, 1)}}, load, logger.NewNop())
	cal := &domain.Calendar{ID: 1, Timezone: "UTC"}
	start := time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC)

	_, err := a.Allocate(context.Background(), cal, start, domain.PublicFairnessPolicy())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), load.lastFrom)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), load.lastTo)
}

func TestAllocateSingleOwnerDoesNotCountLoad(t *testing.T) {
	load := &fakeLoad{}
	a := NewAllocator(&fakeOwners{owners: []domain.Owner{owner(9, 1), {ID: 10}}}, load, logger.NewNop())

	o, err := a.Allocate(context.Background(), &domain.Calendar{ID: 1}, time.Now(), domain.StaffFairnessPolicy())
	require.NoError(t, err)
	assert.Equal(t, int64(9), o.ID)
	assert.Zero(t, load.calls)
}
