package get_available_slots

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotCache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	calendarRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/calendar"
	serviceTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/servicetype"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeCalendarRepo struct {
	calendar *domain.Calendar
	owners   []domain.Owner
}

func (f *fakeCalendarRepo) GetByID(_ context.Context, id int64) (*domain.Calendar, error) {
	if f.calendar == nil || f.calendar.ID != id {
		return nil, calendarRepo.ErrCalendarNotFound
	}
	return f.calendar, nil
}

func (f *fakeCalendarRepo) GetBySlug(_ context.Context, slug string) (*domain.Calendar, error) {
	if f.calendar == nil || f.calendar.Slug != slug {
		return nil, calendarRepo.ErrCalendarNotFound
	}
	return f.calendar, nil
}

func (f *fakeCalendarRepo) ListOwners(_ context.Context, _ int64) ([]domain.Owner, error) {
	return f.owners, nil
}

type fakeServiceTypeRepo struct {
	st *domain.ServiceType
}

func (f *fakeServiceTypeRepo) GetByID(_ context.Context, calendarID, id int64) (*domain.ServiceType, error) {
	if f.st == nil || f.st.ID != id || f.st.CalendarID != calendarID {
		return nil, serviceTypeRepo.ErrServiceTypeNotFound
	}
	return f.st, nil
}

type fakeAvailabilityRepo struct {
	windows   []domain.AvailabilityWindow
	requested []time.Weekday
}

func (f *fakeAvailabilityRepo) ListActiveWindows(_ context.Context, _ int64, day time.Weekday) ([]domain.AvailabilityWindow, error) {
	f.requested = append(f.requested, day)
	result := make([]domain.AvailabilityWindow, 0)
	for _, w := range f.windows {
		if w.DayOfWeek == day && w.IsActive {
			result = append(result, w)
		}
	}
	return result, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	perDay   int
}

func (f *fakeBookingRepo) ListActiveOverlapping(_ context.Context, _ int64, from, to time.Time, _ *int64) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.IsActive() && b.Start.Before(to) && b.End.After(from) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) CountActiveByServiceType(_ context.Context, _ int64, _, _ time.Time, _ *int64) (int, error) {
	return f.perDay, nil
}

type fakeBlockRepo struct {
	blocks []domain.Block
	// onList вызывается при чтении блокировок, до возврата результата
	onList func()
}

func (f *fakeBlockRepo) ListOverlapping(_ context.Context, _ int64, from, to time.Time) ([]domain.Block, error) {
	if f.onList != nil {
		f.onList()
	}
	result := make([]domain.Block, 0)
	for _, b := range f.blocks {
		if b.Start.Before(to) && b.End.After(from) {
			result = append(result, b)
		}
	}
	return result, nil
}

type memoryCache struct {
	items map[string][]domain.AvailableSlot
	gens  map[int64]int64
	hits  int
}

func (m *memoryCache) Generation(_ context.Context, calendarID int64) (int64, error) {
	return m.gens[calendarID], nil
}

func (m *memoryCache) InvalidateCalendar(_ context.Context, calendarID int64) error {
	m.gens[calendarID]++
	return nil
}

func (m *memoryCache) Get(_ context.Context, calendarID, generation, serviceTypeID int64, date string) ([]domain.AvailableSlot, error) {
	slots, ok := m.items[slotCache.Key(calendarID, generation, serviceTypeID, date)]
	if !ok {
		return nil, slotCache.ErrCacheMiss
	}
	m.hits++
	return slots, nil
}

func (m *memoryCache) Set(_ context.Context, calendarID, generation, serviceTypeID int64, date string, slots []domain.AvailableSlot) error {
	m.items[slotCache.Key(calendarID, generation, serviceTypeID, date)] = slots
	return nil
}

type fixture struct {
	uc       *UseCase
	calendar *fakeCalendarRepo
	st       *fakeServiceTypeRepo
	avail    *fakeAvailabilityRepo
	bookings *fakeBookingRepo
	blocks   *fakeBlockRepo
	cache    *memoryCache
}

// 2030-01-07 понедельник
const monday = "2030-01-07"

func newFixture(t *testing.T, timezone string, now time.Time) *fixture {
	t.Helper()
	f := &fixture{
		calendar: &fakeCalendarRepo{
			calendar: &domain.Calendar{
				ID:            1,
				TenantID:      100,
				Name:          "Barber",
				Timezone:      timezone,
				IsActive:      true,
				PublicBooking: true,
				Slug:          "barber",
			},
			owners: []domain.Owner{
				{ID: 11, DisplayName: "Anna", CanReceiveBookings: true, Weight: 1},
			},
		},
		st: &fakeServiceTypeRepo{st: &domain.ServiceType{
			ID:              5,
			CalendarID:      1,
			Name:            "Haircut",
			DurationMinutes: 30,
			IsActive:        true,
		}},
		avail: &fakeAvailabilityRepo{windows: []domain.AvailabilityWindow{
			{DayOfWeek: time.Monday, StartTime: types.TimeString("09:00"), EndTime: types.TimeString("12:00"), IsActive: true},
		}},
		bookings: &fakeBookingRepo{},
		blocks:   &fakeBlockRepo{},
		cache:    &memoryCache{items: map[string][]domain.AvailableSlot{}, gens: map[int64]int64{}},
	}
	f.uc = NewUseCase(f.calendar, f.st, f.avail, f.bookings, f.blocks, f.cache, nil, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func (f *fixture) loc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := f.calendar.calendar.Location()
	require.NoError(t, err)
	return loc
}

func staffRequest(date string) *Request {
	return &Request{
		Tenant:        domain.NewStaffContext(100, 1),
		CalendarID:    1,
		ServiceTypeID: 5,
		Date:          date,
	}
}

func startTimes(slots []Slot, loc *time.Location) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.Start.In(loc).Format(domain.TimeFormat)
	}
	return result
}

var pastNow = time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

func TestExecute_MondayWindowGivesSixSlots(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, startTimes(resp.Slots, f.loc(t)))
	for _, s := range resp.Slots {
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start))
		assert.Equal(t, 1, s.AvailableSpots)
		assert.Equal(t, "Anna", s.OwnerName)
		require.NotNil(t, s.OwnerID)
		assert.Equal(t, int64(11), *s.OwnerID)
	}
}

func TestExecute_ExistingBookingRemovesSlot(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.bookings.bookings = []*domain.Booking{{
		ID:     1,
		Start:  time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
		End:    time.Date(2030, 1, 7, 10, 30, 0, 0, time.UTC),
		Status: domain.StatusConfirmed,
	}}

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, startTimes(resp.Slots, f.loc(t)))
}

func TestExecute_CancelledBookingDoesNotOccupy(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.bookings.bookings = []*domain.Booking{{
		ID:     1,
		Start:  time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
		End:    time.Date(2030, 1, 7, 10, 30, 0, 0, time.UTC),
		Status: domain.StatusCancelled,
	}}

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 6)
}

func TestExecute_CapacityKeepsPartiallyBookedSlot(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.calendar.calendar.MaxSimultaneousBookingsPerSlot = 2
	f.bookings.bookings = []*domain.Booking{{
		ID:     1,
		Start:  time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
		End:    time.Date(2030, 1, 7, 10, 30, 0, 0, time.UTC),
		Status: domain.StatusPending,
	}}

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, 1, resp.Slots[2].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[2].TotalSpots)
	assert.Equal(t, 2, resp.Slots[0].AvailableSpots)
}

func TestExecute_BlockRemovesSlots(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.blocks.blocks = []domain.Block{{
		ID:    1,
		Start: time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
	}}

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, startTimes(resp.Slots, f.loc(t)))
}

func TestExecute_BuffersAffectFitButNotSpacing(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.st.st.BufferAfterMinutes = 30

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)

	// 11:30 не помещается: 11:30 + 30 + 30 > 12:00
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, startTimes(resp.Slots, f.loc(t)))
	assert.Equal(t, 30*time.Minute, resp.Slots[0].End.Sub(resp.Slots[0].Start))
}

func TestExecute_DurationLongerThanWindow(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.st.st.DurationMinutes = 240

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NoOwnersUsesPlaceholder(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.calendar.owners = []domain.Owner{{ID: 11, DisplayName: "Anna", CanReceiveBookings: false}}

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	require.Len(t, resp.Slots, 6)
	assert.Nil(t, resp.Slots[0].OwnerID)
	assert.Equal(t, domain.DefaultOwnerPlaceholder, resp.Slots[0].OwnerName)
}

func TestExecute_Idempotent(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)

	first, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.cache.hits)
}

func TestExecute_BookingCommittedDuringGenerationIsNotCached(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)

	// Бронирование фиксируется и календарь инвалидируется, пока запрос читает состояние
	f.blocks.onList = func() {
		f.blocks.onList = nil
		f.bookings.bookings = append(f.bookings.bookings, &domain.Booking{
			ID:     1,
			Start:  time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
			End:    time.Date(2030, 1, 7, 10, 30, 0, 0, time.UTC),
			Status: domain.StatusConfirmed,
		})
		require.NoError(t, f.cache.InvalidateCalendar(context.Background(), 1))
	}

	first, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Len(t, first.Slots, 6)

	second, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, startTimes(second.Slots, f.loc(t)))
	assert.Equal(t, 0, f.cache.hits)
}

func TestExecute_InvalidationDropsCachedSlots(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)

	_, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)

	f.blocks.blocks = []domain.Block{{
		ID:    1,
		Start: time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, f.cache.InvalidateCalendar(context.Background(), 1))

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, startTimes(resp.Slots, f.loc(t)))
}

func TestExecute_InactiveCalendar(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.calendar.calendar.IsActive = false

	_, err := f.uc.Execute(context.Background(), staffRequest(monday))
	assert.ErrorIs(t, err, ErrCalendarInactive)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Execute(context.Background(), publicRequest(monday))
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestExecute_MinStartFiltersCachedCandidates(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)

	_, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)

	// Тот же кэш, но "сейчас" уже 10:10 понедельника
	f.uc.timeProvider = fixedTime{now: time.Date(2030, 1, 7, 10, 10, 0, 0, time.UTC)}
	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, startTimes(resp.Slots, f.loc(t)))
	assert.Equal(t, 1, f.cache.hits)
}

func TestExecute_ServiceTypeMinAdvanceHours(t *testing.T) {
	f := newFixture(t, "UTC", time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC))
	f.st.st.MinAdvanceHours = 2

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, startTimes(resp.Slots, f.loc(t)))
}

func TestExecute_MaxPerDayReached(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.st.st.MaxPerDay = 3
	f.bookings.perDay = 3

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_LocalDateWeekday(t *testing.T) {
	f := newFixture(t, "Asia/Tokyo", pastNow)

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)

	require.Equal(t, []time.Weekday{time.Monday}, f.avail.requested)
	require.Len(t, resp.Slots, 6)
	first := resp.Slots[0].Start
	assert.Equal(t, time.Monday, first.In(f.loc(t)).Weekday())
	assert.Equal(t, 9, first.In(f.loc(t)).Hour())
	// 09:00 в Токио это 00:00 UTC того же дня
	assert.Equal(t, time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC), first.UTC())
	assert.Equal(t, "Asia/Tokyo", resp.Timezone)
}

func TestExecute_DSTTransition(t *testing.T) {
	f := newFixture(t, "America/New_York", pastNow)
	f.st.st.DurationMinutes = 60
	f.avail.windows = []domain.AvailabilityWindow{
		{DayOfWeek: time.Sunday, StartTime: types.TimeString("01:00"), EndTime: types.TimeString("04:00"), IsActive: true},
	}

	// 10.03.2030 часы переводятся с 02:00 на 03:00, в окне только два реальных часа
	resp, err := f.uc.Execute(context.Background(), staffRequest("2030-03-10"))
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, time.Date(2030, 3, 10, 6, 0, 0, 0, time.UTC), resp.Slots[0].Start.UTC())
	assert.Equal(t, time.Date(2030, 3, 10, 7, 0, 0, 0, time.UTC), resp.Slots[1].Start.UTC())
}

func TestExecute_OverlappingWindowsDoNotOverlapSlots(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)
	f.avail.windows = append(f.avail.windows, domain.AvailabilityWindow{
		DayOfWeek: time.Monday, StartTime: types.TimeString("11:15"), EndTime: types.TimeString("13:00"), IsActive: true,
	})

	resp, err := f.uc.Execute(context.Background(), staffRequest(monday))
	require.NoError(t, err)

	for i := 1; i < len(resp.Slots); i++ {
		assert.False(t, resp.Slots[i].Start.Before(resp.Slots[i-1].End), "slot %d overlaps previous", i)
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:15"}, startTimes(resp.Slots, f.loc(t)))
}

func TestExecute_Access(t *testing.T) {
	f := newFixture(t, "UTC", pastNow)

	req := staffRequest(monday)
	req.Tenant = domain.NewStaffContext(200, 1)
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	req = staffRequest(monday)
	req.ServiceTypeID = 99
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceTypeNotFound)

	_, err = f.uc.Execute(context.Background(), staffRequest("07.01.2030"))
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func publicRequest(date string) *Request {
	return &Request{
		Tenant:        domain.NewPublicContext(0),
		Slug:          "barber",
		ServiceTypeID: 5,
		Date:          date,
	}
}

func TestExecute_PublicClamp(t *testing.T) {
	now := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)

	t.Run("calendar min advance filters slots", func(t *testing.T) {
		f := newFixture(t, "UTC", now)
		f.calendar.calendar.MinAdvanceHours = 2

		resp, err := f.uc.Execute(context.Background(), publicRequest(monday))
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, startTimes(resp.Slots, f.loc(t)))
	})

	t.Run("date in the past", func(t *testing.T) {
		f := newFixture(t, "UTC", now)
		_, err := f.uc.Execute(context.Background(), publicRequest("2030-01-06"))
		assert.ErrorIs(t, err, ErrDateOutOfRange)
	})

	t.Run("date beyond max advance days", func(t *testing.T) {
		f := newFixture(t, "UTC", now)
		f.calendar.calendar.MaxAdvanceDays = 7

		_, err := f.uc.Execute(context.Background(), publicRequest("2030-01-14"))
		assert.NoError(t, err)
		_, err = f.uc.Execute(context.Background(), publicRequest("2030-01-15"))
		assert.ErrorIs(t, err, ErrDateOutOfRange)
	})

	t.Run("calendar is not public", func(t *testing.T) {
		f := newFixture(t, "UTC", now)
		f.calendar.calendar.PublicBooking = false

		_, err := f.uc.Execute(context.Background(), publicRequest(monday))
		assert.ErrorIs(t, err, ErrCalendarNotFound)
	})
}
