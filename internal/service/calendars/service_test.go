package calendars

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	blockRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/block"
	calendarRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/calendar"
	serviceTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/servicetype"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type fakeCalendarRepo struct {
	calendars map[int64]*domain.Calendar
	owners    map[int64][]domain.Owner
	slugs     map[string]bool
	// raceSlugs возвращают ErrSlugTaken при Create, хотя SlugExists их не видит
	raceSlugs map[string]bool
	nextID    int64
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{
		calendars: map[int64]*domain.Calendar{},
		owners:    map[int64][]domain.Owner{},
		slugs:     map[string]bool{},
		raceSlugs: map[string]bool{},
		nextID:    1,
	}
}

func (f *fakeCalendarRepo) Create(_ context.Context, cal *domain.Calendar) (*domain.Calendar, error) {
	if f.slugs[cal.Slug] || f.raceSlugs[cal.Slug] {
		return nil, calendarRepo.ErrSlugTaken
	}
	cal.ID = f.nextID
	f.nextID++
	f.calendars[cal.ID] = cal
	f.slugs[cal.Slug] = true
	return cal, nil
}

func (f *fakeCalendarRepo) GetByID(_ context.Context, id int64) (*domain.Calendar, error) {
	c, ok := f.calendars[id]
	if !ok {
		return nil, calendarRepo.ErrCalendarNotFound
	}
	return c, nil
}

func (f *fakeCalendarRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	return f.slugs[slug], nil
}

func (f *fakeCalendarRepo) ListByTenant(_ context.Context, tenantID int64) ([]*domain.Calendar, error) {
	var result []*domain.Calendar
	for _, c := range f.calendars {
		if c.TenantID == tenantID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeCalendarRepo) AddOwner(_ context.Context, owner *domain.Owner) (*domain.Owner, error) {
	for _, o := range f.owners[owner.CalendarID] {
		if o.UserID == owner.UserID {
			return nil, calendarRepo.ErrOwnerExists
		}
	}
	owner.ID = int64(len(f.owners[owner.CalendarID]) + 1)
	f.owners[owner.CalendarID] = append(f.owners[owner.CalendarID], *owner)
	return owner, nil
}

func (f *fakeCalendarRepo) ListOwners(_ context.Context, calendarID int64) ([]domain.Owner, error) {
	return f.owners[calendarID], nil
}

type fakeAvailabilityRepo struct {
	windows map[int64][]domain.AvailabilityWindow
}

func (f *fakeAvailabilityRepo) ListByCalendar(_ context.Context, calendarID int64) ([]domain.AvailabilityWindow, error) {
	return f.windows[calendarID], nil
}

func (f *fakeAvailabilityRepo) Replace(_ context.Context, calendarID int64, windows []domain.AvailabilityWindow) error {
	f.windows[calendarID] = windows
	return nil
}

type fakeServiceTypeRepo struct {
	items map[int64]*domain.ServiceType
}

func (f *fakeServiceTypeRepo) Create(_ context.Context, st *domain.ServiceType) (*domain.ServiceType, error) {
	st.ID = int64(len(f.items) + 1)
	f.items[st.ID] = st
	return st, nil
}

func (f *fakeServiceTypeRepo) Update(_ context.Context, st *domain.ServiceType) error {
	existing, ok := f.items[st.ID]
	if !ok || existing.CalendarID != st.CalendarID {
		return serviceTypeRepo.ErrServiceTypeNotFound
	}
	f.items[st.ID] = st
	return nil
}

func (f *fakeServiceTypeRepo) GetByID(_ context.Context, calendarID, id int64) (*domain.ServiceType, error) {
	st, ok := f.items[id]
	if !ok || st.CalendarID != calendarID {
		return nil, serviceTypeRepo.ErrServiceTypeNotFound
	}
	return st, nil
}

func (f *fakeServiceTypeRepo) ListByCalendar(_ context.Context, calendarID int64, _ bool) ([]*domain.ServiceType, error) {
	var result []*domain.ServiceType
	for _, st := range f.items {
		if st.CalendarID == calendarID {
			result = append(result, st)
		}
	}
	return result, nil
}

type fakeBlockRepo struct {
	blocks map[int64]*domain.Block
}

func (f *fakeBlockRepo) Create(_ context.Context, b *domain.Block) (*domain.Block, error) {
	b.ID = int64(len(f.blocks) + 1)
	f.blocks[b.ID] = b
	return b, nil
}

func (f *fakeBlockRepo) Delete(_ context.Context, calendarID, id int64) (*domain.Block, error) {
	b, ok := f.blocks[id]
	if !ok || b.CalendarID != calendarID {
		return nil, blockRepo.ErrBlockNotFound
	}
	delete(f.blocks, id)
	return b, nil
}

type fakeTx struct{ calls int }

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeNotifier struct {
	calendars []int64
	dates     [][]time.Time
}

func (f *fakeNotifier) CalendarChanged(_ context.Context, calendarID int64, _ *time.Location, at ...time.Time) {
	f.calendars = append(f.calendars, calendarID)
	f.dates = append(f.dates, at)
}

type fixture struct {
	svc      *Service
	cals     *fakeCalendarRepo
	avail    *fakeAvailabilityRepo
	types    *fakeServiceTypeRepo
	blocks   *fakeBlockRepo
	tx       *fakeTx
	notifier *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		cals:     newFakeCalendarRepo(),
		avail:    &fakeAvailabilityRepo{windows: map[int64][]domain.AvailabilityWindow{}},
		types:    &fakeServiceTypeRepo{items: map[int64]*domain.ServiceType{}},
		blocks:   &fakeBlockRepo{blocks: map[int64]*domain.Block{}},
		tx:       &fakeTx{},
		notifier: &fakeNotifier{},
	}
	f.svc = NewService(f.cals, f.avail, f.types, f.blocks, f.tx, f.notifier, logger.NewNop())
	return f
}

// seed создает календарь тенанта 1 от пользователя 10
func (f *fixture) seed(t *testing.T) int64 {
	t.Helper()
	resp, err := f.svc.CreateCalendar(context.Background(), domain.NewStaffContext(1, 10), &models.CreateCalendarRequest{
		Name:     "Barber Shop",
		Timezone: "Europe/Moscow",
	})
	require.NoError(t, err)
	return resp.ID
}

func TestCreateCalendar_CreatorBecomesAdmin(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateCalendar(context.Background(), domain.NewStaffContext(1, 10), &models.CreateCalendarRequest{
		Name:             "Barber Shop",
		Timezone:         "Europe/Moscow",
		PublicBooking:    true,
		OwnerDisplayName: "Ivan",
	})
	require.NoError(t, err)

	assert.Equal(t, "barber-shop", resp.Slug)
	assert.Equal(t, 1, resp.MaxSimultaneousBookingsPerSlot)
	require.Len(t, resp.Owners, 1)
	assert.Equal(t, int64(10), resp.Owners[0].UserID)
	assert.Equal(t, "admin", resp.Owners[0].Role)
	assert.True(t, resp.Owners[0].CanReceiveBookings)
	assert.Equal(t, 1, f.tx.calls)
}

func TestCreateCalendar_SlugCollision(t *testing.T) {
	f := newFixture()
	f.cals.slugs["barber-shop"] = true
	f.cals.raceSlugs["barber-shop-2"] = true

	resp, err := f.svc.CreateCalendar(context.Background(), domain.NewStaffContext(1, 10), &models.CreateCalendarRequest{
		Name:     "Barber Shop",
		Timezone: "UTC",
	})
	require.NoError(t, err)
	assert.Equal(t, "barber-shop-3", resp.Slug)
}

func TestCreateCalendar_ExplicitSlugTaken(t *testing.T) {
	f := newFixture()
	f.cals.slugs["my-cal"] = true

	_, err := f.svc.CreateCalendar(context.Background(), domain.NewStaffContext(1, 10), &models.CreateCalendarRequest{
		Name:     "Anything",
		Timezone: "UTC",
		Slug:     ptr.Ptr("my-cal"),
	})
	assert.ErrorIs(t, err, ErrSlugUnavailable)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateCalendar_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateCalendarRequest
	}{
		{name: "empty name", req: models.CreateCalendarRequest{Timezone: "UTC"}},
		{name: "unknown timezone", req: models.CreateCalendarRequest{Name: "x", Timezone: "Mars/Olympus"}},
		{name: "bad slug", req: models.CreateCalendarRequest{Name: "x", Timezone: "UTC", Slug: ptr.Ptr("A B")}},
		{name: "advance days over limit", req: models.CreateCalendarRequest{Name: "x", Timezone: "UTC", MaxAdvanceDays: 1000}},
		{name: "negative capacity", req: models.CreateCalendarRequest{Name: "x", Timezone: "UTC", MaxSimultaneousBookingsPerSlot: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.CreateCalendar(context.Background(), domain.NewStaffContext(1, 10), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateCalendar_PublicCallerForbidden(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateCalendar(context.Background(), domain.NewPublicContext(1), &models.CreateCalendarRequest{
		Name:     "x",
		Timezone: "UTC",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAddOwner_AdminOnly(t *testing.T) {
	f := newFixture()
	calID := f.seed(t)
	ctx := context.Background()

	member, err := f.svc.AddOwner(ctx, domain.NewStaffContext(1, 10), calID, &models.AddOwnerRequest{
		UserID:             20,
		DisplayName:        "Petr",
		CanReceiveBookings: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "member", member.Role)
	assert.Equal(t, 1, member.Weight)

	// Участник без роли admin не может менять календарь
	_, err = f.svc.AddOwner(ctx, domain.NewStaffContext(1, 20), calID, &models.AddOwnerRequest{
		UserID:      30,
		DisplayName: "Anna",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.AddOwner(ctx, domain.NewStaffContext(1, 10), calID, &models.AddOwnerRequest{
		UserID:      20,
		DisplayName: "Petr again",
	})
	assert.ErrorIs(t, err, ErrOwnerAlreadyExists)

	_, err = f.svc.AddOwner(ctx, domain.NewStaffContext(1, 10), calID, &models.AddOwnerRequest{
		UserID:      40,
		DisplayName: "Heavy",
		Weight:      domain.MaxOwnerWeight + 1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAccess_OtherTenant(t *testing.T) {
	f := newFixture()
	calID := f.seed(t)

	_, err := f.svc.GetCalendar(context.Background(), domain.NewStaffContext(2, 10), calID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetCalendar(context.Background(), domain.NewStaffContext(1, 10), 999)
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestReplaceAvailability(t *testing.T) {
	f := newFixture()
	calID := f.seed(t)
	ctx := context.Background()
	admin := domain.NewStaffContext(1, 10)

	windows, err := f.svc.ReplaceAvailability(ctx, admin, calID, []models.AvailabilityWindow{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsActive: true},
		{DayOfWeek: 1, StartTime: "13:00:00", EndTime: "18:00", IsActive: true},
	})
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "13:00", windows[1].StartTime)
	assert.Len(t, f.avail.windows[calID], 2)
	assert.Equal(t, []int64{calID}, f.notifier.calendars)

	_, err = f.svc.ReplaceAvailability(ctx, admin, calID, []models.AvailabilityWindow{
		{DayOfWeek: 1, StartTime: "12:00", EndTime: "09:00", IsActive: true},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ReplaceAvailability(ctx, admin, calID, []models.AvailabilityWindow{
		{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00", IsActive: true},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Неудачные попытки не меняют расписание
	assert.Len(t, f.avail.windows[calID], 2)
}

func TestServiceTypes(t *testing.T) {
	f := newFixture()
	calID := f.seed(t)
	ctx := context.Background()
	admin := domain.NewStaffContext(1, 10)

	_, err := f.svc.CreateServiceType(ctx, admin, calID, &models.ServiceTypeRequest{Name: "Short", DurationMinutes: 4})
	assert.ErrorIs(t, err, ErrInvalidInput)

	created, err := f.svc.CreateServiceType(ctx, admin, calID, &models.ServiceTypeRequest{
		Name:               "Haircut",
		DurationMinutes:    30,
		BufferAfterMinutes: 10,
		IsActive:           true,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, created.DurationMinutes)

	updated, err := f.svc.UpdateServiceType(ctx, admin, calID, created.ID, &models.ServiceTypeRequest{
		Name:            "Haircut",
		DurationMinutes: 45,
		IsActive:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.DurationMinutes)

	_, err = f.svc.UpdateServiceType(ctx, admin, calID, 999, &models.ServiceTypeRequest{Name: "x", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrServiceTypeNotFound)

	cal, err := f.svc.GetCalendar(ctx, admin, calID)
	require.NoError(t, err)
	assert.Len(t, cal.ServiceTypes, 1)
	assert.Len(t, cal.Owners, 1)
}

func TestBlocks(t *testing.T) {
	f := newFixture()
	calID := f.seed(t)
	ctx := context.Background()
	admin := domain.NewStaffContext(1, 10)

	start := time.Date(2030, 1, 7, 21, 0, 0, 0, time.UTC) // 08.01 00:00 по Москве
	end := start.Add(48 * time.Hour)

	_, err := f.svc.CreateBlock(ctx, admin, calID, &models.CreateBlockRequest{Start: end, End: start})
	assert.ErrorIs(t, err, ErrInvalidInput)

	block, err := f.svc.CreateBlock(ctx, admin, calID, &models.CreateBlockRequest{Start: start, End: end, Reason: ptr.Ptr("holiday")})
	require.NoError(t, err)
	require.Len(t, f.notifier.dates, 1)
	assert.Len(t, f.notifier.dates[0], 2)

	require.NoError(t, f.svc.DeleteBlock(ctx, admin, calID, block.ID))
	err = f.svc.DeleteBlock(ctx, admin, calID, block.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSpannedDays(t *testing.T) {
	loc := time.UTC
	start := time.Date(2030, 1, 1, 22, 0, 0, 0, loc)

	assert.Len(t, spannedDays(start, start.Add(time.Hour), loc), 1)
	assert.Len(t, spannedDays(start, start.Add(3*time.Hour), loc), 2)
	assert.Len(t, spannedDays(start, time.Date(2030, 1, 2, 0, 0, 0, 0, loc), loc), 1)
}
