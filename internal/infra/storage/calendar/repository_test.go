package calendar

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

func setupRepo(t *testing.T) (*Repository, *dbmetrics.PlainDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), dbmetrics.Plain(db), mock
}

func TestCreateSlugTaken(t *testing.T) {
	repo, _, mock := setupRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO calendars")).
		WillReturnError(&pq.Error{Code: pgerrors.CodeUniqueViolation})

	_, err := repo.Create(context.Background(), &domain.Calendar{TenantID: 1, Name: "Clinic", Slug: "clinic"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestGetBySlug(t *testing.T) {
	repo, _, mock := setupRepo(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendars WHERE slug = $1")).
		WithArgs("clinic").
		WillReturnRows(sqlmock.NewRows(calendarColumns).AddRow(
			int64(3), int64(1), "Clinic", "Europe/Moscow", true, true, "clinic", 2, 30, 1, int64(9), now, now,
		))

	cal, err := repo.GetBySlug(context.Background(), "clinic")

	require.NoError(t, err)
	assert.Equal(t, int64(3), cal.ID)
	assert.Equal(t, "Europe/Moscow", cal.Timezone)
	assert.True(t, cal.IsPubliclyBookable())
	assert.Equal(t, 30, cal.MaxAdvanceDays)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, _, mock := setupRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendars WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(calendarColumns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestLockRequiresTransaction(t *testing.T) {
	repo, plain, mock := setupRepo(t)

	assert.ErrorIs(t, repo.Lock(context.Background(), 3), ErrNotInTransaction)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := plain.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Lock(dbmetrics.WithTx(context.Background(), tx), 3))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOwnersKeepsInsertionOrder(t *testing.T) {
	repo, _, mock := setupRepo(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_owners WHERE calendar_id = $1 ORDER BY id ASC")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(ownerColumns).
			AddRow(int64(1), int64(3), int64(100), "Ivan", "admin", true, 2, now).
			AddRow(int64(2), int64(3), int64(101), "Olga", "member", false, 1, now))

	owners, err := repo.ListOwners(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, owners, 2)
	assert.Equal(t, domain.OwnerRoleAdmin, owners[0].Role)
	assert.Equal(t, 2, owners[0].Weight)
	assert.False(t, owners[1].CanReceiveBookings)
}
