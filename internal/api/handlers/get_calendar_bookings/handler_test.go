package get_calendar_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	got *models.ListCalendarBookingsRequest
	err error
}

func (f *fakeService) ListCalendarBookings(_ context.Context, _ domain.TenantContext, req *models.ListCalendarBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{
		Bookings: []models.BookingResponse{{ID: 1, CalendarID: req.CalendarID}},
		Total:    1,
	}, nil
}

func request(calendarID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendars/"+calendarID+"/bookings?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"calendarId": calendarID})
	return req.WithContext(middleware.WithTenant(req.Context(), domain.NewStaffContext(7, 42)))
}

func TestHandle_Filters(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, request("5", "from=2030-01-07&to=2030-01-08T00:00:00Z&status=pending,%20confirmed&ownerId=11"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	require.NotNil(t, svc.got)
	assert.Equal(t, int64(5), svc.got.CalendarID)
	require.NotNil(t, svc.got.From)
	assert.True(t, svc.got.From.Equal(time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, svc.got.To)
	assert.True(t, svc.got.To.Equal(time.Date(2030, 1, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"pending", "confirmed"}, svc.got.Statuses)
	require.NotNil(t, svc.got.OwnerID)
	assert.Equal(t, int64(11), *svc.got.OwnerID)
}

func TestHandle_NoFilters(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, request("5", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Nil(t, svc.got.From)
	assert.Nil(t, svc.got.To)
	assert.Empty(t, svc.got.Statuses)
	assert.Nil(t, svc.got.OwnerID)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name       string
		calendarID string
		query      string
	}{
		{"bad calendar id", "abc", ""},
		{"bad from", "5", "from=07.01.2030"},
		{"bad to", "5", "to=tomorrow"},
		{"bad owner", "5", "ownerId=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			h := NewHandler(svc, logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, request(tt.calendarID, tt.query))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, svc.got)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{bookings.ErrCalendarNotFound, http.StatusNotFound},
		{bookings.ErrAccessDenied, http.StatusForbidden},
		{bookings.ErrInvalidInput, http.StatusBadRequest},
		{bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, request("5", "status=pending"))

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
