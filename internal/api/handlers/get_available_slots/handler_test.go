package get_available_slots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func slotsResponse(t *testing.T) *getAvailableSlots.Response {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	start := time.Date(2030, 1, 7, 9, 0, 0, 0, loc)
	return &getAvailableSlots.Response{
		Date:          "2030-01-07",
		Timezone:      "Europe/Moscow",
		CalendarID:    5,
		ServiceTypeID: 3,
		Slots: []getAvailableSlots.Slot{
			{Start: start, End: start.Add(30 * time.Minute), OwnerName: "Anna", AvailableSpots: 1, TotalSpots: 1},
		},
	}
}

func TestHandle_Staff(t *testing.T) {
	uc := &fakeUseCase{resp: slotsResponse(t)}
	h := NewHandler(uc, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendars/5/slots?serviceTypeId=3&date=2030-01-07", nil)
	req = mux.SetURLVars(req, map[string]string{"calendarId": "5"})
	req = req.WithContext(middleware.WithTenant(req.Context(), domain.NewStaffContext(7, 42)))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"start":"2030-01-07T09:00:00+03:00"`)
	assert.Equal(t, int64(5), uc.got.CalendarID)
	assert.Equal(t, int64(3), uc.got.ServiceTypeID)
	assert.Equal(t, "2030-01-07", uc.got.Date)
	assert.False(t, uc.got.Tenant.Public)
}

func TestHandle_QueryValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing service type", "?date=2030-01-07"},
		{"bad service type", "?serviceTypeId=abc&date=2030-01-07"},
		{"missing date", "?serviceTypeId=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			h := NewHandler(uc, logger.NewNop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/calendars/5/slots"+tt.query, nil)
			req = mux.SetURLVars(req, map[string]string{"calendarId": "5"})
			req = req.WithContext(middleware.WithTenant(req.Context(), domain.NewStaffContext(7, 42)))
			rec := httptest.NewRecorder()

			h.Handle(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandlePublic_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{getAvailableSlots.ErrCalendarNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrServiceTypeNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrDateOutOfRange, http.StatusBadRequest},
		{getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &fakeUseCase{err: tt.err}
			h := NewHandler(uc, logger.NewNop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/public/calendars/barber-shop/slots?serviceTypeId=3&date=2030-01-07", nil)
			req = mux.SetURLVars(req, map[string]string{"slug": "barber-shop"})
			rec := httptest.NewRecorder()

			h.HandlePublic(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			require.NotNil(t, uc.got)
			assert.True(t, uc.got.Tenant.Public)
			assert.Equal(t, "barber-shop", uc.got.Slug)
		})
	}
}

func TestHandle_StaffErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{getAvailableSlots.ErrCalendarInactive, http.StatusBadRequest, msgCalendarInactive},
		{getAvailableSlots.ErrAccessDenied, http.StatusForbidden, msgForbidden},
		{getAvailableSlots.ErrCalendarNotFound, http.StatusNotFound, msgCalendarNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/calendars/5/slots?serviceTypeId=3&date=2030-01-07", nil)
			req = mux.SetURLVars(req, map[string]string{"calendarId": "5"})
			req = req.WithContext(middleware.WithTenant(req.Context(), domain.NewStaffContext(7, 42)))
			rec := httptest.NewRecorder()

			h.Handle(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}
