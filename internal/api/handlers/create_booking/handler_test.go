package create_booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func okResponse() *createBooking.Response {
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	return &createBooking.Response{
		ID:            1,
		CalendarID:    5,
		ServiceTypeID: 3,
		OwnerID:       11,
		OwnerName:     "Anna",
		Start:         start,
		End:           start.Add(30 * time.Minute),
		Status:        string(domain.StatusConfirmed),
		Source:        string(domain.SourceStaff),
	}
}

func staffRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	return req.WithContext(middleware.WithTenant(req.Context(), domain.NewStaffContext(7, 42)))
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: okResponse()}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, staffRequest(`{"calendarId":5,"serviceTypeId":3,"start":"2030-01-07T10:00:00Z","clientName":"Ivan"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ownerName":"Anna"`)
	assert.Contains(t, rec.Body.String(), `"end":"2030-01-07T10:30:00Z"`)

	require.NotNil(t, uc.got)
	assert.Equal(t, domain.NewStaffContext(7, 42), uc.got.Tenant)
	assert.Equal(t, int64(5), uc.got.CalendarID)
	assert.True(t, uc.got.Start.Equal(time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)))
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing calendar", `{"serviceTypeId":3,"start":"2030-01-07T10:00:00Z"}`},
		{"bad start", `{"calendarId":5,"serviceTypeId":3,"start":"07.01.2030 10:00"}`},
		{"bad email", `{"calendarId":5,"serviceTypeId":3,"start":"2030-01-07T10:00:00Z","clientEmail":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{resp: okResponse()}
			h := NewHandler(uc, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, staffRequest(tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, logger.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{createBooking.ErrSlotNotAvailable, http.StatusConflict},
		{fmt.Errorf("%w: tx", createBooking.ErrDailyLimitReached), http.StatusConflict},
		{createBooking.ErrCalendarNotFound, http.StatusNotFound},
		{createBooking.ErrServiceTypeNotFound, http.StatusNotFound},
		{createBooking.ErrAccessDenied, http.StatusForbidden},
		{createBooking.ErrTooEarly, http.StatusBadRequest},
		{createBooking.ErrDateOutOfRange, http.StatusBadRequest},
		{createBooking.ErrOutsideAvailability, http.StatusBadRequest},
		{createBooking.ErrNoEligibleOwner, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: client is required", createBooking.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: db down", createBooking.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, staffRequest(`{"calendarId":5,"serviceTypeId":3,"start":"2030-01-07T10:00:00Z","clientName":"Ivan"}`))

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHandlePublic(t *testing.T) {
	resp := okResponse()
	resp.Status = string(domain.StatusPending)
	resp.Source = string(domain.SourcePublic)
	uc := &fakeUseCase{resp: resp}
	h := NewHandler(uc, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/calendars/barber-shop/bookings",
		strings.NewReader(`{"serviceTypeId":3,"start":"2030-01-07T10:00:00Z","clientName":"Ivan","clientPhone":"+7000"}`))
	req = mux.SetURLVars(req, map[string]string{"slug": "barber-shop"})
	rec := httptest.NewRecorder()

	h.HandlePublic(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	require.NotNil(t, uc.got)
	assert.True(t, uc.got.Tenant.Public)
	assert.Equal(t, "barber-shop", uc.got.Slug)
	assert.Nil(t, uc.got.LeadID)
	require.NotNil(t, uc.got.ClientName)
	assert.Equal(t, "Ivan", *uc.got.ClientName)
}

func TestHandlePublic_RejectsLeadID(t *testing.T) {
	uc := &fakeUseCase{resp: okResponse()}
	h := NewHandler(uc, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/calendars/barber-shop/bookings",
		strings.NewReader(`{"serviceTypeId":3,"start":"2030-01-07T10:00:00Z","clientName":"Ivan","leadId":9}`))
	req = mux.SetURLVars(req, map[string]string{"slug": "barber-shop"})
	rec := httptest.NewRecorder()

	h.HandlePublic(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
}
