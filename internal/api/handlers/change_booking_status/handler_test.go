package change_booking_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
	calls  []string
	reason *string
	err    error
}

func (f *fakeService) Cancel(_ context.Context, _ domain.TenantContext, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	f.calls = append(f.calls, "cancel")
	f.reason = req.CancellationReason
	return &models.BookingResponse{ID: id, Status: string(domain.StatusCancelled)}, f.err
}

func (f *fakeService) Complete(_ context.Context, _ domain.TenantContext, id int64) (*models.BookingResponse, error) {
	f.calls = append(f.calls, "complete")
	return &models.BookingResponse{ID: id, Status: string(domain.StatusCompleted)}, f.err
}

func (f *fakeService) MarkNoShow(_ context.Context, _ domain.TenantContext, id int64) (*models.BookingResponse, error) {
	f.calls = append(f.calls, "no-show")
	return &models.BookingResponse{ID: id, Status: string(domain.StatusNoShow)}, f.err
}

func request(action, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/bookings/9/"+action, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/bookings/9/"+action, strings.NewReader(body))
	}
	req = mux.SetURLVars(req, map[string]string{"bookingId": "9", "action": action})
	return req.WithContext(middleware.WithTenant(req.Context(), domain.NewStaffContext(7, 42)))
}

func TestHandle_Actions(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	for _, action := range []string{ActionCancel, ActionComplete, ActionNoShow} {
		rec := httptest.NewRecorder()
		h.Handle(rec, request(action, ""))
		assert.Equal(t, http.StatusOK, rec.Code, action)
	}

	assert.Equal(t, []string{"cancel", "complete", "no-show"}, svc.calls)
}

func TestHandle_CancelReason(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, request(ActionCancel, `{"cancellationReason":"заболел"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.reason)
	assert.Equal(t, "заболел", *svc.reason)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandle_UnknownAction(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, request("confirm", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.calls)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		action string
		err    error
		code   int
	}{
		{ActionCancel, bookings.ErrCannotCancel, http.StatusConflict},
		{ActionComplete, bookings.ErrCannotComplete, http.StatusConflict},
		{ActionNoShow, bookings.ErrCannotMarkNoShow, http.StatusConflict},
		{ActionCancel, bookings.ErrBookingNotFound, http.StatusNotFound},
		{ActionCancel, bookings.ErrAccessDenied, http.StatusForbidden},
		{ActionCancel, bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.action+" "+tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, request(tt.action, ""))

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
