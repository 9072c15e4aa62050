package replace_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars"
)

const (
	msgInvalidCalendarID  = "некорректный ID календаря"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgCalendarNotFound   = "календарь не найден"
	msgForbidden          = "управлять календарем может только администратор"
	msgInvalidWindows     = "некорректное расписание: ожидается HH:MM и начало раньше конца"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/calendars/{calendarId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("PUT /calendars/{id}/availability - Invalid calendar ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req ReplaceAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /calendars/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	windows, err := h.service.ReplaceAvailability(r.Context(), tenant, calendarID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, calendars.ErrCalendarNotFound):
			h.logger.Warn("PUT /calendars/{id}/availability - Calendar not found: calendar_id=%d", calendarID)
			handlers.RespondNotFound(w, msgCalendarNotFound)

		case errors.Is(err, calendars.ErrAccessDenied):
			h.logger.Warn("PUT /calendars/{id}/availability - Access denied: calendar_id=%d, user=%d", calendarID, tenant.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendars.ErrInvalidInput):
			h.logger.Warn("PUT /calendars/{id}/availability - Invalid windows: %v", err)
			handlers.RespondBadRequest(w, msgInvalidWindows)

		default:
			h.logger.Error("PUT /calendars/{id}/availability - Failed to replace availability: calendar_id=%d, error=%v",
				calendarID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /calendars/{id}/availability - Availability replaced: calendar_id=%d, windows=%d",
		calendarID, len(windows))
	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{CalendarID: calendarID, Windows: windows})
}
