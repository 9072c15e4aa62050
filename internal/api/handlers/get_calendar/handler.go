package get_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars"
)

const (
	msgInvalidCalendarID = "некорректный ID календаря"
	msgUnauthorized      = "требуется авторизация"
	msgCalendarNotFound  = "календарь не найден"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/calendars/{calendarId}
// Календарь с владельцами, расписанием и типами услуг
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("GET /calendars/{id} - Invalid calendar ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.GetCalendar(r.Context(), tenant, calendarID)
	if err != nil {
		switch {
		case errors.Is(err, calendars.ErrCalendarNotFound):
			h.logger.Warn("GET /calendars/{id} - Calendar not found: calendar_id=%d", calendarID)
			handlers.RespondNotFound(w, msgCalendarNotFound)

		case errors.Is(err, calendars.ErrAccessDenied):
			h.logger.Warn("GET /calendars/{id} - Access denied: calendar_id=%d, tenant=%d", calendarID, tenant.TenantID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /calendars/{id} - Failed to get calendar: calendar_id=%d, error=%v", calendarID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendars/{id} - Calendar retrieved successfully: calendar_id=%d", calendarID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/calendars
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.ListCalendars(r.Context(), tenant)
	if err != nil {
		h.logger.Error("GET /calendars - Failed to list calendars: tenant=%d, error=%v", tenant.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendars - Calendars retrieved successfully: tenant=%d, count=%d", tenant.TenantID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
