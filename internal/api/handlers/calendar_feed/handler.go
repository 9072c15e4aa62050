package calendar_feed

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
	feed    Feed
	logger  Logger
}

func NewHandler(service CalendarService, feed Feed, logger Logger) *Handler {
	return &Handler{
		service: service,
		feed:    feed,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendars/{calendarId}/feed (websocket)
// События: {"type":"availability_changed","calendarId":1,"date":"2030-01-07"}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("GET /calendars/{id}/feed - Invalid calendar ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Права проверяются до апгрейда, после него ответить ошибкой уже нельзя
	if _, err := h.service.GetCalendar(r.Context(), tenant, calendarID); err != nil {
		switch {
		case errors.Is(err, calendars.ErrCalendarNotFound):
			handlers.RespondNotFound(w, msgCalendarNotFound)
		case errors.Is(err, calendars.ErrAccessDenied):
			h.logger.Warn("GET /calendars/{id}/feed - Access denied: calendar_id=%d, tenant=%d", calendarID, tenant.TenantID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /calendars/{id}/feed - Failed to get calendar: calendar_id=%d, error=%v", calendarID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendars/{id}/feed - Subscriber connected: calendar_id=%d, user=%d", calendarID, tenant.UserID)
	h.feed.Serve(w, r, calendarID)
}
