package get_calendar_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidCalendarID = "некорректный ID календаря"
	msgUnauthorized      = "требуется авторизация"
	msgInvalidParams     = "некорректные параметры запроса"
	msgCalendarNotFound  = "календарь не найден"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendars/{calendarId}/bookings
// Query params: from, to, status, ownerId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("GET /calendars/{id}/bookings - Invalid calendar ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	serviceReq, err := ToServiceRequest(calendarID, r)
	if err != nil {
		h.logger.Warn("GET /calendars/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListCalendarBookings(r.Context(), tenant, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrCalendarNotFound):
			h.logger.Warn("GET /calendars/{id}/bookings - Calendar not found: calendar_id=%d", calendarID)
			handlers.RespondNotFound(w, msgCalendarNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /calendars/{id}/bookings - Access denied: calendar_id=%d, tenant=%d",
				calendarID, tenant.TenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /calendars/{id}/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /calendars/{id}/bookings - Failed to get bookings: calendar_id=%d, error=%v",
				calendarID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendars/{id}/bookings - Bookings retrieved successfully: calendar_id=%d, count=%d",
		calendarID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
