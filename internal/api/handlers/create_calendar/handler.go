package create_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgForbidden          = "доступ запрещен"
	msgSlugUnavailable    = "адрес публичной записи уже занят"
	msgInvalidInput       = "некорректные параметры календаря"
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

// Handle POST /api/v1/calendars
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendars - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateCalendar(r.Context(), tenant, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, calendars.ErrAccessDenied):
			h.logger.Warn("POST /calendars - Access denied: tenant=%d", tenant.TenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendars.ErrSlugUnavailable):
			h.logger.Warn("POST /calendars - Slug unavailable: tenant=%d, name=%q", tenant.TenantID, req.Name)
			handlers.RespondConflict(w, msgSlugUnavailable)

		case errors.Is(err, calendars.ErrInvalidInput):
			h.logger.Warn("POST /calendars - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /calendars - Failed to create calendar: tenant=%d, error=%v", tenant.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /calendars - Calendar created successfully: calendar_id=%d, slug=%s, tenant=%d",
		result.ID, result.Slug, tenant.TenantID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
