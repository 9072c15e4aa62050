package add_owner

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
	msgOwnerExists        = "пользователь уже добавлен в календарь"
	msgInvalidInput       = "некорректные данные владельца"
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

// Handle POST /api/v1/calendars/{calendarId}/owners
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("POST /calendars/{id}/owners - Invalid calendar ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req AddOwnerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendars/{id}/owners - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddOwner(r.Context(), tenant, calendarID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, calendars.ErrCalendarNotFound):
			h.logger.Warn("POST /calendars/{id}/owners - Calendar not found: calendar_id=%d", calendarID)
			handlers.RespondNotFound(w, msgCalendarNotFound)

		case errors.Is(err, calendars.ErrAccessDenied):
			h.logger.Warn("POST /calendars/{id}/owners - Access denied: calendar_id=%d, user=%d", calendarID, tenant.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendars.ErrOwnerAlreadyExists):
			h.logger.Warn("POST /calendars/{id}/owners - Owner exists: calendar_id=%d, user=%d", calendarID, req.UserID)
			handlers.RespondConflict(w, msgOwnerExists)

		case errors.Is(err, calendars.ErrInvalidInput):
			h.logger.Warn("POST /calendars/{id}/owners - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /calendars/{id}/owners - Failed to add owner: calendar_id=%d, error=%v", calendarID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /calendars/{id}/owners - Owner added successfully: calendar_id=%d, owner_id=%d",
		calendarID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
