package manage_blocks

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars"
)

const (
	msgInvalidCalendarID  = "некорректный ID календаря"
	msgInvalidBlockID     = "некорректный ID блокировки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректное время, ожидается RFC3339"
	msgUnauthorized       = "требуется авторизация"
	msgCalendarNotFound   = "календарь не найден"
	msgBlockNotFound      = "блокировка не найдена"
	msgForbidden          = "управлять календарем может только администратор"
	msgInvalidInput       = "начало блокировки должно быть раньше конца"
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

// HandleCreate POST /api/v1/calendars/{calendarId}/blocks
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("POST /calendars/{id}/blocks - Invalid calendar ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendars/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /calendars/{id}/blocks - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.CreateBlock(r.Context(), tenant, calendarID, serviceReq)
	if err != nil {
		h.respondError(w, "POST /calendars/{id}/blocks", calendarID, err)
		return
	}

	h.logger.Info("POST /calendars/{id}/blocks - Block created: calendar_id=%d, block_id=%d", calendarID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleDelete DELETE /api/v1/calendars/{calendarId}/blocks/{blockId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("DELETE /calendars/{id}/blocks/{id} - Invalid calendar ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	blockID, err := handlers.PathInt64(r, "blockId")
	if err != nil {
		h.logger.Warn("DELETE /calendars/{id}/blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if err := h.service.DeleteBlock(r.Context(), tenant, calendarID, blockID); err != nil {
		h.respondError(w, "DELETE /calendars/{id}/blocks/{id}", calendarID, err)
		return
	}

	h.logger.Info("DELETE /calendars/{id}/blocks/{id} - Block deleted: calendar_id=%d, block_id=%d", calendarID, blockID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, calendarID int64, err error) {
	switch {
	case errors.Is(err, calendars.ErrCalendarNotFound):
		h.logger.Warn("%s - Calendar not found: calendar_id=%d", route, calendarID)
		handlers.RespondNotFound(w, msgCalendarNotFound)

	case errors.Is(err, calendars.ErrBlockNotFound):
		h.logger.Warn("%s - Block not found: calendar_id=%d", route, calendarID)
		handlers.RespondNotFound(w, msgBlockNotFound)

	case errors.Is(err, calendars.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: calendar_id=%d", route, calendarID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, calendars.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Failed: calendar_id=%d, error=%v", route, calendarID, err)
		handlers.RespondInternalError(w)
	}
}
