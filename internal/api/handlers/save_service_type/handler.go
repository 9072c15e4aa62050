package save_service_type

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendars"
)

const (
	msgInvalidCalendarID    = "некорректный ID календаря"
	msgInvalidServiceTypeID = "некорректный ID типа услуги"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnauthorized         = "требуется авторизация"
	msgCalendarNotFound     = "календарь не найден"
	msgServiceTypeNotFound  = "тип услуги не найден"
	msgForbidden            = "управлять календарем может только администратор"
	msgInvalidInput         = "некорректные параметры типа услуги"
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

// HandleCreate POST /api/v1/calendars/{calendarId}/service-types
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const route = "POST /calendars/{id}/service-types"

	tenant, calendarID, req, ok := h.parse(w, r, route)
	if !ok {
		return
	}

	result, err := h.service.CreateServiceType(r.Context(), tenant, calendarID, req.ToServiceRequest())
	if err != nil {
		h.respondError(w, route, calendarID, err)
		return
	}

	h.logger.Info("%s - Service type created: calendar_id=%d, service_type_id=%d", route, calendarID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleUpdate PUT /api/v1/calendars/{calendarId}/service-types/{serviceTypeId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /calendars/{id}/service-types/{id}"

	serviceTypeID, err := handlers.PathInt64(r, "serviceTypeId")
	if err != nil {
		h.logger.Warn("%s - Invalid service type ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidServiceTypeID)
		return
	}

	tenant, calendarID, req, ok := h.parse(w, r, route)
	if !ok {
		return
	}

	result, err := h.service.UpdateServiceType(r.Context(), tenant, calendarID, serviceTypeID, req.ToServiceRequest())
	if err != nil {
		h.respondError(w, route, calendarID, err)
		return
	}

	h.logger.Info("%s - Service type updated: calendar_id=%d, service_type_id=%d", route, calendarID, serviceTypeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request, route string) (domain.TenantContext, int64, *ServiceTypeRequest, bool) {
	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("%s - Invalid calendar ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return domain.TenantContext{}, 0, nil, false
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return domain.TenantContext{}, 0, nil, false
	}

	var req ServiceTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return domain.TenantContext{}, 0, nil, false
	}

	return tenant, calendarID, &req, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, calendarID int64, err error) {
	switch {
	case errors.Is(err, calendars.ErrCalendarNotFound):
		h.logger.Warn("%s - Calendar not found: calendar_id=%d", route, calendarID)
		handlers.RespondNotFound(w, msgCalendarNotFound)

	case errors.Is(err, calendars.ErrServiceTypeNotFound):
		h.logger.Warn("%s - Service type not found: calendar_id=%d", route, calendarID)
		handlers.RespondNotFound(w, msgServiceTypeNotFound)

	case errors.Is(err, calendars.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: calendar_id=%d", route, calendarID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, calendars.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Failed to save service type: calendar_id=%d, error=%v", route, calendarID, err)
		handlers.RespondInternalError(w)
	}
}
