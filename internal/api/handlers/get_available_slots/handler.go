package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidCalendarID    = "некорректный ID календаря"
	msgInvalidServiceTypeID = "некорректный или отсутствующий serviceTypeId"
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateOutOfRange       = "дата вне окна записи"
	msgCalendarNotFound     = "календарь не найден"
	msgServiceTypeNotFound  = "тип услуги не найден"
	msgCalendarInactive     = "календарь выключен"
	msgForbidden            = "доступ запрещен"
	msgUnauthorized         = "требуется авторизация"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendars/{calendarId}/slots
// Query params: serviceTypeId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	calendarID, err := handlers.PathInt64(r, "calendarId")
	if err != nil {
		h.logger.Warn("GET /calendars/{id}/slots - Invalid calendar ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	req, ok := h.parseQuery(w, r, "GET /calendars/{id}/slots")
	if !ok {
		return
	}
	req.Tenant = tenant
	req.CalendarID = calendarID

	h.execute(w, r, "GET /calendars/{id}/slots", req)
}

// HandlePublic GET /api/v1/public/calendars/{slug}/slots
func (h *Handler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseQuery(w, r, "GET /public/calendars/{slug}/slots")
	if !ok {
		return
	}
	req.Tenant = domain.NewPublicContext(0)
	req.Slug = mux.Vars(r)["slug"]

	h.execute(w, r, "GET /public/calendars/{slug}/slots", req)
}

func (h *Handler) parseQuery(w http.ResponseWriter, r *http.Request, route string) (*getAvailableSlots.Request, bool) {
	serviceTypeID, err := handlers.QueryInt64(r, "serviceTypeId")
	if err != nil {
		h.logger.Warn("%s - Invalid service type ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidServiceTypeID)
		return nil, false
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("%s - Missing date", route)
		handlers.RespondBadRequest(w, msgMissingDate)
		return nil, false
	}

	return &getAvailableSlots.Request{ServiceTypeID: serviceTypeID, Date: date}, true
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, route string, req *getAvailableSlots.Request) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrCalendarNotFound):
			h.logger.Warn("%s - Calendar not found: calendar_id=%d, slug=%q", route, req.CalendarID, req.Slug)
			handlers.RespondNotFound(w, msgCalendarNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceTypeNotFound):
			h.logger.Warn("%s - Service type not found: service_type_id=%d", route, req.ServiceTypeID)
			handlers.RespondNotFound(w, msgServiceTypeNotFound)

		case errors.Is(err, getAvailableSlots.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: calendar_id=%d, tenant=%d", route, req.CalendarID, req.Tenant.TenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, getAvailableSlots.ErrCalendarInactive):
			h.logger.Warn("%s - Calendar inactive: calendar_id=%d", route, req.CalendarID)
			handlers.RespondBadRequest(w, msgCalendarInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("%s - Invalid date: %q", route, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrDateOutOfRange):
			h.logger.Warn("%s - Date out of range: %q", route, req.Date)
			handlers.RespondBadRequest(w, msgDateOutOfRange)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("%s - Invalid request: %v", route, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("%s - Failed to get slots: calendar_id=%d, slug=%q, service_type_id=%d, error=%v",
				route, req.CalendarID, req.Slug, req.ServiceTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Slots retrieved successfully: calendar_id=%d, service_type_id=%d, date=%s, slots_count=%d",
		route, result.CalendarID, req.ServiceTypeID, req.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
