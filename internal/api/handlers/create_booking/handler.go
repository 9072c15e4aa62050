package create_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStart        = "некорректное время начала, ожидается RFC3339"
	msgUnauthorized        = "требуется авторизация"
	msgSlotNotAvailable    = "выбранный слот уже занят, обновите список слотов"
	msgDailyLimitReached   = "на этот день записей на услугу больше нет"
	msgCalendarNotFound    = "календарь не найден"
	msgServiceTypeNotFound = "тип услуги не найден"
	msgForbidden           = "доступ запрещен"
	msgCalendarInactive    = "календарь выключен"
	msgTooEarly            = "слишком поздно для записи на это время"
	msgDateOutOfRange      = "дата бронирования слишком далеко в будущем"
	msgOutsideAvailability = "время вне расписания календаря"
	msgNoEligibleOwner     = "в календаре нет сотрудников, принимающих записи"
	msgInvalidInput        = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid start %q: %v", req.Start, err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}
	useCaseReq.Tenant = tenant

	h.execute(w, r, "POST /bookings", useCaseReq)
}

// HandlePublic POST /api/v1/public/calendars/{slug}/bookings
func (h *Handler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req PublicBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/calendars/{slug}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(slug)
	if err != nil {
		h.logger.Warn("POST /public/calendars/{slug}/bookings - Invalid start %q: %v", req.Start, err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}
	useCaseReq.Tenant = domain.NewPublicContext(0)

	h.execute(w, r, "POST /public/calendars/{slug}/bookings", useCaseReq)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, route string, req *createBooking.Request) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("%s - Slot not available: calendar_id=%d, slug=%q, start=%s", route, req.CalendarID, req.Slug, req.Start)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrDailyLimitReached):
			h.logger.Warn("%s - Daily limit reached: service_type_id=%d", route, req.ServiceTypeID)
			handlers.RespondConflict(w, msgDailyLimitReached)

		case errors.Is(err, createBooking.ErrCalendarNotFound):
			h.logger.Warn("%s - Calendar not found: calendar_id=%d, slug=%q", route, req.CalendarID, req.Slug)
			handlers.RespondNotFound(w, msgCalendarNotFound)

		case errors.Is(err, createBooking.ErrServiceTypeNotFound):
			h.logger.Warn("%s - Service type not found: service_type_id=%d", route, req.ServiceTypeID)
			handlers.RespondNotFound(w, msgServiceTypeNotFound)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: calendar_id=%d, tenant=%d", route, req.CalendarID, req.Tenant.TenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createBooking.ErrCalendarInactive):
			h.logger.Warn("%s - Calendar inactive: calendar_id=%d", route, req.CalendarID)
			handlers.RespondBadRequest(w, msgCalendarInactive)

		case errors.Is(err, createBooking.ErrTooEarly):
			h.logger.Warn("%s - Too early: start=%s", route, req.Start)
			handlers.RespondBadRequest(w, msgTooEarly)

		case errors.Is(err, createBooking.ErrDateOutOfRange):
			h.logger.Warn("%s - Date out of range: start=%s", route, req.Start)
			handlers.RespondBadRequest(w, msgDateOutOfRange)

		case errors.Is(err, createBooking.ErrOutsideAvailability):
			h.logger.Warn("%s - Outside availability: start=%s", route, req.Start)
			handlers.RespondBadRequest(w, msgOutsideAvailability)

		case errors.Is(err, createBooking.ErrNoEligibleOwner):
			h.logger.Warn("%s - No eligible owner: calendar_id=%d, slug=%q", route, req.CalendarID, req.Slug)
			handlers.RespondUnprocessable(w, msgNoEligibleOwner)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("%s - Failed to create booking: calendar_id=%d, slug=%q, error=%v",
				route, req.CalendarID, req.Slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking created successfully: booking_id=%d, calendar_id=%d, owner_id=%d, status=%s",
		route, result.ID, result.CalendarID, result.OwnerID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
