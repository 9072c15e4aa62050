package change_booking_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidAction      = "неизвестное действие, ожидается cancel, complete или no-show"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotCancel       = "бронирование не может быть отменено"
	msgCannotComplete     = "бронирование не может быть завершено"
	msgCannotMarkNoShow   = "бронирование не может быть отмечено как неявка"
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

// Handle POST /api/v1/bookings/{bookingId}/{action}, action = cancel | complete | no-show
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/%s - Invalid booking ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req ChangeStatusRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /bookings/{id}/%s - Invalid request body: %v", action, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	var booking *models.BookingResponse
	switch action {
	case ActionCancel:
		booking, err = h.service.Cancel(r.Context(), tenant, bookingID, req.ToServiceRequest())
	case ActionComplete:
		booking, err = h.service.Complete(r.Context(), tenant, bookingID)
	case ActionNoShow:
		booking, err = h.service.MarkNoShow(r.Context(), tenant, bookingID)
	default:
		h.logger.Warn("POST /bookings/{id}/%s - Unknown action", action)
		handlers.RespondBadRequest(w, msgInvalidAction)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/%s - Booking not found: booking_id=%d", action, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/%s - Access denied: booking_id=%d, tenant=%d", action, bookingID, tenant.TenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("POST /bookings/{id}/%s - Cannot cancel: booking_id=%d", action, bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrCannotComplete):
			h.logger.Warn("POST /bookings/{id}/%s - Cannot complete: booking_id=%d", action, bookingID)
			handlers.RespondConflict(w, msgCannotComplete)

		case errors.Is(err, bookings.ErrCannotMarkNoShow):
			h.logger.Warn("POST /bookings/{id}/%s - Cannot mark no-show: booking_id=%d", action, bookingID)
			handlers.RespondConflict(w, msgCannotMarkNoShow)

		default:
			h.logger.Error("POST /bookings/{id}/%s - Failed to change status: booking_id=%d, error=%v",
				action, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/%s - Booking status changed: booking_id=%d, status=%s",
		action, bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
