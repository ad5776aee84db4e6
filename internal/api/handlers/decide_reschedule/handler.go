package decide_reschedule

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "решение о переносе принимает репетитор"
	msgNotPending       = "бронирование не ожидает решения о переносе"
	msgConflict         = "бронирование изменено параллельным запросом"
)

type decideFunc func(ctx context.Context, bookingID, actorID int64) (*models.TransitionResponse, error)

// Handler решение репетитора по предложенному переносу.
// bookingId в пути - ID предложенного (on_hold) бронирования
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

// Approve PATCH /api/v1/bookings/{bookingId}/reschedule/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "PATCH /bookings/{id}/reschedule/approve", h.service.ApproveReschedule)
}

// Reject PATCH /api/v1/bookings/{bookingId}/reschedule/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "PATCH /bookings/{id}/reschedule/reject", h.service.RejectReschedule)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, route string, decide decideFunc) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := decide(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", route, bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("%s - Invalid transition: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondConflict(w, msgNotPending)

		case errors.Is(err, lifecycle.ErrConcurrentUpdate):
			h.logger.Warn("%s - Concurrent update: booking_id=%d", route, bookingID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, lifecycle.ErrLockTimeout):
			h.logger.Warn("%s - Tutor busy: booking_id=%d", route, bookingID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("%s - Failed: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Decided: booking_id=%d, user_id=%d, command_id=%s",
		route, bookingID, userID, result.CommandID)
	w.Header().Set(handlers.HeaderCommandID, result.CommandID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
