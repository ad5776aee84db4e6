package request_reschedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
	requestReschedule "github.com/m04kA/SMC-TutoringService/internal/usecase/request_reschedule"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "перенос может запросить только студент"
	msgNotConfirmed       = "перенести можно только подтверждённое занятие"
	msgTutorNotFound      = "репетитор не найден"
	msgSlotNotAvailable   = "выбранный день недоступен"
	msgStudentBusy        = "у вас уже есть занятие с другим репетитором в этот день"
	msgTutorUnavailable   = "репетитор не работает в выбранный день"
	msgInvalidNewDate     = "некорректная дата переноса"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgInvalidInput       = "некорректные данные переноса"
)

type Handler struct {
	useCase RequestRescheduleUseCase
	logger  Logger
}

func NewHandler(useCase RequestRescheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, bookingID)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, requestReschedule.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requestReschedule.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requestReschedule.ErrInvalidTransition):
			h.logger.Warn("POST /bookings/{id}/reschedule - Invalid transition: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, requestReschedule.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings/{id}/reschedule - Slot not available: booking_id=%d, date=%s", bookingID, req.Date)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, requestReschedule.ErrStudentBusy):
			h.logger.Warn("POST /bookings/{id}/reschedule - Student busy: booking_id=%d, date=%s", bookingID, req.Date)
			handlers.RespondConflict(w, msgStudentBusy)

		case errors.Is(err, requestReschedule.ErrTutorNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule - Tutor not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgTutorNotFound)

		case errors.Is(err, requestReschedule.ErrTutorUnavailable):
			handlers.RespondBadRequest(w, msgTutorUnavailable)

		case errors.Is(err, requestReschedule.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidNewDate)

		case errors.Is(err, requestReschedule.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, requestReschedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, lifecycle.ErrLockTimeout):
			h.logger.Warn("POST /bookings/{id}/reschedule - Tutor busy: booking_id=%d", bookingID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings/{id}/reschedule - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/reschedule - Reschedule requested: booking_id=%d, proposed_id=%d, date=%s",
		bookingID, result.Proposed.ID, req.Date)
	handlers.SetCommandID(w, result.CommandID)
	handlers.RespondJSON(w, http.StatusCreated, models.NewTransitionResponse(result.CommandID, result.Proposed, result.Original))
}
