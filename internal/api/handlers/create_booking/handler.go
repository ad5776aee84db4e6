package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
	createBooking "github.com/m04kA/SMC-TutoringService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgSlotNotAvailable   = "выбранный день недоступен"
	msgStudentBusy        = "у вас уже есть занятие с другим репетитором в этот день"
	msgTutorNotFound      = "репетитор не найден"
	msgStudentNotFound    = "студент не найден"
	msgTutorUnavailable   = "репетитор не работает в выбранный день"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgInvalidInput       = "некорректные данные бронирования"
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
	studentID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(studentID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
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
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: student_id=%d, tutor_id=%d", studentID, req.TutorID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrStudentBusy):
			h.logger.Warn("POST /bookings - Student busy: student_id=%d, date=%s", studentID, req.Date)
			handlers.RespondConflict(w, msgStudentBusy)

		case errors.Is(err, createBooking.ErrTutorNotFound):
			h.logger.Warn("POST /bookings - Tutor not found: tutor_id=%d", req.TutorID)
			handlers.RespondNotFound(w, msgTutorNotFound)

		case errors.Is(err, createBooking.ErrStudentNotFound):
			h.logger.Warn("POST /bookings - Student not found: student_id=%d", studentID)
			handlers.RespondNotFound(w, msgStudentNotFound)

		case errors.Is(err, createBooking.ErrTutorUnavailable):
			h.logger.Warn("POST /bookings - Tutor unavailable: tutor_id=%d, date=%s", req.TutorID, req.Date)
			handlers.RespondBadRequest(w, msgTutorUnavailable)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: tutor_id=%d, date=%s", req.TutorID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: tutor_id=%d, date=%s", req.TutorID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, lifecycle.ErrLockTimeout):
			h.logger.Warn("POST /bookings - Tutor busy: tutor_id=%d", req.TutorID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: student_id=%d, tutor_id=%d, error=%v",
				studentID, req.TutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, student_id=%d, tutor_id=%d",
		result.Booking.ID, studentID, req.TutorID)
	handlers.SetCommandID(w, result.CommandID)
	handlers.RespondJSON(w, http.StatusCreated, models.NewTransitionResponse(result.CommandID, result.Booking, nil))
}
