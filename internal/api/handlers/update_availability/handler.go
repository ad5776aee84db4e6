package update_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/service/availability"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
)

const (
	msgInvalidTutorID     = "некорректный ID репетитора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "изменить расписание может только сам репетитор"
	msgInvalidTemplate    = "некорректный шаблон доступности"
	msgConflict           = "расписание изменено параллельно, повторите запрос"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tutors/{tutorId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tutorID, err := strconv.ParseInt(mux.Vars(r)["tutorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /tutors/{id}/availability - Invalid tutor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /tutors/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tutors/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest(tutorID, userID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /tutors/{id}/availability - Access denied: tutor_id=%d, user_id=%d", tutorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /tutors/{id}/availability - Invalid template: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTemplate)

		case errors.Is(err, lifecycle.ErrConcurrentUpdate):
			h.logger.Warn("PUT /tutors/{id}/availability - Concurrent update: tutor_id=%d", tutorID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, lifecycle.ErrLockTimeout):
			h.logger.Warn("PUT /tutors/{id}/availability - Tutor busy: tutor_id=%d", tutorID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PUT /tutors/{id}/availability - Failed to update: tutor_id=%d, error=%v", tutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tutors/{id}/availability - Availability updated: tutor_id=%d, command_id=%s",
		tutorID, result.CommandID)
	w.Header().Set(handlers.HeaderCommandID, result.CommandID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
