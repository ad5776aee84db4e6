package get_availability

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
)

const msgInvalidTutorID = "некорректный ID репетитора"

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

// Handle GET /api/v1/tutors/{tutorId}/availability
// Публичный endpoint - без авторизации
// Репетитор без шаблона получает все дни выключенными
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tutorID, err := strconv.ParseInt(mux.Vars(r)["tutorId"], 10, 64)
	if err != nil || tutorID <= 0 {
		h.logger.Warn("GET /tutors/{id}/availability - Invalid tutor ID: %q", mux.Vars(r)["tutorId"])
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	result, err := h.service.Get(r.Context(), tutorID)
	if err != nil {
		h.logger.Error("GET /tutors/{id}/availability - Failed to get availability: tutor_id=%d, error=%v", tutorID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
