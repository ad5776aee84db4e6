package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	getCalendar "github.com/m04kA/SMC-TutoringService/internal/usecase/get_calendar"
)

const (
	msgInvalidTutorID = "некорректный ID репетитора"
	msgMissingMonth   = "месяц обязателен"
	msgInvalidMonth   = "некорректный формат месяца, ожидается YYYY-MM"
	msgInvalidRole    = "некорректная роль, ожидается student или tutor"
	msgInvalidParams  = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tutors/{tutorId}/calendar
// Query params: month (required, YYYY-MM), role (student|tutor, по умолчанию student)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tutorID, err := strconv.ParseInt(mux.Vars(r)["tutorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tutors/{id}/calendar - Invalid tutor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	// Извлекаем month из query параметров
	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		h.logger.Warn("GET /tutors/{id}/calendar - Missing month")
		handlers.RespondBadRequest(w, msgMissingMonth)
		return
	}

	month, err := time.Parse(domain.MonthFormat, monthStr)
	if err != nil {
		h.logger.Warn("GET /tutors/{id}/calendar - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	role, err := domain.ParseViewerRole(r.URL.Query().Get("role"))
	if err != nil {
		h.logger.Warn("GET /tutors/{id}/calendar - Invalid role: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRole)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getCalendar.Request{
		TutorID: tutorID,
		Month:   month,
		Role:    role,
	})
	if err != nil {
		if errors.Is(err, getCalendar.ErrInvalidInput) {
			h.logger.Warn("GET /tutors/{id}/calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /tutors/{id}/calendar - Failed to build calendar: tutor_id=%d, month=%s, error=%v",
			tutorID, monthStr, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
