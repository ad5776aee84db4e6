package estimate_cost

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

const (
	msgInvalidTime  = "некорректный формат времени, ожидается HH:MM"
	msgInvalidRate  = "некорректная почасовая ставка"
	msgZeroDuration = "начало и конец занятия совпадают"
)

// EstimateResponse HTTP response model
type EstimateResponse struct {
	Start   string  `json:"start"`
	End     string  `json:"end"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
	Cost    float64 `json:"cost"`
}

type Logger interface {
	Warn(format string, v ...interface{})
}

// Handler предварительный расчёт стоимости, без обращения к хранилищу
type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle GET /api/v1/estimate?start=HH:MM&end=HH:MM&hourlyRate=N
// end раньше start считается занятием через полночь
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rate, err := strconv.ParseFloat(query.Get("hourlyRate"), 64)
	if err != nil {
		h.logger.Warn("GET /estimate - Invalid hourly rate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRate)
		return
	}

	start, end := types.TimeString(query.Get("start")), types.TimeString(query.Get("end"))

	estimate, err := domain.EstimateCost(start, end, rate)
	if err != nil {
		h.logger.Warn("GET /estimate - Failed: start=%s, end=%s, rate=%v, error=%v", start, end, rate, err)
		switch {
		case errors.Is(err, domain.ErrZeroDuration):
			handlers.RespondBadRequest(w, msgZeroDuration)
		case errors.Is(err, domain.ErrInvalidRate):
			handlers.RespondBadRequest(w, msgInvalidRate)
		default:
			handlers.RespondBadRequest(w, msgInvalidTime)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, EstimateResponse{
		Start:   start.String(),
		End:     end.String(),
		Minutes: estimate.Minutes,
		Hours:   estimate.Hours,
		Cost:    estimate.Cost,
	})
}
