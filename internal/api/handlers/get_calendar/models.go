package get_calendar

import (
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	getCalendar "github.com/m04kA/SMC-TutoringService/internal/usecase/get_calendar"
)

// DayResponse статус одного дня месяца
type DayResponse struct {
	Date       string `json:"date"`       // "2026-10-26"
	Status     string `json:"status"`     // available, booked, pending, on_hold, reschedule_requested, disabled, expired
	Actionable bool   `json:"actionable"` // можно ли взаимодействовать с днём в запрошенной роли
}

// CalendarResponse HTTP response model
type CalendarResponse struct {
	TutorID int64         `json:"tutorId"`
	Month   string        `json:"month"` // "2026-10"
	Days    []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, d := range resp.Days {
		days = append(days, DayResponse{
			Date:       d.Date.Format(domain.DateFormat),
			Status:     string(d.Status),
			Actionable: d.Actionable,
		})
	}

	return &CalendarResponse{
		TutorID: resp.TutorID,
		Month:   resp.Month.Format(domain.MonthFormat),
		Days:    days,
	}
}
