package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// ErrUnknownWeekday день недели не из Mon..Sun или указан дважды
var ErrUnknownWeekday = errors.New("models: unknown or duplicate weekday")

// Request модели

// DayRequest окно доступности на день недели
type DayRequest struct {
	Weekday string           `json:"weekday"` // Mon..Sun
	Enabled bool             `json:"enabled"`
	Start   types.TimeString `json:"start"` // "10:00"
	End     types.TimeString `json:"end"`   // "12:00"
}

// UpdateAvailabilityRequest запрос на замену шаблона доступности целиком
// Не переданные дни считаются выключенными
type UpdateAvailabilityRequest struct {
	ActorID int64        `json:"-"`
	TutorID int64        `json:"-"`
	Days    []DayRequest `json:"days"`
}

// ToDomain собирает шаблон из запроса
func (r *UpdateAvailabilityRequest) ToDomain() (*domain.AvailabilityTemplate, error) {
	template := domain.NewAvailabilityTemplate(r.TutorID)
	seen := make(map[domain.Weekday]bool, len(r.Days))

	for _, d := range r.Days {
		weekday, err := domain.ParseWeekday(d.Weekday)
		if err != nil || seen[weekday] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWeekday, d.Weekday)
		}
		seen[weekday] = true
		template.Days[weekday] = domain.DayAvailability{Enabled: d.Enabled, Start: d.Start, End: d.End}
	}

	return template, nil
}

// Response модели

// DayResponse окно доступности в ответе
type DayResponse struct {
	Weekday string           `json:"weekday"`
	Enabled bool             `json:"enabled"`
	Start   types.TimeString `json:"start,omitempty"`
	End     types.TimeString `json:"end,omitempty"`
}

// AvailabilityResponse шаблон доступности репетитора
type AvailabilityResponse struct {
	CommandID string        `json:"commandId,omitempty"`
	TutorID   int64         `json:"tutorId"`
	Days      []DayResponse `json:"days"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

// FromDomainTemplate дни всегда идут в порядке Mon..Sun
func FromDomainTemplate(t *domain.AvailabilityTemplate) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		TutorID: t.TutorID,
		Days:    make([]DayResponse, 0, len(domain.Weekdays)),
	}

	for _, w := range domain.Weekdays {
		day := t.Days[w]
		out := DayResponse{Weekday: string(w), Enabled: day.Enabled}
		if day.Enabled {
			out.Start, out.End = day.Start, day.End
		}
		resp.Days = append(resp.Days, out)
	}

	if !t.UpdatedAt.IsZero() {
		updatedAt := t.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
