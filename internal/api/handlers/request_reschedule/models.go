package request_reschedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	requestReschedule "github.com/m04kA/SMC-TutoringService/internal/usecase/request_reschedule"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date       string  `json:"date"` // новая дата "2026-11-02"
	Start      *string `json:"start,omitempty"`
	End        *string `json:"end,omitempty"`
	LessonType *string `json:"lessonType,omitempty"`
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(actorID, bookingID int64) (*requestReschedule.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	req := &requestReschedule.Request{
		ActorID:   actorID,
		BookingID: bookingID,
		NewDate:   date,
	}

	if r.Start != nil {
		if req.NewStart, err = types.NewTimeStringFromString(*r.Start); err != nil {
			return nil, fmt.Errorf("%w: start: %v", errInvalidTime, err)
		}
	}
	if r.End != nil {
		if req.NewEnd, err = types.NewTimeStringFromString(*r.End); err != nil {
			return nil, fmt.Errorf("%w: end: %v", errInvalidTime, err)
		}
	}
	if r.LessonType != nil {
		req.LessonType = *r.LessonType
	}

	return req, nil
}
