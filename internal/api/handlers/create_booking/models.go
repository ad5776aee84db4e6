package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	createBooking "github.com/m04kA/SMC-TutoringService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	TutorID    int64   `json:"tutorId"`
	Date       string  `json:"date"`            // "2026-10-26"
	Start      *string `json:"start,omitempty"` // "10:00", по умолчанию окно репетитора
	End        *string `json:"end,omitempty"`
	LessonType *string `json:"lessonType,omitempty"`
}

// errInvalidDate и errInvalidTime различают ошибки разбора для текста ответа
var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(studentID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	req := &createBooking.Request{
		StudentID: studentID,
		TutorID:   r.TutorID,
		Date:      date,
	}

	if r.Start != nil {
		if req.Start, err = types.NewTimeStringFromString(*r.Start); err != nil {
			return nil, fmt.Errorf("%w: start: %v", errInvalidTime, err)
		}
	}
	if r.End != nil {
		if req.End, err = types.NewTimeStringFromString(*r.End); err != nil {
			return nil, fmt.Errorf("%w: end: %v", errInvalidTime, err)
		}
	}
	if r.LessonType != nil {
		req.LessonType = *r.LessonType
	}

	return req, nil
}
