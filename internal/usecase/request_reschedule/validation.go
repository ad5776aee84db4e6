package request_reschedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}

	if req.NewStart.IsZero() != req.NewEnd.IsZero() {
		return fmt.Errorf("%w: newStart and newEnd must be provided together", ErrInvalidInput)
	}

	if !req.NewStart.IsZero() {
		if err := req.NewStart.Validate(); err != nil {
			return fmt.Errorf("%w: invalid newStart format: %v", ErrInvalidInput, err)
		}
		if err := req.NewEnd.Validate(); err != nil {
			return fmt.Errorf("%w: invalid newEnd format: %v", ErrInvalidInput, err)
		}
	}

	if len(req.LessonType) > domain.MaxLessonTypeLength {
		return fmt.Errorf("%w: lessonType is too long", ErrInvalidInput)
	}

	return nil
}

// resolveLessonType: пустой тип наследуется от исходного занятия
func resolveLessonType(requested, original string, lessonTypes []string) (string, error) {
	if requested == "" {
		return original, nil
	}

	if len(lessonTypes) == 0 {
		return requested, nil
	}

	for _, lt := range lessonTypes {
		if lt == requested {
			return requested, nil
		}
	}

	return "", fmt.Errorf("%w: tutor does not teach %q", ErrInvalidInput, requested)
}

// slotError переводит ошибку проверки дня и окна в ошибку usecase
func slotError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDayDisabled):
		return fmt.Errorf("%w: %w", ErrTutorUnavailable, err)
	case errors.Is(err, domain.ErrDayPassed):
		return fmt.Errorf("%w: %w", ErrInvalidDate, err)
	case errors.Is(err, domain.ErrDayTaken):
		return fmt.Errorf("%w: %w", ErrSlotNotAvailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidTimeSlot, err)
	}
}
