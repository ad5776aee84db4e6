package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StudentID <= 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}

	if req.TutorID <= 0 {
		return fmt.Errorf("%w: tutorID must be positive", ErrInvalidInput)
	}

	if req.StudentID == req.TutorID {
		return fmt.Errorf("%w: tutor cannot book own lesson", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Время указывается парой или не указывается вовсе
	if req.Start.IsZero() != req.End.IsZero() {
		return fmt.Errorf("%w: start and end must be provided together", ErrInvalidInput)
	}

	if !req.Start.IsZero() {
		if err := req.Start.Validate(); err != nil {
			return fmt.Errorf("%w: invalid start format: %v", ErrInvalidInput, err)
		}
		if err := req.End.Validate(); err != nil {
			return fmt.Errorf("%w: invalid end format: %v", ErrInvalidInput, err)
		}
	}

	if len(req.LessonType) > domain.MaxLessonTypeLength {
		return fmt.Errorf("%w: lessonType is too long", ErrInvalidInput)
	}

	return nil
}

// resolveLessonType выбирает тип занятия из профиля репетитора
// Пустой запрос означает первый тип из профиля. Если у репетитора типы не заданы, принимается любой
func resolveLessonType(requested string, lessonTypes []string) (string, error) {
	if len(lessonTypes) == 0 {
		return requested, nil
	}

	if requested == "" {
		return lessonTypes[0], nil
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
