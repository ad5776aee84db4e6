package domain

import (
	"fmt"
	"time"
)

// SlotStatus семантический статус календарного дня репетитора (вычисляется, не хранится)
type SlotStatus string

const (
	SlotBooked              SlotStatus = "booked"
	SlotPending             SlotStatus = "pending"
	SlotOnHold              SlotStatus = "on_hold"
	SlotRescheduleRequested SlotStatus = "reschedule_requested"
	SlotAvailable           SlotStatus = "available"
	SlotDisabled            SlotStatus = "disabled"
	SlotExpired             SlotStatus = "expired"
)

// ViewerRole роль того, кто смотрит календарь
type ViewerRole string

const (
	RoleStudent ViewerRole = "student"
	RoleTutor   ViewerRole = "tutor"
)

// ParseViewerRole валидирует роль. Пустая строка трактуется как student
func ParseViewerRole(s string) (ViewerRole, error) {
	switch ViewerRole(s) {
	case "", RoleStudent:
		return RoleStudent, nil
	case RoleTutor:
		return RoleTutor, nil
	default:
		return "", fmt.Errorf("unknown viewer role %q", s)
	}
}

// IsActionable определяет, может ли роль взаимодействовать с днём в данном статусе
// Студент может выбрать только свободный день. Репетитор работает со всем,
// кроме замороженных переносом и выключенных дней. Дни раньше today
// неактивны для обеих ролей, даже если на них осталось бронирование
func IsActionable(status SlotStatus, role ViewerRole, date, today time.Time) bool {
	if DateOnly(date).Before(DateOnly(today)) {
		return false
	}

	if role == RoleStudent {
		return status == SlotAvailable
	}

	switch status {
	case SlotRescheduleRequested, SlotDisabled, SlotExpired:
		return false
	default:
		return true
	}
}

// CheckDayBookable переводит статус дня в ошибку: бронировать можно только свободный день
func CheckDayBookable(status SlotStatus) error {
	switch status {
	case SlotAvailable:
		return nil
	case SlotDisabled:
		return ErrDayDisabled
	case SlotExpired:
		return ErrDayPassed
	default:
		return fmt.Errorf("%w: day is %s", ErrDayTaken, status)
	}
}

// DayStatus статус одного дня в проекции календаря
type DayStatus struct {
	Date   time.Time
	Status SlotStatus
}
