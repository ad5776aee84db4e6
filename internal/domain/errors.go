package domain

import "errors"

var (
	// ErrInvalidTransition переход из текущего статуса не разрешён
	ErrInvalidTransition = errors.New("domain: invalid booking transition")

	// ErrZeroDuration начало и конец слота совпадают
	ErrZeroDuration = errors.New("domain: zero-duration slot")

	// ErrInvalidRate почасовая ставка отрицательна или не является числом
	ErrInvalidRate = errors.New("domain: invalid hourly rate")

	// ErrInvalidTime некорректное время суток
	ErrInvalidTime = errors.New("domain: invalid time of day")

	// ErrInvalidTemplate некорректный шаблон доступности
	ErrInvalidTemplate = errors.New("domain: invalid availability template")

	// ErrDayDisabled репетитор не работает в этот день недели
	ErrDayDisabled = errors.New("domain: tutor does not work on this day")

	// ErrDayPassed день уже прошёл
	ErrDayPassed = errors.New("domain: day has passed")

	// ErrDayTaken день занят живым бронированием
	ErrDayTaken = errors.New("domain: day is taken")

	// ErrWindowMismatch переданное время не совпадает с окном репетитора
	ErrWindowMismatch = errors.New("domain: time does not match tutor window")
)
