package request_reschedule

import "errors"

var (
	// ErrBookingNotFound возвращается, когда исходное бронирование не найдено
	ErrBookingNotFound = errors.New("request_reschedule: booking not found")

	// ErrAccessDenied возвращается, когда перенос запрашивает не студент бронирования
	ErrAccessDenied = errors.New("request_reschedule: access denied")

	// ErrInvalidTransition возвращается, когда исходное бронирование не в статусе confirmed
	ErrInvalidTransition = errors.New("request_reschedule: invalid transition")

	// ErrTutorNotFound возвращается, когда профиль репетитора не найден
	ErrTutorNotFound = errors.New("request_reschedule: tutor not found")

	// ErrInvalidDate возвращается, когда новая дата уже прошла
	ErrInvalidDate = errors.New("request_reschedule: invalid date")

	// ErrTutorUnavailable возвращается, когда репетитор не работает в новый день
	ErrTutorUnavailable = errors.New("request_reschedule: tutor is not available on this date")

	// ErrSlotNotAvailable возвращается, когда новый день занят
	ErrSlotNotAvailable = errors.New("request_reschedule: slot is not available")

	// ErrStudentBusy возвращается, когда у студента уже есть занятие в этот день (у любого репетитора)
	ErrStudentBusy = errors.New("request_reschedule: student already has a booking on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с окном репетитора или длительность нулевая
	ErrInvalidTimeSlot = errors.New("request_reschedule: invalid time slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_reschedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_reschedule: internal error")
)
