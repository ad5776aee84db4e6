package create_booking

import "errors"

var (
	// ErrTutorNotFound возвращается, когда репетитор не найден
	ErrTutorNotFound = errors.New("create_booking: tutor not found")

	// ErrStudentNotFound возвращается, когда студент не найден
	ErrStudentNotFound = errors.New("create_booking: student not found")

	// ErrInvalidDate возвращается, когда дата уже прошла
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrTutorUnavailable возвращается, когда репетитор не работает в этот день недели
	ErrTutorUnavailable = errors.New("create_booking: tutor is not available on this date")

	// ErrSlotNotAvailable возвращается, когда день уже занят другим бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrStudentBusy возвращается, когда у студента уже есть занятие в этот день (у любого репетитора)
	ErrStudentBusy = errors.New("create_booking: student already has a booking on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с окном репетитора или длительность нулевая
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
