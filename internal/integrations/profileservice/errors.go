package profileservice

import "errors"

var (
	// ErrTutorNotFound возвращается, когда профиль репетитора не найден
	ErrTutorNotFound = errors.New("tutor profile not found")

	// ErrStudentNotFound возвращается, когда профиль студента не найден
	ErrStudentNotFound = errors.New("student profile not found")

	// ErrInternal возвращается при внутренних ошибках клиента (сеть, таймаут)
	ErrInternal = errors.New("profileservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("profileservice client: invalid response")
)
