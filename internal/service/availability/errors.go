package availability

import "errors"

var (
	// ErrAccessDenied возвращается, когда шаблон меняет не сам репетитор
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректном шаблоне
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
