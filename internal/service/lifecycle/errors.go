package lifecycle

import "errors"

var (
	// ErrLockTimeout блокировка репетитора не получена за отведённое время
	ErrLockTimeout = errors.New("lifecycle: tutor is busy, lock timeout")

	// ErrConcurrentUpdate транзакция проиграла конкурентному изменению (serialization failure / unique violation)
	ErrConcurrentUpdate = errors.New("lifecycle: concurrent update")

	// ErrInternal возвращается при внутренних ошибках движка
	ErrInternal = errors.New("lifecycle: internal error")
)
