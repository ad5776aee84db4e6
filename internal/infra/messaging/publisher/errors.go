package publisher

import "errors"

var (
	// ErrFetch не удалось прочитать события outbox
	ErrFetch = errors.New("publisher: failed to fetch outbox events")

	// ErrWrite брокер не принял сообщения, пачка будет отправлена повторно
	ErrWrite = errors.New("publisher: failed to write messages")

	// ErrMark не удалось пометить события доставленными
	ErrMark = errors.New("publisher: failed to mark events published")
)
