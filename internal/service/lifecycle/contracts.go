package lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
)

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TutorLocker межпроцессная блокировка репетитора внутри транзакции
type TutorLocker interface {
	LockTutor(ctx context.Context, tutorID int64) error
}

// OutboxRepository запись событий в transactional outbox
type OutboxRepository interface {
	Insert(ctx context.Context, evt outbox.Event) error
}

// CalendarCache инвалидация закэшированных проекций календаря
type CalendarCache interface {
	Invalidate(ctx context.Context, tutorID int64) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
