package publisher

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
)

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxRepository чтение и подтверждение событий outbox
type OutboxRepository interface {
	FetchUnpublished(ctx context.Context, limit int) ([]outbox.Record, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

// MessageWriter получатель сообщений (*kafka.Writer или LogSink)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
