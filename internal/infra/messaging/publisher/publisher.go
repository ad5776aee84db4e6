package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
	"github.com/m04kA/SMC-TutoringService/pkg/metrics"
)

const (
	defaultPollEvery = 2 * time.Second
	defaultBatchSize = 50
)

// Config настройки публикатора
type Config struct {
	PollEvery time.Duration
	BatchSize int
}

// Publisher доставляет события outbox в брокер (at-least-once)
// Потребители дедуплицируют по заголовку event_id
type Publisher struct {
	txManager TransactionManager
	repo      OutboxRepository
	writer    MessageWriter
	metrics   *metrics.Metrics
	logger    Logger
	pollEvery time.Duration
	batchSize int
}

// NewPublisher создает публикатор. metrics может быть nil
func NewPublisher(txManager TransactionManager, repo OutboxRepository, writer MessageWriter, m *metrics.Metrics, logger Logger, cfg Config) *Publisher {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = defaultPollEvery
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	return &Publisher{
		txManager: txManager,
		repo:      repo,
		writer:    writer,
		metrics:   m,
		logger:    logger,
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
	}
}

// Run опрашивает outbox до отмены контекста
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	p.logger.Info("Outbox: publisher started (poll=%s, batch=%d)", p.pollEvery, p.batchSize)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox: publisher stopped")
			return
		case <-ticker.C:
			if _, err := p.PublishBatch(ctx); err != nil {
				p.logger.Error("Outbox: publish failed: %v", err)
			}
		}
	}
}

// PublishBatch отправляет одну пачку событий и возвращает количество доставленных
// При ошибке записи пачка остаётся неопубликованной и будет отправлена повторно
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	var published []outbox.Record

	err := p.txManager.Do(ctx, func(txCtx context.Context) error {
		records, err := p.repo.FetchUnpublished(txCtx, p.batchSize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFetch, err)
		}
		if len(records) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(records))
		ids := make([]int64, 0, len(records))
		for _, r := range records {
			msgs = append(msgs, toMessage(ctx, r))
			ids = append(ids, r.ID)
		}

		if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("%w: %d messages: %v", ErrWrite, len(msgs), err)
		}

		if err := p.repo.MarkPublished(txCtx, ids); err != nil {
			return fmt.Errorf("%w: %v", ErrMark, err)
		}

		published = records
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, r := range published {
		p.metrics.RecordOutboxPublished(r.EventType)
	}

	return len(published), nil
}

func toMessage(ctx context.Context, r outbox.Record) kafka.Message {
	msgCtx := outbox.ContextWithTraceContext(ctx, r.Traceparent, r.Tracestate)

	msg := kafka.Message{
		Topic: r.EventType,
		Key:   []byte(r.AggregateID),
		Value: r.Payload,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(r.EventID.String())},
			{Key: HeaderEventType, Value: []byte(r.EventType)},
		},
	}
	msg.Headers = InjectTraceHeaders(msgCtx, msg.Headers)

	return msg
}
