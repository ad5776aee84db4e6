package publisher

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter создает writer, который партиционирует сообщения по ключу (ID репетитора)
// Топик задаётся в каждом сообщении
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

// LogSink пишет события в лог вместо брокера (режим без Kafka)
type LogSink struct {
	logger Logger
}

// NewLogSink создает LogSink
func NewLogSink(logger Logger) *LogSink {
	return &LogSink{logger: logger}
}

// WriteMessages логирует каждое сообщение
func (s *LogSink) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		s.logger.Info("Outbox: %s key=%s event_id=%s payload=%s",
			msg.Topic, msg.Key, HeaderValue(msg.Headers, HeaderEventID), msg.Value)
	}
	return nil
}
