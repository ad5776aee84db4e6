package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Event конверт доменного события для таблицы outbox_events
// Топик Kafka совпадает с EventType
type Event struct {
	EventID       uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Record сохранённое, ещё не опубликованное событие
type Record struct {
	ID            int64
	EventID       uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Traceparent   string
	Tracestate    string
	CreatedAt     time.Time
}
