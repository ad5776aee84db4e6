package memory

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
)

// OutboxRepository in-memory outbox
type OutboxRepository struct {
	store *Store
}

// Insert сохраняет событие (откатывается вместе с транзакцией)
func (r *OutboxRepository) Insert(ctx context.Context, evt outbox.Event) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	traceparent, tracestate := outbox.TraceContextStrings(ctx)

	s.nextEventID++
	rec := &outbox.Record{
		ID:            s.nextEventID,
		EventID:       evt.EventID,
		AggregateType: evt.AggregateType,
		AggregateID:   evt.AggregateID,
		EventType:     evt.EventType,
		Payload:       append([]byte(nil), evt.Payload...),
		Traceparent:   traceparent,
		Tracestate:    tracestate,
		CreatedAt:     s.now(),
	}
	s.events = append(s.events, rec)

	s.record(ctx, func() {
		for i, e := range s.events {
			if e == rec {
				s.events = append(s.events[:i], s.events[i+1:]...)
				return
			}
		}
	})

	return nil
}

// FetchUnpublished возвращает до limit неопубликованных событий в порядке записи
func (r *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]outbox.Record, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []outbox.Record
	for _, e := range s.events {
		if len(records) >= limit {
			break
		}
		records = append(records, *e)
	}
	return records, nil
}

// MarkPublished удаляет доставленные события
func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	published := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		published[id] = struct{}{}
	}

	kept := s.events[:0]
	for _, e := range s.events {
		if _, ok := published[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	s.events = kept

	return nil
}

// Pending количество неопубликованных событий
func (r *OutboxRepository) Pending() int {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
