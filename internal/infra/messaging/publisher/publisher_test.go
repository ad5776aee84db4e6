package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
	"github.com/m04kA/SMC-TutoringService/pkg/logger"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func newPublisher(store *memory.Store, w MessageWriter, batch int) *Publisher {
	return NewPublisher(memory.NewTxManager(store), store.Outbox(), w, nil, logger.NewNop(), Config{BatchSize: batch})
}

func insertEvent(t *testing.T, ctx context.Context, store *memory.Store, eventType, aggregateID string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, store.Outbox().Insert(ctx, outbox.Event{
		EventID:       id,
		AggregateType: "tutor_schedule",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       []byte(`{"eventId":"` + id.String() + `"}`),
	}))
	return id
}

func TestPublisher_PublishBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	w := &fakeWriter{}
	p := newPublisher(store, w, 2)

	first := insertEvent(t, ctx, store, "booking_created", "7")
	insertEvent(t, ctx, store, "booking_accepted", "7")
	insertEvent(t, ctx, store, "booking_cancelled", "8")

	n, err := p.PublishBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, store.Outbox().Pending())

	require.Len(t, w.msgs, 2)
	msg := w.msgs[0]
	assert.Equal(t, "booking_created", msg.Topic)
	assert.Equal(t, []byte("7"), msg.Key)
	assert.Equal(t, first.String(), HeaderValue(msg.Headers, HeaderEventID))
	assert.Equal(t, "booking_created", HeaderValue(msg.Headers, HeaderEventType))

	n, err = p.PublishBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = p.PublishBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, w.msgs, 3)
}

func TestPublisher_WriteFailureKeepsEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := newPublisher(store, w, 10)

	insertEvent(t, ctx, store, "booking_created", "7")

	n, err := p.PublishBatch(ctx)
	assert.ErrorIs(t, err, ErrWrite)
	assert.Zero(t, n)
	assert.Equal(t, 1, store.Outbox().Pending())

	w.err = nil
	n, err = p.PublishBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, store.Outbox().Pending())
}

func TestPublisher_PropagatesTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	spanCtx, span := tp.Tracer("test").Start(context.Background(), "create booking")
	traceID := span.SpanContext().TraceID().String()
	span.End()

	store := memory.NewStore()
	w := &fakeWriter{}
	insertEvent(t, spanCtx, store, "booking_created", "7")

	_, err := newPublisher(store, w, 10).PublishBatch(context.Background())
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	traceparent := HeaderValue(w.msgs[0].Headers, "traceparent")
	assert.Contains(t, traceparent, traceID)

	extracted := ExtractTraceContext(context.Background(), w.msgs[0])
	assert.NotEqual(t, context.Background(), extracted)
}

func TestInjectTraceHeaders_NoSpan(t *testing.T) {
	headers := []kafka.Header{{Key: HeaderEventID, Value: []byte("x")}}
	got := InjectTraceHeaders(context.Background(), headers)
	assert.Equal(t, "x", HeaderValue(got, HeaderEventID))
	assert.Empty(t, HeaderValue(got, "traceparent"))
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(logger.NewNop())
	assert.NoError(t, sink.WriteMessages(context.Background(), kafka.Message{Topic: "booking_created"}))
}
