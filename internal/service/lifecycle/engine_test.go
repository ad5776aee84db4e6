package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TutoringService/pkg/logger"
	"github.com/m04kA/SMC-TutoringService/pkg/txmanager"
)

var errRejected = errors.New("rejected by rule")

type fakeCache struct {
	mu          sync.Mutex
	invalidated map[int64]int
	err         error
}

func (c *fakeCache) Invalidate(_ context.Context, tutorID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.invalidated == nil {
		c.invalidated = make(map[int64]int)
	}
	c.invalidated[tutorID]++
	return c.err
}

func (c *fakeCache) count(tutorID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated[tutorID]
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type engineFixture struct {
	engine *Engine
	store  *memory.Store
	cache  *fakeCache
}

func newFixture(lockTimeout time.Duration) *engineFixture {
	store := memory.NewStore()
	cache := &fakeCache{}
	e := NewEngine(
		memory.NewTxManager(store),
		store.Bookings(),
		store.Outbox(),
		cache,
		nil,
		lockTimeout,
		logger.NewNop(),
	)
	e.timeProvider = &fixedTimeProvider{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	return &engineFixture{engine: e, store: store, cache: cache}
}

func pendingBooking(tutorID int64, day int) *domain.Booking {
	return &domain.Booking{
		TutorID:   tutorID,
		StudentID: 100,
		Date:      time.Date(2026, 10, day, 0, 0, 0, 0, time.UTC),
		Start:     "10:00",
		End:       "11:00",
		Status:    domain.StatusPending,
		Amount:    40,
	}
}

func TestEngine_Run_CommitsBookingAndEvent(t *testing.T) {
	f := newFixture(time.Second)
	ctx := context.Background()

	var created *domain.Booking
	commandID, err := f.engine.Run(ctx, 1, "create", func(txCtx context.Context, cmd Command) (*domain.BookingEvent, error) {
		b, err := f.store.Bookings().Create(txCtx, pendingBooking(1, 26))
		if err != nil {
			return nil, err
		}
		created = b
		return domain.NewBookingCreatedEvent(b, b.StudentID, cmd.At), nil
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, commandID)

	records, err := f.store.Outbox().FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, commandID, rec.EventID)
	assert.Equal(t, AggregateType, rec.AggregateType)
	assert.Equal(t, "1", rec.AggregateID)
	assert.Equal(t, string(domain.EventBookingCreated), rec.EventType)

	var payload EventPayload
	require.NoError(t, json.Unmarshal(rec.Payload, &payload))
	assert.Equal(t, commandID.String(), payload.EventID)
	assert.Equal(t, int64(100), payload.ActorID)
	require.Len(t, payload.Changes, 1)
	assert.Equal(t, StatusChangePayload{BookingID: created.ID, To: "pending"}, payload.Changes[0])
	require.Len(t, payload.WalletOps, 1)
	assert.Equal(t, "hold", payload.WalletOps[0].Kind)
	assert.Equal(t, 40.0, payload.WalletOps[0].Amount)
	assert.Len(t, payload.Notifications, 2)

	assert.Equal(t, 1, f.cache.count(1))
}

func TestEngine_Run_NilEventSkipsOutbox(t *testing.T) {
	f := newFixture(time.Second)

	commandID, err := f.engine.Run(context.Background(), 7, "update_availability", func(context.Context, Command) (*domain.BookingEvent, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, commandID)
	assert.Zero(t, f.store.Outbox().Pending())
	assert.Equal(t, 1, f.cache.count(7))
}

func TestEngine_Run_ErrorRollsBack(t *testing.T) {
	f := newFixture(time.Second)
	ctx := context.Background()

	_, err := f.engine.Run(ctx, 1, "create", func(txCtx context.Context, _ Command) (*domain.BookingEvent, error) {
		if _, err := f.store.Bookings().Create(txCtx, pendingBooking(1, 26)); err != nil {
			return nil, err
		}
		return nil, errRejected
	})
	assert.ErrorIs(t, err, errRejected)

	bookings, err := f.store.Bookings().GetByUserID(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.Zero(t, f.store.Outbox().Pending())
	assert.Zero(t, f.cache.count(1))
}

func TestEngine_Run_ConflictBecomesConcurrentUpdate(t *testing.T) {
	f := newFixture(time.Second)

	_, err := f.engine.Run(context.Background(), 1, "create", func(context.Context, Command) (*domain.BookingEvent, error) {
		return nil, fmt.Errorf("create booking: %w", txmanager.ErrUniqueViolation)
	})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestEngine_Run_CacheFailureDoesNotFailCommand(t *testing.T) {
	f := newFixture(time.Second)
	f.cache.err = errors.New("redis down")

	_, err := f.engine.Run(context.Background(), 1, "accept", func(context.Context, Command) (*domain.BookingEvent, error) {
		return nil, nil
	})
	assert.NoError(t, err)
}

func TestEngine_Run_LockTimeout(t *testing.T) {
	f := newFixture(50 * time.Millisecond)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := f.engine.Run(ctx, 1, "slow", func(context.Context, Command) (*domain.BookingEvent, error) {
			close(entered)
			<-release
			return nil, nil
		})
		done <- err
	}()
	<-entered

	_, err := f.engine.Run(ctx, 1, "fast", func(context.Context, Command) (*domain.BookingEvent, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)

	// другой репетитор не ждёт
	_, err = f.engine.Run(ctx, 2, "fast", func(context.Context, Command) (*domain.BookingEvent, error) {
		return nil, nil
	})
	assert.NoError(t, err)

	close(release)
	assert.NoError(t, <-done)
}

func TestEngine_Run_CancelledContext(t *testing.T) {
	f := newFixture(time.Second)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = f.engine.Run(ctx, 1, "slow", func(context.Context, Command) (*domain.BookingEvent, error) {
			close(entered)
			<-release
			return nil, nil
		})
	}()
	<-entered

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err := f.engine.Run(cancelled, 1, "fast", func(context.Context, Command) (*domain.BookingEvent, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	<-done
}

func TestEngine_Run_SerializesSameTutor(t *testing.T) {
	f := newFixture(5 * time.Second)
	ctx := context.Background()

	const workers = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		busy      atomic.Int32
		inside    atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(studentID int64) {
			defer wg.Done()

			_, err := f.engine.Run(ctx, 1, "create", func(txCtx context.Context, cmd Command) (*domain.BookingEvent, error) {
				if inside.Add(1) > 1 {
					busy.Add(1)
				}
				defer inside.Add(-1)

				date := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
				existing, err := f.store.Bookings().GetByTutorWithFilter(txCtx, domain.TutorBookingsFilter{
					TutorID:   1,
					StartDate: &date,
					EndDate:   &date,
					Statuses:  domain.LiveStatuses,
				})
				if err != nil {
					return nil, err
				}
				if len(existing) > 0 {
					return nil, errRejected
				}

				b := pendingBooking(1, 26)
				b.StudentID = studentID
				created, err := f.store.Bookings().Create(txCtx, b)
				if err != nil {
					return nil, err
				}
				return domain.NewBookingCreatedEvent(created, studentID, cmd.At), nil
			})
			if err == nil {
				succeeded.Add(1)
				return
			}
			assert.ErrorIs(t, err, errRejected)
		}(int64(100 + i))
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Zero(t, busy.Load())
	assert.Equal(t, 1, f.store.Outbox().Pending())
}
