package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/keylock"
	"github.com/m04kA/SMC-TutoringService/pkg/metrics"
	"github.com/m04kA/SMC-TutoringService/pkg/txmanager"
)

// Результаты переходов для метрик
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultConflict = "conflict"
	resultBusy     = "busy"
	resultError    = "error"
)

// Command серверный контекст одной команды
// ID используется как ключ идемпотентности для кошелька и уведомлений
type Command struct {
	ID uuid.UUID
	At time.Time
}

// TransitionFunc тело команды. Выполняется под блокировкой репетитора внутри транзакции
// Возвращает событие для outbox или nil, если команда не порождает событие
type TransitionFunc func(ctx context.Context, cmd Command) (*domain.BookingEvent, error)

// Engine сериализует команды по репетитору и атомарно фиксирует их вместе с событием
//
// Порядок выполнения команды:
//  1. in-process блокировка репетитора (с таймаутом)
//  2. serializable транзакция и advisory-блокировка репетитора в БД
//  3. тело команды и запись события в outbox
//  4. после коммита: освобождение блокировки, инвалидация кэша календаря
type Engine struct {
	locks        *keylock.Locker[int64]
	txManager    TransactionManager
	tutorLocker  TutorLocker
	outbox       OutboxRepository
	cache        CalendarCache
	metrics      *metrics.Metrics
	lockTimeout  time.Duration
	timeProvider TimeProvider
	newID        func() uuid.UUID
	logger       Logger
}

// NewEngine создает движок жизненного цикла
// metrics может быть nil
func NewEngine(
	txManager TransactionManager,
	tutorLocker TutorLocker,
	outbox OutboxRepository,
	cache CalendarCache,
	m *metrics.Metrics,
	lockTimeout time.Duration,
	logger Logger,
) *Engine {
	return &Engine{
		locks:        keylock.New[int64](),
		txManager:    txManager,
		tutorLocker:  tutorLocker,
		outbox:       outbox,
		cache:        cache,
		metrics:      m,
		lockTimeout:  lockTimeout,
		timeProvider: &RealTimeProvider{},
		newID:        uuid.New,
		logger:       logger,
	}
}

// Run выполняет команду transition для репетитора tutorID
// Возвращает ID команды. Ошибки тела команды возвращаются без изменений
func (e *Engine) Run(ctx context.Context, tutorID int64, transition string, fn TransitionFunc) (uuid.UUID, error) {
	cmd := Command{ID: e.newID(), At: e.timeProvider.Now()}

	// 1. Ждём свою очередь по репетитору
	unlock, err := e.acquire(ctx, tutorID, transition)
	if err != nil {
		return uuid.Nil, err
	}

	// 2-3. Транзакция; блокировка освобождается только после коммита или отката
	event, err := func() (*domain.BookingEvent, error) {
		defer unlock()
		return e.commit(ctx, tutorID, cmd, fn)
	}()

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) || errors.Is(err, txmanager.ErrUniqueViolation) {
			e.metrics.RecordTransition(transition, resultConflict)
			e.logger.Warn("Lifecycle: %s tutor=%d command=%s lost to concurrent update: %v", transition, tutorID, cmd.ID, err)
			return uuid.Nil, fmt.Errorf("%w: %s tutor id=%d: %v", ErrConcurrentUpdate, transition, tutorID, err)
		}
		if errors.Is(err, ErrInternal) {
			e.metrics.RecordTransition(transition, resultError)
			e.logger.Error("Lifecycle: %s tutor=%d command=%s failed: %v", transition, tutorID, cmd.ID, err)
			return uuid.Nil, err
		}
		e.metrics.RecordTransition(transition, resultRejected)
		return uuid.Nil, err
	}

	// 4. Проекции календаря репетитора устарели
	if err := e.cache.Invalidate(ctx, tutorID); err != nil {
		e.logger.Warn("Lifecycle: %s tutor=%d - failed to invalidate calendar cache: %v", transition, tutorID, err)
	}

	e.metrics.RecordTransition(transition, resultOK)
	if event != nil {
		e.logger.Info("Lifecycle: %s tutor=%d command=%s committed (%d changes)", transition, tutorID, cmd.ID, len(event.Changes))
	} else {
		e.logger.Info("Lifecycle: %s tutor=%d command=%s committed", transition, tutorID, cmd.ID)
	}

	return cmd.ID, nil
}

func (e *Engine) acquire(ctx context.Context, tutorID int64, transition string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, e.lockTimeout)
	defer cancel()

	started := time.Now()
	unlock, err := e.locks.Lock(lockCtx, tutorID)
	e.metrics.ObserveLockWait(transition, time.Since(started))

	if err == nil {
		return unlock, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	e.metrics.RecordTransition(transition, resultBusy)
	e.logger.Warn("Lifecycle: %s tutor=%d - lock not acquired within %s", transition, tutorID, e.lockTimeout)
	return nil, fmt.Errorf("%w: tutor id=%d after %s", ErrLockTimeout, tutorID, e.lockTimeout)
}

func (e *Engine) commit(ctx context.Context, tutorID int64, cmd Command, fn TransitionFunc) (*domain.BookingEvent, error) {
	var event *domain.BookingEvent

	err := e.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := e.tutorLocker.LockTutor(txCtx, tutorID); err != nil {
			return fmt.Errorf("%w: lock tutor id=%d: %v", ErrInternal, tutorID, err)
		}

		ev, err := fn(txCtx, cmd)
		if err != nil {
			return err
		}
		if ev == nil {
			return nil
		}

		ev.CommandID = cmd.ID
		if ev.OccurredAt.IsZero() {
			ev.OccurredAt = cmd.At
		}

		evt, err := toOutboxEvent(ev)
		if err != nil {
			return err
		}

		if err := e.outbox.Insert(txCtx, evt); err != nil {
			return fmt.Errorf("%w: insert outbox event %s: %v", ErrInternal, ev.Type, err)
		}

		event = ev
		return nil
	})

	if err != nil {
		return nil, err
	}

	return event, nil
}
