package memory

import (
	"context"
	"sync"
)

type journalKey struct{}

type journal struct {
	mu   sync.Mutex
	undo []func()
}

func (j *journal) add(undo func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, undo)
}

func journalFromContext(ctx context.Context) (*journal, bool) {
	j, ok := ctx.Value(journalKey{}).(*journal)
	return j, ok
}

// TxManager менеджер транзакций для in-memory хранилища
// Изоляцию обеспечивает вызывающий (блокировка репетитора), атомарность - журнал отката
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do выполняет fn атомарно
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn атомарно
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn (журнал не нужен, но вложенные вызовы работают так же)
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешний журнал
	if _, ok := journalFromContext(ctx); ok {
		return fn(ctx)
	}

	j := &journal{}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(j)
			panic(p)
		}
		if err != nil {
			m.rollback(j)
		}
	}()

	return fn(context.WithValue(ctx, journalKey{}, j))
}

func (m *TxManager) rollback(j *journal) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	j.mu.Lock()
	defer j.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}
