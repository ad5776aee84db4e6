package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
)

// Store in-process хранилище с теми же контрактами, что и PostgreSQL репозитории
// Изменения внутри TxManager журналируются и откатываются при ошибке
type Store struct {
	mu sync.Mutex

	bookings      map[int64]*domain.Booking
	nextBookingID int64

	templates map[int64]*domain.AvailabilityTemplate

	events      []*outbox.Record
	nextEventID int64

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings:  make(map[int64]*domain.Booking),
		templates: make(map[int64]*domain.AvailabilityTemplate),
		now:       time.Now,
	}
}

// WithClock подменяет источник времени для created_at/updated_at
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Bookings репозиторий бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Availability репозиторий шаблонов доступности поверх хранилища
func (s *Store) Availability() *AvailabilityRepository {
	return &AvailabilityRepository{store: s}
}

// Outbox репозиторий outbox поверх хранилища
func (s *Store) Outbox() *OutboxRepository {
	return &OutboxRepository{store: s}
}

// record добавляет шаг отката в журнал транзакции из ctx. Вызывается под s.mu
func (s *Store) record(ctx context.Context, undo func()) {
	if j, ok := journalFromContext(ctx); ok {
		j.add(undo)
	}
}
