package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TutoringService/pkg/txmanager"
)

// BookingRepository in-memory репозиторий бронирований
type BookingRepository struct {
	store *Store
}

// Create сохраняет бронирование и назначает ID
// Второе бронирование, занимающее тот же день репетитора или студента, отклоняется как нарушение уникальности
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !booking.Status.IsValid() {
		return nil, fmt.Errorf("%w: Create - %q", bookingRepo.ErrInvalidStatus, booking.Status)
	}
	if booking.HoldsSlot() {
		if err := s.checkDayHolders(booking, 0); err != nil {
			return nil, fmt.Errorf("%w: Create - %v", txmanager.ErrUniqueViolation, err)
		}
	}

	s.nextBookingID++
	now := s.now()

	booking.ID = s.nextBookingID
	booking.Date = domain.DateOnly(booking.Date)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	s.bookings[booking.ID] = booking.Clone()

	id := booking.ID
	s.record(ctx, func() { delete(s.bookings, id) })

	return booking, nil
}

// GetByID возвращает копию бронирования
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b.Clone(), nil
}

// GetByUserID возвращает бронирования, где пользователь студент или репетитор
func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if !b.IsParticipant(userID) {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b.Clone())
	}

	sortBookings(result, false)
	return result, nil
}

// GetByTutorWithFilter возвращает бронирования репетитора по фильтру
func (r *BookingRepository) GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.collect(filter.Matches)
	sortBookings(result, filter.SortAscending || filter.IsSingleDate())

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// CountByTutorWithFilter считает бронирования репетитора по фильтру
func (r *BookingRepository) CountByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.collect(filter.Matches)), nil
}

// GetByStudentWithFilter возвращает бронирования студента по фильтру
func (r *BookingRepository) GetByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) ([]*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.collect(filter.Matches)
	sortBookings(result, filter.SortAscending || filter.IsSingleDate())

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// CountByStudentWithFilter считает бронирования студента по фильтру
func (r *BookingRepository) CountByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.collect(filter.Matches)), nil
}

// UpdateStatus меняет статус бронирования
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.IsValid() {
		return fmt.Errorf("%w: UpdateStatus - %q", bookingRepo.ErrInvalidStatus, status)
	}

	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}

	next := b.Clone()
	next.Status = status
	if next.HoldsSlot() && !b.HoldsSlot() {
		if err := s.checkDayHolders(next, id); err != nil {
			return fmt.Errorf("%w: UpdateStatus - %v", txmanager.ErrUniqueViolation, err)
		}
	}
	next.UpdatedAt = s.now()
	s.bookings[id] = next

	prev := b
	s.record(ctx, func() { s.bookings[id] = prev })

	return nil
}

// LockTutor no-op: в одном процессе исключение обеспечивает блокировка репетитора в движке
func (r *BookingRepository) LockTutor(ctx context.Context, tutorID int64) error {
	return nil
}

// checkDayHolders повторяет уникальные индексы PostgreSQL: в день у репетитора и у студента
// может быть только одно бронирование в статусе pending/confirmed/on_hold
func (s *Store) checkDayHolders(b *domain.Booking, exceptID int64) error {
	for id, existing := range s.bookings {
		if id == exceptID || !existing.HoldsSlot() || !domain.SameDate(existing.Date, b.Date) {
			continue
		}
		if existing.TutorID == b.TutorID {
			return fmt.Errorf("tutor id=%d already has booking id=%d on %s",
				b.TutorID, existing.ID, b.Date.Format(domain.DateFormat))
		}
		if existing.StudentID == b.StudentID {
			return fmt.Errorf("student id=%d already has booking id=%d on %s",
				b.StudentID, existing.ID, b.Date.Format(domain.DateFormat))
		}
	}
	return nil
}

func (s *Store) collect(match func(*domain.Booking) bool) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if match(b) {
			result = append(result, b.Clone())
		}
	}
	return result
}

func sortBookings(bookings []*domain.Booking, ascending bool) {
	sort.Slice(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		less := func() bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			if a.Start != b.Start {
				return a.Start.IsBefore(b.Start)
			}
			return a.ID < b.ID
		}()
		if ascending {
			return less
		}
		return !less
	})
}
