package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
	"github.com/m04kA/SMC-TutoringService/pkg/txmanager"
)

var errBoom = errors.New("boom")

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

func newBooking(tutorID int64, date time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		TutorID:   tutorID,
		StudentID: 100,
		Date:      date,
		Start:     "10:00",
		End:       "11:00",
		Status:    status,
		Amount:    40,
	}
}

func studentBooking(tutorID, studentID int64, date time.Time, status domain.BookingStatus) *domain.Booking {
	b := newBooking(tutorID, date, status)
	b.StudentID = studentID
	return b
}

func TestBookingRepository_CreateRejectsSecondSlotHolder(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()

	first, err := repo.Create(ctx, newBooking(1, day(19), domain.StatusPending))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	_, err = repo.Create(ctx, newBooking(1, day(19), domain.StatusOnHold))
	assert.ErrorIs(t, err, txmanager.ErrUniqueViolation)

	// тот же студент у другого репетитора в этот день
	_, err = repo.Create(ctx, newBooking(2, day(19), domain.StatusPending))
	assert.ErrorIs(t, err, txmanager.ErrUniqueViolation)

	// другой студент у другого репетитора, другой день и отменённое бронирование не конфликтуют
	_, err = repo.Create(ctx, studentBooking(2, 101, day(19), domain.StatusPending))
	assert.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(1, day(20), domain.StatusPending))
	assert.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(1, day(19), domain.StatusRescheduleRequested))
	assert.NoError(t, err)
}

func TestBookingRepository_UpdateStatusGuardsSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()

	cancelled, err := repo.Create(ctx, newBooking(1, day(19), domain.StatusCancelled))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(1, day(19), domain.StatusConfirmed))
	require.NoError(t, err)

	err = repo.UpdateStatus(ctx, cancelled.ID, domain.StatusConfirmed)
	assert.ErrorIs(t, err, txmanager.ErrUniqueViolation)

	err = repo.UpdateStatus(ctx, 999, domain.StatusConfirmed)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestBookingRepository_UpdateStatusGuardsStudentDay(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()

	frozen, err := repo.Create(ctx, newBooking(1, day(19), domain.StatusRescheduleRequested))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(2, day(19), domain.StatusPending))
	require.NoError(t, err)

	err = repo.UpdateStatus(ctx, frozen.ID, domain.StatusConfirmed)
	assert.ErrorIs(t, err, txmanager.ErrUniqueViolation)

	err = repo.UpdateStatus(ctx, frozen.ID, domain.StatusCancelled)
	assert.NoError(t, err)
}

func TestBookingRepository_GetByStudentWithFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()

	for _, b := range []*domain.Booking{
		studentBooking(1, 100, day(5), domain.StatusConfirmed),
		studentBooking(2, 100, day(12), domain.StatusConfirmed),
		studentBooking(1, 100, day(13), domain.StatusCancelled),
		studentBooking(3, 100, day(26), domain.StatusPending),
		studentBooking(1, 101, day(12), domain.StatusPending),
	} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	yesterday := day(18)
	past, err := repo.GetByStudentWithFilter(ctx, domain.StudentBookingsFilter{
		StudentID: 100,
		EndDate:   &yesterday,
		Statuses:  []domain.BookingStatus{domain.StatusConfirmed},
		Limit:     1,
	})
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, day(12), past[0].Date)
	assert.Equal(t, int64(2), past[0].TutorID)

	total, err := repo.CountByStudentWithFilter(ctx, domain.StudentBookingsFilter{
		StudentID: 100,
		EndDate:   &yesterday,
		Statuses:  []domain.BookingStatus{domain.StatusConfirmed},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	target := day(26)
	sameDay, err := repo.CountByStudentWithFilter(ctx, domain.StudentBookingsFilter{
		StudentID: 100,
		StartDate: &target,
		EndDate:   &target,
		Statuses:  domain.LiveStatuses,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sameDay)

	live, err := repo.GetByStudentWithFilter(ctx, domain.StudentBookingsFilter{StudentID: 100, SortAscending: true})
	require.NoError(t, err)
	require.Len(t, live, 3)
	assert.Equal(t, day(5), live[0].Date)
	assert.Equal(t, day(26), live[2].Date)
}

func TestBookingRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()

	created, err := repo.Create(ctx, newBooking(1, day(19), domain.StatusPending))
	require.NoError(t, err)
	created.Status = domain.StatusCancelled

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestBookingRepository_GetByTutorWithFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()

	for _, b := range []*domain.Booking{
		newBooking(1, day(21), domain.StatusConfirmed),
		newBooking(1, day(19), domain.StatusPending),
		newBooking(1, day(20), domain.StatusCancelled),
		newBooking(1, day(22), domain.StatusOnHold),
		studentBooking(2, 101, day(19), domain.StatusPending),
	} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	live, err := repo.GetByTutorWithFilter(ctx, domain.TutorBookingsFilter{TutorID: 1})
	require.NoError(t, err)
	require.Len(t, live, 3)
	assert.Equal(t, day(22), live[0].Date)
	assert.Equal(t, day(19), live[2].Date)

	from, to := day(19), day(21)
	limited, err := repo.GetByTutorWithFilter(ctx, domain.TutorBookingsFilter{
		TutorID:         1,
		StartDate:       &from,
		EndDate:         &to,
		IncludeInactive: true,
		SortAscending:   true,
		Limit:           2,
	})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, day(19), limited[0].Date)
	assert.Equal(t, day(20), limited[1].Date)

	count, err := repo.CountByTutorWithFilter(ctx, domain.TutorBookingsFilter{
		TutorID:  1,
		Statuses: []domain.BookingStatus{domain.StatusPending, domain.StatusOnHold},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTxManager_RollbackRestoresEverything(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	bookings, templates, events := store.Bookings(), store.Availability(), store.Outbox()
	tx := NewTxManager(store)

	existing, err := bookings.Create(ctx, newBooking(1, day(19), domain.StatusPending))
	require.NoError(t, err)

	err = tx.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := bookings.Create(txCtx, newBooking(1, day(20), domain.StatusPending)); err != nil {
			return err
		}
		if err := bookings.UpdateStatus(txCtx, existing.ID, domain.StatusConfirmed); err != nil {
			return err
		}
		tpl := domain.NewAvailabilityTemplate(1)
		tpl.Days[domain.Monday] = domain.DayAvailability{Enabled: true, Start: "10:00", End: "12:00"}
		if _, err := templates.Upsert(txCtx, tpl); err != nil {
			return err
		}
		if err := events.Insert(txCtx, outbox.Event{EventID: uuid.New(), EventType: "booking_created"}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	got, err := bookings.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	all, err := bookings.GetByUserID(ctx, 100, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	tpl, err := templates.GetByTutorID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, tpl.Days[domain.Monday].Enabled)

	assert.Zero(t, events.Pending())
}

func TestTxManager_RollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	bookings := store.Bookings()
	tx := NewTxManager(store)

	assert.Panics(t, func() {
		_ = tx.Do(ctx, func(txCtx context.Context) error {
			_, _ = bookings.Create(txCtx, newBooking(1, day(19), domain.StatusPending))
			panic("unexpected")
		})
	})

	all, err := bookings.GetByUserID(ctx, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTxManager_CommitKeepsChanges(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	bookings := store.Bookings()
	tx := NewTxManager(store)

	err := tx.DoSerializable(ctx, func(txCtx context.Context) error {
		// вложенная транзакция использует внешний журнал
		return tx.Do(txCtx, func(inner context.Context) error {
			_, err := bookings.Create(inner, newBooking(1, day(19), domain.StatusPending))
			return err
		})
	})
	require.NoError(t, err)

	all, err := bookings.GetByUserID(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOutboxRepository_FetchAndMark(t *testing.T) {
	ctx := context.Background()
	events := NewStore().Outbox()

	for i := 0; i < 3; i++ {
		require.NoError(t, events.Insert(ctx, outbox.Event{EventID: uuid.New(), EventType: "booking_created", Payload: []byte(`{}`)}))
	}

	batch, err := events.FetchUnpublished(ctx, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, int64(1), batch[0].ID)

	require.NoError(t, events.MarkPublished(ctx, []int64{batch[0].ID, batch[1].ID}))
	assert.Equal(t, 1, events.Pending())

	rest, err := events.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(3), rest[0].ID)
}
