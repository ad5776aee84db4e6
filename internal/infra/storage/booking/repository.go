package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutoringService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"tutor_id",
	"student_id",
	"tutor_name",
	"student_name",
	"booking_date",
	"start_time",
	"end_time",
	"lesson_type",
	"status",
	"related_booking_id",
	"amount",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Нарушение уникального индекса (tutor_id, booking_date) для живых статусов
// возвращается с сохранением *pq.Error в цепочке, чтобы txmanager мог его классифицировать
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if !booking.Status.IsValid() {
		return nil, fmt.Errorf("%w: Create - %q", ErrInvalidStatus, booking.Status)
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tutor_id",
			"student_id",
			"tutor_name",
			"student_name",
			"booking_date",
			"start_time",
			"end_time",
			"lesson_type",
			"status",
			"related_booking_id",
			"amount",
		).
		Values(
			booking.TutorID,
			booking.StudentID,
			booking.TutorName,
			booking.StudentName,
			domain.DateOnly(booking.Date),
			booking.Start,
			booking.End,
			booking.LessonType,
			booking.Status,
			booking.RelatedBookingID,
			booking.Amount,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает бронирования, в которых пользователь участвует как студент или репетитор
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Or{
			squirrel.Eq{"student_id": userID},
			squirrel.Eq{"tutor_id": userID},
		}).
		OrderBy("booking_date DESC", "start_time DESC", "id DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByTutorWithFilter получает бронирования репетитора с фильтрацией
// Поддерживает фильтрацию по:
// - Периоду (StartDate, EndDate) - опционально
// - Статусам (Statuses) - опционально
// - Включению отменённых бронирований (IncludeInactive)
//
// Пример: живые бронирования на конкретную дату
//
//	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
//	filter := domain.TutorBookingsFilter{TutorID: 7, StartDate: &date, EndDate: &date, Statuses: domain.LiveStatuses}
func (r *Repository) GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := applyTutorFilter(psqlbuilder.Select(bookingColumns...).From("bookings"), filter)

	selectBuilder = orderAndLimit(selectBuilder, filter.IsSingleDate(), filter.SortAscending, filter.Limit)

	// Внутри транзакции на конкретную дату блокируем строки (FOR UPDATE)
	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDate() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.queryBookings(ctx, "GetByTutorWithFilter", selectBuilder)
}

// CountByTutorWithFilter считает бронирования репетитора по фильтру (Limit игнорируется)
func (r *Repository) CountByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) (int, error) {
	return r.countBookings(ctx, "CountByTutorWithFilter", applyTutorFilter(psqlbuilder.Select("COUNT(*)").From("bookings"), filter))
}

// GetByStudentWithFilter получает бронирования студента у всех репетиторов
// Используется для проверки занятости студента в день и для истории его занятий
func (r *Repository) GetByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := applyStudentFilter(psqlbuilder.Select(bookingColumns...).From("bookings"), filter)
	selectBuilder = orderAndLimit(selectBuilder, filter.IsSingleDate(), filter.SortAscending, filter.Limit)

	return r.queryBookings(ctx, "GetByStudentWithFilter", selectBuilder)
}

// CountByStudentWithFilter считает бронирования студента по фильтру (Limit игнорируется)
func (r *Repository) CountByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) (int, error) {
	return r.countBookings(ctx, "CountByStudentWithFilter", applyStudentFilter(psqlbuilder.Select("COUNT(*)").From("bookings"), filter))
}

func (r *Repository) queryBookings(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *Repository) countBookings(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %w", ErrScanRow, op, err)
	}

	return count, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if !status.IsValid() {
		return fmt.Errorf("%w: UpdateStatus - %q", ErrInvalidStatus, status)
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// LockTutor берёт транзакционную advisory-блокировку репетитора
// Исключает параллельные мутации одного репетитора с разных инстансов сервиса
func (r *Repository) LockTutor(ctx context.Context, tutorID int64) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", tutorID); err != nil {
		return fmt.Errorf("%w: LockTutor - tutor id=%d: %w", ErrExecQuery, tutorID, err)
	}

	return nil
}

func applyTutorFilter(b squirrel.SelectBuilder, filter domain.TutorBookingsFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.Eq{"tutor_id": filter.TutorID})
	return applyPeriod(b, filter.StartDate, filter.EndDate, filter.Statuses, filter.IncludeInactive)
}

func applyStudentFilter(b squirrel.SelectBuilder, filter domain.StudentBookingsFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.Eq{"student_id": filter.StudentID})
	return applyPeriod(b, filter.StartDate, filter.EndDate, filter.Statuses, filter.IncludeInactive)
}

func applyPeriod(b squirrel.SelectBuilder, start, end *time.Time, statuses []domain.BookingStatus, includeInactive bool) squirrel.SelectBuilder {
	if start != nil {
		b = b.Where(squirrel.GtOrEq{"booking_date": domain.DateOnly(*start)})
	}
	if end != nil {
		b = b.Where(squirrel.LtOrEq{"booking_date": domain.DateOnly(*end)})
	}

	if len(statuses) > 0 {
		b = b.Where(squirrel.Eq{"status": statusStrings(statuses)})
	} else if !includeInactive {
		b = b.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	return b
}

// orderAndLimit: для конкретной даты сортируем по времени начала, для периода - по дате
func orderAndLimit(b squirrel.SelectBuilder, singleDate, ascending bool, limit int) squirrel.SelectBuilder {
	switch {
	case singleDate:
		b = b.OrderBy("start_time ASC", "id ASC")
	case ascending:
		b = b.OrderBy("booking_date ASC", "start_time ASC", "id ASC")
	default:
		b = b.OrderBy("booking_date DESC", "start_time DESC", "id DESC")
	}

	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	return b
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var relatedID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TutorID,
		&booking.StudentID,
		&booking.TutorName,
		&booking.StudentName,
		&booking.Date,
		&booking.Start,
		&booking.End,
		&booking.LessonType,
		&booking.Status,
		&relatedID,
		&booking.Amount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = domain.DateOnly(booking.Date)
	if relatedID.Valid {
		id := relatedID.Int64
		booking.RelatedBookingID = &id
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
