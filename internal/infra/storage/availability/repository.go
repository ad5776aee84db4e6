package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutoringService/pkg/psqlbuilder"
)

const upsertSuffix = `ON CONFLICT (tutor_id, weekday) DO UPDATE SET
	enabled = EXCLUDED.enabled,
	start_time = EXCLUDED.start_time,
	end_time = EXCLUDED.end_time,
	updated_at = NOW()`

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий шаблонов доступности репетиторов (строка на день недели)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTutorID возвращает шаблон репетитора
// Если строк нет, возвращается шаблон со всеми выключенными днями
func (r *Repository) GetByTutorID(ctx context.Context, tutorID int64) (*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "enabled", "start_time", "end_time", "updated_at").
		From("tutor_availability").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	template := domain.NewAvailabilityTemplate(tutorID)
	for rows.Next() {
		var (
			weekday   string
			day       domain.DayAvailability
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&weekday, &day.Enabled, &day.Start, &day.End, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetByTutorID - scan row: %w", ErrScanRow, err)
		}

		w, err := domain.ParseWeekday(weekday)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByTutorID - %v", ErrInvalidWeekday, err)
		}
		template.Days[w] = day

		if updatedAt.Valid && updatedAt.Time.After(template.UpdatedAt) {
			template.UpdatedAt = updatedAt.Time
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByTutorID - rows error: %w", ErrScanRow, err)
	}

	return template, nil
}

// Upsert сохраняет все дни шаблона одним запросом
func (r *Repository) Upsert(ctx context.Context, template *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildUpsert(template)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	template.UpdatedAt = time.Now()
	return template, nil
}

func buildUpsert(template *domain.AvailabilityTemplate) (string, []interface{}, error) {
	insert := psqlbuilder.Insert("tutor_availability").
		Columns("tutor_id", "weekday", "enabled", "start_time", "end_time")

	// фиксированный порядок дней, чтобы запрос был детерминированным
	for _, w := range domain.Weekdays {
		day := template.Days[w]
		insert = insert.Values(template.TutorID, string(w), day.Enabled, day.Start, day.End)
	}

	return insert.Suffix(upsertSuffix).ToSql()
}
