package outbox

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TutoringService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutoringService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий transactional outbox
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert записывает событие. Вызывается в той же транзакции, что и изменение бронирований
func (r *Repository) Insert(ctx context.Context, evt Event) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	traceparent, tracestate := TraceContextStrings(ctx)

	query, args, err := psqlbuilder.Insert("outbox_events").
		Columns("event_id", "aggregate_type", "aggregate_id", "event_type", "payload", "traceparent", "tracestate").
		Values(evt.EventID, evt.AggregateType, evt.AggregateID, evt.EventType, string(evt.Payload), traceparent, tracestate).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Insert - event_id=%s: %w", ErrExecQuery, evt.EventID, err)
	}

	return nil
}

// FetchUnpublished выбирает пачку неопубликованных событий с блокировкой (FOR UPDATE SKIP LOCKED)
// Несколько публикаторов не получат одно и то же событие
func (r *Repository) FetchUnpublished(ctx context.Context, limit int) ([]Record, error) {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return nil, ErrNoTransaction
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"event_id",
		"aggregate_type",
		"aggregate_id",
		"event_type",
		"payload",
		"traceparent",
		"tracestate",
		"created_at",
	).
		From("outbox_events").
		Where(squirrel.Eq{"published_at": nil}).
		OrderBy("id").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rcd Record
		if err := rows.Scan(
			&rcd.ID,
			&rcd.EventID,
			&rcd.AggregateType,
			&rcd.AggregateID,
			&rcd.EventType,
			&rcd.Payload,
			&rcd.Traceparent,
			&rcd.Tracestate,
			&rcd.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: FetchUnpublished - scan row: %w", ErrScanRow, err)
		}
		records = append(records, rcd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - rows error: %w", ErrScanRow, err)
	}

	return records, nil
}

// MarkPublished отмечает события как доставленные
func (r *Repository) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_events").
		Set("published_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPublished - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkPublished - execute update: %w", ErrExecQuery, err)
	}

	return nil
}
