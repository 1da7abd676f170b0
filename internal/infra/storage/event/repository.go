package event

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"request_id",
	"training_id",
	"trainer_id",
	"company_id",
	"actor",
	"action",
	"from_status",
	"to_status",
	"from_awaiting",
	"to_awaiting",
	"price",
	"reason",
	"created_at",
}

// Repository журнал переходов по заявкам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append записывает события одним INSERT
func (r *Repository) Append(ctx context.Context, events []*domain.RequestEvent) error {
	if len(events) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("request_events").Columns(columns...)
	for _, e := range events {
		var price decimal.NullDecimal
		if e.Price != nil {
			price = decimal.NullDecimal{Decimal: *e.Price, Valid: true}
		}
		var reason sql.NullString
		if e.Reason != nil {
			reason = sql.NullString{String: string(*e.Reason), Valid: true}
		}

		builder = builder.Values(
			e.ID,
			e.RequestID,
			e.TrainingID,
			e.TrainerID,
			e.CompanyID,
			e.Actor,
			e.Action,
			e.FromStatus,
			e.ToStatus,
			e.FromAwaiting,
			e.ToAwaiting,
			price,
			reason,
			e.CreatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListByRequest получает историю переходов заявки в хронологическом порядке
func (r *Repository) ListByRequest(ctx context.Context, requestID int64) ([]*domain.RequestEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("request_events").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequest - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequest - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	var events []*domain.RequestEvent
	for rows.Next() {
		var (
			e                        domain.RequestEvent
			actor, action            string
			fromStatus, toStatus     string
			fromAwaiting, toAwaiting string
			price                    decimal.NullDecimal
			reason                   sql.NullString
		)

		err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&e.TrainingID,
			&e.TrainerID,
			&e.CompanyID,
			&actor,
			&action,
			&fromStatus,
			&toStatus,
			&fromAwaiting,
			&toAwaiting,
			&price,
			&reason,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByRequest - scan event: %w", ErrScanRow, err)
		}

		e.Actor = domain.Party(actor)
		e.Action = domain.Action(action)
		e.FromStatus = domain.RequestStatus(fromStatus)
		e.ToStatus = domain.RequestStatus(toStatus)
		e.FromAwaiting = domain.Party(fromAwaiting)
		e.ToAwaiting = domain.Party(toAwaiting)
		if price.Valid {
			e.Price = &price.Decimal
		}
		if reason.Valid {
			dr := domain.DeclineReason(reason.String)
			e.Reason = &dr
		}

		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByRequest - rows iteration: %w", ErrScanRow, err)
	}

	return events, nil
}
