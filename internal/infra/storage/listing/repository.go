package listing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TrainingService/pkg/types"
)

// Repository read-модель списка заявок (заявка + тренинг одним запросом)
type Repository struct {
	db *sqlx.DB
}

// NewRepository создает новый экземпляр read-модели
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// row строка выборки, поля сопоставляются по db тегам
type row struct {
	RequestID           int64               `db:"request_id"`
	TrainingID          int64               `db:"training_id"`
	TrainerID           int64               `db:"trainer_id"`
	Status              string              `db:"status"`
	Awaiting            string              `db:"awaiting_confirmation_by"`
	CounterPrice        decimal.NullDecimal `db:"counter_price"`
	CompanyCounterPrice decimal.NullDecimal `db:"company_counter_price"`
	DeclineReason       sql.NullString      `db:"decline_reason"`
	Version             int64               `db:"version"`
	CreatedAt           time.Time           `db:"created_at"`
	UpdatedAt           time.Time           `db:"updated_at"`

	TopicID          int64            `db:"topic_id"`
	CompanyID        int64            `db:"company_id"`
	StartDate        time.Time        `db:"start_date"`
	EndDate          time.Time        `db:"end_date"`
	StartTime        types.TimeString `db:"start_time"`
	EndTime          types.TimeString `db:"end_time"`
	Location         string           `db:"location"`
	ParticipantCount int              `db:"participant_count"`
	DailyRate        decimal.Decimal  `db:"daily_rate"`
	TrainingStatus   string           `db:"training_status"`
}

// List получает заявки с тренингами по фильтру
// Сортировка: ближайшие тренинги первыми, внутри тренинга по ID заявки
func (r *Repository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.RequestView, error) {
	builder := psqlbuilder.Select(
		"r.id AS request_id",
		"r.training_id",
		"r.trainer_id",
		"r.status",
		"r.awaiting_confirmation_by",
		"r.counter_price",
		"r.company_counter_price",
		"r.decline_reason",
		"r.version",
		"r.created_at",
		"r.updated_at",
		"t.topic_id",
		"t.company_id",
		"t.start_date",
		"t.end_date",
		"t.start_time",
		"t.end_time",
		"t.location",
		"t.participant_count",
		"t.daily_rate",
		"t.status AS training_status",
	).
		From("training_requests r").
		Join("trainings t ON t.id = r.training_id").
		OrderBy("t.start_date", "r.id")

	if filter.TrainerID != nil {
		builder = builder.Where(squirrel.Eq{"r.trainer_id": *filter.TrainerID})
	}
	if filter.CompanyID != nil {
		builder = builder.Where(squirrel.Eq{"t.company_id": *filter.CompanyID})
	}
	if filter.TrainingID != nil {
		builder = builder.Where(squirrel.Eq{"r.training_id": *filter.TrainingID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"r.status": *filter.Status})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: List - select: %w", ErrExecQuery, err)
	}

	views := make([]*domain.RequestView, 0, len(rows))
	for _, rw := range rows {
		view, err := rw.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: request id=%d: %v", ErrInvalidRow, rw.RequestID, err)
		}
		views = append(views, view)
	}

	return views, nil
}

func (rw row) toDomain() (*domain.RequestView, error) {
	state, err := domain.StateFromStorage(rw.Status, rw.Awaiting)
	if err != nil {
		return nil, err
	}

	req := domain.TrainingRequest{
		ID:         rw.RequestID,
		TrainingID: rw.TrainingID,
		TrainerID:  rw.TrainerID,
		State:      state,
		Version:    rw.Version,
		CreatedAt:  rw.CreatedAt,
		UpdatedAt:  rw.UpdatedAt,
	}
	if rw.CounterPrice.Valid {
		p := rw.CounterPrice.Decimal
		req.CounterPrice = &p
	}
	if rw.CompanyCounterPrice.Valid {
		p := rw.CompanyCounterPrice.Decimal
		req.CompanyCounterPrice = &p
	}
	if rw.DeclineReason.Valid {
		reason := domain.DeclineReason(rw.DeclineReason.String)
		req.DeclineReason = &reason
	}

	return &domain.RequestView{
		Request: req,
		Training: domain.Training{
			ID:               rw.TrainingID,
			TopicID:          rw.TopicID,
			CompanyID:        rw.CompanyID,
			StartDate:        rw.StartDate,
			EndDate:          rw.EndDate,
			StartTime:        rw.StartTime,
			EndTime:          rw.EndTime,
			Location:         rw.Location,
			ParticipantCount: rw.ParticipantCount,
			DailyRate:        rw.DailyRate,
			Status:           domain.TrainingStatus(rw.TrainingStatus),
		},
	}, nil
}
