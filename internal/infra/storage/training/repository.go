package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"topic_id",
	"company_id",
	"start_date",
	"end_date",
	"start_time",
	"end_time",
	"location",
	"participant_count",
	"daily_rate",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с тренингами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тренингов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый тренинг
func (r *Repository) Create(ctx context.Context, training *domain.Training) (*domain.Training, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("trainings").
		Columns(
			"topic_id",
			"company_id",
			"start_date",
			"end_date",
			"start_time",
			"end_time",
			"location",
			"participant_count",
			"daily_rate",
			"status",
		).
		Values(
			training.TopicID,
			training.CompanyID,
			training.StartDate,
			training.EndDate,
			training.StartTime,
			training.EndTime,
			training.Location,
			training.ParticipantCount,
			training.DailyRate,
			training.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&training.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	training.CreatedAt = createdAt.Time
	training.UpdatedAt = updatedAt.Time

	return training, nil
}

// GetByID получает тренинг по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Training, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate получает тренинг по ID и блокирует строку до конца транзакции
// Все переходы заявок одного тренинга сериализуются на этой блокировке
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Training, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, fmt.Errorf("%w: GetByIDForUpdate", ErrTransaction)
	}
	return r.get(ctx, id, true)
}

func (r *Repository) get(ctx context.Context, id int64, forUpdate bool) (*domain.Training, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("trainings").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	training, err := scanTraining(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan training: %w", ErrScanRow, err)
	}

	return training, nil
}

// UpdateDailyRate обновляет запрашиваемую цену тренинга
func (r *Repository) UpdateDailyRate(ctx context.Context, id int64, rate decimal.Decimal) error {
	return r.update(ctx, "UpdateDailyRate", id, "daily_rate", rate)
}

// UpdateStatus обновляет статус тренинга
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.TrainingStatus) error {
	return r.update(ctx, "UpdateStatus", id, "status", status)
}

func (r *Repository) update(ctx context.Context, op string, id int64, column string, value interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("trainings").
		Set(column, value).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrTrainingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTraining(row rowScanner) (*domain.Training, error) {
	var (
		training             domain.Training
		status               string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&training.ID,
		&training.TopicID,
		&training.CompanyID,
		&training.StartDate,
		&training.EndDate,
		&training.StartTime,
		&training.EndTime,
		&training.Location,
		&training.ParticipantCount,
		&training.DailyRate,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	training.Status = domain.TrainingStatus(status)
	training.CreatedAt = createdAt.Time
	training.UpdatedAt = updatedAt.Time

	return &training, nil
}
