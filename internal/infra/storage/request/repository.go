package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingService/pkg/pgerrors"
	"github.com/m04kA/SMC-TrainingService/pkg/psqlbuilder"
)

// Имена частичных уникальных индексов из миграции
const (
	constraintActivePair          = "uq_requests_active_pair"
	constraintAcceptedPerTraining = "uq_requests_accepted_per_training"
)

var columns = []string{
	"id",
	"training_id",
	"trainer_id",
	"status",
	"awaiting_confirmation_by",
	"counter_price",
	"company_counter_price",
	"decline_reason",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заявками тренерам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую заявку
// Нарушение uq_requests_active_pair (гонка двух рассылок) возвращается как ErrDuplicateActive
func (r *Repository) Create(ctx context.Context, req *domain.TrainingRequest) (*domain.TrainingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("training_requests").
		Columns(
			"training_id",
			"trainer_id",
			"status",
			"awaiting_confirmation_by",
			"counter_price",
			"company_counter_price",
		).
		Values(
			req.TrainingID,
			req.TrainerID,
			req.State.Status(),
			req.State.AwaitingConfirmationBy(),
			nullDecimal(req.CounterPrice),
			nullDecimal(req.CompanyCounterPrice),
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&req.ID,
		&req.Version,
		&createdAt,
		&updatedAt,
	)
	if pgerrors.IsUniqueViolation(err, constraintActivePair) {
		return nil, ErrDuplicateActive
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	req.CreatedAt = createdAt.Time
	req.UpdatedAt = updatedAt.Time

	return req, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TrainingRequest, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate получает заявку по ID с блокировкой строки
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.TrainingRequest, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, fmt.Errorf("%w: GetByIDForUpdate", ErrTransaction)
	}
	return r.getOne(ctx, "GetByIDForUpdate", squirrel.Eq{"id": id}, true)
}

// GetAcceptedByTraining получает принятую заявку тренинга
// Возвращает ErrRequestNotFound, если принятой заявки нет
func (r *Repository) GetAcceptedByTraining(ctx context.Context, trainingID int64) (*domain.TrainingRequest, error) {
	return r.getOne(ctx, "GetAcceptedByTraining", squirrel.Eq{
		"training_id": trainingID,
		"status":      domain.RequestStatusAccepted,
	}, false)
}

// ListByTraining получает все заявки тренинга
func (r *Repository) ListByTraining(ctx context.Context, trainingID int64) ([]*domain.TrainingRequest, error) {
	return r.list(ctx, "ListByTraining", squirrel.Eq{"training_id": trainingID}, false)
}

// ListByTrainingForUpdate получает все заявки тренинга с блокировкой строк
// Используется при распределении слота: соседние заявки не могут измениться до конца транзакции
func (r *Repository) ListByTrainingForUpdate(ctx context.Context, trainingID int64) ([]*domain.TrainingRequest, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, fmt.Errorf("%w: ListByTrainingForUpdate", ErrTransaction)
	}
	return r.list(ctx, "ListByTrainingForUpdate", squirrel.Eq{"training_id": trainingID}, true)
}

// FindActiveByTrainers получает активные (PENDING, ACCEPTED) заявки тренинга для указанных тренеров
func (r *Repository) FindActiveByTrainers(ctx context.Context, trainingID int64, trainerIDs []int64) ([]*domain.TrainingRequest, error) {
	if len(trainerIDs) == 0 {
		return nil, nil
	}

	return r.list(ctx, "FindActiveByTrainers", squirrel.Eq{
		"training_id": trainingID,
		"trainer_id":  trainerIDs,
		"status":      []string{string(domain.RequestStatusPending), string(domain.RequestStatusAccepted)},
	}, false)
}

// HasProgressed проверяет, продвинулись ли переговоры по тренингу настолько,
// что цену больше менять нельзя: есть принятая заявка или тренер принял встречное предложение
func (r *Repository) HasProgressed(ctx context.Context, trainingID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("training_requests").
		Where(squirrel.Eq{"training_id": trainingID}).
		Where(squirrel.Or{
			squirrel.Eq{"status": domain.RequestStatusAccepted},
			squirrel.Eq{
				"status":                   domain.RequestStatusPending,
				"awaiting_confirmation_by": domain.PartyCompany,
			},
		}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasProgressed - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasProgressed - scan: %w", ErrScanRow, err)
	}

	return exists, nil
}

// Update сохраняет состояние заявки с проверкой версии (compare-and-swap)
// При успехе увеличивает req.Version
// Если версия изменилась, возвращает ErrVersionConflict
// Если нарушен uq_requests_accepted_per_training, возвращает ErrAlreadyAccepted
func (r *Repository) Update(ctx context.Context, req *domain.TrainingRequest) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var reason interface{}
	if req.DeclineReason != nil {
		reason = string(*req.DeclineReason)
	}

	query, args, err := psqlbuilder.Update("training_requests").
		Set("status", req.State.Status()).
		Set("awaiting_confirmation_by", req.State.AwaitingConfirmationBy()).
		Set("counter_price", nullDecimal(req.CounterPrice)).
		Set("company_counter_price", nullDecimal(req.CompanyCounterPrice)).
		Set("decline_reason", reason).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID, "version": req.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&req.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: request id=%d version=%d", ErrVersionConflict, req.ID, req.Version)
	}
	if pgerrors.IsUniqueViolation(err, constraintAcceptedPerTraining) {
		return ErrAlreadyAccepted
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	req.UpdatedAt = updatedAt.Time
	return nil
}

// DeclinePending переводит указанные PENDING заявки в DECLINED с причиной
// Возвращает количество обновленных строк
func (r *Repository) DeclinePending(ctx context.Context, ids []int64, reason domain.DeclineReason) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("training_requests").
		Set("status", domain.RequestStatusDeclined).
		Set("awaiting_confirmation_by", domain.PartyNone).
		Set("decline_reason", reason).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids, "status": domain.RequestStatusPending}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeclinePending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeclinePending - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeclinePending - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq, forUpdate bool) (*domain.TrainingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("training_requests").
		Where(where)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan request: %w", ErrScanRow, op, err)
	}

	return req, nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Eq, forUpdate bool) ([]*domain.TrainingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("training_requests").
		Where(where).
		OrderBy("id")
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	var requests []*domain.TrainingRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan request: %w", ErrScanRow, op, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %w", ErrScanRow, op, err)
	}

	return requests, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.TrainingRequest, error) {
	var (
		req                  domain.TrainingRequest
		status, awaiting     string
		counter, company     decimal.NullDecimal
		reason               sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&req.ID,
		&req.TrainingID,
		&req.TrainerID,
		&status,
		&awaiting,
		&counter,
		&company,
		&reason,
		&req.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	state, err := domain.StateFromStorage(status, awaiting)
	if err != nil {
		return nil, err
	}
	req.State = state

	if counter.Valid {
		req.CounterPrice = &counter.Decimal
	}
	if company.Valid {
		req.CompanyCounterPrice = &company.Decimal
	}
	if reason.Valid {
		dr := domain.DeclineReason(reason.String)
		req.DeclineReason = &dr
	}
	req.CreatedAt = createdAt.Time
	req.UpdatedAt = updatedAt.Time

	return &req, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
