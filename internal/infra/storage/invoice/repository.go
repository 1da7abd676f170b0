package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingService/pkg/pgerrors"
	"github.com/m04kA/SMC-TrainingService/pkg/psqlbuilder"
)

const constraintNumber = "uq_invoices_number"

var columns = []string{
	"id",
	"number",
	"request_id",
	"training_id",
	"trainer_id",
	"company_id",
	"amount",
	"invoice_date",
	"created_at",
}

// Repository репозиторий счетов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateIfAbsent создает счет для заявки, если его еще нет
// ON CONFLICT (request_id) DO NOTHING делает вызов идемпотентным при конкурентных расчетах
// Возвращает созданный или уже существующий счет и признак создания
func (r *Repository) CreateIfAbsent(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoices").
		Columns(
			"number",
			"request_id",
			"training_id",
			"trainer_id",
			"company_id",
			"amount",
			"invoice_date",
		).
		Values(
			invoice.Number,
			invoice.RequestID,
			invoice.TrainingID,
			invoice.TrainerID,
			invoice.CompanyID,
			invoice.Amount,
			invoice.InvoiceDate,
		).
		Suffix("ON CONFLICT (request_id) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&invoice.ID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Счет по этой заявке уже создан другим вызовом
		existing, err := r.GetByRequestID(ctx, invoice.RequestID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if pgerrors.IsUniqueViolation(err, constraintNumber) {
		return nil, false, ErrDuplicateNumber
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfAbsent - execute insert: %w", ErrExecQuery, err)
	}

	invoice.CreatedAt = createdAt.Time
	return invoice, true, nil
}

// GetByRequestID получает счет по заявке
func (r *Repository) GetByRequestID(ctx context.Context, requestID int64) (*domain.Invoice, error) {
	return r.getOne(ctx, "GetByRequestID", squirrel.Eq{"request_id": requestID})
}

// GetByTrainingID получает счет по тренингу
func (r *Repository) GetByTrainingID(ctx context.Context, trainingID int64) (*domain.Invoice, error) {
	return r.getOne(ctx, "GetByTrainingID", squirrel.Eq{"training_id": trainingID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("invoices").
		Where(where).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var (
		invoice   domain.Invoice
		createdAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&invoice.ID,
		&invoice.Number,
		&invoice.RequestID,
		&invoice.TrainingID,
		&invoice.TrainerID,
		&invoice.CompanyID,
		&invoice.Amount,
		&invoice.InvoiceDate,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan invoice: %w", ErrScanRow, op, err)
	}

	invoice.CreatedAt = createdAt.Time
	return &invoice, nil
}
