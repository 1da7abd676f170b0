package request

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/pkg/dbmetrics"
)

func newMock(t *testing.T) (*dbmetrics.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return dbmetrics.Wrap(db, nil, "test"), mock
}

func txContext(t *testing.T, db *dbmetrics.DB, mock sqlmock.Sqlmock) context.Context {
	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	return dbmetrics.WithTx(context.Background(), tx)
}

func TestCreateDuplicateActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO training_requests")).
		WithArgs(int64(7), int64(11), domain.RequestStatusPending, domain.PartyNone, nil, nil).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_requests_active_pair"})

	_, err := repo.Create(context.Background(), domain.NewTrainingRequest(7, 11))

	require.ErrorIs(t, err, ErrDuplicateActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO training_requests")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow(int64(100), int64(1), now, now))

	created, err := repo.Create(context.Background(), domain.NewTrainingRequest(7, 11))

	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)
	assert.Equal(t, int64(1), created.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTrainingForUpdateScansState(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	ctx := txContext(t, db, mock)
	now := time.Now()

	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), int64(7), int64(11), "PENDING", "COMPANY", nil, "900.00", nil, int64(3), now, now).
		AddRow(int64(2), int64(7), int64(12), "DECLINED", "NONE", "850.00", nil, "SLOT_FILLED", int64(2), now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM training_requests WHERE training_id = $1 ORDER BY id FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	requests, err := repo.ListByTrainingForUpdate(ctx, 7)

	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.True(t, requests[0].State.IsTrainerAccepted())
	require.NotNil(t, requests[0].CompanyCounterPrice)
	assert.True(t, requests[0].CompanyCounterPrice.Equal(decimal.NewFromInt(900)))
	assert.Nil(t, requests[0].CounterPrice)

	assert.Equal(t, domain.RequestStatusDeclined, requests[1].State.Status())
	require.NotNil(t, requests[1].DeclineReason)
	assert.Equal(t, domain.DeclineReasonSlotFilled, *requests[1].DeclineReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTrainingForUpdateRequiresTransaction(t *testing.T) {
	db, _ := newMock(t)
	repo := NewRepository(db)

	_, err := repo.ListByTrainingForUpdate(context.Background(), 7)
	require.ErrorIs(t, err, ErrTransaction)
}

func TestUpdateCompareAndSwap(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	now := time.Now()

	req := domain.NewTrainingRequest(7, 11)
	req.ID = 100
	req.Version = 4
	req.State = domain.Accepted()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE training_requests SET status = $1, awaiting_confirmation_by = $2, counter_price = $3, company_counter_price = $4, decline_reason = $5, version = version + 1, updated_at = NOW() WHERE id = $6 AND version = $7 RETURNING version, updated_at")).
		WithArgs(domain.RequestStatusAccepted, domain.PartyNone, nil, nil, nil, int64(100), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(int64(5), now))

	require.NoError(t, repo.Update(context.Background(), req))
	assert.Equal(t, int64(5), req.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStaleVersion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	req := domain.NewTrainingRequest(7, 11)
	req.ID = 100
	req.Version = 4

	mock.ExpectQuery("UPDATE training_requests").
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))

	err := repo.Update(context.Background(), req)
	require.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, int64(4), req.Version)
}

func TestUpdateAcceptedIndexViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	req := domain.NewTrainingRequest(7, 11)
	req.ID = 100
	req.State = domain.Accepted()

	mock.ExpectQuery("UPDATE training_requests").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_requests_accepted_per_training"})

	require.ErrorIs(t, repo.Update(context.Background(), req), ErrAlreadyAccepted)
}

func TestDeclinePending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE training_requests SET status = $1, awaiting_confirmation_by = $2, decline_reason = $3, version = version + 1, updated_at = NOW() WHERE id IN ($4,$5) AND status = $6")).
		WithArgs(domain.RequestStatusDeclined, domain.PartyNone, domain.DeclineReasonSlotFilled, int64(2), int64(3), domain.RequestStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeclinePending(context.Background(), []int64{2, 3}, domain.DeclineReasonSlotFilled)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasProgressed(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM training_requests WHERE training_id = $1")).
		WithArgs(int64(7), domain.RequestStatusAccepted, domain.PartyCompany, domain.RequestStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	progressed, err := repo.HasProgressed(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, progressed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
