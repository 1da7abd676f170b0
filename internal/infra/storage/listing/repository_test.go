package listing

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

var listColumns = []string{
	"request_id", "training_id", "trainer_id", "status", "awaiting_confirmation_by",
	"counter_price", "company_counter_price", "decline_reason", "version", "created_at", "updated_at",
	"topic_id", "company_id", "start_date", "end_date", "start_time", "end_time",
	"location", "participant_count", "daily_rate", "training_status",
}

func newListingMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestListByTrainerDerivesCompletedAndPrice(t *testing.T) {
	db, mock, cleanup := newListingMock(t)
	defer cleanup()
	repo := NewRepository(db)

	now := time.Now()
	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(listColumns).
		AddRow(int64(1), int64(7), int64(11), "ACCEPTED", "NONE", "850.00", nil, nil, int64(3), now, now,
			int64(3), int64(42), start, start, "09:00:00", "17:00:00", "Berlin", 10, "800.00", "COMPLETED").
		AddRow(int64(2), int64(8), int64(11), "PENDING", "TRAINER", nil, "950.00", nil, int64(2), now, now,
			int64(3), int64(42), start, start, "09:00:00", "17:00:00", "Berlin", 10, "1000.00", "PUBLISHED")

	mock.ExpectQuery(regexp.QuoteMeta("FROM training_requests r JOIN trainings t ON t.id = r.training_id WHERE r.trainer_id = $1 ORDER BY t.start_date, r.id LIMIT 20")).
		WithArgs(int64(11)).
		WillReturnRows(rows)

	trainerID := int64(11)
	views, err := repo.List(context.Background(), domain.RequestFilter{TrainerID: &trainerID, Limit: 20})

	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.True(t, views[0].Completed())
	assert.True(t, views[0].FinalPrice().Equal(decimal.NewFromInt(850)))

	assert.False(t, views[1].Completed())
	assert.Equal(t, domain.PartyTrainer, views[1].Request.State.AwaitingConfirmationBy())
	assert.True(t, views[1].FinalPrice().Equal(decimal.NewFromInt(950)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRejectsCorruptState(t *testing.T) {
	db, mock, cleanup := newListingMock(t)
	defer cleanup()
	repo := NewRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM training_requests r").
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow(int64(1), int64(7), int64(11), "DECLINED", "COMPANY", nil, nil, nil, int64(3), now, now,
				int64(3), int64(42), now, now, "09:00", "17:00", "", 10, "800", "PUBLISHED"))

	_, err := repo.List(context.Background(), domain.RequestFilter{})
	require.ErrorIs(t, err, ErrInvalidRow)
}
