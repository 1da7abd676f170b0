package event

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/pkg/dbmetrics"
)

func TestAppendWritesAllEventsInOneStatement(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(dbmetrics.Wrap(db, nil, "test"))

	reason := domain.DeclineReasonSlotFilled
	p := decimal.NewFromInt(850)
	now := time.Now()
	events := []*domain.RequestEvent{
		{ID: uuid.New(), RequestID: 1, TrainingID: 7, Actor: domain.PartyCompany, Action: domain.ActionAccept,
			FromStatus: domain.RequestStatusPending, ToStatus: domain.RequestStatusAccepted,
			FromAwaiting: domain.PartyNone, ToAwaiting: domain.PartyNone, Price: &p, CreatedAt: now},
		{ID: uuid.New(), RequestID: 2, TrainingID: 7, Actor: domain.PartySystem, Action: domain.ActionDecline,
			FromStatus: domain.RequestStatusPending, ToStatus: domain.RequestStatusDeclined,
			FromAwaiting: domain.PartyNone, ToAwaiting: domain.PartyNone, Reason: &reason, CreatedAt: now},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO request_events")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Append(context.Background(), events))
	require.NoError(t, repo.Append(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByRequest(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(dbmetrics.Wrap(db, nil, "test"))

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM request_events WHERE request_id = $1 ORDER BY created_at, id")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), int64(1), int64(7), int64(11), int64(42), "TRAINER", "COUNTER",
				"PENDING", "PENDING", "NONE", "NONE", "850.00", nil, now))

	events, err := repo.ListByRequest(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, domain.ActionCounter, events[0].Action)
	require.NotNil(t, events[0].Price)
	assert.True(t, events[0].Price.Equal(decimal.NewFromInt(850)))
	assert.Nil(t, events[0].Reason)
}
