package complete_training

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TrainingService/internal/usecase/settle_training"
	"github.com/m04kA/SMC-TrainingService/pkg/logger"
)

const companyID = int64(42)

var company = domain.Principal{ID: companyID, Role: domain.PartyCompany}

type fakeQueue struct {
	enqueued []int64
	err      error
}

func (q *fakeQueue) EnqueueSettlement(_ context.Context, trainingID int64) error {
	q.enqueued = append(q.enqueued, trainingID)
	return q.err
}

type retryCounter struct {
	retries  int
	declined map[string]int
}

func (m *retryCounter) IncSettlementRetry() { m.retries++ }
func (m *retryCounter) IncInvoiceCreated()  {}
func (m *retryCounter) AddSiblingsDeclined(reason string, count int) {
	if m.declined == nil {
		m.declined = make(map[string]int)
	}
	m.declined[reason] += count
}

type recordingNotifier struct {
	events []*domain.RequestEvent
}

func (n *recordingNotifier) Publish(_ context.Context, events []*domain.RequestEvent) error {
	n.events = append(n.events, events...)
	return nil
}

type failingSettler struct {
	err error
}

func (s failingSettler) Execute(context.Context, *settle_training.Request) (*settle_training.Response, error) {
	return nil, s.err
}

type fixture struct {
	store    *memory.Store
	notifier *recordingNotifier
	queue    *fakeQueue
	metrics  *retryCounter
	training *domain.Training
}

func newFixture(t *testing.T, status domain.TrainingStatus) *fixture {
	t.Helper()
	store := memory.New()
	training, err := store.Trainings().Create(context.Background(), &domain.Training{
		TopicID:          3,
		CompanyID:        companyID,
		StartDate:        time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC),
		StartTime:        "09:00",
		EndTime:          "17:00",
		ParticipantCount: 10,
		DailyRate:        decimal.NewFromInt(800),
		Status:           status,
	})
	require.NoError(t, err)

	return &fixture{store: store, notifier: &recordingNotifier{}, queue: &fakeQueue{}, metrics: &retryCounter{}, training: training}
}

func (f *fixture) useCase(settler Settler) *UseCase {
	if settler == nil {
		settler = settle_training.NewUseCase(f.store.Trainings(), f.store.Requests(), f.store.Invoices(), f.metrics, logger.NewNop())
	}
	return NewUseCase(f.store.Trainings(), f.store.Requests(), f.store.Events(), f.notifier,
		settler, f.queue, f.metrics, f.store.TxManager(), logger.NewNop())
}

func (f *fixture) acceptTrainer(t *testing.T, trainerID int64) *domain.TrainingRequest {
	t.Helper()
	ctx := context.Background()
	req, err := f.store.Requests().Create(ctx, domain.NewTrainingRequest(f.training.ID, trainerID))
	require.NoError(t, err)
	req.State = domain.Accepted()
	require.NoError(t, f.store.Requests().Update(ctx, req))
	return req
}

func TestCompleteSettlesAcceptedRequest(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusInProgress)
	accepted := f.acceptTrainer(t, 11)
	uc := f.useCase(nil)

	resp, err := uc.Execute(context.Background(), &Request{TrainingID: f.training.ID, Principal: company})

	require.NoError(t, err)
	assert.Equal(t, domain.TrainingStatusCompleted, resp.Training.Status)
	assert.False(t, resp.SettlementDeferred)
	require.NotNil(t, resp.Invoice)
	assert.Equal(t, accepted.ID, resp.Invoice.RequestID)
	assert.True(t, resp.Invoice.Amount.Equal(decimal.NewFromInt(800)))

	// повторное завершение возвращает тот же счет
	again, err := uc.Execute(context.Background(), &Request{TrainingID: f.training.ID, Principal: company})
	require.NoError(t, err)
	assert.Equal(t, resp.Invoice.Number, again.Invoice.Number)
	assert.Equal(t, 1, f.store.Invoices().Count())
	assert.Empty(t, f.queue.enqueued)
}

func TestCompleteDeclinesOpenNegotiations(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusInProgress)
	ctx := context.Background()
	accepted := f.acceptTrainer(t, 11)

	pending, err := f.store.Requests().Create(ctx, domain.NewTrainingRequest(f.training.ID, 12))
	require.NoError(t, err)
	withdrawn, err := f.store.Requests().Create(ctx, domain.NewTrainingRequest(f.training.ID, 13))
	require.NoError(t, err)
	withdrawn.State = domain.Withdrawn()
	require.NoError(t, f.store.Requests().Update(ctx, withdrawn))

	resp, err := f.useCase(nil).Execute(ctx, &Request{TrainingID: f.training.ID, Principal: company})

	require.NoError(t, err)
	assert.Equal(t, []int64{pending.ID}, resp.DeclinedRequests)
	require.NotNil(t, resp.Invoice)
	assert.Equal(t, accepted.ID, resp.Invoice.RequestID)

	got, err := f.store.Requests().GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusDeclined, got.State.Status())
	require.NotNil(t, got.DeclineReason)
	assert.Equal(t, domain.DeclineReasonTrainingCompleted, *got.DeclineReason)

	got, err = f.store.Requests().GetByID(ctx, accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusAccepted, got.State.Status())

	events, err := f.store.Events().ListByRequest(ctx, pending.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.PartySystem, events[0].Actor)
	assert.Len(t, f.notifier.events, 1)
	assert.Equal(t, 1, f.metrics.declined[string(domain.DeclineReasonTrainingCompleted)])

	// повторное завершение ничего не отклоняет
	again, err := f.useCase(nil).Execute(ctx, &Request{TrainingID: f.training.ID, Principal: company})
	require.NoError(t, err)
	assert.Empty(t, again.DeclinedRequests)
	assert.Len(t, f.notifier.events, 1)
}

func TestCompleteWithoutAcceptedRequest(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusPublished)

	resp, err := f.useCase(nil).Execute(context.Background(), &Request{TrainingID: f.training.ID, Principal: company})

	require.NoError(t, err)
	assert.Equal(t, domain.TrainingStatusCompleted, resp.Training.Status)
	assert.Nil(t, resp.Invoice)
	assert.Zero(t, f.store.Invoices().Count())
}

func TestCompleteDefersFailedSettlement(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusInProgress)
	f.acceptTrainer(t, 11)
	f.queue.err = errors.New("redis down")
	uc := f.useCase(failingSettler{err: settle_training.ErrInternal})

	resp, err := uc.Execute(context.Background(), &Request{TrainingID: f.training.ID, Principal: company})

	require.NoError(t, err)
	assert.True(t, resp.SettlementDeferred)
	assert.Nil(t, resp.Invoice)
	assert.Equal(t, []int64{f.training.ID}, f.queue.enqueued)
	assert.Equal(t, 1, f.metrics.retries)

	// завершение не откатывается
	training, err := f.store.Trainings().GetByID(context.Background(), f.training.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrainingStatusCompleted, training.Status)
}

func TestCompleteRejections(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.TrainingStatus
		req     func(trainingID int64) *Request
		wantErr error
	}{
		{
			name:    "draft training",
			status:  domain.TrainingStatusDraft,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: company} },
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "cancelled training",
			status:  domain.TrainingStatusCancelled,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: company} },
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "foreign company",
			status:  domain.TrainingStatusInProgress,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: domain.Principal{ID: 7, Role: domain.PartyCompany}} },
			wantErr: ErrAccessDenied,
		},
		{
			name:    "trainer",
			status:  domain.TrainingStatusInProgress,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: domain.Principal{ID: 11, Role: domain.PartyTrainer}} },
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown training",
			status:  domain.TrainingStatusInProgress,
			req:     func(int64) *Request { return &Request{TrainingID: 404, Principal: company} },
			wantErr: ErrTrainingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.status)

			_, err := f.useCase(nil).Execute(context.Background(), tt.req(f.training.ID))
			require.ErrorIs(t, err, tt.wantErr)

			training, err := f.store.Trainings().GetByID(context.Background(), f.training.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, training.Status)
			assert.Empty(t, f.queue.enqueued)
		})
	}
}
