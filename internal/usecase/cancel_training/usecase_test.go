package cancel_training

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TrainingService/pkg/logger"
)

const companyID = int64(42)

var company = domain.Principal{ID: companyID, Role: domain.PartyCompany}

type recordingNotifier struct {
	mu     sync.Mutex
	events []*domain.RequestEvent
}

func (n *recordingNotifier) Publish(_ context.Context, events []*domain.RequestEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, events...)
	return nil
}

type declineCounter struct {
	byReason map[string]int
}

func (m *declineCounter) AddSiblingsDeclined(reason string, count int) {
	if m.byReason == nil {
		m.byReason = make(map[string]int)
	}
	m.byReason[reason] += count
}

type fixture struct {
	uc       *UseCase
	store    *memory.Store
	notifier *recordingNotifier
	metrics  *declineCounter
	training *domain.Training
}

func newFixture(t *testing.T, status domain.TrainingStatus) *fixture {
	t.Helper()
	store := memory.New()
	training, err := store.Trainings().Create(context.Background(), &domain.Training{
		TopicID:          3,
		CompanyID:        companyID,
		StartDate:        time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		StartTime:        "09:00",
		EndTime:          "17:00",
		ParticipantCount: 10,
		DailyRate:        decimal.NewFromInt(800),
		Status:           status,
	})
	require.NoError(t, err)

	f := &fixture{store: store, notifier: &recordingNotifier{}, metrics: &declineCounter{}, training: training}
	f.uc = NewUseCase(store.Trainings(), store.Requests(), store.Events(), f.notifier, f.metrics, store.TxManager(), logger.NewNop())
	return f
}

// addRequest создает заявку тренера и переводит ее в state
func (f *fixture) addRequest(t *testing.T, trainerID int64, state domain.NegotiationState) *domain.TrainingRequest {
	t.Helper()
	ctx := context.Background()
	req, err := f.store.Requests().Create(ctx, domain.NewTrainingRequest(f.training.ID, trainerID))
	require.NoError(t, err)

	if state != domain.Pending(domain.PartyNone) {
		req.State = state
		require.NoError(t, f.store.Requests().Update(ctx, req))
	}
	return req
}

func (f *fixture) status(t *testing.T, id int64) (domain.RequestStatus, *domain.DeclineReason) {
	t.Helper()
	req, err := f.store.Requests().GetByID(context.Background(), id)
	require.NoError(t, err)
	return req.State.Status(), req.DeclineReason
}

func TestCancelDeclinesOpenRequests(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusPublished)
	pending := f.addRequest(t, 11, domain.Pending(domain.PartyNone))
	holder := f.addRequest(t, 12, domain.Pending(domain.PartyCompany))
	declined := f.addRequest(t, 13, domain.Declined())

	resp, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID, Principal: company})

	require.NoError(t, err)
	assert.False(t, resp.AlreadyCancelled)
	assert.Equal(t, domain.TrainingStatusCancelled, resp.Training.Status)
	assert.Equal(t, []int64{pending.ID, holder.ID}, resp.DeclinedRequests)

	for _, id := range []int64{pending.ID, holder.ID} {
		status, reason := f.status(t, id)
		assert.Equal(t, domain.RequestStatusDeclined, status)
		require.NotNil(t, reason)
		assert.Equal(t, domain.DeclineReasonTrainingCancelled, *reason)
	}

	status, _ := f.status(t, declined.ID)
	assert.Equal(t, domain.RequestStatusDeclined, status)

	assert.Len(t, f.notifier.events, 2)
	assert.Equal(t, 2, f.metrics.byReason[string(domain.DeclineReasonTrainingCancelled)])

	events, err := f.store.Events().ListByRequest(context.Background(), holder.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.PartyCompany, events[0].FromAwaiting)
}

func TestCancelKeepsAcceptedRequest(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusInProgress)
	accepted := f.addRequest(t, 11, domain.Accepted())

	resp, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID, Principal: company})

	require.NoError(t, err)
	assert.Empty(t, resp.DeclinedRequests)
	status, _ := f.status(t, accepted.ID)
	assert.Equal(t, domain.RequestStatusAccepted, status)
	assert.Empty(t, f.notifier.events)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusPublished)
	f.addRequest(t, 11, domain.Pending(domain.PartyNone))

	_, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID, Principal: company})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID, Principal: company})
	require.NoError(t, err)
	assert.True(t, resp.AlreadyCancelled)
	assert.Empty(t, resp.DeclinedRequests)
	assert.Len(t, f.notifier.events, 1)
}

func TestCancelRejections(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.TrainingStatus
		req     func(trainingID int64) *Request
		wantErr error
	}{
		{
			name:    "completed training",
			status:  domain.TrainingStatusCompleted,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: company} },
			wantErr: ErrAlreadyCompleted,
		},
		{
			name:    "foreign company",
			status:  domain.TrainingStatusPublished,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: domain.Principal{ID: 7, Role: domain.PartyCompany}} },
			wantErr: ErrAccessDenied,
		},
		{
			name:    "trainer",
			status:  domain.TrainingStatusPublished,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: domain.Principal{ID: 11, Role: domain.PartyTrainer}} },
			wantErr: domain.ErrAccessDenied,
		},
		{
			name:    "unknown training",
			status:  domain.TrainingStatusPublished,
			req:     func(int64) *Request { return &Request{TrainingID: 404, Principal: company} },
			wantErr: ErrTrainingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.status)
			pending := f.addRequest(t, 11, domain.Pending(domain.PartyNone))

			_, err := f.uc.Execute(context.Background(), tt.req(f.training.ID))
			require.ErrorIs(t, err, tt.wantErr)

			training, err := f.store.Trainings().GetByID(context.Background(), f.training.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, training.Status)

			status, _ := f.status(t, pending.ID)
			assert.Equal(t, domain.RequestStatusPending, status)
		})
	}
}
