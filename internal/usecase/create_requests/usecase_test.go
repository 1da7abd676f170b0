package create_requests

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
	requestRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/request"
	directoryClient "github.com/m04kA/SMC-TrainingService/internal/integrations/directory"
	"github.com/m04kA/SMC-TrainingService/pkg/logger"
)

const companyID = int64(42)

var company = domain.Principal{ID: companyID, Role: domain.PartyCompany}

type stubDirectory struct {
	err error
}

func (d stubDirectory) GetTrainer(_ context.Context, id int64) (*directoryClient.Trainer, error) {
	if d.err != nil {
		return nil, d.err
	}
	if id >= 900 {
		return nil, directoryClient.ErrTrainerNotFound
	}
	return &directoryClient.Trainer{ID: id, Name: "Trainer"}, nil
}

// racingRepo имитирует конкурентную вставку: первые fail вызовов Create получают ErrDuplicateActive
type racingRepo struct {
	RequestRepository
	fail int
}

func (r *racingRepo) Create(ctx context.Context, req *domain.TrainingRequest) (*domain.TrainingRequest, error) {
	if r.fail > 0 {
		r.fail--
		return nil, requestRepo.ErrDuplicateActive
	}
	return r.RequestRepository.Create(ctx, req)
}

func setup(t *testing.T, status domain.TrainingStatus) (*memory.Store, *domain.Training) {
	t.Helper()
	store := memory.New()
	training, err := store.Trainings().Create(context.Background(), &domain.Training{
		TopicID:          3,
		CompanyID:        companyID,
		StartDate:        time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		StartTime:        "09:00",
		EndTime:          "17:00",
		ParticipantCount: 8,
		DailyRate:        decimal.NewFromInt(700),
		Status:           status,
	})
	require.NoError(t, err)
	return store, training
}

func newUseCase(store *memory.Store, repo RequestRepository, dir DirectoryClient) *UseCase {
	return NewUseCase(store.Trainings(), repo, dir, store.TxManager(), logger.NewNop())
}

func TestExecuteCreatesOnePerTrainer(t *testing.T) {
	store, training := setup(t, domain.TrainingStatusPublished)
	uc := newUseCase(store, store.Requests(), stubDirectory{})

	resp, err := uc.Execute(context.Background(), &Request{
		TrainingID: training.ID,
		Principal:  company,
		TrainerIDs: []int64{11, 12, 11},
	})

	require.NoError(t, err)
	require.Len(t, resp.Created, 2)
	assert.Equal(t, []int64{11}, resp.Duplicates)
	require.NotNil(t, resp.Training)
	assert.Equal(t, training.ID, resp.Training.ID)
	for _, r := range resp.Created {
		assert.Equal(t, domain.RequestStatusPending, r.State.Status())
		assert.Equal(t, domain.PartyNone, r.State.AwaitingConfirmationBy())
		assert.Equal(t, int64(1), r.Version)
	}
}

func TestExecuteReportsActiveRequestsAsDuplicates(t *testing.T) {
	store, training := setup(t, domain.TrainingStatusDraft)
	ctx := context.Background()
	uc := newUseCase(store, store.Requests(), stubDirectory{})

	_, err := uc.Execute(ctx, &Request{TrainingID: training.ID, Principal: company, TrainerIDs: []int64{11, 12}})
	require.NoError(t, err)

	// заявка тренера 12 закрыта, значит ему можно отправить новую
	declined, err := store.Requests().FindActiveByTrainers(ctx, training.ID, []int64{12})
	require.NoError(t, err)
	_, err = store.Requests().DeclinePending(ctx, []int64{declined[0].ID}, domain.DeclineReasonByTrainer)
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{TrainingID: training.ID, Principal: company, TrainerIDs: []int64{11, 12, 13}})
	require.NoError(t, err)

	created := make([]int64, 0, len(resp.Created))
	for _, r := range resp.Created {
		created = append(created, r.TrainerID)
	}
	assert.Equal(t, []int64{12, 13}, created)
	assert.Equal(t, []int64{11}, resp.Duplicates)
}

func TestExecuteRetriesLostRace(t *testing.T) {
	store, training := setup(t, domain.TrainingStatusPublished)
	repo := &racingRepo{RequestRepository: store.Requests(), fail: 2}
	uc := newUseCase(store, repo, stubDirectory{})

	resp, err := uc.Execute(context.Background(), &Request{TrainingID: training.ID, Principal: company, TrainerIDs: []int64{11, 12}})

	require.NoError(t, err)
	assert.Len(t, resp.Created, 2)
	assert.Empty(t, resp.Duplicates)

	active, err := store.Requests().ListByTraining(context.Background(), training.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestExecuteGivesUpAfterMaxAttempts(t *testing.T) {
	store, training := setup(t, domain.TrainingStatusPublished)
	repo := &racingRepo{RequestRepository: store.Requests(), fail: maxAttempts}
	uc := newUseCase(store, repo, stubDirectory{})

	_, err := uc.Execute(context.Background(), &Request{TrainingID: training.ID, Principal: company, TrainerIDs: []int64{11}})

	require.ErrorIs(t, err, ErrConcurrentUpdate)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecuteRejections(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.TrainingStatus
		dir     stubDirectory
		req     func(trainingID int64) *Request
		wantErr error
	}{
		{
			name:    "no trainers",
			status:  domain.TrainingStatusPublished,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: company} },
			wantErr: ErrInvalidInput,
		},
		{
			name:   "too many trainers",
			status: domain.TrainingStatusPublished,
			req: func(id int64) *Request {
				ids := make([]int64, domain.MaxTrainersPerFanOut+1)
				for i := range ids {
					ids[i] = int64(i + 1)
				}
				return &Request{TrainingID: id, Principal: company, TrainerIDs: ids}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "trainer principal",
			status:  domain.TrainingStatusPublished,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: domain.Principal{ID: 11, Role: domain.PartyTrainer}, TrainerIDs: []int64{11}} },
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown training",
			status:  domain.TrainingStatusPublished,
			req:     func(int64) *Request { return &Request{TrainingID: 999, Principal: company, TrainerIDs: []int64{11}} },
			wantErr: ErrTrainingNotFound,
		},
		{
			name:    "foreign training",
			status:  domain.TrainingStatusPublished,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: domain.Principal{ID: 7, Role: domain.PartyCompany}, TrainerIDs: []int64{11}} },
			wantErr: ErrAccessDenied,
		},
		{
			name:    "cancelled training",
			status:  domain.TrainingStatusCancelled,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: company, TrainerIDs: []int64{11}} },
			wantErr: ErrTrainingClosed,
		},
		{
			name:    "unknown trainer",
			status:  domain.TrainingStatusPublished,
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: company, TrainerIDs: []int64{11, 901}} },
			wantErr: ErrTrainerNotFound,
		},
		{
			name:    "directory unavailable",
			status:  domain.TrainingStatusPublished,
			dir:     stubDirectory{err: errors.New("connection refused")},
			req:     func(id int64) *Request { return &Request{TrainingID: id, Principal: company, TrainerIDs: []int64{11}} },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, training := setup(t, tt.status)
			uc := newUseCase(store, store.Requests(), tt.dir)

			resp, err := uc.Execute(context.Background(), tt.req(training.ID))

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)

			all, err := store.Requests().ListByTraining(context.Background(), training.ID)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}
