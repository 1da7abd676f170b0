package settle_training

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TrainingService/pkg/logger"
)

type countingMetrics struct {
	created int
}

func (m *countingMetrics) IncInvoiceCreated() { m.created++ }

type fixture struct {
	uc       *UseCase
	store    *memory.Store
	metrics  *countingMetrics
	training *domain.Training
}

func newFixture(t *testing.T, status domain.TrainingStatus) *fixture {
	t.Helper()
	store := memory.New()
	training, err := store.Trainings().Create(context.Background(), &domain.Training{
		TopicID:          3,
		CompanyID:        42,
		StartDate:        time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC),
		StartTime:        "09:00",
		EndTime:          "17:00",
		ParticipantCount: 10,
		DailyRate:        decimal.NewFromInt(800),
		Status:           status,
	})
	require.NoError(t, err)

	m := &countingMetrics{}
	return &fixture{
		uc:       NewUseCase(store.Trainings(), store.Requests(), store.Invoices(), m, logger.NewNop()),
		store:    store,
		metrics:  m,
		training: training,
	}
}

// accept создает принятую заявку тренера с ценой price
func (f *fixture) accept(t *testing.T, trainerID int64, price *decimal.Decimal) *domain.TrainingRequest {
	t.Helper()
	ctx := context.Background()

	req := domain.NewTrainingRequest(f.training.ID, trainerID)
	req.CounterPrice = price
	req, err := f.store.Requests().Create(ctx, req)
	require.NoError(t, err)

	req.State = domain.Accepted()
	require.NoError(t, f.store.Requests().Update(ctx, req))
	return req
}

func TestSettleCreatesInvoiceOnce(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusCompleted)
	price := decimal.NewFromInt(850)
	req := f.accept(t, 11, &price)

	first, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID})
	require.NoError(t, err)
	require.True(t, first.Created)

	inv := first.Invoice
	assert.Regexp(t, regexp.MustCompile(`^INV-[0-9A-Z]{10}$`), inv.Number)
	assert.Equal(t, req.ID, inv.RequestID)
	assert.Equal(t, int64(11), inv.TrainerID)
	assert.Equal(t, int64(42), inv.CompanyID)
	assert.True(t, inv.Amount.Equal(price))
	assert.Equal(t, "2025-11-05", inv.InvoiceDate.Format(domain.DateFormat))

	second, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, inv.Number, second.Invoice.Number)

	assert.Equal(t, 1, f.store.Invoices().Count())
	assert.Equal(t, 1, f.metrics.created)
}

func TestSettleUsesAskingPriceWithoutCounters(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusCompleted)
	f.accept(t, 11, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID})
	require.NoError(t, err)
	assert.True(t, resp.Invoice.Amount.Equal(decimal.NewFromInt(800)))
}

func TestSettleWithoutAcceptedRequest(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusCompleted)

	resp, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID})
	require.NoError(t, err)
	assert.Nil(t, resp.Invoice)
	assert.Zero(t, f.store.Invoices().Count())
}

func TestSettleRetriesNumberCollision(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusCompleted)
	f.accept(t, 11, nil)

	// номер уже занят счетом другой заявки
	_, _, err := f.store.Invoices().CreateIfAbsent(context.Background(), &domain.Invoice{Number: "INV-0000000001", RequestID: 999})
	require.NoError(t, err)

	numbers := []string{"INV-0000000001", "INV-0000000001", "INV-0000000002"}
	f.uc.generateNumber = func() (string, error) {
		n := numbers[0]
		numbers = numbers[1:]
		return n, nil
	}

	resp, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, "INV-0000000002", resp.Invoice.Number)
	assert.Empty(t, numbers)
}

func TestSettleGivesUpOnPersistentCollision(t *testing.T) {
	f := newFixture(t, domain.TrainingStatusCompleted)
	f.accept(t, 11, nil)

	calls := 0
	f.uc.generateNumber = func() (string, error) {
		calls++
		return "INV-TAKEN00000", nil
	}
	_, _, err := f.store.Invoices().CreateIfAbsent(context.Background(), &domain.Invoice{Number: "INV-TAKEN00000", RequestID: 999})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID})
	require.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, maxNumberAttempts, calls)
}

func TestSettleRejections(t *testing.T) {
	for _, status := range []domain.TrainingStatus{
		domain.TrainingStatusDraft,
		domain.TrainingStatusPublished,
		domain.TrainingStatusInProgress,
		domain.TrainingStatusCancelled,
	} {
		t.Run(fmt.Sprintf("status %s", status), func(t *testing.T) {
			f := newFixture(t, status)
			_, err := f.uc.Execute(context.Background(), &Request{TrainingID: f.training.ID})
			require.ErrorIs(t, err, ErrNotCompleted)
			require.ErrorIs(t, err, domain.ErrInvalidState)
		})
	}

	f := newFixture(t, domain.TrainingStatusCompleted)
	_, err := f.uc.Execute(context.Background(), &Request{TrainingID: 404})
	require.ErrorIs(t, err, ErrTrainingNotFound)

	_, err = f.uc.Execute(context.Background(), &Request{})
	require.ErrorIs(t, err, ErrInvalidInput)
}
