package settle_training

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	invoiceRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/invoice"
	requestRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/request"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
)

// maxNumberAttempts число попыток подобрать свободный номер счета
const maxNumberAttempts = 3

// UseCase use case выставления счета по завершенному тренингу
type UseCase struct {
	trainingRepo   TrainingRepository
	requestRepo    RequestRepository
	invoiceRepo    InvoiceRepository
	metrics        Metrics
	generateNumber func() (string, error)
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	trainingRepo TrainingRepository,
	requestRepo RequestRepository,
	invoiceRepo InvoiceRepository,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		trainingRepo:   trainingRepo,
		requestRepo:    requestRepo,
		invoiceRepo:    invoiceRepo,
		metrics:        metrics,
		generateNumber: newInvoiceNumber,
		logger:         logger,
	}
}

func newInvoiceNumber() (string, error) {
	id, err := gonanoid.Generate(domain.InvoiceNumberAlphabet, domain.InvoiceNumberLength)
	if err != nil {
		return "", err
	}
	return domain.InvoiceNumberPrefix + id, nil
}

// Execute выставляет счет по принятой заявке завершенного тренинга
// Повторный вызов возвращает уже выставленный счет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SettleTraining: training=%d", req.TrainingID)

	// 1. Валидация входных данных
	if req.TrainingID <= 0 {
		return nil, fmt.Errorf("%w: training id is required", ErrInvalidInput)
	}

	// 2. Тренинг должен быть завершен
	training, err := uc.trainingRepo.GetByID(ctx, req.TrainingID)
	if err != nil {
		if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
			uc.logger.Warn("SettleTraining: training id=%d not found", req.TrainingID)
			return nil, ErrTrainingNotFound
		}
		uc.logger.Error("SettleTraining: failed to get training id=%d: %v", req.TrainingID, err)
		return nil, fmt.Errorf("%w: failed to get training: %v", ErrInternal, err)
	}
	if training.Status != domain.TrainingStatusCompleted {
		uc.logger.Warn("SettleTraining: training id=%d is %s", training.ID, training.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotCompleted, training.Status)
	}

	// 3. Принятая заявка; без нее выставлять нечего
	accepted, err := uc.requestRepo.GetAcceptedByTraining(ctx, training.ID)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			uc.logger.Info("SettleTraining: training id=%d has no accepted request, nothing to settle", training.ID)
			return &Response{}, nil
		}
		uc.logger.Error("SettleTraining: failed to get accepted request of training id=%d: %v", training.ID, err)
		return nil, fmt.Errorf("%w: failed to get accepted request: %v", ErrInternal, err)
	}

	// 4. Создаем счет; уникальность по заявке гарантирует хранилище
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := uc.generateNumber()
		if err != nil {
			uc.logger.Error("SettleTraining: failed to generate invoice number: %v", err)
			return nil, fmt.Errorf("%w: failed to generate invoice number: %v", ErrInternal, err)
		}

		invoice, created, err := uc.invoiceRepo.CreateIfAbsent(ctx, domain.NewInvoice(number, training, accepted))
		if errors.Is(err, invoiceRepo.ErrDuplicateNumber) {
			uc.logger.Warn("SettleTraining: invoice number %s is taken, attempt %d", number, attempt)
			continue
		}
		if err != nil {
			uc.logger.Error("SettleTraining: failed to create invoice for request id=%d: %v", accepted.ID, err)
			return nil, fmt.Errorf("%w: failed to create invoice: %v", ErrInternal, err)
		}

		if created {
			uc.metrics.IncInvoiceCreated()
			uc.logger.Info("SettleTraining: invoice %s created for request id=%d, amount=%s",
				invoice.Number, accepted.ID, invoice.Amount.StringFixed(2))
		} else {
			uc.logger.Info("SettleTraining: invoice %s already exists for request id=%d", invoice.Number, accepted.ID)
		}

		return &Response{Invoice: invoice, Created: created}, nil
	}

	uc.logger.Error("SettleTraining: no free invoice number after %d attempts", maxNumberAttempts)
	return nil, fmt.Errorf("%w: no free invoice number after %d attempts", ErrInternal, maxNumberAttempts)
}
