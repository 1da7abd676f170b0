package create_requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	requestRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/request"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
	directoryClient "github.com/m04kA/SMC-TrainingService/internal/integrations/directory"
	"github.com/m04kA/SMC-TrainingService/pkg/txmanager"
)

// maxAttempts число попыток транзакции при гонке за пару (тренинг, тренер)
const maxAttempts = 3

// UseCase use case рассылки тренинга тренерам
type UseCase struct {
	trainingRepo    TrainingRepository
	requestRepo     RequestRepository
	directoryClient DirectoryClient
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	trainingRepo TrainingRepository,
	requestRepo RequestRepository,
	directoryClient DirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		trainingRepo:    trainingRepo,
		requestRepo:     requestRepo,
		directoryClient: directoryClient,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute создает по одной PENDING заявке на каждого тренера
// Тренеры с активной заявкой по этому тренингу попадают в Duplicates, а не в ошибку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRequests: training=%d, company=%d, trainers=%v", req.TrainingID, req.Principal.ID, req.TrainerIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateRequests: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем тренинг и права компании
	training, err := uc.trainingRepo.GetByID(ctx, req.TrainingID)
	if err != nil {
		if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
			uc.logger.Warn("CreateRequests: training id=%d not found", req.TrainingID)
			return nil, ErrTrainingNotFound
		}
		uc.logger.Error("CreateRequests: failed to get training id=%d: %v", req.TrainingID, err)
		return nil, fmt.Errorf("%w: failed to get training: %v", ErrInternal, err)
	}
	if !req.Principal.OwnsTraining(training) {
		uc.logger.Warn("CreateRequests: company=%d does not own training id=%d", req.Principal.ID, training.ID)
		return nil, ErrAccessDenied
	}
	if !training.AcceptsRequests() {
		uc.logger.Warn("CreateRequests: training id=%d is %s", training.ID, training.Status)
		return nil, fmt.Errorf("%w: status %s", ErrTrainingClosed, training.Status)
	}

	// 3. Повторы внутри запроса сразу считаем дубликатами
	trainerIDs, repeated := splitDuplicates(req.TrainerIDs)

	// 4. Проверяем тренеров в справочнике до открытия транзакции
	for _, id := range trainerIDs {
		if _, err := uc.directoryClient.GetTrainer(ctx, id); err != nil {
			if errors.Is(err, directoryClient.ErrTrainerNotFound) {
				uc.logger.Warn("CreateRequests: trainer id=%d not found", id)
				return nil, fmt.Errorf("%w: id=%d", ErrTrainerNotFound, id)
			}
			uc.logger.Error("CreateRequests: failed to get trainer id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get trainer: %v", ErrInternal, err)
		}
	}

	// 5. Создаем заявки; при гонке повторяем транзакцию целиком,
	// чтобы не продолжать работу в прерванной транзакции PostgreSQL
	var resp *Response
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err = uc.create(ctx, training.ID, trainerIDs)
		if err == nil {
			break
		}
		if !errors.Is(err, requestRepo.ErrDuplicateActive) && !errors.Is(err, txmanager.ErrSerializationFailure) {
			break
		}
		uc.logger.Warn("CreateRequests: attempt %d for training id=%d lost a race: %v", attempt, training.ID, err)
	}

	if err != nil {
		switch {
		case errors.Is(err, requestRepo.ErrDuplicateActive), errors.Is(err, txmanager.ErrSerializationFailure):
			uc.logger.Error("CreateRequests: giving up on training id=%d after %d attempts: %v", training.ID, maxAttempts, err)
			return nil, fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
		case errors.Is(err, domain.ErrInvalidState), errors.Is(err, ErrTrainingNotFound):
			uc.logger.Warn("CreateRequests: training id=%d changed: %v", training.ID, err)
			return nil, err
		default:
			uc.logger.Error("CreateRequests: failed to create requests for training id=%d: %v", training.ID, err)
			return nil, err
		}
	}

	resp.Duplicates = append(resp.Duplicates, repeated...)

	uc.logger.Info("CreateRequests: training id=%d, created=%d, duplicates=%v",
		training.ID, len(resp.Created), resp.Duplicates)

	return resp, nil
}

func (uc *UseCase) create(ctx context.Context, trainingID int64, trainerIDs []int64) (*Response, error) {
	resp := &Response{TrainingID: trainingID}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Блокировка тренинга упорядочивает рассылки и переходы заявок этого тренинга
		training, err := uc.trainingRepo.GetByIDForUpdate(txCtx, trainingID)
		if err != nil {
			if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
				return ErrTrainingNotFound
			}
			return fmt.Errorf("%w: failed to lock training: %w", ErrInternal, err)
		}
		if !training.AcceptsRequests() {
			return fmt.Errorf("%w: status %s", ErrTrainingClosed, training.Status)
		}
		resp.Training = training

		existing, err := uc.requestRepo.FindActiveByTrainers(txCtx, trainingID, trainerIDs)
		if err != nil {
			return fmt.Errorf("%w: failed to find active requests: %w", ErrInternal, err)
		}
		active := make(map[int64]struct{}, len(existing))
		for _, r := range existing {
			active[r.TrainerID] = struct{}{}
		}

		for _, trainerID := range trainerIDs {
			if _, ok := active[trainerID]; ok {
				resp.Duplicates = append(resp.Duplicates, trainerID)
				continue
			}

			created, err := uc.requestRepo.Create(txCtx, domain.NewTrainingRequest(trainingID, trainerID))
			if err != nil {
				if errors.Is(err, requestRepo.ErrDuplicateActive) {
					return err
				}
				return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
			}
			resp.Created = append(resp.Created, created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
