package trainings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	invoiceRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/invoice"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
	directoryClient "github.com/m04kA/SMC-TrainingService/internal/integrations/directory"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
	"github.com/m04kA/SMC-TrainingService/pkg/txmanager"
)

// Service сервис для работы с тренингами (реестр слотов)
type Service struct {
	trainingRepo    TrainingRepository
	requestRepo     RequestRepository
	invoiceRepo     InvoiceRepository
	directoryClient DirectoryClient
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса тренингов
func NewService(
	trainingRepo TrainingRepository,
	requestRepo RequestRepository,
	invoiceRepo InvoiceRepository,
	directoryClient DirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		trainingRepo:    trainingRepo,
		requestRepo:     requestRepo,
		invoiceRepo:     invoiceRepo,
		directoryClient: directoryClient,
		txManager:       txManager,
		logger:          logger,
	}
}

// Create создает тренинг
// Тема и компания проверяются в справочнике
func (s *Service) Create(ctx context.Context, req *models.CreateTrainingRequest) (*models.TrainingResponse, error) {
	s.logger.Info("Create: creating training for company=%d, topic=%d, dates=%s..%s",
		req.CompanyID, req.TopicID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	if err := validateCreate(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.directoryClient.GetCompany(ctx, req.CompanyID); err != nil {
		if errors.Is(err, directoryClient.ErrCompanyNotFound) {
			s.logger.Warn("Create: company id=%d not found", req.CompanyID)
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("Create: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: Create - get company: %v", ErrInternal, err)
	}

	if _, err := s.directoryClient.GetTopic(ctx, req.TopicID); err != nil {
		if errors.Is(err, directoryClient.ErrTopicNotFound) {
			s.logger.Warn("Create: topic id=%d not found", req.TopicID)
			return nil, ErrTopicNotFound
		}
		s.logger.Error("Create: failed to get topic id=%d: %v", req.TopicID, err)
		return nil, fmt.Errorf("%w: Create - get topic: %v", ErrInternal, err)
	}

	status := domain.TrainingStatusDraft
	if req.Publish {
		status = domain.TrainingStatusPublished
	}

	created, err := s.trainingRepo.Create(ctx, &domain.Training{
		TopicID:          req.TopicID,
		CompanyID:        req.CompanyID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Location:         req.Location,
		ParticipantCount: req.ParticipantCount,
		DailyRate:        req.DailyRate,
		Status:           status,
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created training id=%d with status=%s", created.ID, created.Status)
	return models.FromDomainTraining(created), nil
}

// GetByID получает тренинг по ID
// Компания видит свои тренинги, тренер - тренинги, по которым ему отправлена заявка
func (s *Service) GetByID(ctx context.Context, id int64, principal domain.Principal) (*models.TrainingResponse, error) {
	s.logger.Info("GetByID: fetching training id=%d for %s=%d", id, principal.Role, principal.ID)

	training, err := s.getTraining(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkReadAccess(ctx, training, principal); err != nil {
		s.logger.Warn("GetByID: access denied for %s=%d to training id=%d", principal.Role, principal.ID, id)
		return nil, err
	}

	return models.FromDomainTraining(training), nil
}

// UpdateAskingPrice меняет цену тренинга
// Запрещено, как только есть принятая заявка или тренер принял встречное предложение компании
func (s *Service) UpdateAskingPrice(ctx context.Context, id int64, principal domain.Principal, price decimal.Decimal) (*models.TrainingResponse, error) {
	s.logger.Info("UpdateAskingPrice: training id=%d, price=%s by %s=%d", id, price.String(), principal.Role, principal.ID)

	if err := domain.ValidatePrice(price); err != nil {
		s.logger.Warn("UpdateAskingPrice: invalid price: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Training

	// Цена меняется под блокировкой строки тренинга: все переходы заявок берут ту же блокировку
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		training, err := s.lockTraining(txCtx, "UpdateAskingPrice", id)
		if err != nil {
			return err
		}

		if !principal.OwnsTraining(training) {
			return ErrAccessDenied
		}

		if training.IsClosed() {
			return fmt.Errorf("%w: training is %s", ErrInvalidTransition, training.Status)
		}

		progressed, err := s.requestRepo.HasProgressed(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: UpdateAskingPrice - check requests: %v", ErrInternal, err)
		}
		if progressed {
			return ErrPriceLocked
		}

		if err := s.trainingRepo.UpdateDailyRate(txCtx, id, price); err != nil {
			return s.mapRepoError("UpdateAskingPrice", id, err)
		}

		training.DailyRate = price
		result = training
		return nil
	})
	if err != nil {
		s.logger.Warn("UpdateAskingPrice: training id=%d not updated: %v", id, err)
		return nil, mapTxError(err)
	}

	s.logger.Info("UpdateAskingPrice: training id=%d now priced at %s", id, price.String())
	return models.FromDomainTraining(result), nil
}

// UpdateStatus двигает тренинг вперед по жизненному циклу (PUBLISHED, IN_PROGRESS)
// Завершение и отмена выполняются отдельными сценариями
func (s *Service) UpdateStatus(ctx context.Context, id int64, principal domain.Principal, status domain.TrainingStatus) (*models.TrainingResponse, error) {
	s.logger.Info("UpdateStatus: training id=%d to status=%s by %s=%d", id, status, principal.Role, principal.ID)

	if status != domain.TrainingStatusPublished && status != domain.TrainingStatusInProgress {
		s.logger.Warn("UpdateStatus: status=%s is not allowed here", status)
		return nil, fmt.Errorf("%w: status %s must be set via its own operation", ErrInvalidInput, status)
	}

	var result *domain.Training

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		training, err := s.lockTraining(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if !principal.OwnsTraining(training) {
			return ErrAccessDenied
		}

		if !training.CanMoveTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, training.Status, status)
		}

		if err := s.trainingRepo.UpdateStatus(txCtx, id, status); err != nil {
			return s.mapRepoError("UpdateStatus", id, err)
		}

		training.Status = status
		result = training
		return nil
	})
	if err != nil {
		s.logger.Warn("UpdateStatus: training id=%d not updated: %v", id, err)
		return nil, mapTxError(err)
	}

	s.logger.Info("UpdateStatus: training id=%d is now %s", id, status)
	return models.FromDomainTraining(result), nil
}

// GetInvoice получает счет по тренингу
func (s *Service) GetInvoice(ctx context.Context, trainingID int64, principal domain.Principal) (*models.InvoiceResponse, error) {
	s.logger.Info("GetInvoice: fetching invoice for training id=%d by %s=%d", trainingID, principal.Role, principal.ID)

	training, err := s.getTraining(ctx, "GetInvoice", trainingID)
	if err != nil {
		return nil, err
	}

	if principal.IsCompany() && !principal.OwnsTraining(training) {
		s.logger.Warn("GetInvoice: access denied for company=%d to training id=%d", principal.ID, trainingID)
		return nil, ErrAccessDenied
	}

	invoice, err := s.invoiceRepo.GetByTrainingID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			s.logger.Warn("GetInvoice: no invoice for training id=%d", trainingID)
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("GetInvoice: repository error for training id=%d: %v", trainingID, err)
		return nil, fmt.Errorf("%w: GetInvoice - repository error: %v", ErrInternal, err)
	}

	// Тренер видит только выставленный ему счет
	if principal.IsTrainer() && invoice.TrainerID != principal.ID {
		s.logger.Warn("GetInvoice: access denied for trainer=%d to training id=%d", principal.ID, trainingID)
		return nil, ErrAccessDenied
	}

	return models.FromDomainInvoice(invoice), nil
}

func (s *Service) getTraining(ctx context.Context, op string, id int64) (*domain.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
			s.logger.Warn("%s: training id=%d not found", op, id)
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("%s: repository error for training id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return training, nil
}

func (s *Service) lockTraining(ctx context.Context, op string, id int64) (*domain.Training, error) {
	training, err := s.trainingRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(op, id, err)
	}
	return training, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
		return ErrTrainingNotFound
	}
	return fmt.Errorf("%w: %s - training id=%d: %w", ErrInternal, op, id, err)
}

// checkReadAccess компания-владелец или тренер с заявкой по тренингу
func (s *Service) checkReadAccess(ctx context.Context, training *domain.Training, principal domain.Principal) error {
	if principal.OwnsTraining(training) {
		return nil
	}
	if !principal.IsTrainer() {
		return ErrAccessDenied
	}

	requests, err := s.requestRepo.ListByTraining(ctx, training.ID)
	if err != nil {
		s.logger.Error("checkReadAccess: failed to list requests of training id=%d: %v", training.ID, err)
		return fmt.Errorf("%w: checkReadAccess - repository error: %v", ErrInternal, err)
	}
	for _, r := range requests {
		if r.TrainerID == principal.ID {
			return nil
		}
	}

	return ErrAccessDenied
}

// mapTxError ошибки сериализации PostgreSQL превращаются в конфликт
func mapTxError(err error) error {
	if errors.Is(err, txmanager.ErrSerializationFailure) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func validateCreate(req *models.CreateTrainingRequest) error {
	if err := domain.ValidatePrice(req.DailyRate); err != nil {
		return fmt.Errorf("%w: daily rate: %v", ErrInvalidInput, err)
	}

	switch {
	case req.CompanyID <= 0:
		return fmt.Errorf("%w: company id is required", ErrInvalidInput)
	case req.TopicID <= 0:
		return fmt.Errorf("%w: topic id is required", ErrInvalidInput)
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	case req.EndDate.Before(req.StartDate):
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	case req.StartTime.Validate() != nil || req.EndTime.Validate() != nil:
		return fmt.Errorf("%w: invalid start or end time", ErrInvalidInput)
	case !req.EndTime.IsAfter(req.StartTime):
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	case req.ParticipantCount <= 0 || req.ParticipantCount > domain.MaxParticipantCount:
		return fmt.Errorf("%w: participant count must be between 1 and %d", ErrInvalidInput, domain.MaxParticipantCount)
	case len(req.Location) > domain.MaxLocationLength:
		return fmt.Errorf("%w: location is longer than %d characters", ErrInvalidInput, domain.MaxLocationLength)
	}
	return nil
}
