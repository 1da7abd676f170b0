package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	requestRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/request"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
	directoryClient "github.com/m04kA/SMC-TrainingService/internal/integrations/directory"
	"github.com/m04kA/SMC-TrainingService/internal/service/requests/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service сервис чтения заявок
type Service struct {
	requestRepo     RequestRepository
	trainingRepo    TrainingRepository
	eventRepo       EventRepository
	listingRepo     ListingRepository
	directoryClient DirectoryClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(
	requestRepo RequestRepository,
	trainingRepo TrainingRepository,
	eventRepo EventRepository,
	listingRepo ListingRepository,
	directoryClient DirectoryClient,
	logger Logger,
) *Service {
	return &Service{
		requestRepo:     requestRepo,
		trainingRepo:    trainingRepo,
		eventRepo:       eventRepo,
		listingRepo:     listingRepo,
		directoryClient: directoryClient,
		logger:          logger,
	}
}

// List получает заявки вызывающей стороны с данными тренинга
// Названия темы, тренера и компании подтягиваются из справочника;
// при его недоступности список отдается без названий (graceful degradation)
func (s *Service) List(ctx context.Context, req *models.ListRequestsRequest) (*models.RequestListResponse, error) {
	s.logger.Info("List: fetching requests for %s=%d", req.Principal.Role, req.Principal.ID)

	filter := domain.RequestFilter{
		TrainingID: req.TrainingID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}

	switch {
	case req.Principal.IsTrainer():
		filter.TrainerID = &req.Principal.ID
	case req.Principal.IsCompany():
		filter.CompanyID = &req.Principal.ID
	default:
		return nil, ErrAccessDenied
	}

	if req.Status != nil {
		status, ok := models.ToDomainRequestStatus(*req.Status)
		if !ok {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	views, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for %s=%d: %v", req.Principal.Role, req.Principal.ID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.enrich(ctx, views)

	s.logger.Info("List: successfully fetched %d requests for %s=%d", len(views), req.Principal.Role, req.Principal.ID)
	return models.FromDomainViewList(views), nil
}

// GetByID получает заявку, доступна только ее сторонам
func (s *Service) GetByID(ctx context.Context, id int64, principal domain.Principal) (*models.RequestResponse, error) {
	s.logger.Info("GetByID: fetching request id=%d for %s=%d", id, principal.Role, principal.ID)

	request, training, err := s.load(ctx, "GetByID", id, principal)
	if err != nil {
		return nil, err
	}

	return models.FromDomainRequest(request, training), nil
}

// Events получает журнал переходов заявки
func (s *Service) Events(ctx context.Context, id int64, principal domain.Principal) (*models.EventListResponse, error) {
	s.logger.Info("Events: fetching events of request id=%d for %s=%d", id, principal.Role, principal.ID)

	if _, _, err := s.load(ctx, "Events", id, principal); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByRequest(ctx, id)
	if err != nil {
		s.logger.Error("Events: repository error for request id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Events - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Events: fetched %d events of request id=%d", len(events), id)
	return models.FromDomainEvents(events), nil
}

func (s *Service) load(ctx context.Context, op string, id int64, principal domain.Principal) (*domain.TrainingRequest, *domain.Training, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			s.logger.Warn("%s: request id=%d not found", op, id)
			return nil, nil, ErrRequestNotFound
		}
		s.logger.Error("%s: repository error for request id=%d: %v", op, id, err)
		return nil, nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	training, err := s.trainingRepo.GetByID(ctx, request.TrainingID)
	if err != nil {
		// Заявка без тренинга означает нарушенную ссылочную целостность
		if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
			s.logger.Error("%s: training id=%d of request id=%d is missing", op, request.TrainingID, id)
		}
		return nil, nil, fmt.Errorf("%w: %s - get training: %v", ErrInternal, op, err)
	}

	if !principal.CanActOn(training, request) {
		s.logger.Warn("%s: access denied for %s=%d to request id=%d", op, principal.Role, principal.ID, id)
		return nil, nil, ErrAccessDenied
	}

	return request, training, nil
}

// enrich заполняет названия из справочника, каждое значение запрашивается один раз
func (s *Service) enrich(ctx context.Context, views []*domain.RequestView) {
	topics := make(map[int64]string)
	trainers := make(map[int64]string)
	companies := make(map[int64]string)
	degraded := false

	for _, v := range views {
		if degraded {
			return
		}

		if name, ok := topics[v.Training.TopicID]; ok {
			v.TopicName = name
		} else if topic, err := s.directoryClient.GetTopic(ctx, v.Training.TopicID); err == nil {
			topics[topic.ID] = topic.Name
			v.TopicName = topic.Name
		} else {
			degraded = s.degrade("topic", v.Training.TopicID, err)
		}

		if name, ok := trainers[v.Request.TrainerID]; ok {
			v.TrainerName = name
		} else if trainer, err := s.directoryClient.GetTrainer(ctx, v.Request.TrainerID); err == nil {
			trainers[trainer.ID] = trainer.Name
			v.TrainerName = trainer.Name
		} else {
			degraded = degraded || s.degrade("trainer", v.Request.TrainerID, err)
		}

		if name, ok := companies[v.Training.CompanyID]; ok {
			v.CompanyName = name
		} else if company, err := s.directoryClient.GetCompany(ctx, v.Training.CompanyID); err == nil {
			companies[company.ID] = company.Name
			v.CompanyName = company.Name
		} else {
			degraded = degraded || s.degrade("company", v.Training.CompanyID, err)
		}
	}
}

// degrade логирует ошибку справочника
// Возвращает true, если справочник недоступен и дальнейшие запросы бессмысленны
func (s *Service) degrade(kind string, id int64, err error) bool {
	if errors.Is(err, directoryClient.ErrTopicNotFound) ||
		errors.Is(err, directoryClient.ErrTrainerNotFound) ||
		errors.Is(err, directoryClient.ErrCompanyNotFound) {
		s.logger.Warn("List: %s id=%d is missing in directory", kind, id)
		return false
	}
	s.logger.Error("List: directory unavailable, applying graceful degradation (%s id=%d): %v", kind, id, err)
	return true
}
