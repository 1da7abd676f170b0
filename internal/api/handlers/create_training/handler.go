package create_training

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingService/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgUnauthorized       = "требуется аутентификация"
	msgOnlyCompany        = "создавать тренинги может только компания"
	msgCompanyNotFound    = "компания не найдена"
	msgTopicNotFound      = "тема не найдена"
	msgInvalidTraining    = "некорректные данные тренинга"
)

type Handler struct {
	service TrainingService
	logger  Logger
}

func NewHandler(service TrainingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/trainings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	if !principal.IsCompany() {
		h.logger.Warn("POST /trainings - Trainer tried to create training: trainer_id=%d", principal.ID)
		handlers.RespondForbidden(w, msgOnlyCompany)
		return
	}

	var req CreateTrainingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /trainings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(principal.ID)
	if err != nil {
		h.logger.Warn("POST /trainings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	training, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, trainings.ErrInvalidInput):
			h.logger.Warn("POST /trainings - Invalid training: company_id=%d, error=%v", principal.ID, err)
			handlers.RespondBadRequest(w, msgInvalidTraining)

		case errors.Is(err, trainings.ErrCompanyNotFound):
			h.logger.Warn("POST /trainings - Company not found: company_id=%d", principal.ID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, trainings.ErrTopicNotFound):
			h.logger.Warn("POST /trainings - Topic not found: topic_id=%d", req.TopicID)
			handlers.RespondNotFound(w, msgTopicNotFound)

		default:
			h.logger.Error("POST /trainings - Failed to create training: company_id=%d, error=%v", principal.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /trainings - Training created successfully: training_id=%d, company_id=%d", training.ID, principal.ID)
	handlers.RespondJSON(w, http.StatusCreated, training)
}
