package create_requests

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingService/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	createRequests "github.com/m04kA/SMC-TrainingService/internal/usecase/create_requests"
)

const (
	msgInvalidTrainingID  = "некорректный ID тренинга"
	msgInvalidRequestBody = "некорректное тело запроса, ожидается trainerIds: от 1 до 50 ID"
	msgUnauthorized       = "требуется аутентификация"
	msgTrainingNotFound   = "тренинг не найден"
	msgTrainerNotFound    = "тренер не найден"
	msgForbidden          = "отправлять заявки может только компания-владелец"
	msgTrainingClosed     = "тренинг завершен или отменен"
	msgConflict           = "параллельная рассылка по тренингу, повторите попытку"
)

type Handler struct {
	useCase CreateRequestsUseCase
	logger  Logger
}

func NewHandler(useCase CreateRequestsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/trainings/{trainingId}/requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	trainingID, err := handlers.PathID(r, "trainingId")
	if err != nil {
		h.logger.Warn("POST /trainings/{id}/requests - Invalid training ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainingID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateRequestsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /trainings/{id}/requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createRequests.Request{
		TrainingID: trainingID,
		Principal:  principal,
		TrainerIDs: req.TrainerIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, createRequests.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createRequests.ErrTrainingNotFound):
			handlers.RespondNotFound(w, msgTrainingNotFound)

		case errors.Is(err, createRequests.ErrTrainerNotFound):
			h.logger.Warn("POST /trainings/{id}/requests - Trainer not found: training_id=%d, error=%v", trainingID, err)
			handlers.RespondNotFound(w, msgTrainerNotFound)

		case errors.Is(err, createRequests.ErrAccessDenied):
			h.logger.Warn("POST /trainings/{id}/requests - Access denied: training_id=%d, %s=%d", trainingID, principal.Role, principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createRequests.ErrTrainingClosed):
			handlers.RespondConflict(w, msgTrainingClosed)

		case errors.Is(err, createRequests.ErrConcurrentUpdate):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /trainings/{id}/requests - Failed to create requests: training_id=%d, error=%v", trainingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /trainings/{id}/requests - Requests created: training_id=%d, created=%d, duplicates=%d",
		trainingID, len(result.Created), len(result.Duplicates))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
