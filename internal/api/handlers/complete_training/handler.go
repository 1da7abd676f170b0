package complete_training

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingService/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	completeTraining "github.com/m04kA/SMC-TrainingService/internal/usecase/complete_training"
)

const (
	msgInvalidTrainingID = "некорректный ID тренинга"
	msgUnauthorized      = "требуется аутентификация"
	msgNotFound          = "тренинг не найден"
	msgForbidden         = "завершить тренинг может только компания-владелец"
	msgInvalidTransition = "тренинг нельзя завершить из текущего статуса"
	msgConflict          = "тренинг изменен параллельным запросом, повторите попытку"
)

type Handler struct {
	useCase CompleteTrainingUseCase
	logger  Logger
}

func NewHandler(useCase CompleteTrainingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/trainings/{trainingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	trainingID, err := handlers.PathID(r, "trainingId")
	if err != nil {
		h.logger.Warn("POST /trainings/{id}/complete - Invalid training ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainingID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &completeTraining.Request{TrainingID: trainingID, Principal: principal})
	if err != nil {
		switch {
		case errors.Is(err, completeTraining.ErrTrainingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, completeTraining.ErrAccessDenied):
			h.logger.Warn("POST /trainings/{id}/complete - Access denied: training_id=%d, %s=%d", trainingID, principal.Role, principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, completeTraining.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, completeTraining.ErrConcurrentUpdate):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /trainings/{id}/complete - Failed to complete training: training_id=%d, error=%v", trainingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /trainings/{id}/complete - Training completed: training_id=%d, settlement_deferred=%t",
		trainingID, result.SettlementDeferred)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
