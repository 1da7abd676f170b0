package cancel_training

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingService/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	cancelTraining "github.com/m04kA/SMC-TrainingService/internal/usecase/cancel_training"
)

const (
	msgInvalidTrainingID = "некорректный ID тренинга"
	msgUnauthorized      = "требуется аутентификация"
	msgNotFound          = "тренинг не найден"
	msgForbidden         = "отменить тренинг может только компания-владелец"
	msgCompleted         = "завершенный тренинг нельзя отменить"
	msgConflict          = "тренинг изменен параллельным запросом, повторите попытку"
)

type Handler struct {
	useCase CancelTrainingUseCase
	logger  Logger
}

func NewHandler(useCase CancelTrainingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/trainings/{trainingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	trainingID, err := handlers.PathID(r, "trainingId")
	if err != nil {
		h.logger.Warn("POST /trainings/{id}/cancel - Invalid training ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainingID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelTraining.Request{TrainingID: trainingID, Principal: principal})
	if err != nil {
		switch {
		case errors.Is(err, cancelTraining.ErrTrainingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelTraining.ErrAccessDenied):
			h.logger.Warn("POST /trainings/{id}/cancel - Access denied: training_id=%d, %s=%d", trainingID, principal.Role, principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelTraining.ErrAlreadyCompleted):
			handlers.RespondConflict(w, msgCompleted)

		case errors.Is(err, cancelTraining.ErrConcurrentUpdate):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /trainings/{id}/cancel - Failed to cancel training: training_id=%d, error=%v", trainingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /trainings/{id}/cancel - Training cancelled: training_id=%d, declined=%d",
		trainingID, len(result.DeclinedRequests))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
