package update_training_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingService/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings"
)

const (
	msgInvalidTrainingID  = "некорректный ID тренинга"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
	msgNotFound           = "тренинг не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidPrice       = "цена должна быть положительной"
	msgPriceLocked        = "цену нельзя менять после того, как тренер принял предложение"
	msgTrainingClosed     = "тренинг завершен или отменен"
	msgConflict           = "тренинг изменен параллельным запросом, повторите попытку"
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

// Handle PATCH /api/v1/trainings/{trainingId}/price
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	trainingID, err := handlers.PathID(r, "trainingId")
	if err != nil {
		h.logger.Warn("PATCH /trainings/{id}/price - Invalid training ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainingID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdatePriceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /trainings/{id}/price - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	training, err := h.service.UpdateAskingPrice(r.Context(), trainingID, principal, *req.DailyRate)
	if err != nil {
		switch {
		case errors.Is(err, trainings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPrice)

		case errors.Is(err, trainings.ErrTrainingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, trainings.ErrAccessDenied):
			h.logger.Warn("PATCH /trainings/{id}/price - Access denied: training_id=%d, %s=%d", trainingID, principal.Role, principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, trainings.ErrPriceLocked):
			handlers.RespondConflict(w, msgPriceLocked)

		case errors.Is(err, trainings.ErrInvalidTransition):
			handlers.RespondConflict(w, msgTrainingClosed)

		case errors.Is(err, trainings.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /trainings/{id}/price - Failed to update price: training_id=%d, error=%v", trainingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /trainings/{id}/price - Price updated: training_id=%d, price=%s", trainingID, training.DailyRate)
	handlers.RespondJSON(w, http.StatusOK, training)
}
