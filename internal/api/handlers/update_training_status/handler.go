package update_training_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingService/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
)

const (
	msgInvalidTrainingID  = "некорректный ID тренинга"
	msgInvalidRequestBody = "некорректное тело запроса, ожидается status: published или in_progress"
	msgUnauthorized       = "требуется аутентификация"
	msgNotFound           = "тренинг не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "недопустимая смена статуса тренинга"
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

// Handle PATCH /api/v1/trainings/{trainingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	trainingID, err := handlers.PathID(r, "trainingId")
	if err != nil {
		h.logger.Warn("PATCH /trainings/{id}/status - Invalid training ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainingID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /trainings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status, ok := models.ToDomainTrainingStatus(req.Status)
	if !ok {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	training, err := h.service.UpdateStatus(r.Context(), trainingID, principal, status)
	if err != nil {
		switch {
		case errors.Is(err, trainings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, trainings.ErrTrainingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, trainings.ErrAccessDenied):
			h.logger.Warn("PATCH /trainings/{id}/status - Access denied: training_id=%d, %s=%d", trainingID, principal.Role, principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, trainings.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, trainings.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /trainings/{id}/status - Failed to update status: training_id=%d, error=%v", trainingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /trainings/{id}/status - Status updated: training_id=%d, status=%s", trainingID, training.Status)
	handlers.RespondJSON(w, http.StatusOK, training)
}
