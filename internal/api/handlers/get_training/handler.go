package get_training

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingService/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings"
)

const (
	msgInvalidTrainingID = "некорректный ID тренинга"
	msgUnauthorized      = "требуется аутентификация"
	msgNotFound          = "тренинг не найден"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/trainings/{trainingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	trainingID, err := handlers.PathID(r, "trainingId")
	if err != nil {
		h.logger.Warn("GET /trainings/{id} - Invalid training ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainingID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	training, err := h.service.GetByID(r.Context(), trainingID, principal)
	if err != nil {
		switch {
		case errors.Is(err, trainings.ErrTrainingNotFound):
			h.logger.Warn("GET /trainings/{id} - Training not found: training_id=%d", trainingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, trainings.ErrAccessDenied):
			h.logger.Warn("GET /trainings/{id} - Access denied: training_id=%d, %s=%d", trainingID, principal.Role, principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /trainings/{id} - Failed to get training: training_id=%d, error=%v", trainingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, training)
}
