package transition_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TrainingService/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingService/internal/domain"
	transitionRequest "github.com/m04kA/SMC-TrainingService/internal/usecase/transition_request"
)

const (
	msgInvalidRequestID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
	msgNotFound           = "заявка не найдена"
	msgForbidden          = "пользователь не является стороной заявки"
	msgInvalidCommand     = "некорректная команда"
	msgTerminal           = "заявка уже закрыта"
	msgNotAllowed         = "действие недоступно в текущем состоянии заявки"
	msgTrainingClosed     = "тренинг завершен или отменен"
	msgStaleVersion       = "заявка изменилась, обновите данные"
	msgSlotTaken          = "у тренинга уже есть принятая заявка"
	msgSlotHeld           = "другой тренер уже принял предложение и ждет подтверждения компании"
	msgConflict           = "заявка изменена параллельным запросом, повторите попытку"
)

type Handler struct {
	useCase TransitionRequestUseCase
	logger  Logger
}

func NewHandler(useCase TransitionRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/requests/{requestId}/transitions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("POST /requests/{id}/transitions - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /requests/{id}/transitions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(requestID, principal)
	if err != nil {
		h.logger.Warn("POST /requests/{id}/transitions - Invalid command: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCommand)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, transitionRequest.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionRequest.ErrAccessDenied):
			h.logger.Warn("POST /requests/{id}/transitions - Access denied: request_id=%d, %s=%d", requestID, principal.Role, principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, msgInvalidCommand)

		case errors.Is(err, transitionRequest.ErrStaleVersion):
			handlers.RespondConflict(w, msgStaleVersion)

		case errors.Is(err, transitionRequest.ErrSlotTaken):
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, transitionRequest.ErrSlotHeld):
			handlers.RespondConflict(w, msgSlotHeld)

		case errors.Is(err, transitionRequest.ErrTrainingClosed):
			handlers.RespondConflict(w, msgTrainingClosed)

		case errors.Is(err, domain.ErrTerminalState):
			handlers.RespondConflict(w, msgTerminal)

		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, msgNotAllowed)

		case errors.Is(err, domain.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /requests/{id}/transitions - Failed to apply %s: request_id=%d, error=%v",
				useCaseReq.Action, requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /requests/{id}/transitions - %s applied: request_id=%d, status=%s",
		useCaseReq.Action, requestID, result.Request.State)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
