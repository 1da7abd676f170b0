package transition_request

import (
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

// resolveAllocation решает, может ли target занять слот, и возвращает PENDING заявки,
// которые нужно закрыть с причиной SLOT_FILLED
// siblings - все заявки тренинга, заблокированные в текущей транзакции
func resolveAllocation(target *domain.TrainingRequest, tr domain.Transition, siblings []*domain.TrainingRequest) ([]*domain.TrainingRequest, error) {
	var toDecline []*domain.TrainingRequest

	for _, s := range siblings {
		if s.ID == target.ID {
			continue
		}

		switch {
		case s.State.Status() == domain.RequestStatusAccepted:
			return nil, fmt.Errorf("%w: request id=%d", ErrSlotTaken, s.ID)

		// Тренер, принявший встречное предложение компании, держит слот до подтверждения.
		// Обойти его может только подтверждение другой такой же заявки
		case s.State.IsTrainerAccepted() && !tr.From.IsTrainerAccepted():
			return nil, fmt.Errorf("%w: request id=%d", ErrSlotHeld, s.ID)

		case s.State.Status() == domain.RequestStatusPending:
			toDecline = append(toDecline, s)
		}
	}

	return toDecline, nil
}

// lostAllocation сообщает, что попытка принять заявку опоздала:
// заявку отклонила система, когда слот занял другой тренер
func lostAllocation(request *domain.TrainingRequest, action domain.Action) bool {
	if action != domain.ActionAccept && action != domain.ActionConfirm {
		return false
	}
	return request.State.Status() == domain.RequestStatusDeclined &&
		request.DeclineReason != nil &&
		*request.DeclineReason == domain.DeclineReasonSlotFilled
}
