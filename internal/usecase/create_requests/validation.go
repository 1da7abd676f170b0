package create_requests

import (
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

// validateRequest проверяет входные данные
func validateRequest(req *Request) error {
	if req.TrainingID <= 0 {
		return fmt.Errorf("%w: training id is required", ErrInvalidInput)
	}
	if !req.Principal.IsCompany() {
		return fmt.Errorf("%w: only a company can send requests", ErrAccessDenied)
	}
	if len(req.TrainerIDs) == 0 {
		return fmt.Errorf("%w: at least one trainer is required", ErrInvalidInput)
	}
	if len(req.TrainerIDs) > domain.MaxTrainersPerFanOut {
		return fmt.Errorf("%w: at most %d trainers per call", ErrInvalidInput, domain.MaxTrainersPerFanOut)
	}
	for _, id := range req.TrainerIDs {
		if id <= 0 {
			return fmt.Errorf("%w: invalid trainer id %d", ErrInvalidInput, id)
		}
	}
	return nil
}

// splitDuplicates возвращает уникальных тренеров в исходном порядке и повторы внутри запроса
func splitDuplicates(ids []int64) (unique, repeated []int64) {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			repeated = append(repeated, id)
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, repeated
}
