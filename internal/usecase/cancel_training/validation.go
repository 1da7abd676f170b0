package cancel_training

import "fmt"

// validateRequest проверяет входные данные
func validateRequest(req *Request) error {
	if req.TrainingID <= 0 {
		return fmt.Errorf("%w: training id is required", ErrInvalidInput)
	}
	if !req.Principal.IsCompany() {
		return fmt.Errorf("%w: only the owning company can cancel", ErrAccessDenied)
	}
	return nil
}
