package transition_request

import "fmt"

// validateRequest проверяет форму запроса
// Допустимость действия в текущем состоянии проверяет доменная машина состояний
func validateRequest(req *Request) error {
	if req.RequestID <= 0 {
		return fmt.Errorf("%w: request id is required", ErrInvalidInput)
	}
	if req.Principal.ID <= 0 {
		return fmt.Errorf("%w: caller id is required", ErrInvalidInput)
	}
	if req.Action == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidInput)
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion <= 0 {
		return fmt.Errorf("%w: expected version must be positive", ErrInvalidInput)
	}
	return nil
}
