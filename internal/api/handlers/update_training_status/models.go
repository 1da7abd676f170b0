package update_training_status

// UpdateStatusRequest HTTP request model
// completed и cancelled выставляются отдельными эндпоинтами
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=published in_progress"`
}
