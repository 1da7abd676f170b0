package update_training_price

import "github.com/shopspring/decimal"

// UpdatePriceRequest HTTP request model
type UpdatePriceRequest struct {
	DailyRate *decimal.Decimal `json:"dailyRate" validate:"required"`
}
