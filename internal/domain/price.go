package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Prices are stored as NUMERIC(12,2)
const (
	PriceScale         = 2
	PriceIntegerDigits = 10
)

var maxPrice = decimal.New(1, PriceIntegerDigits)

// ValidatePrice rejects prices the storage cannot hold exactly:
// non-positive values, more than two decimal places, ten or more integer digits.
func ValidatePrice(p decimal.Decimal) error {
	switch {
	case !p.IsPositive():
		return fmt.Errorf("%w: price must be positive, got %s", ErrValidation, p.String())
	case !p.Equal(p.Truncate(PriceScale)):
		return fmt.Errorf("%w: price %s has more than %d decimal places", ErrValidation, p.String(), PriceScale)
	case p.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("%w: price %s must be below %s", ErrValidation, p.String(), maxPrice.String())
	}
	return nil
}
