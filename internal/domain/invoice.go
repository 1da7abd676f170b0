package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the settlement record emitted once per accepted request of a completed training
type Invoice struct {
	ID          int64
	Number      string
	RequestID   int64
	TrainingID  int64
	TrainerID   int64
	CompanyID   int64
	Amount      decimal.Decimal
	InvoiceDate time.Time
	CreatedAt   time.Time
}

// NewInvoice builds the invoice for an accepted request of a completed training
func NewInvoice(number string, training *Training, request *TrainingRequest) *Invoice {
	return &Invoice{
		Number:      number,
		RequestID:   request.ID,
		TrainingID:  training.ID,
		TrainerID:   request.TrainerID,
		CompanyID:   training.CompanyID,
		Amount:      request.ResolvePrice(training.DailyRate),
		InvoiceDate: training.InvoiceDate(),
	}
}
