package domain

import "github.com/shopspring/decimal"

// RequestFilter selects requests for listing. Nil fields are not filtered.
type RequestFilter struct {
	TrainerID  *int64
	CompanyID  *int64
	TrainingID *int64
	Status     *RequestStatus
	Limit      uint64 // 0 means no limit
	Offset     uint64
}

// RequestView is a request joined with its training for read-side listings
type RequestView struct {
	Request  TrainingRequest
	Training Training

	// Display names from the directory, empty when it is unavailable
	TopicName   string
	TrainerName string
	CompanyName string
}

// FinalPrice returns the resolved negotiated price
func (v *RequestView) FinalPrice() decimal.Decimal {
	return v.Request.ResolvePrice(v.Training.DailyRate)
}

// Completed is derived, never stored
func (v *RequestView) Completed() bool {
	return v.Request.IsCompleted(&v.Training)
}

