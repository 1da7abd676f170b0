package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/pkg/types"
)

// TrainingStatus represents the lifecycle status of a training slot
type TrainingStatus string

const (
	TrainingStatusDraft      TrainingStatus = "DRAFT"
	TrainingStatusPublished  TrainingStatus = "PUBLISHED"
	TrainingStatusInProgress TrainingStatus = "IN_PROGRESS"
	TrainingStatusCompleted  TrainingStatus = "COMPLETED"
	TrainingStatusCancelled  TrainingStatus = "CANCELLED"
)

// IsValid reports whether the status is one of the known values
func (s TrainingStatus) IsValid() bool {
	switch s {
	case TrainingStatusDraft, TrainingStatusPublished, TrainingStatusInProgress,
		TrainingStatusCompleted, TrainingStatusCancelled:
		return true
	}
	return false
}

// Training is a single bookable slot offered by a company
type Training struct {
	ID               int64
	TopicID          int64
	CompanyID        int64
	StartDate        time.Time
	EndDate          time.Time
	StartTime        types.TimeString
	EndTime          types.TimeString
	Location         string
	ParticipantCount int
	DailyRate        decimal.Decimal // asking price
	Status           TrainingStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsClosed returns true once the training can no longer be negotiated
func (t *Training) IsClosed() bool {
	return t.Status == TrainingStatusCompleted || t.Status == TrainingStatusCancelled
}

// AcceptsRequests returns true if new trainer requests may be fanned out
func (t *Training) AcceptsRequests() bool {
	return !t.IsClosed()
}

// CanMoveTo reports whether the lifecycle allows moving to next.
// The lifecycle is forward-only: DRAFT -> PUBLISHED -> IN_PROGRESS -> COMPLETED,
// and any open status may be CANCELLED.
func (t *Training) CanMoveTo(next TrainingStatus) bool {
	switch next {
	case TrainingStatusPublished:
		return t.Status == TrainingStatusDraft
	case TrainingStatusInProgress:
		return t.Status == TrainingStatusDraft || t.Status == TrainingStatusPublished
	case TrainingStatusCompleted:
		return t.Status == TrainingStatusPublished || t.Status == TrainingStatusInProgress
	case TrainingStatusCancelled:
		return !t.IsClosed()
	}
	return false
}

// InvoiceDate returns the settlement date: the day after the training ends
func (t *Training) InvoiceDate() time.Time {
	return t.EndDate.AddDate(0, 0, InvoiceDateOffsetInDays)
}
