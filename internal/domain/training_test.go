package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrainingCanMoveTo(t *testing.T) {
	tests := []struct {
		from TrainingStatus
		to   TrainingStatus
		want bool
	}{
		{TrainingStatusDraft, TrainingStatusPublished, true},
		{TrainingStatusPublished, TrainingStatusInProgress, true},
		{TrainingStatusInProgress, TrainingStatusCompleted, true},
		{TrainingStatusPublished, TrainingStatusCompleted, true},
		{TrainingStatusDraft, TrainingStatusCompleted, false},
		{TrainingStatusInProgress, TrainingStatusPublished, false},
		{TrainingStatusInProgress, TrainingStatusCancelled, true},
		{TrainingStatusCompleted, TrainingStatusCancelled, false},
		{TrainingStatusCancelled, TrainingStatusPublished, false},
	}

	for _, tt := range tests {
		tr := &Training{Status: tt.from}
		assert.Equal(t, tt.want, tr.CanMoveTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestInvoiceDateIsDayAfterEnd(t *testing.T) {
	tr := &Training{EndDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), tr.InvoiceDate())
}
