package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("trainer")
	require.NoError(t, err)
	assert.Equal(t, PartyTrainer, role)

	role, err = ParseRole(" Company ")
	require.NoError(t, err)
	assert.Equal(t, PartyCompany, role)

	for _, bad := range []string{"", "system", "none", "admin"} {
		_, err := ParseRole(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestPrincipalCanActOn(t *testing.T) {
	training := &Training{ID: 7, CompanyID: 42}
	request := &TrainingRequest{ID: 1, TrainingID: 7, TrainerID: 11}

	assert.True(t, Principal{ID: 11, Role: PartyTrainer}.CanActOn(training, request))
	assert.False(t, Principal{ID: 12, Role: PartyTrainer}.CanActOn(training, request))
	assert.True(t, Principal{ID: 42, Role: PartyCompany}.CanActOn(training, request))
	assert.False(t, Principal{ID: 43, Role: PartyCompany}.CanActOn(training, request))

	// a trainer sharing the company id does not own the training
	assert.False(t, Principal{ID: 42, Role: PartyTrainer}.OwnsTraining(training))
}
