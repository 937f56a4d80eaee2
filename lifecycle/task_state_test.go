package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"worklink-api/models"
)

func TestValidTransitionsFrom(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.TaskStatus{models.StatusApplied, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusOpen))

	assert.ElementsMatch(t,
		[]models.TaskStatus{models.StatusOnTheWay, models.StatusInProgress, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusAssigned))

	assert.Empty(t, ValidTransitionsFrom(models.StatusCompleted))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCancelled))
}

func TestCanTransitionChecksActor(t *testing.T) {
	// hiring is the provider's move, not the worker's
	assert.NoError(t, CanTransition(models.StatusApplied, models.StatusAssigned, "provider"))
	assert.ErrorIs(t,
		CanTransition(models.StatusApplied, models.StatusAssigned, "worker"),
		ErrInvalidTransition)

	// progression is the worker's move
	assert.NoError(t, CanTransition(models.StatusAssigned, models.StatusOnTheWay, "worker"))
	assert.ErrorIs(t,
		CanTransition(models.StatusAssigned, models.StatusOnTheWay, "provider"),
		ErrInvalidTransition)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusCompleted))
	assert.True(t, IsTerminal(models.StatusCancelled))
	assert.False(t, IsTerminal(models.StatusOpen))
	assert.False(t, IsTerminal(models.StatusInProgress))
}
