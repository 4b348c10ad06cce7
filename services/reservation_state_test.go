package services

import (
	"testing"

	"guesthouse-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveTransition(t *testing.T) {
	allowed := map[[2]models.ReservationStatus]Transition{
		{models.StatusPending, models.StatusConfirmed}:   TransitionConfirm,
		{models.StatusPending, models.StatusCancelled}:   TransitionCancel,
		{models.StatusConfirmed, models.StatusCancelled}: TransitionCancel,
		{models.StatusConfirmed, models.StatusPending}:   TransitionReject,
		{models.StatusConfirmed, models.StatusActive}:    TransitionActivate,
		{models.StatusActive, models.StatusCompleted}:    TransitionComplete,
	}

	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			got, err := ResolveTransition(from, to)
			if want, ok := allowed[[2]models.ReservationStatus{from, to}]; ok {
				assert.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, want, got)
				continue
			}
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
		}
	}
}

func TestTransitionActions(t *testing.T) {
	assert.Equal(t, models.ActionReservationConfirmed, TransitionConfirm.Action())
	assert.Equal(t, models.ActionReservationCancelled, TransitionCancel.Action())
	assert.Equal(t, models.ActionReservationRejected, TransitionReject.Action())
	assert.Equal(t, models.ActionReservationActivated, TransitionActivate.Action())
	assert.Equal(t, models.ActionReservationCompleted, TransitionComplete.Action())
	assert.Equal(t, models.ActionReservationUpdated, Transition("").Action())
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusCompleted))
	assert.True(t, IsTerminal(models.StatusCancelled))
	assert.False(t, IsTerminal(models.StatusPending))
	assert.ElementsMatch(t,
		[]models.ReservationStatus{models.StatusActive, models.StatusCancelled, models.StatusPending},
		AllowedTransitions(models.StatusConfirmed))
}
