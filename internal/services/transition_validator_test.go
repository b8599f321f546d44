package services

import (
	"context"
	"testing"

	"github.com/caseflow/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionValidatorAllowedEdges(t *testing.T) {
	v := NewTransitionValidator()
	ctx := context.Background()

	tests := []struct {
		current models.ComplaintStatus
		event   models.LifecycleEvent
		next    models.ComplaintStatus
	}{
		{models.StatusNew, models.EventBeginAssessment, models.StatusInProgress},
		{models.StatusInProgress, models.EventResolve, models.StatusResolved},
		{models.StatusResolved, models.EventClose, models.StatusClosed},
		{models.StatusResolved, models.EventReopen, models.StatusInProgress},
		{models.StatusClosed, models.EventReopen, models.StatusInProgress},
	}

	for _, tc := range tests {
		next, err := v.Apply(ctx, tc.current, tc.event)
		require.NoError(t, err, "%s from %s", tc.event, tc.current)
		assert.Equal(t, tc.next, next)
	}
}

func TestTransitionValidatorRejectedEdges(t *testing.T) {
	v := NewTransitionValidator()
	ctx := context.Background()

	tests := []struct {
		current models.ComplaintStatus
		event   models.LifecycleEvent
	}{
		{models.StatusNew, models.EventResolve},
		{models.StatusNew, models.EventClose},
		{models.StatusNew, models.EventReopen},
		{models.StatusInProgress, models.EventBeginAssessment},
		{models.StatusInProgress, models.EventClose},
		{models.StatusInProgress, models.EventReopen},
		{models.StatusResolved, models.EventBeginAssessment},
		{models.StatusResolved, models.EventResolve},
		{models.StatusClosed, models.EventBeginAssessment},
		{models.StatusClosed, models.EventResolve},
		{models.StatusClosed, models.EventClose},
	}

	for _, tc := range tests {
		_, err := v.Apply(ctx, tc.current, tc.event)
		var te *models.InvalidTransitionError
		require.ErrorAs(t, err, &te, "%s from %s should be rejected", tc.event, tc.current)
		assert.Equal(t, tc.current, te.Current)
		assert.Equal(t, tc.event, te.Event)
	}
}

func TestTransitionValidatorRejectsUnknownEvent(t *testing.T) {
	v := NewTransitionValidator()

	_, err := v.Apply(context.Background(), models.StatusNew, models.LifecycleEvent("escalate"))
	var te *models.InvalidTransitionError
	require.ErrorAs(t, err, &te)
}
