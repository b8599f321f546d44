package services

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/caseflow/backend/internal/models"
)

// lifecycleEvents converts models.LifecycleTransitions into looplab/fsm
// EventDesc format, consolidating transitions with the same event and
// destination into one EventDesc with multiple source states (reopen from
// RESOLVED and CLOSED both land on IN_PROGRESS).
var lifecycleEvents = buildLifecycleEvents()

func buildLifecycleEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range models.LifecycleTransitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// TransitionValidator answers one question: is this lifecycle event legal
// from this status, and if so where does it land.
type TransitionValidator interface {
	Apply(ctx context.Context, current models.ComplaintStatus, event models.LifecycleEvent) (models.ComplaintStatus, error)
}

// fsmValidator builds a short-lived FSM per Apply call, initialized with the
// complaint's current status. looplab/fsm tracks current state internally, so
// instances cannot be shared across complaints.
type fsmValidator struct{}

func NewTransitionValidator() TransitionValidator {
	return &fsmValidator{}
}

func (v *fsmValidator) Apply(ctx context.Context, current models.ComplaintStatus, event models.LifecycleEvent) (models.ComplaintStatus, error) {
	machine := loopfsm.NewFSM(string(current), lifecycleEvents, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) || errors.As(err, &noTransition) {
			return "", &models.InvalidTransitionError{
				Event:   event,
				Current: current,
			}
		}
		return "", err
	}

	return models.ComplaintStatus(machine.Current()), nil
}
