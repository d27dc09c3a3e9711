// Package dispatch replays a plan step by step, recording the world after
// every operator so a run can be inspected or shown in the viewer.
package dispatch

import (
	"errors"
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/franlo42/plan911/internal/htn"
	"github.com/franlo42/plan911/internal/world"
)

// ErrStepFailed is returned when a plan step cannot be applied.
var ErrStepFailed = errors.New("dispatch: step failed")

// Step is one applied plan task and the world right after it.
type Step struct {
	// Index is 1-based.
	Index int
	Task  htn.Task
	State *world.State
}

// Timeline is the replay of a plan.
type Timeline struct {
	Initial *world.State
	Steps   []Step
}

// Final returns the state after the last step, or the initial state for an
// empty plan.
func (t Timeline) Final() *world.State {
	if len(t.Steps) == 0 {
		return t.Initial
	}
	return t.Steps[len(t.Steps)-1].State
}

// Delivered maps every victim standing at a hospital, and not on board, to
// that hospital.
func (t Timeline) Delivered() map[string]string {
	final := t.Final()
	out := make(map[string]string)
	if final == nil {
		return out
	}
	for _, id := range final.VictimIDs() {
		if hospital, ok := final.AtHospital(id); ok {
			out[id] = hospital
		}
	}
	return out
}

// Execute replays plan against a copy of initial. Every task becomes a leaf
// of a behaviour tree sequence; the first failing leaf stops the replay.
func Execute(domain *htn.Domain[*world.State], initial *world.State, plan []htn.Task) (Timeline, error) {
	if domain == nil {
		return Timeline{}, fmt.Errorf("dispatch: execute requires a domain")
	}
	if initial == nil {
		return Timeline{}, fmt.Errorf("dispatch: execute requires an initial state")
	}
	timeline := Timeline{Initial: initial.Clone(), Steps: make([]Step, 0, len(plan))}
	current := timeline.Initial

	leaves := make([]bt.Node, 0, len(plan))
	for i, task := range plan {
		index, task := i+1, task
		op, ok := domain.Operator(task.Name)
		if !ok {
			return timeline, fmt.Errorf("%w: step %d %s: %w", ErrStepFailed, index, task, htn.ErrUnknownTask)
		}
		leaves = append(leaves, bt.New(func([]bt.Node) (bt.Status, error) {
			next := current.Clone()
			if err := op(next, task.Args); err != nil {
				return bt.Failure, fmt.Errorf("%w: step %d %s: %w", ErrStepFailed, index, task, err)
			}
			current = next
			timeline.Steps = append(timeline.Steps, Step{Index: index, Task: task.Clone(), State: next})
			return bt.Success, nil
		}))
	}

	status, err := bt.New(bt.Sequence, leaves...).Tick()
	if err != nil {
		return timeline, err
	}
	if status != bt.Success {
		return timeline, fmt.Errorf("%w: replay ended with status %v", ErrStepFailed, status)
	}
	return timeline, nil
}
