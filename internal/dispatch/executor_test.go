package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franlo42/plan911/internal/emergency"
	"github.com/franlo42/plan911/internal/htn"
	"github.com/franlo42/plan911/internal/scenario"
	"github.com/franlo42/plan911/internal/world"
)

func newDomain(t *testing.T) *htn.Domain[*world.State] {
	t.Helper()
	d, err := emergency.NewDomain(emergency.Options{})
	require.NoError(t, err)
	return d
}

func TestExecuteReplaysPlannerPlan(t *testing.T) {
	domain := newDomain(t)
	initial := world.New(scenario.Default())
	planner, err := htn.NewPlanner(domain)
	require.NoError(t, err)
	res, err := planner.Plan(initial, emergency.DefaultGoal())
	require.NoError(t, err)

	timeline, err := Execute(domain, initial, res.Plan)
	require.NoError(t, err)
	require.Len(t, timeline.Steps, len(res.Plan))
	for i, step := range timeline.Steps {
		assert.Equal(t, i+1, step.Index)
		assert.True(t, res.Plan[i].Equal(step.Task))
	}
	assert.True(t, res.Final.Equal(timeline.Final()), "replay must end where the planner did")
	assert.Equal(t, map[string]string{
		"Victim1": "Hospital3",
		"Victim2": "Hospital1",
		"Victim3": "Hospital2",
	}, timeline.Delivered())

	assert.True(t, initial.Equal(world.New(scenario.Default())), "input state untouched")
	assert.False(t, timeline.Initial == initial, "replay works on a copy")
}

func TestExecuteSnapshotsAreIndependent(t *testing.T) {
	domain := newDomain(t)
	initial := world.New(scenario.Default())
	plan := []htn.Task{
		htn.NewTask(emergency.OpDriveAmbulance, "Amb1", "UPV"),
		htn.NewTask(emergency.OpDriveAmbulance, "Amb1", "Manises"),
	}
	timeline, err := Execute(domain, initial, plan)
	require.NoError(t, err)
	assert.Equal(t, "UPV", timeline.Steps[0].State.Ambulances["Amb1"].Location)
	assert.Equal(t, "Manises", timeline.Steps[1].State.Ambulances["Amb1"].Location)
	assert.Equal(t, "Hospital General", timeline.Initial.Ambulances["Amb1"].Location)
}

func TestExecuteStopsAtFailingStep(t *testing.T) {
	domain := newDomain(t)
	initial := world.New(scenario.Default())
	plan := []htn.Task{
		htn.NewTask(emergency.OpDriveAmbulance, "Amb1", "Paiporta"),
		htn.NewTask(emergency.OpLoadVictim, "Victim3", "Amb1"),
		htn.NewTask(emergency.OpDriveAmbulance, "Amb1", "UPV"),
	}
	timeline, err := Execute(domain, initial, plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStepFailed)
	assert.ErrorIs(t, err, htn.ErrPrecondition)
	assert.Contains(t, err.Error(), "step 2")
	require.Len(t, timeline.Steps, 1)
	assert.Equal(t, "Paiporta", timeline.Final().Ambulances["Amb1"].Location)
}

func TestExecuteRejectsCompoundTasks(t *testing.T) {
	_, err := Execute(newDomain(t), world.New(scenario.Default()), emergency.DefaultGoal())
	assert.ErrorIs(t, err, ErrStepFailed)
	assert.ErrorIs(t, err, htn.ErrUnknownTask)
}

func TestExecuteEmptyPlan(t *testing.T) {
	initial := world.New(scenario.Default())
	timeline, err := Execute(newDomain(t), initial, nil)
	require.NoError(t, err)
	assert.Empty(t, timeline.Steps)
	assert.True(t, initial.Equal(timeline.Final()))
	assert.Empty(t, timeline.Delivered())
}

func TestExecuteRequiresInputs(t *testing.T) {
	_, err := Execute(nil, world.New(scenario.Default()), nil)
	assert.Error(t, err)
	_, err = Execute(newDomain(t), nil, nil)
	assert.Error(t, err)
}
