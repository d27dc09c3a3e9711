package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franlo42/plan911/internal/dispatch"
	"github.com/franlo42/plan911/internal/emergency"
	"github.com/franlo42/plan911/internal/htn"
	"github.com/franlo42/plan911/internal/logbook"
	"github.com/franlo42/plan911/internal/scenario"
	"github.com/franlo42/plan911/internal/world"
)

func defaultRun(t *testing.T) Run {
	t.Helper()
	domain, err := emergency.NewDomain(emergency.Options{})
	require.NoError(t, err)
	planner, err := htn.NewPlanner(domain)
	require.NoError(t, err)
	initial := world.New(scenario.Default())
	res, err := planner.Plan(initial, emergency.DefaultGoal())
	require.NoError(t, err)
	timeline, err := dispatch.Execute(domain, initial, res.Plan)
	require.NoError(t, err)
	return Run{ID: "run-1", Goal: "deliver_all_victims", Timeline: timeline}
}

func press(t *testing.T, app *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := app.Update(msg)
	require.Same(t, app, model)
	return cmd
}

func TestViewerStartsOnInitialState(t *testing.T) {
	app := NewApp(defaultRun(t))
	press(t, app, tea.WindowSizeMsg{Width: 160, Height: 50})
	assert.Equal(t, 0, app.Selected())

	view := app.View()
	assert.Contains(t, view, "deliver_all_victims")
	assert.Contains(t, view, "AFTER STEP 0")
	assert.Contains(t, view, "Paiporta")
	assert.Contains(t, view, "run run-1")
}

func TestViewerMovesSelection(t *testing.T) {
	app := NewApp(defaultRun(t))
	press(t, app, tea.WindowSizeMsg{Width: 160, Height: 50})

	press(t, app, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.Selected())
	item, ok := app.selectedItem()
	require.True(t, ok)
	assert.Equal(t, "Paiporta", item.state.Ambulances["Amb3"].Location)
	assert.Contains(t, app.View(), "AFTER STEP 1")

	press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, app.Selected())
	press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	press(t, app, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, app.Selected())
}

func TestViewerQuits(t *testing.T) {
	app := NewApp(defaultRun(t))
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		cmd := press(t, app, msg)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, msg.String())
	}
}

func TestStepItems(t *testing.T) {
	run := defaultRun(t)
	items := buildStepItems(run.Timeline)
	require.Len(t, items, len(run.Timeline.Steps)+1)

	first := items[1].(stepItem)
	assert.Equal(t, " 1. (drive_ambulance Amb3 Paiporta)", first.Title())
	assert.Equal(t, "Amb3 drives to Paiporta", first.Description())

	last := items[len(items)-1].(stepItem)
	assert.Equal(t, "Victim3 handed over at Hospital2", last.Description())
}

func TestViewerShowsLogbookTail(t *testing.T) {
	lb, err := logbook.New(filepath.Join(t.TempDir(), "runs.log"))
	require.NoError(t, err)
	lb.Record(logbook.Run{ID: "run-1", Goal: "deliver_all_victims", Outcome: logbook.OutcomePlanned, Steps: 12})

	app := NewApp(defaultRun(t), WithLogbook(lb))
	view := app.View()
	assert.Contains(t, view, "LOG · runs.log · 1 run(s)")
	assert.Contains(t, view, "run=run-1")
}
