// internal/tui/app.go
//
// This is the plan viewer for plan911. It uses bubbletea, which follows The
// Elm Architecture:
//
// 1. Model: the replayed plan and the selected step
// 2. Update: moves the selection on key presses
// 3. View: renders the step list next to the world after the selected step

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/franlo42/plan911/internal/dispatch"
	"github.com/franlo42/plan911/internal/emergency"
	"github.com/franlo42/plan911/internal/logbook"
	"github.com/franlo42/plan911/internal/world"
)

// Run is what the viewer displays.
type Run struct {
	ID       string
	Goal     string
	Timeline dispatch.Timeline
}

// AppOption customizes App construction.
type AppOption func(*App)

// WithLogbook shows the tail of the run journal under the board.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// stepItem implements list.Item for one plan step. Index 0 is the initial
// world.
type stepItem struct {
	index int
	title string
	desc  string
	state *world.State
}

func (i stepItem) Title() string       { return i.title }
func (i stepItem) Description() string { return i.desc }
func (i stepItem) FilterValue() string { return i.title }

// App is the viewer model.
type App struct {
	run     Run
	steps   list.Model
	logbook *logbook.Logbook

	width  int
	height int
}

// NewApp builds the viewer for a replayed plan.
func NewApp(run Run, opts ...AppOption) *App {
	items := buildStepItems(run.Timeline)
	steps := list.New(items, list.NewDefaultDelegate(), 0, 0)
	steps.Title = fmt.Sprintf("PLAN · %d step(s)", len(run.Timeline.Steps))
	steps.SetShowStatusBar(false)
	steps.SetFilteringEnabled(false)
	steps.SetShowHelp(false)

	app := &App{run: run, steps: steps}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app
}

func buildStepItems(tl dispatch.Timeline) []list.Item {
	items := make([]list.Item, 0, len(tl.Steps)+1)
	items = append(items, stepItem{
		index: 0,
		title: " 0. initial state",
		desc:  fmt.Sprintf("%d ambulance(s), %d victim(s)", len(tl.Initial.Ambulances), len(tl.Initial.Victims)),
		state: tl.Initial,
	})
	for _, step := range tl.Steps {
		items = append(items, stepItem{
			index: step.Index,
			title: fmt.Sprintf("%2d. %s", step.Index, step.Task),
			desc:  describeStep(step),
			state: step.State,
		})
	}
	return items
}

func describeStep(step dispatch.Step) string {
	args := step.Task.Args
	switch step.Task.Name {
	case emergency.OpDriveAmbulance:
		if len(args) == 2 {
			return fmt.Sprintf("%s drives to %s", args[0], args[1])
		}
	case emergency.OpLoadVictim:
		if len(args) == 2 {
			return fmt.Sprintf("%s boards %s", args[0], args[1])
		}
	case emergency.OpTreatVictim:
		if len(args) == 1 {
			return fmt.Sprintf("%s treated on site", args[0])
		}
	case emergency.OpDriveToHospital:
		if len(args) == 2 {
			return fmt.Sprintf("%s heads to %s", args[0], args[1])
		}
	case emergency.OpUnloadVictim:
		if len(args) == 3 {
			return fmt.Sprintf("%s handed over at %s", args[0], args[1])
		}
	}
	return step.Task.String()
}

// Selected returns the index of the selected step, 0 being the initial world.
func (a *App) Selected() int {
	return a.steps.Index()
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.steps.SetSize(max(20, a.listWidth()-4), max(5, msg.Height-8))
		return a, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		}
	}
	var cmd tea.Cmd
	a.steps, cmd = a.steps.Update(msg)
	return a, cmd
}

// View renders the board.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render(fmt.Sprintf("⬡ PLAN911 · %s", a.run.Goal))

	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(a.steps.View())
	rightBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(30, a.width-a.listWidth()-4)).
		Render(a.renderDetail())
	sections := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(fmt.Sprintf("run %s · ↑/↓ select · q quit", a.run.ID))
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) listWidth() int {
	if a.width == 0 {
		return 48
	}
	return max(40, a.width/2)
}

func (a *App) selectedItem() (stepItem, bool) {
	item, ok := a.steps.SelectedItem().(stepItem)
	return item, ok
}

func (a *App) renderDetail() string {
	item, ok := a.selectedItem()
	if !ok || item.state == nil {
		return "No step selected."
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	return strings.Join([]string{
		title.Render(fmt.Sprintf("AFTER STEP %d", item.index)),
		"",
		title.Render("Ambulances"),
		renderAmbulances(item.state, muted),
		"",
		title.Render("Victims"),
		renderVictims(item.state, muted),
	}, "\n")
}

func renderAmbulances(st *world.State, muted lipgloss.Style) string {
	var lines []string
	for _, id := range st.AmbulanceIDs() {
		amb := st.Ambulances[id]
		carrying := muted.Render("free")
		if !amb.Free() {
			carrying = "carrying " + amb.Victim
		}
		lines = append(lines, fmt.Sprintf("%-6s %-36s cap %-2d %s", id, amb.Location, amb.MaxSeverity, carrying))
	}
	if len(lines) == 0 {
		return muted.Render("none")
	}
	return strings.Join(lines, "\n")
}

func renderVictims(st *world.State, muted lipgloss.Style) string {
	var lines []string
	for _, id := range st.VictimIDs() {
		v := st.Victims[id]
		status := muted.Render("waiting")
		switch {
		case v.InAmbulance != "":
			status = "in " + v.InAmbulance
		default:
			if hospital, ok := st.AtHospital(id); ok {
				status = "delivered to " + hospital
			}
		}
		treated := ""
		if v.Treated {
			treated = " treated"
		}
		lines = append(lines, fmt.Sprintf("%-8s %-36s sev %-2d %s%s", id, v.Location, v.Severity, status, treated))
	}
	if len(lines) == 0 {
		return muted.Render("none")
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(5)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s · %d run(s)", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}
