// cmd/plan911/main.go
//
// Entry point for the plan911 CLI. It plans ambulance dispatch for a
// scenario, replays the plan, and prints it or opens the viewer.
//
// Flow:
// 1. Bootstrap .plan911/ and load the project config
// 2. Load the scenario and build the planning domain
// 3. Plan, replay, journal the run
// 4. Print the timeline or launch the TUI

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/franlo42/plan911/internal/config"
	"github.com/franlo42/plan911/internal/dispatch"
	"github.com/franlo42/plan911/internal/emergency"
	"github.com/franlo42/plan911/internal/htn"
	"github.com/franlo42/plan911/internal/logbook"
	"github.com/franlo42/plan911/internal/logging"
	"github.com/franlo42/plan911/internal/scenario"
	"github.com/franlo42/plan911/internal/tui"
	"github.com/franlo42/plan911/internal/world"
)

// errNoPlan is returned by run after "no plan found" has been printed.
var errNoPlan = errors.New("no plan found")

type options struct {
	project  string
	scenario string
	goal     string
	verbose  int
	tui      bool
	history  int
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func main() {
	var opts options
	flag.StringVar(&opts.project, "project", "", "path to the project directory (defaults to cwd)")
	flag.StringVar(&opts.scenario, "scenario", "", "scenario YAML file (defaults to config, then the built-in scenario)")
	flag.StringVar(&opts.goal, "goal", "", "goal tasks separated by ';' (e.g. \"deliver_victim Victim1 Hospital2\")")
	flag.IntVar(&opts.verbose, "v", -1, "planner trace verbosity 0-3 (defaults to config)")
	flag.BoolVar(&opts.tui, "tui", false, "open the plan viewer instead of printing the plan")
	flag.IntVar(&opts.history, "history", 0, "print the last N journal entries and exit")
	flag.Parse()

	if err := run(opts, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errNoPlan) {
			os.Exit(1)
		}
		die("%v", err)
	}
}

func run(opts options, stdout, stderr io.Writer) error {
	project := opts.project
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		return fmt.Errorf("resolve project dir: %w", err)
	}
	if err := config.InitPlanDir(absoluteProject); err != nil {
		return fmt.Errorf("init %s: %w", config.PlanDir, err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Override(opts.scenario, opts.goal, opts.verbose); err != nil {
		return err
	}

	journal, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if opts.history > 0 {
		printHistory(stdout, journal, opts.history)
		return nil
	}

	logger, err := logging.New(cfg.TraceLogPath())
	if err != nil {
		return err
	}
	defer logger.Close()
	if cfg.Verbosity() > 0 {
		logger.Mirror(stderr)
	}

	sc, err := scenario.Load(cfg.ScenarioPath())
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	goal, err := htn.ParseTasks(cfg.Goal())
	if err != nil {
		return fmt.Errorf("parse goal: %w", err)
	}

	domainOpts := emergency.Options{
		Threshold:     cfg.Treatment().Threshold,
		TreatmentRule: cfg.Treatment().Rule,
	}
	if cfg.Verbosity() >= 2 {
		domainOpts.Tracer = logger
	}
	domain, err := emergency.NewDomain(domainOpts)
	if err != nil {
		return err
	}
	planner, err := htn.NewPlanner(domain,
		htn.WithTracer(logger, cfg.Verbosity()),
		htn.WithMaxExpansions(cfg.MaxExpansions()),
	)
	if err != nil {
		return err
	}

	entry := logbook.Run{
		ID:       logbook.NewRunID(),
		Goal:     htn.FormatTasks(goal),
		Scenario: sc.ID,
	}
	initial := world.New(sc)
	result, err := planner.Plan(initial, goal)
	entry.Expansions = result.Stats.Expansions
	entry.Backtracks = result.Stats.Backtracks
	if err != nil {
		if errors.Is(err, htn.ErrNoPlan) {
			entry.Outcome = logbook.OutcomeNoPlan
			journal.Record(entry)
			fmt.Fprintf(stdout, "run %s\n", entry.ID)
			fmt.Fprintln(stdout, "no plan found")
			return errNoPlan
		}
		entry.Outcome = logbook.OutcomeFailed
		entry.Err = err
		journal.Record(entry)
		return fmt.Errorf("plan: %w", err)
	}

	timeline, err := dispatch.Execute(domain, initial, result.Plan)
	if err != nil {
		entry.Outcome = logbook.OutcomeFailed
		entry.Err = err
		journal.Record(entry)
		return err
	}
	entry.Outcome = logbook.OutcomePlanned
	entry.Steps = len(timeline.Steps)
	journal.Record(entry)

	if opts.tui {
		app := tui.NewApp(tui.Run{ID: entry.ID, Goal: entry.Goal, Timeline: timeline}, tui.WithLogbook(journal))
		if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("run viewer: %w", err)
		}
		return nil
	}
	printTimeline(stdout, entry, result.Stats, timeline)
	return nil
}

func printTimeline(w io.Writer, entry logbook.Run, stats htn.Stats, timeline dispatch.Timeline) {
	fmt.Fprintf(w, "run %s\n", entry.ID)
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("scenario %s · goal %s · %d expansion(s), %d backtrack(s)",
		entry.Scenario, entry.Goal, stats.Expansions, stats.Backtracks)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Plan (%d steps)", len(timeline.Steps))))
	for _, step := range timeline.Steps {
		fmt.Fprintf(w, "%3d. %s\n", step.Index, step.Task)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Victims"))
	final := timeline.Final()
	delivered := timeline.Delivered()
	for _, id := range final.VictimIDs() {
		v := final.Victims[id]
		where := v.Location
		if hospital, ok := delivered[id]; ok {
			where = fmt.Sprintf("%s (%s)", v.Location, hospital)
		} else if v.InAmbulance != "" {
			where = fmt.Sprintf("in %s at %s", v.InAmbulance, v.Location)
		}
		fmt.Fprintf(w, "  %-8s %s\n", id, where)
	}
}

func printHistory(w io.Writer, journal *logbook.Logbook, n int) {
	lines, total := journal.Tail(n)
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("History (%d of %d)", len(lines), total)))
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
