package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Outcome values recorded for a planning run.
const (
	OutcomePlanned = "planned"
	OutcomeNoPlan  = "no-plan"
	OutcomeFailed  = "failed"
)

// Logbook persists planning runs to a simple text file.
type Logbook struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a logbook that writes to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path, now: time.Now}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s %-5s %s\n",
		l.now().UTC().Format(time.RFC3339),
		string(level),
		strings.TrimSpace(message),
	)
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Tail returns up to maxLines of the most recent entries and the number of
// entries in the logbook.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total == 0 {
		return nil, 0
	}
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Run summarises one planning run.
type Run struct {
	ID         string
	Goal       string
	Scenario   string
	Outcome    string
	Steps      int
	Expansions int
	Backtracks int
	Err        error
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Record appends a run. Planned runs are INFO, runs without a plan WARN, and
// failed runs ERROR with the error appended.
func (l *Logbook) Record(run Run) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	msg := fmt.Sprintf("run=%s goal=%q scenario=%s outcome=%s steps=%d expansions=%d backtracks=%d",
		run.ID, run.Goal, run.Scenario, run.Outcome, run.Steps, run.Expansions, run.Backtracks)
	switch run.Outcome {
	case OutcomePlanned:
		l.Info("%s", msg)
	case OutcomeNoPlan:
		l.Warn("%s", msg)
	default:
		if run.Err != nil {
			msg += fmt.Sprintf(" err=%q", run.Err.Error())
		}
		l.Error("%s", msg)
	}
}
