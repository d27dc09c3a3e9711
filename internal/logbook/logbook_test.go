package logbook

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestTailOnMissingFile(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "logs", "runs.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	lines, total := book.Tail(10)
	if lines != nil || total != 0 {
		t.Fatalf("expected empty tail, got %v %d", lines, total)
	}
	var nilBook *Logbook
	nilBook.Info("ignored")
	if _, total := nilBook.Tail(1); total != 0 {
		t.Fatalf("nil logbook should be empty")
	}
}

func TestRecordLevels(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "runs.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Record(Run{ID: "r1", Goal: "deliver_all_victims", Scenario: "valencia", Outcome: OutcomePlanned, Steps: 12, Expansions: 40})
	book.Record(Run{ID: "r2", Goal: "deliver_all_victims", Scenario: "valencia", Outcome: OutcomeNoPlan, Backtracks: 3})
	book.Record(Run{ID: "r3", Goal: "bogus", Scenario: "valencia", Outcome: OutcomeFailed, Err: errors.New("unknown task")})

	lines, total := book.Tail(10)
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	checks := []struct {
		level string
		parts []string
	}{
		{"INFO", []string{"run=r1", `goal="deliver_all_victims"`, "outcome=planned", "steps=12", "expansions=40"}},
		{"WARN", []string{"run=r2", "outcome=no-plan", "backtracks=3"}},
		{"ERROR", []string{"run=r3", "outcome=failed", `err="unknown task"`}},
	}
	for i, check := range checks {
		if !strings.Contains(lines[i], " "+check.level) {
			t.Fatalf("line %d = %q, want level %s", i, lines[i], check.level)
		}
		for _, part := range check.parts {
			if !strings.Contains(lines[i], part) {
				t.Fatalf("line %d = %q, missing %s", i, lines[i], part)
			}
		}
	}
}

func TestRecordAssignsRunID(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "runs.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Record(Run{Goal: "deliver_all_victims", Outcome: OutcomePlanned})
	lines, _ := book.Tail(1)
	if len(lines) != 1 {
		t.Fatalf("expected one line")
	}
	field := strings.Fields(lines[0])[2]
	id := strings.TrimPrefix(field, "run=")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", id, err)
	}
}
