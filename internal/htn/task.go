package htn

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrecondition marks an operator or method that does not apply to the
	// current state. The planner backtracks when it sees it.
	ErrPrecondition = errors.New("htn: precondition failed")
	// ErrBadArgs marks a task invoked with the wrong arguments.
	ErrBadArgs = errors.New("htn: bad task arguments")
	// ErrNoPlan is returned when every alternative has been exhausted.
	ErrNoPlan = errors.New("htn: no plan found")
	// ErrUnknownTask is returned for a task that is neither an operator nor a
	// compound task of the domain.
	ErrUnknownTask = errors.New("htn: unknown task")
	// ErrExpansionLimit is returned when the search exceeds its budget.
	ErrExpansionLimit = errors.New("htn: expansion limit reached")
)

// Task is a named task with positional string arguments.
type Task struct {
	Name string
	Args []string
}

// NewTask builds a task.
func NewTask(name string, args ...string) Task {
	t := Task{Name: name}
	if len(args) > 0 {
		t.Args = append([]string(nil), args...)
	}
	return t
}

// Arg returns the i-th argument or the empty string.
func (t Task) Arg(i int) string {
	if i < 0 || i >= len(t.Args) {
		return ""
	}
	return t.Args[i]
}

// Clone returns a copy that does not share the argument slice.
func (t Task) Clone() Task {
	return NewTask(t.Name, t.Args...)
}

// Equal compares name and arguments.
func (t Task) Equal(other Task) bool {
	if t.Name != other.Name || len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if t.Args[i] != other.Args[i] {
			return false
		}
	}
	return true
}

// String renders the task as (name arg1 arg2).
func (t Task) String() string {
	if len(t.Args) == 0 {
		return "(" + t.Name + ")"
	}
	return "(" + t.Name + " " + strings.Join(t.Args, " ") + ")"
}

// FormatTasks renders a task list as space separated tasks.
func FormatTasks(tasks []Task) string {
	if len(tasks) == 0 {
		return "[]"
	}
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ParseTask parses "name arg1 arg2" or "(name arg1 arg2)".
func ParseTask(s string) (Task, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "(") {
		if !strings.HasSuffix(trimmed, ")") {
			return Task{}, fmt.Errorf("htn: unbalanced task %q", s)
		}
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return Task{}, fmt.Errorf("htn: empty task %q", s)
	}
	return NewTask(fields[0], fields[1:]...), nil
}

// ParseTasks parses a ';' separated task list.
func ParseTasks(s string) ([]Task, error) {
	var out []Task
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseTask(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("htn: no tasks in %q", s)
	}
	return out, nil
}

// CheckArgs validates the argument count of a task invocation.
func CheckArgs(task string, args []string, want int) error {
	if len(args) != want {
		return fmt.Errorf("%s: want %d args, got %d: %w", task, want, len(args), ErrBadArgs)
	}
	return nil
}

// Failf builds an error wrapping ErrPrecondition.
func Failf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrPrecondition)
}

func appendTask(plan []Task, t Task) []Task {
	out := make([]Task, len(plan), len(plan)+1)
	copy(out, plan)
	return append(out, t)
}

func prependTasks(head, rest []Task) []Task {
	out := make([]Task, 0, len(head)+len(rest))
	out = append(out, head...)
	return append(out, rest...)
}
