package htn

import (
	"errors"
	"fmt"
)

// DefaultMaxExpansions bounds a single Plan call.
const DefaultMaxExpansions = 10000

// Cloner is implemented by planning states. Clone must return a value that
// can be mutated without affecting the receiver.
type Cloner[S any] interface {
	Clone() S
}

// Tracer receives search traces. *logging.Logger satisfies it.
type Tracer interface {
	Printf(format string, args ...any)
}

// Stats summarises a search.
type Stats struct {
	// Expansions counts operator and method applications.
	Expansions int
	// Backtracks counts failed operator and method applications.
	Backtracks int
	// MaxDepth is the deepest frame visited.
	MaxDepth int
}

// Result is the outcome of a successful search.
type Result[S any] struct {
	Plan  []Task
	Final S
	Stats Stats
}

// Option customizes a Planner.
type Option func(*options)

type options struct {
	tracer        Tracer
	verbosity     int
	maxExpansions int
}

// WithTracer enables search traces. Verbosity 0 is silent, 1 prints the goal
// and the result, 2 adds every frame and method choice, 3 adds operator
// applications, failures, and the state after each operator.
func WithTracer(t Tracer, verbosity int) Option {
	return func(o *options) {
		o.tracer = t
		o.verbosity = verbosity
	}
}

// WithMaxExpansions overrides DefaultMaxExpansions. Values <= 0 keep the default.
func WithMaxExpansions(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxExpansions = n
		}
	}
}

// Planner searches a Domain for a plan.
type Planner[S Cloner[S]] struct {
	domain *Domain[S]
	opts   options
}

// NewPlanner wires a planner to a domain.
func NewPlanner[S Cloner[S]](domain *Domain[S], opts ...Option) (*Planner[S], error) {
	if domain == nil {
		return nil, fmt.Errorf("htn: planner requires a domain")
	}
	o := options{maxExpansions: DefaultMaxExpansions}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Planner[S]{domain: domain, opts: o}, nil
}

// frame is one node of the search. Its state is never mutated after the frame
// is pushed; method is the index of the next method to try when the head task
// is compound.
type frame[S any] struct {
	state  S
	tasks  []Task
	plan   []Task
	depth  int
	method int
}

// Plan decomposes tasks against state and returns the first plan found by an
// ordered depth-first search. The input state is not modified.
func (p *Planner[S]) Plan(state S, tasks []Task) (Result[S], error) {
	var stats Stats
	p.tracef(1, "goal %s", FormatTasks(tasks))

	stack := []frame[S]{{state: state.Clone(), tasks: append([]Task(nil), tasks...)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > stats.MaxDepth {
			stats.MaxDepth = top.depth
		}

		if len(top.tasks) == 0 {
			p.tracef(1, "result %s", FormatTasks(top.plan))
			return Result[S]{Plan: top.plan, Final: top.state, Stats: stats}, nil
		}
		head, rest := top.tasks[0], top.tasks[1:]
		if top.method == 0 {
			p.tracef(2, "depth %d tasks %s", top.depth, FormatTasks(top.tasks))
		}

		if op, ok := p.domain.Operator(head.Name); ok {
			if stats.Expansions >= p.opts.maxExpansions {
				return Result[S]{Stats: stats}, fmt.Errorf("%w after %d expansions", ErrExpansionLimit, stats.Expansions)
			}
			stats.Expansions++
			next := top.state.Clone()
			if err := op(next, head.Args); err != nil {
				if !errors.Is(err, ErrPrecondition) {
					return Result[S]{Stats: stats}, fmt.Errorf("htn: operator %s: %w", head, err)
				}
				stats.Backtracks++
				p.tracef(3, "depth %d operator %s failed: %v", top.depth, head, err)
				continue
			}
			p.tracef(3, "depth %d applied %s\n%v", top.depth, head, next)
			stack = append(stack, frame[S]{
				state: next,
				tasks: rest,
				plan:  appendTask(top.plan, head),
				depth: top.depth + 1,
			})
			continue
		}

		methods := p.domain.Methods(head.Name)
		if len(methods) == 0 {
			return Result[S]{Stats: stats}, fmt.Errorf("%w: %s", ErrUnknownTask, head.Name)
		}
		if top.method >= len(methods) {
			p.tracef(2, "depth %d no method left for %s", top.depth, head)
			continue
		}
		if stats.Expansions >= p.opts.maxExpansions {
			return Result[S]{Stats: stats}, fmt.Errorf("%w after %d expansions", ErrExpansionLimit, stats.Expansions)
		}
		stats.Expansions++

		m := methods[top.method]
		alternative := top
		alternative.method++
		stack = append(stack, alternative)

		next := top.state.Clone()
		subtasks, err := m.Fn(next, head.Args)
		if err != nil {
			if !errors.Is(err, ErrPrecondition) {
				return Result[S]{Stats: stats}, fmt.Errorf("htn: method %s: %w", m.Name, err)
			}
			stats.Backtracks++
			p.tracef(3, "depth %d method %s failed: %v", top.depth, m.Name, err)
			continue
		}
		p.tracef(2, "depth %d method %s -> %s", top.depth, m.Name, FormatTasks(subtasks))
		stack = append(stack, frame[S]{
			state: next,
			tasks: prependTasks(subtasks, rest),
			plan:  top.plan,
			depth: top.depth + 1,
		})
	}

	p.tracef(1, "result none")
	return Result[S]{Stats: stats}, ErrNoPlan
}

func (p *Planner[S]) tracef(level int, format string, args ...any) {
	if p.opts.tracer == nil || p.opts.verbosity < level {
		return
	}
	p.opts.tracer.Printf(format, args...)
}
