package htn

import (
	"fmt"
	"sort"
	"sync"
)

// Operator applies a primitive task to state. A nil error means the state was
// mutated successfully; any error means the state must be discarded.
type Operator[S any] func(state S, args []string) error

// Method decomposes a compound task into subtasks. A method may record
// bookkeeping in state (for instance, an assignment); those changes only
// survive if the decomposition is used.
type Method[S any] func(state S, args []string) ([]Task, error)

// NamedMethod pairs a method with the name used in traces.
type NamedMethod[S any] struct {
	Name string
	Fn   Method[S]
}

// Domain maintains the operators and methods known to a planner.
type Domain[S any] struct {
	name string

	mu        sync.RWMutex
	operators map[string]Operator[S]
	methods   map[string][]NamedMethod[S]
}

// NewDomain returns an empty domain.
func NewDomain[S any](name string) *Domain[S] {
	return &Domain[S]{
		name:      name,
		operators: map[string]Operator[S]{},
		methods:   map[string][]NamedMethod[S]{},
	}
}

// Name returns the domain name.
func (d *Domain[S]) Name() string {
	return d.name
}

// RegisterOperator installs a primitive task. Returns an error if the name is
// already used by an operator or a compound task.
func (d *Domain[S]) RegisterOperator(name string, op Operator[S]) error {
	if name == "" {
		return fmt.Errorf("htn: operator name is required")
	}
	if op == nil {
		return fmt.Errorf("htn: operator %s is nil", name)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.operators[name]; exists {
		return fmt.Errorf("htn: operator %s already registered", name)
	}
	if _, exists := d.methods[name]; exists {
		return fmt.Errorf("htn: %s already registered as a compound task", name)
	}
	d.operators[name] = op
	return nil
}

// MustRegisterOperator panics if registration fails.
func (d *Domain[S]) MustRegisterOperator(name string, op Operator[S]) {
	if err := d.RegisterOperator(name, op); err != nil {
		panic(err)
	}
}

// RegisterMethods declares a compound task and the methods that decompose it,
// in the order the planner tries them.
func (d *Domain[S]) RegisterMethods(task string, methods ...NamedMethod[S]) error {
	if task == "" {
		return fmt.Errorf("htn: task name is required")
	}
	if len(methods) == 0 {
		return fmt.Errorf("htn: task %s needs at least one method", task)
	}
	for i, m := range methods {
		if m.Fn == nil {
			return fmt.Errorf("htn: task %s method[%d] is nil", task, i)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.methods[task]; exists {
		return fmt.Errorf("htn: task %s already registered", task)
	}
	if _, exists := d.operators[task]; exists {
		return fmt.Errorf("htn: %s already registered as an operator", task)
	}
	list := make([]NamedMethod[S], len(methods))
	for i, m := range methods {
		if m.Name == "" {
			m.Name = fmt.Sprintf("%s#%d", task, i)
		}
		list[i] = m
	}
	d.methods[task] = list
	return nil
}

// MustRegisterMethods panics if registration fails.
func (d *Domain[S]) MustRegisterMethods(task string, methods ...NamedMethod[S]) {
	if err := d.RegisterMethods(task, methods...); err != nil {
		panic(err)
	}
}

// Operator looks up a primitive task.
func (d *Domain[S]) Operator(name string) (Operator[S], bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	op, ok := d.operators[name]
	return op, ok
}

// Methods returns the methods of a compound task in declaration order.
func (d *Domain[S]) Methods(task string) []NamedMethod[S] {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.methods[task]
}

// OperatorNames returns the operator names in lexical order.
func (d *Domain[S]) OperatorNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.operators))
	for name := range d.operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TaskNames returns the compound task names in lexical order.
func (d *Domain[S]) TaskNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
