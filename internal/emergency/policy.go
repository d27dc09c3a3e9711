package emergency

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/franlo42/plan911/internal/world"
)

const (
	// DefaultTreatmentThreshold is the minimum severity treat_victim_in_situ accepts.
	DefaultTreatmentThreshold = 8
	// DefaultTreatmentRule decides whether add_treatment emits a treatment.
	DefaultTreatmentRule = "severity > threshold && !treated"
)

// TreatmentEnv is the environment treatment rules are evaluated against.
type TreatmentEnv struct {
	Victim    string `expr:"victim"`
	Location  string `expr:"location"`
	Severity  int    `expr:"severity"`
	Treated   bool   `expr:"treated"`
	Threshold int    `expr:"threshold"`
}

// TreatmentPolicy is a compiled treatment rule.
type TreatmentPolicy struct {
	rule      string
	threshold int
	program   *vm.Program
}

// NewTreatmentPolicy compiles rule. An empty rule selects DefaultTreatmentRule.
func NewTreatmentPolicy(rule string, threshold int) (*TreatmentPolicy, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		rule = DefaultTreatmentRule
	}
	program, err := expr.Compile(rule, expr.Env(TreatmentEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("emergency: compile treatment rule %q: %w", rule, err)
	}
	return &TreatmentPolicy{rule: rule, threshold: threshold, program: program}, nil
}

// Rule returns the source of the compiled rule.
func (p *TreatmentPolicy) Rule() string { return p.rule }

// Threshold returns the configured treatment threshold.
func (p *TreatmentPolicy) Threshold() int { return p.threshold }

// Needs reports whether the victim should be treated before transport.
func (p *TreatmentPolicy) Needs(v *world.VictimState) (bool, error) {
	env := TreatmentEnv{
		Victim:    v.ID,
		Location:  v.Location,
		Severity:  v.Severity,
		Treated:   v.Treated,
		Threshold: p.threshold,
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("emergency: evaluate treatment rule for %s: %w", v.ID, err)
	}
	needs, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("emergency: treatment rule returned %T", out)
	}
	return needs, nil
}
