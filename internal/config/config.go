// internal/config/config.go
//
// This package handles configuration and the .plan911 directory structure.
// Every project that runs plan911 gets a .plan911/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// PlanDir is the name of the directory we create in each project
	PlanDir = ".plan911"

	defaultGoal          = "deliver_all_victims"
	defaultMaxExpansions = 10000
	defaultThreshold     = 8
	defaultTreatmentRule = "severity > threshold && !treated"
	maxVerbosity         = 3
)

const defaultProjectConfigYAML = `# plan911 project configuration
version: 1

# Scenario YAML to plan against, relative to the project root.
# Leave empty to use the built-in Valencia scenario.
scenario: ""

# Goal task list. Separate several tasks with ';', e.g.
# goal: deliver_victim Victim1 Hospital2; deliver_victim Victim3 Hospital2
goal: deliver_all_victims

planner:
  # 0 silent, 1 goal and result, 2 search frames, 3 operators and states
  verbose: 0
  max_expansions: 10000

treatment:
  # treat_victim_in_situ refuses victims below this severity
  threshold: 8
  # expr rule deciding whether a victim is treated before transport.
  # Variables: victim, location, severity, treated, threshold
  rule: severity > threshold && !treated
`

// PlannerConfig tunes the search.
type PlannerConfig struct {
	Verbose       int `yaml:"verbose"`
	MaxExpansions int `yaml:"max_expansions"`
}

// TreatmentConfig configures in-situ treatment.
type TreatmentConfig struct {
	Threshold int    `yaml:"threshold"`
	Rule      string `yaml:"rule"`
}

// ProjectConfig models .plan911/config.yaml.
type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Scenario  string          `yaml:"scenario"`
	Goal      string          `yaml:"goal"`
	Planner   PlannerConfig   `yaml:"planner"`
	Treatment TreatmentConfig `yaml:"treatment"`
}

// Config holds the runtime configuration for plan911.
type Config struct {
	// ProjectDir is the directory plan911 runs against
	ProjectDir string

	// PlanProjectDir is ProjectDir/.plan911
	PlanProjectDir string

	Project ProjectConfig
}

// InitPlanDir creates the .plan911 directory structure in the given project
// directory and writes the default config when none exists.
//
// Structure created:
// .plan911/
// ├── config.yaml
// └── logs/       <- planner trace and run journal
func InitPlanDir(projectDir string) error {
	planDir := filepath.Join(projectDir, PlanDir)
	if err := os.MkdirAll(filepath.Join(planDir, "logs"), 0755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(planDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:     projectDir,
		PlanProjectDir: filepath.Join(projectDir, PlanDir),
		Project:        defaultProjectConfig(),
	}

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.PlanProjectDir, "logs")
}

// TraceLogPath returns the planner trace log.
func (c *Config) TraceLogPath() string {
	return filepath.Join(c.LogsDir(), "plan911.log")
}

// JournalPath returns the run journal.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "runs.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.PlanProjectDir, "config.yaml")
}

// ScenarioPath returns the configured scenario file, resolved against the
// project directory. Empty means the built-in scenario.
func (c *Config) ScenarioPath() string {
	return c.Project.Scenario
}

// Goal returns the configured goal task list.
func (c *Config) Goal() string {
	return c.Project.Goal
}

// Verbosity returns the configured planner trace level.
func (c *Config) Verbosity() int {
	return c.Project.Planner.Verbose
}

// MaxExpansions returns the configured search bound.
func (c *Config) MaxExpansions() int {
	return c.Project.Planner.MaxExpansions
}

// Treatment returns the treatment settings.
func (c *Config) Treatment() TreatmentConfig {
	return c.Project.Treatment
}

// Override applies command line values on top of the file. Empty strings and
// negative verbosity leave the configured value in place.
func (c *Config) Override(scenarioPath, goal string, verbose int) error {
	if s := strings.TrimSpace(scenarioPath); s != "" {
		c.Project.Scenario = s
	}
	if g := strings.TrimSpace(goal); g != "" {
		c.Project.Goal = g
	}
	if verbose >= 0 {
		c.Project.Planner.Verbose = verbose
	}
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Goal:    defaultGoal,
		Planner: PlannerConfig{
			MaxExpansions: defaultMaxExpansions,
		},
		Treatment: TreatmentConfig{
			Threshold: defaultThreshold,
			Rule:      defaultTreatmentRule,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Planner.MaxExpansions == 0 {
		pc.Planner.MaxExpansions = defaultMaxExpansions
	}
	if pc.Treatment.Threshold == 0 {
		pc.Treatment.Threshold = defaultThreshold
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Scenario = resolvePath(base, pc.Scenario)
	pc.Goal = strings.TrimSpace(pc.Goal)
	if pc.Goal == "" {
		pc.Goal = defaultGoal
	}
	pc.Treatment.Rule = strings.TrimSpace(pc.Treatment.Rule)
	if pc.Treatment.Rule == "" {
		pc.Treatment.Rule = defaultTreatmentRule
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Planner.Verbose < 0 || pc.Planner.Verbose > maxVerbosity {
		return fmt.Errorf("planner.verbose must be between 0 and %d", maxVerbosity)
	}
	if pc.Planner.MaxExpansions < 0 {
		return fmt.Errorf("planner.max_expansions must be positive")
	}
	if pc.Treatment.Threshold < 0 {
		return fmt.Errorf("treatment.threshold must be >= 0")
	}
	if strings.TrimSpace(pc.Goal) == "" {
		return fmt.Errorf("goal is required")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
