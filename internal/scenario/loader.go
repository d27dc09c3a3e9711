package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseScenarioYAML decodes a scenario from YAML bytes.
func ParseScenarioYAML(data []byte) (Scenario, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Scenario{}, fmt.Errorf("scenario: payload is empty")
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("scenario: decode: %w", err)
	}
	return s.Normalized()
}

// LoadScenarioReader reads scenario data from an io.Reader.
func LoadScenarioReader(r io.Reader) (Scenario, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: read: %w", err)
	}
	return ParseScenarioYAML(content)
}

// LoadScenarioFile loads a scenario from an explicit file path.
func LoadScenarioFile(path string) (Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	s, parseErr := ParseScenarioYAML(content)
	if parseErr != nil {
		return Scenario{}, fmt.Errorf("scenario: %s: %w", path, parseErr)
	}
	return s, nil
}

// Load returns the scenario at path, or the built-in default when path is
// empty.
func Load(path string) (Scenario, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadScenarioFile(path)
}

// MarshalYAML encodes the scenario in the same shape ParseScenarioYAML reads.
func MarshalYAML(s Scenario) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("scenario: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("scenario: encode: %w", err)
	}
	return buf.Bytes(), nil
}
