package scenario

import (
	"fmt"
	"sort"
	"strings"
)

// Point is a position on the scenario map.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Ambulance declares an ambulance and the most severe victim it can carry.
type Ambulance struct {
	ID          string `yaml:"id,omitempty"`
	Location    string `yaml:"location"`
	MaxSeverity int    `yaml:"max_severity"`
}

// Victim declares a victim awaiting transport.
type Victim struct {
	ID       string `yaml:"id,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Age      int    `yaml:"age,omitempty"`
	Location string `yaml:"location"`
	Severity int    `yaml:"severity"`
	Treated  bool   `yaml:"treated,omitempty"`
}

// Hospital declares a receiving hospital. Hospitals never move.
type Hospital struct {
	ID       string `yaml:"id,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Location string `yaml:"location"`
}

// Scenario is the static input of a planning run. It is treated as
// immutable once normalized; world.New copies whatever it mutates.
type Scenario struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name,omitempty"`
	Ambulances  map[string]Ambulance `yaml:"ambulances"`
	Victims     map[string]Victim    `yaml:"victims"`
	Hospitals   map[string]Hospital  `yaml:"hospitals"`
	Coordinates map[string]Point     `yaml:"coordinates"`
}

// Clone returns a deep copy of the scenario.
func (s Scenario) Clone() Scenario {
	clone := Scenario{ID: s.ID, Name: s.Name}
	if s.Ambulances != nil {
		clone.Ambulances = make(map[string]Ambulance, len(s.Ambulances))
		for id, amb := range s.Ambulances {
			clone.Ambulances[id] = amb
		}
	}
	if s.Victims != nil {
		clone.Victims = make(map[string]Victim, len(s.Victims))
		for id, v := range s.Victims {
			clone.Victims[id] = v
		}
	}
	if s.Hospitals != nil {
		clone.Hospitals = make(map[string]Hospital, len(s.Hospitals))
		for id, h := range s.Hospitals {
			clone.Hospitals[id] = h
		}
	}
	if s.Coordinates != nil {
		clone.Coordinates = make(map[string]Point, len(s.Coordinates))
		for name, p := range s.Coordinates {
			clone.Coordinates[name] = p
		}
	}
	return clone
}

// Validate ensures the scenario is self-consistent. Locations missing from
// the coordinate map are allowed; geometry simply finds no candidate for them.
func (s Scenario) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("scenario: id is required")
	}
	for _, key := range sortedKeys(s.Ambulances) {
		amb := s.Ambulances[key]
		if err := checkEntity(key, amb.ID, amb.Location); err != nil {
			return fmt.Errorf("scenario %s ambulance %s: %w", s.ID, key, err)
		}
		if amb.MaxSeverity < 0 {
			return fmt.Errorf("scenario %s ambulance %s: max_severity must be >= 0", s.ID, key)
		}
	}
	for _, key := range sortedKeys(s.Victims) {
		v := s.Victims[key]
		if err := checkEntity(key, v.ID, v.Location); err != nil {
			return fmt.Errorf("scenario %s victim %s: %w", s.ID, key, err)
		}
		if v.Severity < 0 {
			return fmt.Errorf("scenario %s victim %s: severity must be >= 0", s.ID, key)
		}
	}
	for _, key := range sortedKeys(s.Hospitals) {
		h := s.Hospitals[key]
		if err := checkEntity(key, h.ID, h.Location); err != nil {
			return fmt.Errorf("scenario %s hospital %s: %w", s.ID, key, err)
		}
	}
	for name := range s.Coordinates {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("scenario %s: coordinate with empty location name", s.ID)
		}
	}
	return nil
}

// Normalized clones the scenario, fills entity IDs from their map keys,
// trims whitespace, and validates the result.
func (s Scenario) Normalized() (Scenario, error) {
	clone := s.Clone()
	clone.ID = strings.TrimSpace(clone.ID)
	clone.Name = strings.TrimSpace(clone.Name)
	for key, amb := range clone.Ambulances {
		if amb.ID == "" {
			amb.ID = key
		}
		amb.Location = strings.TrimSpace(amb.Location)
		clone.Ambulances[key] = amb
	}
	for key, v := range clone.Victims {
		if v.ID == "" {
			v.ID = key
		}
		v.Name = strings.TrimSpace(v.Name)
		v.Location = strings.TrimSpace(v.Location)
		clone.Victims[key] = v
	}
	for key, h := range clone.Hospitals {
		if h.ID == "" {
			h.ID = key
		}
		h.Name = strings.TrimSpace(h.Name)
		h.Location = strings.TrimSpace(h.Location)
		clone.Hospitals[key] = h
	}
	if err := clone.Validate(); err != nil {
		return Scenario{}, err
	}
	return clone, nil
}

// AmbulanceIDs returns ambulance identifiers in lexical order.
func (s Scenario) AmbulanceIDs() []string { return sortedKeys(s.Ambulances) }

// VictimIDs returns victim identifiers in lexical order.
func (s Scenario) VictimIDs() []string { return sortedKeys(s.Victims) }

// HospitalIDs returns hospital identifiers in lexical order.
func (s Scenario) HospitalIDs() []string { return sortedKeys(s.Hospitals) }

func checkEntity(key, id, location string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("id is required")
	}
	if id != "" && id != key {
		return fmt.Errorf("id %q does not match key", id)
	}
	if location == "" {
		return fmt.Errorf("location is required")
	}
	return nil
}

func sortedKeys[V any](values map[string]V) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
