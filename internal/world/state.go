// Package world holds the mutable state threaded through every operator and
// method during planning, together with the geometry helpers the emergency
// domain uses to pick hospitals and ambulances.
package world

import (
	"fmt"
	"sort"
	"strings"

	"github.com/franlo42/plan911/internal/scenario"
)

// AmbulanceState is the runtime view of an ambulance.
type AmbulanceState struct {
	ID          string
	Location    string
	MaxSeverity int
	// Victim is the ID of the victim currently on board, empty when free.
	Victim string
}

// Free reports whether the ambulance carries nobody.
func (a *AmbulanceState) Free() bool {
	return a.Victim == ""
}

// VictimState is the runtime view of a victim.
type VictimState struct {
	ID       string
	Location string
	Severity int
	Treated  bool
	// Ambulance is the ambulance assigned by select_ambulance.
	Ambulance string
	// InAmbulance is the ambulance the victim is riding in, empty otherwise.
	InAmbulance string
}

// State is the world a plan is applied to. Ambulances and Victims are
// mutated by operators; Hospitals and Coordinates are shared read-only with
// the scenario and every clone.
//
// Invariant: an ambulance carries at most one victim and a victim rides in at
// most one ambulance; AmbulanceState.Victim and VictimState.InAmbulance always
// point at each other.
type State struct {
	Name        string
	Ambulances  map[string]*AmbulanceState
	Victims     map[string]*VictimState
	Hospitals   map[string]scenario.Hospital
	Coordinates map[string]scenario.Point
}

// New builds the initial world for a scenario.
func New(s scenario.Scenario) *State {
	st := &State{
		Name:        s.ID,
		Ambulances:  make(map[string]*AmbulanceState, len(s.Ambulances)),
		Victims:     make(map[string]*VictimState, len(s.Victims)),
		Hospitals:   make(map[string]scenario.Hospital, len(s.Hospitals)),
		Coordinates: make(map[string]scenario.Point, len(s.Coordinates)),
	}
	for id, amb := range s.Ambulances {
		st.Ambulances[id] = &AmbulanceState{ID: id, Location: amb.Location, MaxSeverity: amb.MaxSeverity}
	}
	for id, v := range s.Victims {
		st.Victims[id] = &VictimState{ID: id, Location: v.Location, Severity: v.Severity, Treated: v.Treated}
	}
	for id, h := range s.Hospitals {
		st.Hospitals[id] = h
	}
	for name, p := range s.Coordinates {
		st.Coordinates[name] = p
	}
	return st
}

// Clone snapshots the mutable part of the state. The returned value can be
// mutated freely without affecting the receiver.
func (s *State) Clone() *State {
	clone := &State{
		Name:        s.Name,
		Ambulances:  make(map[string]*AmbulanceState, len(s.Ambulances)),
		Victims:     make(map[string]*VictimState, len(s.Victims)),
		Hospitals:   s.Hospitals,
		Coordinates: s.Coordinates,
	}
	for id, amb := range s.Ambulances {
		cp := *amb
		clone.Ambulances[id] = &cp
	}
	for id, v := range s.Victims {
		cp := *v
		clone.Victims[id] = &cp
	}
	return clone
}

// Ambulance looks up an ambulance by ID.
func (s *State) Ambulance(id string) (*AmbulanceState, bool) {
	amb, ok := s.Ambulances[id]
	return amb, ok
}

// Victim looks up a victim by ID.
func (s *State) Victim(id string) (*VictimState, bool) {
	v, ok := s.Victims[id]
	return v, ok
}

// Hospital looks up a hospital by ID.
func (s *State) Hospital(id string) (scenario.Hospital, bool) {
	h, ok := s.Hospitals[id]
	return h, ok
}

// Point returns the coordinates of a named location.
func (s *State) Point(location string) (scenario.Point, bool) {
	p, ok := s.Coordinates[location]
	return p, ok
}

// AmbulanceIDs returns ambulance IDs in lexical order.
func (s *State) AmbulanceIDs() []string { return sortedKeys(s.Ambulances) }

// VictimIDs returns victim IDs in lexical order.
func (s *State) VictimIDs() []string { return sortedKeys(s.Victims) }

// HospitalIDs returns hospital IDs in lexical order.
func (s *State) HospitalIDs() []string { return sortedKeys(s.Hospitals) }

// AtHospital reports whether the victim stands at any hospital location and is
// not on board an ambulance.
func (s *State) AtHospital(victim string) (string, bool) {
	v, ok := s.Victims[victim]
	if !ok || v.InAmbulance != "" {
		return "", false
	}
	for _, id := range s.HospitalIDs() {
		if s.Hospitals[id].Location == v.Location {
			return id, true
		}
	}
	return "", false
}

// Equal compares the fields operators own. VictimState.Ambulance is search
// bookkeeping written by methods and is ignored, so a replay of a plan equals
// the state the planner ended in.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Ambulances) != len(other.Ambulances) || len(s.Victims) != len(other.Victims) {
		return false
	}
	for id, amb := range s.Ambulances {
		o, ok := other.Ambulances[id]
		if !ok || *o != *amb {
			return false
		}
	}
	for id, v := range s.Victims {
		o, ok := other.Victims[id]
		if !ok {
			return false
		}
		if o.Location != v.Location || o.Severity != v.Severity || o.Treated != v.Treated || o.InAmbulance != v.InAmbulance {
			return false
		}
	}
	return true
}

// String renders the state on a few lines, ambulances first.
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "state %s\n", s.Name)
	for _, id := range s.AmbulanceIDs() {
		amb := s.Ambulances[id]
		carrying := amb.Victim
		if carrying == "" {
			carrying = "-"
		}
		fmt.Fprintf(&b, "  %s at %q cap=%d carrying=%s\n", id, amb.Location, amb.MaxSeverity, carrying)
	}
	for _, id := range s.VictimIDs() {
		v := s.Victims[id]
		fmt.Fprintf(&b, "  %s at %q severity=%d treated=%t assigned=%s in=%s\n",
			id, v.Location, v.Severity, v.Treated, orDash(v.Ambulance), orDash(v.InAmbulance))
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func sortedKeys[V any](values map[string]V) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
