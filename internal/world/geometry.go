package world

import (
	"math"

	"github.com/franlo42/plan911/internal/scenario"
)

// Distance is the Euclidean distance between two points.
func Distance(p1, p2 scenario.Point) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}

// ChooseHospital returns the hospital closest to the victim. It reports false
// when the victim is unknown, the victim's location has no coordinates, the
// victim already stands at a hospital, or no hospital has coordinates.
// Hospitals are scanned in lexical ID order and only a strictly shorter
// distance replaces the current best, so ties go to the lowest ID.
func ChooseHospital(s *State, victim string) (string, bool) {
	v, ok := s.Victims[victim]
	if !ok {
		return "", false
	}
	from, ok := s.Point(v.Location)
	if !ok {
		return "", false
	}
	best := ""
	bestDistance := math.Inf(1)
	for _, id := range s.HospitalIDs() {
		loc := s.Hospitals[id].Location
		if loc == v.Location {
			return "", false
		}
		to, ok := s.Point(loc)
		if !ok {
			continue
		}
		if d := Distance(from, to); d < bestDistance {
			bestDistance = d
			best = id
		}
	}
	return best, best != ""
}

// AmbulanceFilter selects candidate ambulances.
type AmbulanceFilter func(*AmbulanceState) bool

// CanCarry accepts free ambulances whose capacity covers the severity.
func CanCarry(severity int) AmbulanceFilter {
	return func(a *AmbulanceState) bool {
		return a.Free() && a.MaxSeverity >= severity
	}
}

// AmbulancesAt returns, in lexical ID order, the ambulances standing at a
// location and accepted by the filter.
func AmbulancesAt(s *State, location string, filter AmbulanceFilter) []string {
	var out []string
	for _, id := range s.AmbulanceIDs() {
		amb := s.Ambulances[id]
		if amb.Location != location {
			continue
		}
		if filter != nil && !filter(amb) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// NearestAmbulance returns the ambulance accepted by the filter that is
// closest to the victim. Ambulances at locations without coordinates are
// ignored; ties go to the lowest ID.
func NearestAmbulance(s *State, victim string, filter AmbulanceFilter) (string, float64, bool) {
	v, ok := s.Victims[victim]
	if !ok {
		return "", 0, false
	}
	target, ok := s.Point(v.Location)
	if !ok {
		return "", 0, false
	}
	best := ""
	bestDistance := math.Inf(1)
	for _, id := range s.AmbulanceIDs() {
		amb := s.Ambulances[id]
		if filter != nil && !filter(amb) {
			continue
		}
		from, ok := s.Point(amb.Location)
		if !ok {
			continue
		}
		if d := Distance(from, target); d < bestDistance {
			bestDistance = d
			best = id
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, bestDistance, true
}
