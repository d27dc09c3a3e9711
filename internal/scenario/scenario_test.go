package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultScenarioMatchesDataset(t *testing.T) {
	s := Default()
	if s.ID != DefaultID {
		t.Fatalf("default id = %q, want %q", s.ID, DefaultID)
	}
	if got := strings.Join(s.AmbulanceIDs(), ","); got != "Amb1,Amb2,Amb3" {
		t.Fatalf("ambulances = %s", got)
	}
	if got := strings.Join(s.VictimIDs(), ","); got != "Victim1,Victim2,Victim3" {
		t.Fatalf("victims = %s", got)
	}
	if got := strings.Join(s.HospitalIDs(), ","); got != "Hospital1,Hospital2,Hospital3" {
		t.Fatalf("hospitals = %s", got)
	}
	if len(s.Coordinates) != 8 {
		t.Fatalf("expected 8 coordinates, got %d", len(s.Coordinates))
	}
	v3 := s.Victims["Victim3"]
	if v3.ID != "Victim3" || v3.Location != "Colón" || v3.Severity != 9 {
		t.Fatalf("unexpected Victim3: %+v", v3)
	}
	if p := s.Coordinates["Manises"]; p.X != 17.3 || p.Y != 86 {
		t.Fatalf("unexpected Manises coordinates: %+v", p)
	}
	if amb := s.Ambulances["Amb2"]; amb.MaxSeverity != 5 {
		t.Fatalf("unexpected Amb2: %+v", amb)
	}
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Victims["Victim1"] = Victim{ID: "Victim1", Location: "UPV", Severity: 1}
	b := Default()
	if b.Victims["Victim1"].Location != "Paiporta" {
		t.Fatalf("mutating a copy leaked into the default scenario")
	}
}

func TestParseScenarioYAMLFillsIDs(t *testing.T) {
	src := strings.TrimSpace(`
id: tiny
ambulances:
  A: {location: " Base ", max_severity: 3}
victims:
  V: {location: Street, severity: 2}
hospitals:
  H: {location: Base}
coordinates:
  Base: {x: 0, y: 0}
  Street: {x: 3, y: 4}
`)
	s, err := ParseScenarioYAML([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Ambulances["A"].ID != "A" || s.Ambulances["A"].Location != "Base" {
		t.Fatalf("ambulance not normalized: %+v", s.Ambulances["A"])
	}
	if s.Victims["V"].ID != "V" || s.Hospitals["H"].ID != "H" {
		t.Fatalf("ids not filled: %+v %+v", s.Victims["V"], s.Hospitals["H"])
	}
}

func TestParseScenarioYAMLValidation(t *testing.T) {
	cases := map[string]string{
		"empty payload":     "   ",
		"missing id":        "victims: {}",
		"missing location":  "id: x\nvictims:\n  V: {severity: 1}",
		"negative severity": "id: x\nvictims:\n  V: {location: a, severity: -1}",
		"negative capacity": "id: x\nambulances:\n  A: {location: a, max_severity: -2}",
		"mismatched id":     "id: x\nhospitals:\n  H: {id: Other, location: a}",
		"bad yaml":          "id: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseScenarioYAML([]byte(src)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadScenarioFileRoundTripsDefault(t *testing.T) {
	data, err := MarshalYAML(Default())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "valencia.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadScenarioFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	if len(loaded.Victims) != len(want.Victims) || len(loaded.Coordinates) != len(want.Coordinates) {
		t.Fatalf("round trip lost entries: %+v", loaded)
	}
	for id, v := range want.Victims {
		if loaded.Victims[id] != v {
			t.Fatalf("victim %s = %+v, want %+v", id, loaded.Victims[id], v)
		}
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.ID != DefaultID {
		t.Fatalf("expected default scenario, got %s", s.ID)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
