package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franlo42/plan911/internal/scenario"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(scenario.Point{X: 0, Y: 0}, scenario.Point{X: 3, Y: 4}), 1e-9)
	assert.InDelta(t, 0.0, Distance(scenario.Point{X: 1.5, Y: 2}, scenario.Point{X: 1.5, Y: 2}), 1e-9)
}

func TestCloneIsIndependent(t *testing.T) {
	st := New(scenario.Default())
	clone := st.Clone()
	clone.Ambulances["Amb1"].Location = "UPV"
	clone.Victims["Victim1"].Treated = true

	assert.Equal(t, "Hospital General", st.Ambulances["Amb1"].Location)
	assert.False(t, st.Victims["Victim1"].Treated)
	assert.False(t, st.Equal(clone))
	assert.True(t, st.Equal(st.Clone()))
}

func TestEqualIgnoresAmbulanceAssignment(t *testing.T) {
	st := New(scenario.Default())
	assigned := st.Clone()
	assigned.Victims["Victim1"].Ambulance = "Amb3"
	assert.True(t, st.Equal(assigned))

	boarded := st.Clone()
	boarded.Victims["Victim1"].InAmbulance = "Amb3"
	assert.False(t, st.Equal(boarded))

	carrying := st.Clone()
	carrying.Ambulances["Amb3"].Victim = "Victim1"
	assert.False(t, st.Equal(carrying))
}

func TestChooseHospitalDefaultScenario(t *testing.T) {
	st := New(scenario.Default())
	cases := map[string]string{
		"Victim1": "Hospital3", // Paiporta is closest to La Fe
		"Victim2": "Hospital1", // Ciudad de las Artes is closest to Clínic
		"Victim3": "Hospital2", // Colón is closest to General
	}
	for victim, want := range cases {
		got, ok := ChooseHospital(st, victim)
		require.True(t, ok, victim)
		assert.Equal(t, want, got, victim)
	}
}

func TestChooseHospitalNoneWhenVictimAtHospital(t *testing.T) {
	st := New(scenario.Default())
	for _, hid := range st.HospitalIDs() {
		for _, vid := range st.VictimIDs() {
			moved := st.Clone()
			moved.Victims[vid].Location = st.Hospitals[hid].Location
			got, ok := ChooseHospital(moved, vid)
			assert.False(t, ok, "%s at %s", vid, hid)
			assert.Empty(t, got)
		}
	}
}

func TestChooseHospitalNoneWithoutCoordinates(t *testing.T) {
	st := New(scenario.Default())
	st.Victims["Victim1"].Location = "Nowhere"
	_, ok := ChooseHospital(st, "Victim1")
	assert.False(t, ok)

	_, ok = ChooseHospital(st, "Ghost")
	assert.False(t, ok)
}

func TestChooseHospitalTieGoesToLowestID(t *testing.T) {
	s := scenario.Scenario{
		ID:      "tie",
		Victims: map[string]scenario.Victim{"V": {ID: "V", Location: "mid", Severity: 1}},
		Hospitals: map[string]scenario.Hospital{
			"HB": {ID: "HB", Location: "east"},
			"HA": {ID: "HA", Location: "west"},
		},
		Coordinates: map[string]scenario.Point{
			"mid":  {X: 0, Y: 0},
			"east": {X: 1, Y: 0},
			"west": {X: -1, Y: 0},
		},
	}
	got, ok := ChooseHospital(New(s), "V")
	require.True(t, ok)
	assert.Equal(t, "HA", got)
}

func TestNearestAmbulance(t *testing.T) {
	st := New(scenario.Default())

	id, d, ok := NearestAmbulance(st, "Victim1", CanCarry(7))
	require.True(t, ok)
	assert.Equal(t, "Amb3", id)
	assert.InDelta(t, 9.2282, d, 1e-3)

	id, _, ok = NearestAmbulance(st, "Victim3", CanCarry(9))
	require.True(t, ok)
	assert.Equal(t, "Amb1", id)

	_, _, ok = NearestAmbulance(st, "Victim3", CanCarry(11))
	assert.False(t, ok)

	st.Ambulances["Amb1"].Victim = "Victim2"
	_, _, ok = NearestAmbulance(st, "Victim3", CanCarry(9))
	assert.False(t, ok, "busy ambulances are not candidates")
}

func TestAmbulancesAt(t *testing.T) {
	st := New(scenario.Default())
	assert.Equal(t, []string{"Amb2"}, AmbulancesAt(st, "Ciudad de las Artes y las Ciencias", CanCarry(4)))
	assert.Empty(t, AmbulancesAt(st, "Ciudad de las Artes y las Ciencias", CanCarry(6)))
	assert.Empty(t, AmbulancesAt(st, "Paiporta", nil))
}

func TestAtHospital(t *testing.T) {
	st := New(scenario.Default())
	_, ok := st.AtHospital("Victim1")
	assert.False(t, ok)

	st.Victims["Victim1"].Location = "Hospital La Fe"
	hid, ok := st.AtHospital("Victim1")
	require.True(t, ok)
	assert.Equal(t, "Hospital3", hid)

	st.Victims["Victim1"].InAmbulance = "Amb3"
	_, ok = st.AtHospital("Victim1")
	assert.False(t, ok)
}
