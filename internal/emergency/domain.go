// Package emergency defines the ambulance dispatch planning domain: the
// operators that move ambulances and victims, and the methods that decompose
// delivery tasks into them.
package emergency

import (
	"github.com/franlo42/plan911/internal/htn"
	"github.com/franlo42/plan911/internal/world"
)

// DomainName identifies the emergency domain in traces.
const DomainName = "emergency"

// Operator names.
const (
	OpDriveAmbulance  = "drive_ambulance"
	OpLoadVictim      = "load_victim"
	OpTreatVictim     = "treat_victim_in_situ"
	OpDriveToHospital = "drive_to_hospital"
	OpUnloadVictim    = "unload_victim"
)

// Compound task names.
const (
	TaskDeliverAllVictims = "deliver_all_victims"
	TaskDeliverVictim     = "deliver_victim"
	TaskSelectAmbulance   = "select_ambulance"
	TaskAddTreatment      = "add_treatment"
	TaskTransportVictim   = "transport_victim"
)

// Method names, as they appear in traces.
const (
	MethodSelectOnSite        = "select_ambulance_on_site"
	MethodSelectFromElsewhere = "select_ambulance_from_elsewhere"
)

// Options configures the domain.
type Options struct {
	// Threshold is the minimum severity accepted by treat_victim_in_situ.
	// Zero selects DefaultTreatmentThreshold.
	Threshold int
	// TreatmentRule is the expr rule used by add_treatment.
	// Empty selects DefaultTreatmentRule.
	TreatmentRule string
	// Tracer, when set, receives notes about victims skipped by
	// deliver_all_victims.
	Tracer htn.Tracer
}

// NewDomain builds the emergency planning domain.
func NewDomain(opts Options) (*htn.Domain[*world.State], error) {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultTreatmentThreshold
	}
	policy, err := NewTreatmentPolicy(opts.TreatmentRule, threshold)
	if err != nil {
		return nil, err
	}
	m := &methods{policy: policy, tracer: opts.Tracer}

	d := htn.NewDomain[*world.State](DomainName)
	for _, reg := range []struct {
		name string
		op   htn.Operator[*world.State]
	}{
		{OpDriveAmbulance, DriveAmbulance},
		{OpLoadVictim, LoadVictim},
		{OpTreatVictim, TreatVictimInSitu(threshold)},
		{OpDriveToHospital, DriveToHospital},
		{OpUnloadVictim, UnloadVictim},
	} {
		if err := d.RegisterOperator(reg.name, reg.op); err != nil {
			return nil, err
		}
	}

	type method = htn.NamedMethod[*world.State]
	for _, reg := range []struct {
		task    string
		methods []method
	}{
		{TaskDeliverAllVictims, []method{{Name: TaskDeliverAllVictims, Fn: m.deliverAllVictims}}},
		{TaskDeliverVictim, []method{{Name: TaskDeliverVictim, Fn: m.deliverVictim}}},
		{TaskSelectAmbulance, []method{
			{Name: MethodSelectOnSite, Fn: m.selectAmbulanceOnSite},
			{Name: MethodSelectFromElsewhere, Fn: m.selectAmbulanceFromElsewhere},
		}},
		{TaskAddTreatment, []method{{Name: "add_treatment_if_needed", Fn: m.addTreatment}}},
		{TaskTransportVictim, []method{{Name: TaskTransportVictim, Fn: m.transportVictim}}},
	} {
		if err := d.RegisterMethods(reg.task, reg.methods...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// DefaultGoal is the goal used when none is configured.
func DefaultGoal() []htn.Task {
	return []htn.Task{htn.NewTask(TaskDeliverAllVictims)}
}
