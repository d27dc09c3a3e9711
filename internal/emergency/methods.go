package emergency

import (
	"github.com/franlo42/plan911/internal/htn"
	"github.com/franlo42/plan911/internal/world"
)

type methods struct {
	policy *TreatmentPolicy
	tracer htn.Tracer
}

// deliverVictim: select an ambulance, treat if needed, then transport.
func (m *methods) deliverVictim(s *world.State, args []string) ([]htn.Task, error) {
	if err := htn.CheckArgs(TaskDeliverVictim, args, 2); err != nil {
		return nil, err
	}
	victimID, hospitalID := args[0], args[1]
	if _, ok := s.Victim(victimID); !ok {
		return nil, htn.Failf("%s: unknown victim %s", TaskDeliverVictim, victimID)
	}
	if _, ok := s.Hospital(hospitalID); !ok {
		return nil, htn.Failf("%s: unknown hospital %s", TaskDeliverVictim, hospitalID)
	}
	return []htn.Task{
		htn.NewTask(TaskSelectAmbulance, victimID),
		htn.NewTask(TaskAddTreatment, victimID),
		htn.NewTask(TaskTransportVictim, victimID, hospitalID),
	}, nil
}

func (m *methods) selectAmbulanceOnSite(s *world.State, args []string) ([]htn.Task, error) {
	if err := htn.CheckArgs(TaskSelectAmbulance, args, 1); err != nil {
		return nil, err
	}
	v, ok := s.Victim(args[0])
	if !ok {
		return nil, htn.Failf("%s: unknown victim %s", MethodSelectOnSite, args[0])
	}
	candidates := world.AmbulancesAt(s, v.Location, world.CanCarry(v.Severity))
	if len(candidates) == 0 {
		return nil, htn.Failf("%s: no capable ambulance at %q", MethodSelectOnSite, v.Location)
	}
	v.Ambulance = candidates[0]
	return []htn.Task{}, nil
}

func (m *methods) selectAmbulanceFromElsewhere(s *world.State, args []string) ([]htn.Task, error) {
	if err := htn.CheckArgs(TaskSelectAmbulance, args, 1); err != nil {
		return nil, err
	}
	v, ok := s.Victim(args[0])
	if !ok {
		return nil, htn.Failf("%s: unknown victim %s", MethodSelectFromElsewhere, args[0])
	}
	ambID, _, ok := world.NearestAmbulance(s, v.ID, world.CanCarry(v.Severity))
	if !ok {
		return nil, htn.Failf("%s: no ambulance can carry severity %d", MethodSelectFromElsewhere, v.Severity)
	}
	v.Ambulance = ambID
	return []htn.Task{htn.NewTask(OpDriveAmbulance, ambID, v.Location)}, nil
}

func (m *methods) addTreatment(s *world.State, args []string) ([]htn.Task, error) {
	if err := htn.CheckArgs(TaskAddTreatment, args, 1); err != nil {
		return nil, err
	}
	v, ok := s.Victim(args[0])
	if !ok {
		return nil, htn.Failf("%s: unknown victim %s", TaskAddTreatment, args[0])
	}
	needs, err := m.policy.Needs(v)
	if err != nil {
		return nil, err
	}
	if !needs {
		return []htn.Task{}, nil
	}
	return []htn.Task{htn.NewTask(OpTreatVictim, v.ID)}, nil
}

func (m *methods) transportVictim(s *world.State, args []string) ([]htn.Task, error) {
	if err := htn.CheckArgs(TaskTransportVictim, args, 2); err != nil {
		return nil, err
	}
	victimID, hospitalID := args[0], args[1]
	v, ok := s.Victim(victimID)
	if !ok {
		return nil, htn.Failf("%s: unknown victim %s", TaskTransportVictim, victimID)
	}
	if v.Ambulance == "" {
		return nil, htn.Failf("%s: no ambulance assigned to %s", TaskTransportVictim, victimID)
	}
	return []htn.Task{
		htn.NewTask(OpLoadVictim, victimID, v.Ambulance),
		htn.NewTask(OpDriveToHospital, v.Ambulance, hospitalID),
		htn.NewTask(OpUnloadVictim, victimID, hospitalID, v.Ambulance),
	}, nil
}

// deliverAllVictims emits one deliver_victim per victim that has a reachable
// hospital. The others are skipped, not reported as failures.
func (m *methods) deliverAllVictims(s *world.State, args []string) ([]htn.Task, error) {
	if err := htn.CheckArgs(TaskDeliverAllVictims, args, 0); err != nil {
		return nil, err
	}
	tasks := []htn.Task{}
	for _, id := range s.VictimIDs() {
		hospitalID, ok := world.ChooseHospital(s, id)
		if !ok {
			if m.tracer != nil {
				m.tracer.Printf("%s: skipping %s, no reachable hospital", TaskDeliverAllVictims, id)
			}
			continue
		}
		tasks = append(tasks, htn.NewTask(TaskDeliverVictim, id, hospitalID))
	}
	return tasks, nil
}
