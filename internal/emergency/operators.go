package emergency

import (
	"github.com/franlo42/plan911/internal/htn"
	"github.com/franlo42/plan911/internal/world"
)

// DriveAmbulance moves an ambulance to dest.
// Args: ambulance, destination.
func DriveAmbulance(s *world.State, args []string) error {
	if err := htn.CheckArgs(OpDriveAmbulance, args, 2); err != nil {
		return err
	}
	ambID, dest := args[0], args[1]
	amb, ok := s.Ambulance(ambID)
	if !ok {
		return htn.Failf("%s: unknown ambulance %s", OpDriveAmbulance, ambID)
	}
	if dest == "" {
		return htn.Failf("%s: %s has no destination", OpDriveAmbulance, ambID)
	}
	amb.Location = dest
	return nil
}

// LoadVictim puts a victim on board an ambulance at the same location.
// Args: victim, ambulance.
func LoadVictim(s *world.State, args []string) error {
	if err := htn.CheckArgs(OpLoadVictim, args, 2); err != nil {
		return err
	}
	victimID, ambID := args[0], args[1]
	v, ok := s.Victim(victimID)
	if !ok {
		return htn.Failf("%s: unknown victim %s", OpLoadVictim, victimID)
	}
	amb, ok := s.Ambulance(ambID)
	if !ok {
		return htn.Failf("%s: unknown ambulance %s", OpLoadVictim, ambID)
	}
	if amb.Location != v.Location {
		return htn.Failf("%s: %s at %q, %s at %q", OpLoadVictim, ambID, amb.Location, victimID, v.Location)
	}
	if amb.MaxSeverity < v.Severity {
		return htn.Failf("%s: %s capacity %d below severity %d of %s", OpLoadVictim, ambID, amb.MaxSeverity, v.Severity, victimID)
	}
	if !amb.Free() {
		return htn.Failf("%s: %s already carries %s", OpLoadVictim, ambID, amb.Victim)
	}
	if v.InAmbulance != "" {
		return htn.Failf("%s: %s already in %s", OpLoadVictim, victimID, v.InAmbulance)
	}
	v.InAmbulance = ambID
	amb.Victim = victimID
	return nil
}

// TreatVictimInSitu returns the treatment operator for a threshold.
// Args: victim.
func TreatVictimInSitu(threshold int) htn.Operator[*world.State] {
	return func(s *world.State, args []string) error {
		if err := htn.CheckArgs(OpTreatVictim, args, 1); err != nil {
			return err
		}
		v, ok := s.Victim(args[0])
		if !ok {
			return htn.Failf("%s: unknown victim %s", OpTreatVictim, args[0])
		}
		if v.Severity < threshold {
			return htn.Failf("%s: severity %d of %s below threshold %d", OpTreatVictim, v.Severity, v.ID, threshold)
		}
		if v.Treated {
			return htn.Failf("%s: %s already treated", OpTreatVictim, v.ID)
		}
		v.Treated = true
		return nil
	}
}

// DriveToHospital moves a loaded ambulance to a hospital. Being there already
// is a successful no-op.
// Args: ambulance, hospital.
func DriveToHospital(s *world.State, args []string) error {
	if err := htn.CheckArgs(OpDriveToHospital, args, 2); err != nil {
		return err
	}
	ambID, hospitalID := args[0], args[1]
	amb, ok := s.Ambulance(ambID)
	if !ok {
		return htn.Failf("%s: unknown ambulance %s", OpDriveToHospital, ambID)
	}
	h, ok := s.Hospital(hospitalID)
	if !ok {
		return htn.Failf("%s: unknown hospital %s", OpDriveToHospital, hospitalID)
	}
	if amb.Free() {
		return htn.Failf("%s: %s carries no victim", OpDriveToHospital, ambID)
	}
	if amb.Location == h.Location {
		return nil
	}
	amb.Location = h.Location
	return nil
}

// UnloadVictim hands a victim over at a hospital and clears the on-board
// relation on both sides.
// Args: victim, hospital, ambulance.
func UnloadVictim(s *world.State, args []string) error {
	if err := htn.CheckArgs(OpUnloadVictim, args, 3); err != nil {
		return err
	}
	victimID, hospitalID, ambID := args[0], args[1], args[2]
	v, ok := s.Victim(victimID)
	if !ok {
		return htn.Failf("%s: unknown victim %s", OpUnloadVictim, victimID)
	}
	h, ok := s.Hospital(hospitalID)
	if !ok {
		return htn.Failf("%s: unknown hospital %s", OpUnloadVictim, hospitalID)
	}
	amb, ok := s.Ambulance(ambID)
	if !ok {
		return htn.Failf("%s: unknown ambulance %s", OpUnloadVictim, ambID)
	}
	if amb.Location != h.Location {
		return htn.Failf("%s: %s at %q, not at %s", OpUnloadVictim, ambID, amb.Location, hospitalID)
	}
	if v.InAmbulance != ambID || amb.Victim != victimID {
		return htn.Failf("%s: %s is not carrying %s", OpUnloadVictim, ambID, victimID)
	}
	v.Location = h.Location
	v.InAmbulance = ""
	amb.Victim = ""
	return nil
}
