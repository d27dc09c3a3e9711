package scenario

// DefaultID identifies the built-in scenario.
const DefaultID = "valencia"

const defaultScenarioYAML = `# plan911 built-in scenario
id: valencia
name: Valencia flood response

ambulances:
  Amb1: {location: Hospital General, max_severity: 10}
  Amb2: {location: Ciudad de las Artes y las Ciencias, max_severity: 5}
  Amb3: {location: Hospital La Fe, max_severity: 8}

victims:
  Victim1: {name: Pablo Motos, age: 50, location: Paiporta, severity: 7}
  Victim2: {name: Rita Barbará, age: 60, location: Ciudad de las Artes y las Ciencias, severity: 4}
  Victim3: {name: Camilo Sesto, age: 70, location: Colón, severity: 9}

hospitals:
  Hospital1: {name: Hospital Clínic, location: Hospital Clínic}
  Hospital2: {name: Hospital General, location: Hospital General}
  Hospital3: {name: Hospital La Fe, location: Hospital La Fe}

coordinates:
  UPV: {x: 28, y: 92}
  Ciudad de las Artes y las Ciencias: {x: 27, y: 93}
  Colón: {x: 26, y: 95}
  Manises: {x: 17.3, y: 86}
  Paiporta: {x: 21.4, y: 80}
  Hospital La Fe: {x: 26, y: 88}
  Hospital Clínic: {x: 28, y: 90}
  Hospital General: {x: 22.4, y: 95}
`

var defaultScenario = mustParse(defaultScenarioYAML)

// Default returns a copy of the built-in scenario.
func Default() Scenario {
	return defaultScenario.Clone()
}

// DefaultYAML returns the YAML source of the built-in scenario, suitable as a
// starting point for custom scenario files.
func DefaultYAML() string {
	return defaultScenarioYAML
}

func mustParse(src string) Scenario {
	s, err := ParseScenarioYAML([]byte(src))
	if err != nil {
		panic(err)
	}
	return s
}
