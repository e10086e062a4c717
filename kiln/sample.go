package kiln

// Sample is one immutable record of the output series, appended once per
// completed tick. The history is ordered by Time and cleared on Reset.
type Sample struct {
	Time          float64 `json:"time"`
	Temperature   float64 `json:"temperature"`
	ControlOutput float64 `json:"controlOutput"`
	EmissionRate  float64 `json:"emissionRate"`
	Saturated     bool    `json:"saturated"`
}

// SimulationState is the read-only snapshot of the driver's current state.
// Mutated only inside a tick or lifecycle command; exposed outward by value.
type SimulationState struct {
	Time          float64 `json:"time"`
	Temperature   float64 `json:"temperature"`
	ControlOutput float64 `json:"controlOutput"`
	EmissionRate  float64 `json:"emissionRate"`
	Mode          Mode    `json:"mode"`
	Phase         Phase   `json:"phase"`
	Saturated     bool    `json:"saturated"`
}

// Running reports whether ticks currently advance the simulation.
func (s SimulationState) Running() bool {
	return s.Phase == PhaseRunning
}
