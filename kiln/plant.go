// kiln/plant.go
package kiln

// Plant is the kiln thermal process: a first-order lag driven by heat input,
// integrated with explicit Euler at a fixed small dt. Advance is a pure
// function of its inputs and the immutable parameters, which keeps replay
// deterministic and lets the model be tested without the driver.
type Plant struct {
	params PlantParams
	gain   float64 // ProcessGain scaled by the kiln geometry efficiency
}

// NewPlant builds a plant from validated parameters.
func NewPlant(params PlantParams) (*Plant, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Plant{params: params, gain: params.ProcessGain}, nil
}

// NewPlantWithGeometry builds a plant whose effective process gain is scaled
// by the geometry's residence-time efficiency factor: slow drum rotation
// transfers less of the heat input into the charge.
func NewPlantWithGeometry(params PlantParams, geo KilnGeometry) (*Plant, error) {
	pl, err := NewPlant(params)
	if err != nil {
		return nil, err
	}
	pl.gain = params.ProcessGain * geo.EfficiencyFactor()
	return pl, nil
}

// Params returns the immutable plant parameters.
func (pl *Plant) Params() PlantParams {
	return pl.params
}

// Equilibrium returns the temperature the plant settles at for a constant
// heat input.
func (pl *Plant) Equilibrium(heatInput float64) float64 {
	return pl.gain*heatInput + pl.params.Ambient
}

// Advance integrates one Euler step:
//
//	next = current + dt * ((gain*heat + ambient - current) / tau)
//
// The result is clamped to [FloorTemp, CeilingTemp]; clamping reports
// saturation without failing the step.
func (pl *Plant) Advance(current, heatInput, dt float64) (float64, bool) {
	return pl.advance(current, heatInput, pl.params.Ambient, dt)
}

// AdvanceDisturbed applies a transient offset to the ambient temperature,
// used for the seeded disturbance source. An offset of zero is identical to
// Advance.
func (pl *Plant) AdvanceDisturbed(current, heatInput, ambientOffset, dt float64) (float64, bool) {
	return pl.advance(current, heatInput, pl.params.Ambient+ambientOffset, dt)
}

func (pl *Plant) advance(current, heatInput, ambient, dt float64) (float64, bool) {
	next := current + dt*((pl.gain*heatInput+ambient-current)/pl.params.TimeConstant)
	clamped := clamp(next, pl.params.FloorTemp, pl.params.CeilingTemp)
	return clamped, clamped != next
}
