package kiln

// Emissions derives a CO2 rate from control effort and temperature. The
// mapping is a clamped linear combination: monotone in both inputs, with
// coefficients that are tuning parameters rather than combustion chemistry.
type Emissions struct {
	params  EmissionParams
	ambient float64
}

// NewEmissions builds the model; ambient sets the temperature above which the
// thermal term contributes.
func NewEmissions(params EmissionParams, ambient float64) *Emissions {
	return &Emissions{params: params, ambient: ambient}
}

// Estimate returns the emission rate (kg CO2/hr) for the current control
// output and temperature. Pure function; never negative.
func (e *Emissions) Estimate(controlOutput, temperature float64) float64 {
	rate := e.params.PerOutputUnit * controlOutput
	if excess := temperature - e.ambient; excess > 0 {
		rate += e.params.PerDegreeAboveAmbient * excess
	}
	if rate < 0 {
		return 0
	}
	return rate
}
