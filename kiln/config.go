// kiln/config.go
package kiln

import "math"

// Mode selects how the controller produces its output.
type Mode string

const (
	// ModeAuto computes the output from the PID terms of the tracking error.
	ModeAuto Mode = "auto"
	// ModeManual passes the configured manual output through, clamped to bounds.
	ModeManual Mode = "manual"
)

// Phase is the driver lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseStopped Phase = "stopped"
)

// ControllerConfig groups the user-tunable controller parameters.
// It is read by the controller each tick and survives Reset.
type ControllerConfig struct {
	Setpoint     float64 // target temperature (degC)
	Kp           float64 // proportional gain
	Ki           float64 // integral gain
	Kd           float64 // derivative gain
	OutputMin    float64 // lower actuator bound
	OutputMax    float64 // upper actuator bound
	ManualOutput float64 // output used verbatim (clamped) in manual mode
	Mode         Mode
}

// NewControllerConfig creates a ControllerConfig from explicit values.
func NewControllerConfig(setpoint, kp, ki, kd, outMin, outMax, manual float64, mode Mode) ControllerConfig {
	return ControllerConfig{
		Setpoint:     setpoint,
		Kp:           kp,
		Ki:           ki,
		Kd:           kd,
		OutputMin:    outMin,
		OutputMax:    outMax,
		ManualOutput: manual,
		Mode:         mode,
	}
}

// Validate reports an invalid_config Condition for inverted bounds, negative
// gains or an unknown mode.
func (c ControllerConfig) Validate() error {
	if c.OutputMin > c.OutputMax {
		return invalidConfig("output bounds inverted: min %.3f > max %.3f", c.OutputMin, c.OutputMax)
	}
	if c.Kp < 0 || c.Ki < 0 || c.Kd < 0 {
		return invalidConfig("gains must be non-negative: Kp=%.3f Ki=%.3f Kd=%.3f", c.Kp, c.Ki, c.Kd)
	}
	if c.Mode != ModeAuto && c.Mode != ModeManual {
		return invalidConfig("unknown mode %q", c.Mode)
	}
	return nil
}

// ConfigPatch is a partial update to a ControllerConfig. Nil fields are left
// unchanged. Patches are queued by the driver and applied between ticks.
type ConfigPatch struct {
	Setpoint     *float64 `json:"setpoint,omitempty"`
	Kp           *float64 `json:"kp,omitempty"`
	Ki           *float64 `json:"ki,omitempty"`
	Kd           *float64 `json:"kd,omitempty"`
	OutputMin    *float64 `json:"outputMin,omitempty"`
	OutputMax    *float64 `json:"outputMax,omitempty"`
	ManualOutput *float64 `json:"manualOutput,omitempty"`
	Mode         *Mode    `json:"mode,omitempty"`
}

// applyTo returns cfg with the patch's non-nil fields replaced.
func (p ConfigPatch) applyTo(cfg ControllerConfig) ControllerConfig {
	if p.Setpoint != nil {
		cfg.Setpoint = *p.Setpoint
	}
	if p.Kp != nil {
		cfg.Kp = *p.Kp
	}
	if p.Ki != nil {
		cfg.Ki = *p.Ki
	}
	if p.Kd != nil {
		cfg.Kd = *p.Kd
	}
	if p.OutputMin != nil {
		cfg.OutputMin = *p.OutputMin
	}
	if p.OutputMax != nil {
		cfg.OutputMax = *p.OutputMax
	}
	if p.ManualOutput != nil {
		cfg.ManualOutput = *p.ManualOutput
	}
	if p.Mode != nil {
		cfg.Mode = *p.Mode
	}
	return cfg
}

// PlantParams groups the kiln thermal parameters. Immutable for a run; set at
// construction or Reset.
type PlantParams struct {
	TimeConstant float64 // thermal time constant (s)
	Ambient      float64 // ambient temperature (degC)
	ProcessGain  float64 // equilibrium degC per unit of heat input
	FloorTemp    float64 // physical lower clamp
	CeilingTemp  float64 // physical upper clamp
}

// NewPlantParams creates PlantParams from explicit values.
func NewPlantParams(timeConstant, ambient, gain, floor, ceiling float64) PlantParams {
	return PlantParams{
		TimeConstant: timeConstant,
		Ambient:      ambient,
		ProcessGain:  gain,
		FloorTemp:    floor,
		CeilingTemp:  ceiling,
	}
}

// Validate reports an invalid_config Condition for a non-positive time
// constant or inverted clamp bounds.
func (p PlantParams) Validate() error {
	if p.TimeConstant <= 0 {
		return invalidConfig("time constant must be positive, got %.3f", p.TimeConstant)
	}
	if p.FloorTemp > p.CeilingTemp {
		return invalidConfig("temperature clamps inverted: floor %.1f > ceiling %.1f", p.FloorTemp, p.CeilingTemp)
	}
	return nil
}

// EmissionParams is the tunable form of the CO2 estimate. This is
// configuration, not chemistry: the defaults scale the original plant's
// 3.17 kg CO2 per kg of coal.
type EmissionParams struct {
	PerOutputUnit         float64 // kg CO2/hr per unit of control output
	PerDegreeAboveAmbient float64 // kg CO2/hr per degC above ambient
}

// NewEmissionParams creates EmissionParams from explicit values.
func NewEmissionParams(perOutput, perDegree float64) EmissionParams {
	return EmissionParams{PerOutputUnit: perOutput, PerDegreeAboveAmbient: perDegree}
}

// KilnGeometry describes the rotary kiln body. It feeds the plant's
// efficiency factor through the drum residence time and gives the
// presentation layer its rotation phase.
type KilnGeometry struct {
	RadiusM        float64
	LengthM        float64
	ClinkerDensity float64 // kg/m^3
	SpecificHeat   float64 // kJ/kg*degC
	MotorSpeedRPM  float64
}

// DefaultGeometry returns the reference kiln: 3 m radius, 40 m length,
// clinker density 1200 kg/m^3, running at 2.5 RPM.
func DefaultGeometry() KilnGeometry {
	return KilnGeometry{
		RadiusM:        3.0,
		LengthM:        40.0,
		ClinkerDensity: 1200,
		SpecificHeat:   1.0,
		MotorSpeedRPM:  2.5,
	}
}

// MassKg returns the clinker charge mass for the kiln volume.
func (g KilnGeometry) MassKg() float64 {
	return math.Pi * g.RadiusM * g.RadiusM * g.LengthM * g.ClinkerDensity
}

// ResidenceTimeMin returns the material residence time in minutes. Slower
// rotation holds the charge longer.
func (g KilnGeometry) ResidenceTimeMin() float64 {
	if g.MotorSpeedRPM <= 0 {
		return math.Inf(1)
	}
	return 30 / g.MotorSpeedRPM
}

// EfficiencyFactor maps residence time to a heat-transfer efficiency in
// (0, 1]: full efficiency at or above 30 minutes of residence.
func (g KilnGeometry) EfficiencyFactor() float64 {
	return math.Min(1.0, g.ResidenceTimeMin()/30)
}

// RotationAngle returns the drum rotation phase in radians after elapsed
// simulated seconds. Cosmetic: consumed by the presentation layer only and
// not part of the simulation state.
func (g KilnGeometry) RotationAngle(elapsedSeconds float64) float64 {
	revs := elapsedSeconds / 60 * g.MotorSpeedRPM
	return math.Mod(revs*2*math.Pi, 2*math.Pi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
