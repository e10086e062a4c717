// kiln/pid.go
package kiln

// InternalState is the controller memory that persists across ticks within a
// run. It is zeroed on Reset and reseeded on the manual->auto transition.
type InternalState struct {
	Integral  float64
	PrevError float64
	Primed    bool
}

// PID is a discrete PID controller with output clamping, conditional-integration
// anti-windup and bumpless manual/auto transfer.
//
// Determinism: the output depends only on (measured, dt, cfg) and the internal
// state accumulated from previous calls; there is no hidden global state.
type PID struct {
	integral  float64
	prevError float64
	primed    bool
	lastMode  Mode
}

// NewPID returns a controller with cleared memory.
func NewPID() *PID {
	return &PID{lastMode: ModeAuto}
}

// Compute advances the controller by one tick and returns the bounded output.
//
// Auto mode: error = setpoint - measured; the integral accumulates error*dt
// unless the raw output is saturated and the error would push it further
// (anti-windup); the derivative acts on the error difference, guarded against
// the first tick and mode transitions so there is no derivative kick.
//
// Manual mode: returns ManualOutput clamped to bounds and freezes the
// integral/derivative memory, so switching back to auto does not replay stale
// accumulation.
//
// A non-positive dt or inverted bounds yields an invalid_config Condition and
// leaves the internal state untouched.
func (p *PID) Compute(measured, dt float64, cfg ControllerConfig) (float64, error) {
	if dt <= 0 {
		return 0, invalidConfig("non-positive dt %.6f", dt)
	}
	if cfg.OutputMin > cfg.OutputMax {
		return 0, invalidConfig("output bounds inverted: min %.3f > max %.3f", cfg.OutputMin, cfg.OutputMax)
	}

	if cfg.Mode == ModeManual {
		p.lastMode = ModeManual
		return clamp(cfg.ManualOutput, cfg.OutputMin, cfg.OutputMax), nil
	}

	trackErr := cfg.Setpoint - measured

	// Reseed the derivative memory on the first auto tick and on the
	// manual->auto transition: the first derivative term is then zero.
	if !p.primed || p.lastMode == ModeManual {
		p.prevError = trackErr
		p.primed = true
	}
	derivative := (trackErr - p.prevError) / dt

	// Conditional integration: trial the accumulated integral and discard it
	// when the output is saturated and the error drives it further out.
	candidate := p.integral + trackErr*dt
	raw := cfg.Kp*trackErr + cfg.Ki*candidate + cfg.Kd*derivative
	windingUp := (raw > cfg.OutputMax && trackErr > 0) || (raw < cfg.OutputMin && trackErr < 0)
	if !windingUp {
		p.integral = candidate
	} else {
		raw = cfg.Kp*trackErr + cfg.Ki*p.integral + cfg.Kd*derivative
	}

	p.prevError = trackErr
	p.lastMode = ModeAuto

	return clamp(raw, cfg.OutputMin, cfg.OutputMax), nil
}

// Reset clears the integral and derivative memory.
func (p *PID) Reset() {
	p.integral = 0
	p.prevError = 0
	p.primed = false
	p.lastMode = ModeAuto
}

// Snapshot returns a copy of the controller memory for inspection.
func (p *PID) Snapshot() InternalState {
	return InternalState{Integral: p.integral, PrevError: p.prevError, Primed: p.primed}
}
