// kiln/driver.go
package kiln

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Options tunes driver construction beyond the component configs.
type Options struct {
	InitialTemperature float64 // temperature after construction and Reset
	HistoryCapacity    int     // ring size; 0 means DefaultHistoryCapacity
	Seed               int64   // seed for the disturbance source
	NoiseAmplitude     float64 // ambient perturbation amplitude; 0 disables
}

// Driver owns all mutable simulation state and advances it one tick at a
// time. External callers never mutate state directly: lifecycle commands act
// under the driver's lock and config patches are queued, then applied between
// ticks. The driving cadence itself is external (a CLI loop or wall-clock
// ticker) calling Tick with a fixed dt.
//
// Lifecycle: idle -> running -> stopped, with Reset returning to idle from
// any state.
type Driver struct {
	mu sync.Mutex

	cfg     ControllerConfig
	pending []ConfigPatch

	pid         *PID
	plant       *Plant
	emissions   *Emissions
	disturbance *Disturbance
	history     *History
	metrics     *Metrics

	state SimulationState
	opts  Options
}

// NewDriver assembles a driver in the idle phase. The controller config is
// validated up front; plant and emissions models arrive already constructed.
func NewDriver(cfg ControllerConfig, plant *Plant, emissions *Emissions, opts Options) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		cfg:         cfg,
		pid:         NewPID(),
		plant:       plant,
		emissions:   emissions,
		disturbance: NewDisturbance(opts.Seed, opts.NoiseAmplitude),
		history:     NewHistory(opts.HistoryCapacity),
		metrics:     NewMetrics(),
		opts:        opts,
	}
	d.state = SimulationState{
		Temperature: opts.InitialTemperature,
		Mode:        cfg.Mode,
		Phase:       PhaseIdle,
	}
	return d, nil
}

// Start moves the driver into the running phase. No-op while already running.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Phase == PhaseRunning {
		return
	}
	d.state.Phase = PhaseRunning
	logrus.Infof("kiln driver started at t=%.1fs", d.state.Time)
}

// Stop freezes tick advancement. Config edits remain legal while stopped.
// No-op unless running.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Phase != PhaseRunning {
		return
	}
	d.state.Phase = PhaseStopped
	logrus.Infof("kiln driver stopped at t=%.1fs", d.state.Time)
}

// Reset returns to the idle phase from any state, atomically clearing the
// simulation state, controller memory, history and metrics. The controller
// config (including any pending patches, which are applied first) survives:
// user tuning persists across resets.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainLocked()
	d.pid.Reset()
	d.history.Clear()
	d.metrics.Reset()
	d.disturbance = NewDisturbance(d.opts.Seed, d.opts.NoiseAmplitude)
	d.state = SimulationState{
		Temperature: d.opts.InitialTemperature,
		Mode:        d.cfg.Mode,
		Phase:       PhaseIdle,
	}
	logrus.Info("kiln driver reset")
}

// Apply validates a partial config update against the merged view of the
// current config plus already-queued patches, then queues it for application
// at the next tick boundary. On rejection the prior valid config is retained.
func (d *Driver) Apply(patch ConfigPatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	merged := d.cfg
	for _, p := range d.pending {
		merged = p.applyTo(merged)
	}
	if err := patch.applyTo(merged).Validate(); err != nil {
		return err
	}
	d.pending = append(d.pending, patch)
	return nil
}

// drainLocked folds queued patches into the active config. Caller holds mu.
func (d *Driver) drainLocked() {
	for _, p := range d.pending {
		d.cfg = p.applyTo(d.cfg)
	}
	d.pending = d.pending[:0]
	d.state.Mode = d.cfg.Mode
}

// Tick advances the simulation by dt seconds: queued config is applied, then
// controller -> plant -> emissions run in sequence, one Sample is appended and
// the snapshot refreshed.
//
// The tick is all-or-nothing. While not running it reports not_running and
// touches nothing. An invalid config aborts before any mutation (previous
// output held), counts as a skipped tick and leaves the driver running so the
// next tick retries once the config is corrected. A clamped plant result is
// not an error: the sample is emitted with Saturated set.
func (d *Driver) Tick(dt float64) (Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.drainLocked()

	if d.state.Phase != PhaseRunning {
		return Sample{}, &Condition{Reason: ReasonNotRunning, Phase: d.state.Phase}
	}

	output, err := d.pid.Compute(d.state.Temperature, dt, d.cfg)
	if err != nil {
		d.metrics.ObserveSkip()
		logrus.Warnf("tick skipped at t=%.1fs: %v", d.state.Time, err)
		return Sample{}, err
	}

	next, saturated := d.plant.AdvanceDisturbed(d.state.Temperature, output, d.disturbance.Next(), dt)
	rate := d.emissions.Estimate(output, next)

	d.state.Time += dt
	d.state.Temperature = next
	d.state.ControlOutput = output
	d.state.EmissionRate = rate
	d.state.Saturated = saturated

	s := Sample{
		Time:          d.state.Time,
		Temperature:   next,
		ControlOutput: output,
		EmissionRate:  rate,
		Saturated:     saturated,
	}
	d.history.Append(s)
	d.metrics.Observe(s, dt)

	logrus.Debugf("[tick t=%08.1f] temp=%.2f out=%.2f co2=%.2f saturated=%v",
		s.Time, s.Temperature, s.ControlOutput, s.EmissionRate, s.Saturated)
	return s, nil
}

// State returns a read-only snapshot of the current simulation state.
func (d *Driver) State() SimulationState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Config returns the active controller config with queued patches applied.
func (d *Driver) Config() ControllerConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	merged := d.cfg
	for _, p := range d.pending {
		merged = p.applyTo(merged)
	}
	return merged
}

// History returns the retained samples oldest-first.
func (d *Driver) History() []Sample {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Samples()
}

// Metrics returns a copy of the run aggregates.
func (d *Driver) Metrics() Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return *d.metrics
}

// Plant exposes the thermal model, handy for reporting equilibria.
func (d *Driver) Plant() *Plant {
	return d.plant
}
