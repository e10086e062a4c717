// Package kiln provides the core discrete-time process-control engine for the
// cement kiln simulator.
//
// # Reading Guide
//
// Start with these three files to understand the control loop:
//   - pid.go: the PID controller (auto/manual modes, anti-windup, bumpless transfer)
//   - plant.go: the first-order kiln thermal model
//   - driver.go: the tick driver, lifecycle state machine and command queue
//
// # Architecture
//
// One Driver owns all mutable simulation state. Each Tick runs the fixed
// sequence controller -> plant -> emissions, appends one Sample to a bounded
// History and refreshes the read-only SimulationState snapshot. External
// callers (CLI, HTTP presentation layer) issue lifecycle commands and config
// patches; patches are queued and applied between ticks, never mid-tick.
//
// Failures are structured Conditions (invalid config, saturation, not
// running), reported to the caller rather than thrown; none of them terminate
// a run.
package kiln
