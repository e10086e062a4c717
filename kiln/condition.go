package kiln

import (
	"errors"
	"fmt"
)

// Reason classifies a reported tick condition.
type Reason string

const (
	// ReasonInvalidConfig marks a rejected configuration (non-positive dt,
	// inverted output bounds, negative gains, unknown mode).
	ReasonInvalidConfig Reason = "invalid_config"
	// ReasonSaturation marks a tick whose plant result was clamped to the
	// physical floor or ceiling. The sample is still emitted, flagged.
	ReasonSaturation Reason = "saturation"
	// ReasonNotRunning marks a Tick call while the driver is idle or stopped.
	ReasonNotRunning Reason = "not_running"
)

// Condition is a structured, recoverable failure surfaced to the caller.
// No condition in this package should terminate the process.
type Condition struct {
	Reason Reason
	Phase  Phase  // lifecycle phase at the time of the report, when relevant
	Detail string
}

func (c *Condition) Error() string {
	if c.Detail == "" {
		return string(c.Reason)
	}
	return fmt.Sprintf("%s: %s", c.Reason, c.Detail)
}

// IsReason reports whether err is a Condition with the given reason.
func IsReason(err error, r Reason) bool {
	var cond *Condition
	if errors.As(err, &cond) {
		return cond.Reason == r
	}
	return false
}

func invalidConfig(format string, args ...any) *Condition {
	return &Condition{Reason: ReasonInvalidConfig, Detail: fmt.Sprintf(format, args...)}
}
