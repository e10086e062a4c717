package kiln

import (
	"math"
	"testing"
)

func stepConfig() ControllerConfig {
	return NewControllerConfig(1450, 1, 0.1, 0, 0, 100, 0, ModeAuto)
}

func TestPID_SetpointStep_SaturatesAtUpperBound(t *testing.T) {
	// GIVEN a cold kiln (20degC), setpoint 1450degC, Kp=1 Ki=0.1 Kd=0, bounds [0,100]
	pid := NewPID()

	// WHEN the first tick is computed with dt=1
	out, err := pid.Compute(20, 1, stepConfig())

	// THEN the output saturates at the upper bound
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if out != 100 {
		t.Errorf("saturated output: got %.4f, want 100", out)
	}
}

func TestPID_AntiWindup_IntegralFrozenWhileSaturated(t *testing.T) {
	// GIVEN a sustained setpoint step that saturates the output
	pid := NewPID()
	cfg := stepConfig()

	// WHEN 50 consecutive saturated ticks run
	for i := 0; i < 50; i++ {
		out, err := pid.Compute(20, 1, cfg)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if out != 100 {
			t.Fatalf("tick %d: output %.4f, want saturated 100", i, out)
		}
	}

	// THEN the integral contribution never exceeds what keeps the output at
	// the bound (here: no accumulation at all, since saturation held from tick 1)
	st := pid.Snapshot()
	if contribution := cfg.Ki * st.Integral; contribution > cfg.OutputMax {
		t.Errorf("integral contribution %.4f exceeds output bound %.1f", contribution, cfg.OutputMax)
	}
	if st.Integral != 0 {
		t.Errorf("integral accumulated during saturation: got %.4f, want 0", st.Integral)
	}
}

func TestPID_DesaturatesPromptlyAfterErrorClears(t *testing.T) {
	// GIVEN a controller saturated for 50 ticks
	pid := NewPID()
	cfg := stepConfig()
	for i := 0; i < 50; i++ {
		if _, err := pid.Compute(20, 1, cfg); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	// WHEN the measured value reaches the setpoint
	out, err := pid.Compute(cfg.Setpoint, 1, cfg)

	// THEN the very next output drops off the bound (no windup overshoot)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if out >= cfg.OutputMax {
		t.Errorf("output still saturated after error cleared: got %.4f", out)
	}
}

func TestPID_IntegralAccumulatesWhileUnsaturated(t *testing.T) {
	// GIVEN a small error that keeps the raw output inside the bounds
	pid := NewPID()
	cfg := NewControllerConfig(30, 1, 0.1, 0, -100, 100, 0, ModeAuto)

	// WHEN one tick runs with error 10 and dt=1
	out, err := pid.Compute(20, 1, cfg)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	// THEN output = Kp*10 + Ki*(10*1) and the integral holds 10
	if math.Abs(out-11) > 1e-9 {
		t.Errorf("output: got %.6f, want 11", out)
	}
	if got := pid.Snapshot().Integral; math.Abs(got-10) > 1e-9 {
		t.Errorf("integral: got %.6f, want 10", got)
	}
}

func TestPID_ManualOutput_ClampedToBounds(t *testing.T) {
	// GIVEN manual mode with a manual output above the upper bound
	pid := NewPID()
	cfg := NewControllerConfig(1450, 1, 0.1, 0, 0, 100, 150, ModeManual)

	// WHEN a tick is computed
	out, err := pid.Compute(20, 1, cfg)

	// THEN the manual output is passed through clamped
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if out != 100 {
		t.Errorf("manual output: got %.4f, want clamped 100", out)
	}
}

func TestPID_ManualMode_FreezesControllerMemory(t *testing.T) {
	// GIVEN a controller with accumulated integral from auto operation
	pid := NewPID()
	autoCfg := NewControllerConfig(30, 1, 0.1, 0, -100, 100, 0, ModeAuto)
	if _, err := pid.Compute(20, 1, autoCfg); err != nil {
		t.Fatal(err)
	}
	before := pid.Snapshot()

	// WHEN several manual-mode ticks run with a changing measurement
	manualCfg := autoCfg
	manualCfg.Mode = ModeManual
	manualCfg.ManualOutput = 50
	for i, measured := range []float64{25, 40, 80} {
		if _, err := pid.Compute(measured, 1, manualCfg); err != nil {
			t.Fatalf("manual tick %d: %v", i, err)
		}
	}

	// THEN the integral and derivative memory are unchanged
	if after := pid.Snapshot(); after != before {
		t.Errorf("manual mode mutated controller memory: before %+v, after %+v", before, after)
	}
}

func TestPID_ManualToAuto_NoDerivativeKick(t *testing.T) {
	// GIVEN a large Kd and manual operation during which the error moved a lot
	pid := NewPID()
	cfg := NewControllerConfig(100, 1, 0, 50, -1e6, 1e6, 10, ModeManual)
	for _, measured := range []float64{20, 40, 60} {
		if _, err := pid.Compute(measured, 1, cfg); err != nil {
			t.Fatal(err)
		}
	}

	// WHEN the mode switches back to auto
	cfg.Mode = ModeAuto
	measured := 90.0
	out, err := pid.Compute(measured, 1, cfg)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	// THEN the first auto output carries no derivative spike from the stale
	// previous error: it is exactly the proportional term (integral is zero)
	want := cfg.Kp * (cfg.Setpoint - measured)
	if math.Abs(out-want) > 1e-9 {
		t.Errorf("first auto output: got %.6f, want %.6f (P-term only)", out, want)
	}
}

func TestPID_NonPositiveDt_ReportsInvalidConfig(t *testing.T) {
	// GIVEN a controller with some accumulated state
	pid := NewPID()
	cfg := NewControllerConfig(30, 1, 0.1, 0, -100, 100, 0, ModeAuto)
	if _, err := pid.Compute(20, 1, cfg); err != nil {
		t.Fatal(err)
	}
	before := pid.Snapshot()

	// WHEN a tick is computed with dt=0
	_, err := pid.Compute(20, 0, cfg)

	// THEN an invalid_config condition is reported and state is untouched
	if !IsReason(err, ReasonInvalidConfig) {
		t.Fatalf("got err %v, want invalid_config condition", err)
	}
	if after := pid.Snapshot(); after != before {
		t.Errorf("invalid tick mutated state: before %+v, after %+v", before, after)
	}
}

func TestPID_InvertedBounds_ReportsInvalidConfig(t *testing.T) {
	pid := NewPID()
	cfg := NewControllerConfig(30, 1, 0.1, 0, 100, 0, 0, ModeAuto)

	_, err := pid.Compute(20, 1, cfg)
	if !IsReason(err, ReasonInvalidConfig) {
		t.Fatalf("got err %v, want invalid_config condition", err)
	}
}

func TestPID_Reset_ClearsMemory(t *testing.T) {
	pid := NewPID()
	cfg := NewControllerConfig(30, 1, 0.1, 0, -100, 100, 0, ModeAuto)
	if _, err := pid.Compute(20, 1, cfg); err != nil {
		t.Fatal(err)
	}

	pid.Reset()

	if got := pid.Snapshot(); got != (InternalState{}) {
		t.Errorf("Reset left state %+v, want zero", got)
	}
}
