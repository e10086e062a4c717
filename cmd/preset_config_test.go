package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetYAML = `
presets:
  hot-burn:
    setpoint: 1450
    kp: 3.0
    ki: 0.08
    output_max: 1200
    mode: auto
  manual-hold:
    mode: manual
    manual_output: 600
`

func writePresetFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(presetYAML), 0o644))
	return path
}

func TestGetPreset_NamedPreset(t *testing.T) {
	path := writePresetFile(t)

	preset := GetPreset(path, "hot-burn")

	require.NotNil(t, preset)
	require.NotNil(t, preset.Setpoint)
	assert.Equal(t, 1450.0, *preset.Setpoint)
	require.NotNil(t, preset.Kp)
	assert.Equal(t, 3.0, *preset.Kp)
	require.NotNil(t, preset.OutputMax)
	assert.Equal(t, 1200.0, *preset.OutputMax)
	// Fields absent from the YAML stay nil so flag defaults win
	assert.Nil(t, preset.Kd)
	assert.Nil(t, preset.TimeConstant)
}

func TestGetPreset_UnknownName_ReturnsNil(t *testing.T) {
	path := writePresetFile(t)
	assert.Nil(t, GetPreset(path, "does-not-exist"))
}

func TestPreset_ApplyFlags_OverridesOnlyPopulatedFields(t *testing.T) {
	// Save and restore the flag-backed globals this test touches.
	savedSetpoint, savedKp, savedKd, savedMode, savedManual := setpoint, kp, kd, controllerMode, manualOutput
	defer func() {
		setpoint, kp, kd, controllerMode, manualOutput = savedSetpoint, savedKp, savedKd, savedMode, savedManual
	}()
	setpoint, kp, kd, controllerMode, manualOutput = 1350, 2.0, 0.5, "auto", 500

	path := writePresetFile(t)
	preset := GetPreset(path, "manual-hold")
	require.NotNil(t, preset)

	preset.applyFlags()

	assert.Equal(t, "manual", controllerMode)
	assert.Equal(t, 600.0, manualOutput)
	// Untouched by the preset
	assert.Equal(t, 1350.0, setpoint)
	assert.Equal(t, 0.5, kd)
}
