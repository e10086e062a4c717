package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Define struct for YAML
type PresetConfig struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Preset is a named kiln parameter set. Zero fields fall back to the flag
// defaults, so presets may be partial.
type Preset struct {
	Setpoint     *float64 `yaml:"setpoint"`
	Kp           *float64 `yaml:"kp"`
	Ki           *float64 `yaml:"ki"`
	Kd           *float64 `yaml:"kd"`
	OutputMin    *float64 `yaml:"output_min"`
	OutputMax    *float64 `yaml:"output_max"`
	ManualOutput *float64 `yaml:"manual_output"`
	Mode         *string  `yaml:"mode"`
	InitialTemp  *float64 `yaml:"initial_temp"`
	AmbientTemp  *float64 `yaml:"ambient_temp"`
	TimeConstant *float64 `yaml:"time_constant"`
	ProcessGain  *float64 `yaml:"process_gain"`
	CeilingTemp  *float64 `yaml:"ceiling_temp"`
	MotorSpeed   *float64 `yaml:"motor_speed"`
}

// GetPreset loads a named preset from a YAML file, or nil if absent.
func GetPreset(presetFilePath string, name string) *Preset {
	// Read YAML file
	data, err := os.ReadFile(presetFilePath)
	if err != nil {
		panic(err)
	}

	// Parse YAML
	var cfg PresetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(err)
	}

	if preset, presetExists := cfg.Presets[name]; presetExists {
		logrus.Infof("Using kiln preset %v\n", name)
		return &preset
	}
	return nil
}

// applyFlags overrides the flag-backed configuration with the preset's
// populated fields.
func (p *Preset) applyFlags() {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&setpoint, p.Setpoint)
	setF(&kp, p.Kp)
	setF(&ki, p.Ki)
	setF(&kd, p.Kd)
	setF(&outputMin, p.OutputMin)
	setF(&outputMax, p.OutputMax)
	setF(&manualOutput, p.ManualOutput)
	setF(&initialTemp, p.InitialTemp)
	setF(&ambientTemp, p.AmbientTemp)
	setF(&timeConstant, p.TimeConstant)
	setF(&processGain, p.ProcessGain)
	setF(&ceilingTemp, p.CeilingTemp)
	setF(&motorSpeedRPM, p.MotorSpeed)
	if p.Mode != nil {
		controllerMode = *p.Mode
	}
}
