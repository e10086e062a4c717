package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Bil00u/cement-kiln-simulator/kiln"
)

var (
	// CLI flags shared by run and serve
	logLevel       string  // Log verbosity level
	setpoint       float64 // Target kiln temperature (degC)
	kp             float64 // Proportional gain
	ki             float64 // Integral gain
	kd             float64 // Derivative gain
	outputMin      float64 // Lower fuel-rate bound (kg/hr)
	outputMax      float64 // Upper fuel-rate bound (kg/hr)
	manualOutput   float64 // Fuel rate used in manual mode (kg/hr)
	controllerMode string  // "auto" or "manual"
	initialTemp    float64 // Kiln temperature at start / after reset (degC)
	ambientTemp    float64 // Ambient temperature (degC)
	timeConstant   float64 // Plant thermal time constant (s)
	processGain    float64 // Equilibrium degC per kg/hr of fuel
	ceilingTemp    float64 // Physical temperature ceiling (degC)
	motorSpeedRPM  float64 // Kiln drum rotation speed
	co2PerFuelUnit float64 // kg CO2/hr per kg/hr of fuel
	co2PerDegree   float64 // kg CO2/hr per degC above ambient
	seed           int64   // Seed for the ambient disturbance source
	noiseAmplitude float64 // Ambient disturbance amplitude (degC); 0 disables
	historyCap     int     // Sample history ring capacity
	presetFile     string  // Path to a YAML preset file
	presetName     string  // Named preset within the preset file

	// run-only flags
	ticks int     // Number of ticks to simulate
	dt    float64 // Simulated seconds per tick
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cement-kiln-simulator",
	Short: "Closed-loop PID process-control simulator for a rotary cement kiln",
}

// buildDriver assembles the kiln driver from presets and CLI flags.
func buildDriver() (*kiln.Driver, error) {
	if presetFile != "" {
		if preset := GetPreset(presetFile, presetName); preset != nil {
			preset.applyFlags()
		} else {
			logrus.Fatalf("Preset %q not found in %s", presetName, presetFile)
		}
	}

	cfg := kiln.NewControllerConfig(setpoint, kp, ki, kd, outputMin, outputMax,
		manualOutput, kiln.Mode(controllerMode))

	geo := kiln.DefaultGeometry()
	geo.MotorSpeedRPM = motorSpeedRPM

	params := kiln.NewPlantParams(timeConstant, ambientTemp, processGain, ambientTemp, ceilingTemp)
	plant, err := kiln.NewPlantWithGeometry(params, geo)
	if err != nil {
		return nil, err
	}

	emissions := kiln.NewEmissions(kiln.NewEmissionParams(co2PerFuelUnit, co2PerDegree), ambientTemp)

	return kiln.NewDriver(cfg, plant, emissions, kiln.Options{
		InitialTemperature: initialTemp,
		HistoryCapacity:    historyCap,
		Seed:               seed,
		NoiseAmplitude:     noiseAmplitude,
	})
}

// runCmd executes a fixed-length headless simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the kiln simulation for a fixed number of ticks",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		driver, err := buildDriver()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation: setpoint=%.0fdegC ticks=%d dt=%.2fs bounds=[%.0f,%.0f]",
			setpoint, ticks, dt, outputMin, outputMax)

		driver.Start()
		for i := 0; i < ticks; i++ {
			if _, err := driver.Tick(dt); err != nil {
				logrus.Warnf("tick %d reported: %v", i, err)
			}
		}
		driver.Stop()

		report(driver)
		logrus.Info("Simulation complete.")
	},
}

// report prints the end-of-run summary: metrics, clinker quality for the
// final temperature, and the fuel/CO2 savings estimate for the mean fuel rate.
func report(driver *kiln.Driver) {
	samples := driver.History()
	m := driver.Metrics()
	m.Print(samples)

	if len(samples) == 0 {
		return
	}
	final := samples[len(samples)-1]
	var meanFuel float64
	for _, s := range samples {
		meanFuel += s.ControlOutput
	}
	meanFuel /= float64(len(samples))

	logrus.Infof("Clinker quality: %s (final %.1fdegC)", kiln.QualityFor(final.Temperature), final.Temperature)
	savings := kiln.EstimateSavings(meanFuel)
	logrus.Infof("Vs 700 kg/hr baseline: fuel %.0f kg/yr, CO2 %.0f kg/yr, $%.2f/yr",
		savings.FuelSavedKgYear, savings.CO2SavedKgYear, savings.MoneySavedUSD)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, serveCmd} {
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

		// Controller configuration
		c.Flags().Float64Var(&setpoint, "setpoint", 1350, "Target kiln temperature (degC)")
		c.Flags().Float64Var(&kp, "kp", 2.0, "Proportional gain")
		c.Flags().Float64Var(&ki, "ki", 0.05, "Integral gain")
		c.Flags().Float64Var(&kd, "kd", 0.0, "Derivative gain")
		c.Flags().Float64Var(&outputMin, "output-min", 100, "Lower fuel-rate bound (kg/hr)")
		c.Flags().Float64Var(&outputMax, "output-max", 1000, "Upper fuel-rate bound (kg/hr)")
		c.Flags().Float64Var(&manualOutput, "manual-output", 500, "Fuel rate in manual mode (kg/hr)")
		c.Flags().StringVar(&controllerMode, "mode", "auto", "Controller mode (auto, manual)")

		// Plant configuration
		c.Flags().Float64Var(&initialTemp, "initial-temp", 400, "Initial kiln temperature (degC)")
		c.Flags().Float64Var(&ambientTemp, "ambient-temp", 30, "Ambient temperature (degC)")
		c.Flags().Float64Var(&timeConstant, "time-constant", 1800, "Thermal time constant (s)")
		c.Flags().Float64Var(&processGain, "process-gain", 1.5, "Equilibrium degC per kg/hr of fuel")
		c.Flags().Float64Var(&ceilingTemp, "ceiling-temp", 2000, "Physical temperature ceiling (degC)")
		c.Flags().Float64Var(&motorSpeedRPM, "motor-speed", 2.5, "Kiln drum rotation speed (RPM)")

		// Emissions configuration
		c.Flags().Float64Var(&co2PerFuelUnit, "co2-per-fuel", 3.17, "kg CO2/hr per kg/hr of fuel")
		c.Flags().Float64Var(&co2PerDegree, "co2-per-degree", 0.01, "kg CO2/hr per degC above ambient")

		// Simulation configuration
		c.Flags().Int64Var(&seed, "seed", 42, "Seed for the ambient disturbance source")
		c.Flags().Float64Var(&noiseAmplitude, "noise", 0, "Ambient disturbance amplitude (degC); 0 disables")
		c.Flags().IntVar(&historyCap, "history-cap", kiln.DefaultHistoryCapacity, "Sample history ring capacity")

		// Presets
		c.Flags().StringVar(&presetFile, "preset-file", "", "Path to a YAML kiln preset file")
		c.Flags().StringVar(&presetName, "preset", "default", "Named preset within the preset file")
	}

	runCmd.Flags().IntVar(&ticks, "ticks", 3600, "Number of ticks to simulate")
	runCmd.Flags().Float64Var(&dt, "dt", 1.0, "Simulated seconds per tick")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
