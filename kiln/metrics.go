// Tracks run-wide statistics such as tick counts, saturation incidents,
// peak temperature and cumulative CO2.

package kiln

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about a run for final reporting. Useful for
// judging controller tuning and debugging behavior over time.
type Metrics struct {
	TicksExecuted   int     // completed ticks
	SaturatedTicks  int     // ticks whose plant result hit a clamp
	SkippedTicks    int     // ticks aborted on invalid config
	PeakTemperature float64 // max temperature observed
	TotalCO2Kg      float64 // integral of the emission rate over time
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Observe folds one completed tick into the aggregates. The emission rate is
// kg/hr, dt seconds.
func (m *Metrics) Observe(s Sample, dt float64) {
	m.TicksExecuted++
	if s.Saturated {
		m.SaturatedTicks++
	}
	if s.Temperature > m.PeakTemperature {
		m.PeakTemperature = s.Temperature
	}
	m.TotalCO2Kg += s.EmissionRate * dt / 3600
}

// ObserveSkip counts a tick aborted before any state mutation.
func (m *Metrics) ObserveSkip() {
	m.SkippedTicks++
}

// Reset zeroes all aggregates.
func (m *Metrics) Reset() {
	*m = Metrics{}
}

// Print displays aggregated metrics at the end of a run, including mean and
// spread of the temperature series.
func (m *Metrics) Print(samples []Sample) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Ticks executed       : %d\n", m.TicksExecuted)
	fmt.Printf("Ticks skipped        : %d\n", m.SkippedTicks)
	fmt.Printf("Saturated ticks      : %d\n", m.SaturatedTicks)
	fmt.Printf("Peak temperature     : %.2f degC\n", m.PeakTemperature)
	fmt.Printf("Cumulative CO2       : %.2f kg\n", m.TotalCO2Kg)
	if len(samples) > 0 {
		temps := make([]float64, len(samples))
		for i, s := range samples {
			temps[i] = s.Temperature
		}
		fmt.Printf("Mean temperature     : %.2f degC\n", stat.Mean(temps, nil))
		if len(temps) > 1 {
			fmt.Printf("Temperature stddev   : %.2f degC\n", stat.StdDev(temps, nil))
		}
		fmt.Printf("Final temperature    : %.2f degC\n", temps[len(temps)-1])
	}
}
