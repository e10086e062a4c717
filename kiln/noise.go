package kiln

import "math/rand"

// Disturbance is a seeded ambient-temperature perturbation source. With zero
// amplitude it is inert and consumes no randomness, so quiet and noisy runs
// replay deterministically from the same seed.
type Disturbance struct {
	amplitude float64
	rng       *rand.Rand
}

// NewDisturbance creates a source producing offsets uniform in
// [-amplitude, +amplitude].
func NewDisturbance(seed int64, amplitude float64) *Disturbance {
	return &Disturbance{
		amplitude: amplitude,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Next returns the ambient offset for the current tick.
func (d *Disturbance) Next() float64 {
	if d.amplitude == 0 {
		return 0
	}
	return (2*d.rng.Float64() - 1) * d.amplitude
}
