package kiln

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityFor_BandEdges(t *testing.T) {
	assert.Equal(t, QualityGood, QualityFor(1500))
	assert.Equal(t, QualityGood, QualityFor(1350))
	assert.Equal(t, QualityPartial, QualityFor(1349.9))
	assert.Equal(t, QualityPartial, QualityFor(1200))
	assert.Equal(t, QualityPoor, QualityFor(1199.9))
	assert.Equal(t, QualityPoor, QualityFor(400))
}

func TestEstimateSavings_BelowBaseline(t *testing.T) {
	// 500 kg/hr vs the 700 kg/hr baseline over a 330-day year
	got := EstimateSavings(500)

	assert.InDelta(t, 200*330*24, got.FuelSavedKgYear, 1e-6)
	assert.InDelta(t, 200*330*24*3.17, got.CO2SavedKgYear, 1e-6)
	assert.InDelta(t, 200*330*24/1000*15, got.MoneySavedUSD, 1e-6)
}

func TestEstimateSavings_AboveBaseline_IsNegative(t *testing.T) {
	got := EstimateSavings(900)
	assert.Less(t, got.FuelSavedKgYear, 0.0)
	assert.Less(t, got.CO2SavedKgYear, 0.0)
	assert.Less(t, got.MoneySavedUSD, 0.0)
}
