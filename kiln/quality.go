package kiln

// Quality is the clinker quality band reached at a given burning-zone
// temperature.
type Quality string

const (
	QualityGood    Quality = "good clinker formation"
	QualityPartial Quality = "partial sintering"
	QualityPoor    Quality = "poor quality"
)

// Clinker quality thresholds (degC).
const (
	goodClinkerTemp      = 1350.0
	partialSinteringTemp = 1200.0
)

// QualityFor maps a temperature to its clinker quality band.
func QualityFor(temperature float64) Quality {
	switch {
	case temperature >= goodClinkerTemp:
		return QualityGood
	case temperature >= partialSinteringTemp:
		return QualityPartial
	default:
		return QualityPoor
	}
}

// Savings is a back-of-the-envelope yearly estimate against a fixed baseline
// fuel rate.
type Savings struct {
	FuelSavedKgYear float64
	CO2SavedKgYear  float64
	MoneySavedUSD   float64
}

const (
	baselineFuelKgHr  = 700.0
	co2PerKgFuel      = 3.17
	operatingDaysYear = 330.0
	usdPerTonFuel     = 15.0
)

// EstimateSavings compares a sustained fuel rate (kg/hr) against the 700 kg/hr
// baseline over a 330-day operating year. Negative values mean the run burns
// more than the baseline.
func EstimateSavings(fuelRateKgHr float64) Savings {
	fuelSaved := (baselineFuelKgHr - fuelRateKgHr) * operatingDaysYear * 24
	return Savings{
		FuelSavedKgYear: fuelSaved,
		CO2SavedKgYear:  fuelSaved * co2PerKgFuel,
		MoneySavedUSD:   fuelSaved / 1000 * usdPerTonFuel,
	}
}
