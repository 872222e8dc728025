// Package constants provides shared constants for the population-forecast application.
package constants

// Projection constants
const (
	// YearsPerStep is the width of one cohort step in years; age bands are
	// the same width so one step ages every cohort by exactly one band.
	YearsPerStep = 5

	// DefaultAnchorStep is the default number of years between anchor
	// projections.
	DefaultAnchorStep = 5

	// MortalityCalibrationFactor converts a life expectancy delta (years)
	// into a multiplicative shift on five-year death probabilities.
	MortalityCalibrationFactor = 0.06

	// RatePerThousand is the denominator for age-specific fertility rates,
	// which are expressed as annual births per 1,000 women.
	RatePerThousand = 1000.0

	// ReproductiveBandCount is the number of age bands spanning ages 15-49.
	ReproductiveBandCount = 7

	// FirstReproductiveBandIndex is the age-band index of "15 to 19 years".
	FirstReproductiveBandIndex = 3

	// CountTolerance is the tolerance used when comparing population counts
	// that originate from floating-point arithmetic.
	CountTolerance = 0.5

	// DefaultBaseYear is the projection start year used when none is given.
	DefaultBaseYear = 2025

	// DefaultEndYear is the projection end year used when none is given.
	DefaultEndYear = 2100
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultBaselineFile is the default baseline dataset file name
	DefaultBaselineFile = "baseline.json"
)

// Server constants
const (
	// DefaultServerAddress is the default listen address for the HTTP API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes limits request bodies accepted by the HTTP API
	DefaultMaxBodySizeBytes = 1 << 20
)
