// Package testutil provides common utility functions for testing.
package testutil

import (
	"fmt"

	"github.com/iwvelando/population-forecast/internal/baseline"
	"github.com/iwvelando/population-forecast/internal/projection"
)

// FindScenarioResult finds a scenario result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenarioResult(results []projection.ScenarioResult, name string) *projection.ScenarioResult {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// Float64 returns a pointer to the given value, for optional parameters.
func Float64(v float64) *float64 {
	return &v
}

// testAges covers ages 0 through 100+ in five-year bands.
var testAges = []string{
	"0 to 4 years", "5 to 9 years", "10 to 14 years",
	"15 to 19 years", "20 to 24 years", "25 to 29 years",
	"30 to 34 years", "35 to 39 years", "40 to 44 years",
	"45 to 49 years", "50 to 54 years", "55 to 59 years",
	"60 to 64 years", "65 to 69 years", "70 to 74 years",
	"75 to 79 years", "80 to 84 years", "85 to 89 years",
	"90 to 94 years", "95 to 99 years", "100 years and over",
}

// NewModel builds a validated 21-band baseline model with plausible
// national-scale numbers and observed data for 2025. The annual fertility
// rates sum to the stated baseline TFR of 1.42 over a reproductive
// lifetime.
func NewModel() *baseline.Model {
	model := &baseline.Model{
		Ages: testAges,
		Survival: baseline.SexSeries{
			Male: floatPtrs([]float64{
				0.997, 0.999, 0.999, 0.998, 0.997, 0.997, 0.996,
				0.995, 0.993, 0.990, 0.985, 0.977, 0.965, 0.945,
				0.910, 0.850, 0.745, 0.590, 0.410, 0.240, 0.130,
			}),
			Female: floatPtrs([]float64{
				0.998, 0.999, 0.999, 0.999, 0.998, 0.998, 0.997,
				0.996, 0.995, 0.993, 0.989, 0.983, 0.974, 0.958,
				0.932, 0.885, 0.800, 0.665, 0.490, 0.305, 0.175,
			}),
		},
		Migration: baseline.SexValues{
			Male: []float64{
				4000, 5000, 8000, 20000, 35000, 40000, 30000,
				20000, 12000, 8000, 5000, 3000, 2000, 1500,
				1000, 500, 300, 150, 80, 40, 10,
			},
			Female: []float64{
				3800, 4800, 7800, 21000, 36000, 41000, 31000,
				21000, 12500, 8200, 5100, 3100, 2100, 1600,
				1100, 550, 320, 160, 90, 45, 12,
			},
		},
		Fertility: map[string]float64{
			"15 to 19 years": 6.0,
			"20 to 24 years": 28.0,
			"25 to 29 years": 78.0,
			"30 to 34 years": 103.0,
			"35 to 39 years": 57.0,
			"40 to 44 years": 12.0,
			"45 to 49 years": 0.9,
		},
		SexRatio:           baseline.SexRatio{Male: 0.512, Female: 0.488},
		TFR:                1.42,
		LifeExpectancy:     baseline.LifeExpectancy{Male: 80.2, Female: 84.4},
		NetMigrationAnnual: 450000,
		Observed: map[int]baseline.Snapshot{
			2025: {
				Male: []int{
					1000000, 1050000, 1100000, 1150000, 1300000, 1400000, 1450000,
					1400000, 1300000, 1250000, 1200000, 1250000, 1300000, 1200000,
					1000000, 750000, 500000, 280000, 120000, 35000, 4000,
				},
				Female: []int{
					950000, 1000000, 1050000, 1100000, 1250000, 1380000, 1430000,
					1390000, 1300000, 1260000, 1220000, 1280000, 1350000, 1270000,
					1090000, 850000, 620000, 390000, 200000, 70000, 9000,
				},
			},
		},
	}

	if err := model.Validate(); err != nil {
		panic(fmt.Sprintf("test baseline model is invalid: %v", err))
	}
	return model
}

func floatPtrs(vals []float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		v := vals[i]
		out[i] = &v
	}
	return out
}
