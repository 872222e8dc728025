package projection

import (
	"github.com/iwvelando/population-forecast/internal/baseline"
	"github.com/iwvelando/population-forecast/pkg/optimization"
)

// Parameters holds the user-tunable scalar assumptions. A nil field means
// "use the baseline value"; resolution happens once per Project call.
type Parameters struct {
	TFR                  *float64 `json:"tfr,omitempty"`
	LifeExpectancyMale   *float64 `json:"lifeExpectancyMale,omitempty"`
	LifeExpectancyFemale *float64 `json:"lifeExpectancyFemale,omitempty"`
	NetMigrationAnnual   *float64 `json:"netMigrationAnnual,omitempty"`
}

// Request describes one projection run.
type Request struct {
	BaseYear   int        `json:"baseYear"`
	EndYear    int        `json:"endYear"`
	AnchorStep int        `json:"anchorStep,omitempty"`
	Parameters Parameters `json:"parameters"`
}

// Result holds the output of one projection run. AnchorSeries maps every
// anchor year to its computed snapshot; AnnualSeries maps every year
// strictly after the base year through the final anchor to an interpolated
// snapshot. Neither map is mutated after Project returns.
type Result struct {
	Anchors      []int                     `json:"anchors"`
	AnchorSeries map[int]baseline.Snapshot `json:"anchorSeries"`
	AnnualSeries map[int]baseline.Snapshot `json:"annualSeries"`
}

// SnapshotFor returns the snapshot for the given year from either series.
func (r *Result) SnapshotFor(year int) (baseline.Snapshot, bool) {
	if snap, ok := r.AnchorSeries[year]; ok {
		return snap, true
	}
	snap, ok := r.AnnualSeries[year]
	return snap, ok
}

// FinalYear returns the last projected anchor year.
func (r *Result) FinalYear() int {
	if len(r.Anchors) == 0 {
		return 0
	}
	return r.Anchors[len(r.Anchors)-1]
}

// Metrics holds supplemental per-scenario outputs.
type Metrics struct {
	Solutions []optimization.Summary `json:"solutions,omitempty"`
}

// ScenarioResult pairs a named scenario with its projection result.
type ScenarioResult struct {
	Name    string  `json:"name"`
	Result  *Result `json:"result"`
	Metrics Metrics `json:"metrics,omitempty"`
}
