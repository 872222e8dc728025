// Package baseline defines the immutable demographic reference dataset
// consumed by the projection engine and includes functions for loading and
// validating it.
package baseline

import (
	"github.com/iwvelando/population-forecast/pkg/mathutil"
)

// Snapshot holds per-sex population counts for one calendar year, ordered
// by age band (youngest first).
type Snapshot struct {
	Male   []int `json:"male"`
	Female []int `json:"female"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Male:   append([]int(nil), s.Male...),
		Female: append([]int(nil), s.Female...),
	}
}

// MaleTotal returns the total male population across all age bands.
func (s Snapshot) MaleTotal() int {
	return mathutil.SumInts(s.Male)
}

// FemaleTotal returns the total female population across all age bands.
func (s Snapshot) FemaleTotal() int {
	return mathutil.SumInts(s.Female)
}

// Total returns the total population across both sexes.
func (s Snapshot) Total() int {
	return s.MaleTotal() + s.FemaleTotal()
}

// SexSeries holds one per-age-band series for each sex. Survival entries use
// pointers because the dataset may leave a band's probability undefined.
type SexSeries struct {
	Male   []*float64
	Female []*float64
}

// SexValues holds one per-age-band value series for each sex.
type SexValues struct {
	Male   []float64
	Female []float64
}

// SexRatio holds the share of births assigned to each sex.
type SexRatio struct {
	Male   float64
	Female float64
}

// LifeExpectancy holds life expectancy at birth for each sex, in years.
type LifeExpectancy struct {
	Male   float64
	Female float64
}

// ReproductiveBand pairs an age-band label with its index in the age-band
// list and its baseline annual fertility rate per 1,000 women.
type ReproductiveBand struct {
	Label string
	Index int
	Rate  float64
}

// Model is the baseline demographic dataset. It is loaded once, validated,
// and treated as read-only for the life of the process; concurrent
// projections may share one Model without locking.
type Model struct {
	// Ages lists the age-band labels, youngest first. Index order is the
	// aging invariant every consumer relies on.
	Ages []string

	// Survival holds five-year survival probabilities per age band.
	Survival SexSeries

	// Migration holds the annual net-migration distribution per age band.
	// Units are migrants per year; consumers multiply by the step width.
	Migration SexValues

	// Fertility maps reproductive age-band labels to annual births per
	// 1,000 women.
	Fertility map[string]float64

	SexRatio           SexRatio
	TFR                float64
	LifeExpectancy     LifeExpectancy
	NetMigrationAnnual float64

	// Observed maps calendar years to observed population snapshots.
	Observed map[int]Snapshot

	reproductive []ReproductiveBand
}

// BandCount returns the number of age bands.
func (m *Model) BandCount() int {
	return len(m.Ages)
}

// ReproductiveBands returns the validated reproductive age bands in
// ascending age order. The slice is built during Validate and must not be
// mutated by callers.
func (m *Model) ReproductiveBands() []ReproductiveBand {
	return m.reproductive
}

// ObservedSnapshot returns the observed population for the given year.
func (m *Model) ObservedSnapshot(year int) (Snapshot, bool) {
	snap, ok := m.Observed[year]
	return snap, ok
}
