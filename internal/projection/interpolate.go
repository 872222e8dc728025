package projection

import (
	"fmt"

	"github.com/iwvelando/population-forecast/internal/baseline"
	"github.com/iwvelando/population-forecast/pkg/mathutil"
)

// Interpolate returns the population snapshot for a year between two
// anchors by linear interpolation of each age-band count, per sex. A year
// landing exactly on an anchor returns that anchor's snapshot unchanged.
// The anchors slice must be in ascending order and every anchor must be
// present in series.
func Interpolate(anchors []int, series map[int]baseline.Snapshot, year int) (baseline.Snapshot, error) {
	if len(anchors) == 0 {
		return baseline.Snapshot{}, fmt.Errorf("no anchors to interpolate between")
	}
	if year < anchors[0] || year > anchors[len(anchors)-1] {
		return baseline.Snapshot{}, fmt.Errorf("year %d is outside the anchor range [%d, %d]",
			year, anchors[0], anchors[len(anchors)-1])
	}

	// Nearest anchor at or below the year, and at or above it.
	lo, hi := anchors[0], anchors[len(anchors)-1]
	for _, a := range anchors {
		if a <= year {
			lo = a
		}
	}
	for i := len(anchors) - 1; i >= 0; i-- {
		if anchors[i] >= year {
			hi = anchors[i]
		}
	}

	if lo == hi {
		return series[lo].Clone(), nil
	}

	loSnap, hiSnap := series[lo], series[hi]
	w := float64(year-lo) / float64(hi-lo)

	n := len(loSnap.Male)
	out := baseline.Snapshot{
		Male:   make([]int, n),
		Female: make([]int, n),
	}
	for i := 0; i < n; i++ {
		out.Male[i] = mathutil.RoundNonNegative(
			(1-w)*float64(loSnap.Male[i]) + w*float64(hiSnap.Male[i]))
		out.Female[i] = mathutil.RoundNonNegative(
			(1-w)*float64(loSnap.Female[i]) + w*float64(hiSnap.Female[i]))
	}
	return out, nil
}
