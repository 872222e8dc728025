package projection

import (
	"github.com/iwvelando/population-forecast/internal/baseline"
	"github.com/iwvelando/population-forecast/pkg/constants"
	"github.com/iwvelando/population-forecast/pkg/mathutil"
)

// Advance produces the next five-year snapshot from the previous one. Per
// sex:
//   - band 0 is populated entirely by births plus five years of migration;
//     it inherits nothing from a prior band
//   - interior band i receives the cohort from band i-1, survived at band
//     i's rate, plus five years of migration into band i
//   - the terminal open-ended band receives both the cohort aging in from
//     the band below and its own surviving residents, since it has no
//     upper exit
//
// Every count is rounded to a whole individual and floored at zero.
func Advance(
	prev baseline.Snapshot,
	survMale, survFemale []*float64,
	migMale, migFemale []float64,
	bands []baseline.ReproductiveBand,
	tfrMultiplier float64,
	sexRatio baseline.SexRatio,
) baseline.Snapshot {
	n := len(prev.Male)
	next := baseline.Snapshot{
		Male:   make([]int, n),
		Female: make([]int, n),
	}

	for i := 1; i < n-1; i++ {
		next.Male[i] = mathutil.RoundNonNegative(
			float64(prev.Male[i-1])*survivalAt(survMale, i) + migMale[i]*constants.YearsPerStep)
		next.Female[i] = mathutil.RoundNonNegative(
			float64(prev.Female[i-1])*survivalAt(survFemale, i) + migFemale[i]*constants.YearsPerStep)
	}

	last := n - 1
	next.Male[last] = mathutil.RoundNonNegative(
		(float64(prev.Male[last-1])+float64(prev.Male[last]))*survivalAt(survMale, last) +
			migMale[last]*constants.YearsPerStep)
	next.Female[last] = mathutil.RoundNonNegative(
		(float64(prev.Female[last-1])+float64(prev.Female[last]))*survivalAt(survFemale, last) +
			migFemale[last]*constants.YearsPerStep)

	maleBirths, femaleBirths := ComputeBirths(prev.Female, bands, tfrMultiplier, sexRatio,
		survivalAt(survMale, 0), survivalAt(survFemale, 0))
	next.Male[0] = mathutil.RoundNonNegative(float64(maleBirths) + migMale[0]*constants.YearsPerStep)
	next.Female[0] = mathutil.RoundNonNegative(float64(femaleBirths) + migFemale[0]*constants.YearsPerStep)

	return next
}
