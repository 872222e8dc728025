package projection

import (
	"math"

	"github.com/iwvelando/population-forecast/pkg/constants"
	"github.com/iwvelando/population-forecast/pkg/mathutil"
)

// AdjustSurvival shifts baseline five-year survival probabilities to match
// a target life expectancy. The shift is multiplicative on the death
// probability, not the survival probability, so it stays proportionate
// across ages; results are clamped into [0,1]. Undefined entries propagate
// unchanged.
func AdjustSurvival(baselineSurvival []*float64, baselineLifeExp, targetLifeExp float64) []*float64 {
	mortalityMult := math.Exp(-constants.MortalityCalibrationFactor * (targetLifeExp - baselineLifeExp))

	adjusted := make([]*float64, len(baselineSurvival))
	for i, s := range baselineSurvival {
		if s == nil {
			continue
		}
		deathProb := (1 - *s) * mortalityMult
		v := mathutil.ClampProbability(1 - deathProb)
		adjusted[i] = &v
	}
	return adjusted
}

// ScaleMigration scales an age distribution so it sums to targetTotal. A
// zero-sum baseline yields an all-zero result rather than a division by
// zero; a zero baseline legitimately implies zero scaled migration.
func ScaleMigration(baselineDist []float64, targetTotal float64) []float64 {
	scaled := make([]float64, len(baselineDist))
	baselineTotal := mathutil.SumFloats(baselineDist)
	if baselineTotal == 0 {
		return scaled
	}

	scale := targetTotal / baselineTotal
	for i, v := range baselineDist {
		scaled[i] = v * scale
	}
	return scaled
}

// ScaleMigrationBySex splits the annual migration target evenly between the
// sexes, scales each sex's baseline distribution, then applies a residual
// correction so the combined sum equals the target exactly even when the
// per-sex baseline sums differ.
func ScaleMigrationBySex(baselineMale, baselineFemale []float64, targetTotal float64) ([]float64, []float64) {
	male := ScaleMigration(baselineMale, targetTotal/2)
	female := ScaleMigration(baselineFemale, targetTotal/2)

	combined := mathutil.SumFloats(male) + mathutil.SumFloats(female)
	if combined != 0 {
		adjustment := targetTotal / combined
		for i := range male {
			male[i] *= adjustment
		}
		for i := range female {
			female[i] *= adjustment
		}
	}

	return male, female
}

// survivalAt resolves one survival probability for use in a cohort step.
// An undefined entry carries no mortality adjustment.
func survivalAt(survival []*float64, i int) float64 {
	if survival[i] == nil {
		return 1
	}
	return *survival[i]
}
