package projection

import (
	"github.com/iwvelando/population-forecast/internal/baseline"
	"github.com/iwvelando/population-forecast/pkg/constants"
	"github.com/iwvelando/population-forecast/pkg/mathutil"
)

// ComputeBirths computes the births occurring over one five-year step from
// the female population and the reproductive-band fertility rates, each
// scaled by tfrMultiplier. The total is split by the sex ratio at birth and
// each share survives the step at the corresponding infant survival
// probability. Rounding happens once, at the end.
func ComputeBirths(
	femalePop []int,
	bands []baseline.ReproductiveBand,
	tfrMultiplier float64,
	sexRatio baseline.SexRatio,
	maleInfantSurvival float64,
	femaleInfantSurvival float64,
) (maleBirths, femaleBirths int) {
	totalBirths := 0.0
	for _, band := range bands {
		women := float64(femalePop[band.Index])
		rate := band.Rate * tfrMultiplier
		totalBirths += women * (rate / constants.RatePerThousand) * constants.YearsPerStep
	}

	male := totalBirths * sexRatio.Male * maleInfantSurvival
	female := totalBirths * sexRatio.Female * femaleInfantSurvival

	return mathutil.RoundNonNegative(male), mathutil.RoundNonNegative(female)
}
