package baseline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iwvelando/population-forecast/pkg/constants"
	"github.com/iwvelando/population-forecast/pkg/mathutil"
)

// reproductiveLabels are the age bands spanning ages 15-49. The baseline
// dataset must define every one of them, both in the age-band list and in
// the fertility table.
var reproductiveLabels = []string{
	"15 to 19 years",
	"20 to 24 years",
	"25 to 29 years",
	"30 to 34 years",
	"35 to 39 years",
	"40 to 44 years",
	"45 to 49 years",
}

type rawSexSeries struct {
	Male   []*float64 `json:"male"`
	Female []*float64 `json:"female"`
}

type rawSexValues struct {
	Male   []float64 `json:"male"`
	Female []float64 `json:"female"`
}

type rawShares struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
}

type rawBaseline struct {
	Survival           rawSexSeries       `json:"survival_probability_5y_by_age"`
	Migration          rawSexValues       `json:"net_migration_distribution_annual"`
	Fertility          map[string]float64 `json:"asfr_per_1000_per_year"`
	SexRatio           rawShares          `json:"sex_ratio_at_birth"`
	TFR                float64            `json:"tfr"`
	LifeExpectancy     rawShares          `json:"life_expectancy"`
	NetMigrationAnnual float64            `json:"net_migration_annual"`
}

type rawDataset struct {
	Ages  []string `json:"ages"`
	Model struct {
		Baseline rawBaseline `json:"baseline"`
	} `json:"model"`
	Observed map[string]Snapshot `json:"observed"`
}

// Load reads and validates the baseline dataset at the given path.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline dataset %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	model, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline dataset %s: %w", path, err)
	}
	return model, nil
}

// LoadFromReader decodes and validates a baseline dataset from a reader.
func LoadFromReader(r io.Reader) (*Model, error) {
	var raw rawDataset
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unable to decode baseline dataset: %w", err)
	}

	observed := make(map[int]Snapshot, len(raw.Observed))
	for yearStr, snap := range raw.Observed {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return nil, fmt.Errorf("observed data has non-numeric year key %q", yearStr)
		}
		observed[year] = snap
	}

	b := raw.Model.Baseline
	model := &Model{
		Ages: raw.Ages,
		Survival: SexSeries{
			Male:   b.Survival.Male,
			Female: b.Survival.Female,
		},
		Migration: SexValues{
			Male:   b.Migration.Male,
			Female: b.Migration.Female,
		},
		Fertility:          b.Fertility,
		SexRatio:           SexRatio{Male: b.SexRatio.Male, Female: b.SexRatio.Female},
		TFR:                b.TFR,
		LifeExpectancy:     LifeExpectancy{Male: b.LifeExpectancy.Male, Female: b.LifeExpectancy.Female},
		NetMigrationAnnual: b.NetMigrationAnnual,
		Observed:           observed,
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// Validate checks the structural invariants the projection engine relies on
// and builds the reproductive-band table. It must be called before the
// model is handed to any consumer; Load and LoadFromReader call it.
func (m *Model) Validate() error {
	n := m.BandCount()
	if n < 3 {
		return fmt.Errorf("baseline must define at least 3 age bands, got %d", n)
	}

	if err := validateSeriesLength("survival", n, len(m.Survival.Male), len(m.Survival.Female)); err != nil {
		return err
	}
	if err := validateSeriesLength("migration", n, len(m.Migration.Male), len(m.Migration.Female)); err != nil {
		return err
	}

	for _, series := range []struct {
		sex    string
		values []*float64
	}{
		{"male", m.Survival.Male},
		{"female", m.Survival.Female},
	} {
		for i, s := range series.values {
			if s == nil {
				continue
			}
			if *s < 0 || *s > 1 {
				return fmt.Errorf("%s survival probability for band %q is %v, outside [0,1]",
					series.sex, m.Ages[i], *s)
			}
		}
	}

	if m.TFR <= 0 {
		return fmt.Errorf("baseline total fertility rate must be positive, got %v", m.TFR)
	}
	if m.SexRatio.Male < 0 || m.SexRatio.Female < 0 {
		return fmt.Errorf("sex ratio at birth has negative share (male %v, female %v)",
			m.SexRatio.Male, m.SexRatio.Female)
	}
	if !mathutil.WithinTolerance(m.SexRatio.Male+m.SexRatio.Female, 1.0, 0.001) {
		return fmt.Errorf("sex ratio at birth shares sum to %v, expected 1",
			m.SexRatio.Male+m.SexRatio.Female)
	}

	for year, snap := range m.Observed {
		if len(snap.Male) != n || len(snap.Female) != n {
			return fmt.Errorf("observed snapshot for %d has %d male and %d female bands, expected %d",
				year, len(snap.Male), len(snap.Female), n)
		}
		for i := 0; i < n; i++ {
			if snap.Male[i] < 0 || snap.Female[i] < 0 {
				return fmt.Errorf("observed snapshot for %d has negative count in band %q", year, m.Ages[i])
			}
		}
	}

	return m.buildReproductiveBands()
}

// buildReproductiveBands resolves the fixed reproductive labels against the
// age-band list, converting the engine's indexing assumption into a checked
// invariant.
func (m *Model) buildReproductiveBands() error {
	indexByLabel := make(map[string]int, len(m.Ages))
	for i, label := range m.Ages {
		indexByLabel[label] = i
	}

	bands := make([]ReproductiveBand, 0, len(reproductiveLabels))
	for _, label := range reproductiveLabels {
		idx, ok := indexByLabel[label]
		if !ok {
			return fmt.Errorf("age-band list is missing reproductive band %q", label)
		}
		rate, ok := m.Fertility[label]
		if !ok {
			return fmt.Errorf("fertility table is missing reproductive band %q", label)
		}
		if rate < 0 {
			return fmt.Errorf("fertility rate for band %q is negative: %v", label, rate)
		}
		bands = append(bands, ReproductiveBand{Label: label, Index: idx, Rate: rate})
	}

	if len(bands) != constants.ReproductiveBandCount {
		return fmt.Errorf("expected %d reproductive bands, resolved %d",
			constants.ReproductiveBandCount, len(bands))
	}
	if bands[0].Index != constants.FirstReproductiveBandIndex {
		return fmt.Errorf("reproductive band %q resolved to index %d, expected %d",
			bands[0].Label, bands[0].Index, constants.FirstReproductiveBandIndex)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Index != bands[i-1].Index+1 {
			return fmt.Errorf("reproductive bands %q and %q are not adjacent in the age-band list",
				bands[i-1].Label, bands[i].Label)
		}
	}

	m.reproductive = bands
	return nil
}

func validateSeriesLength(name string, want, male, female int) error {
	if male != want || female != want {
		return fmt.Errorf("%s series has %d male and %d female entries, expected %d per sex",
			name, male, female, want)
	}
	return nil
}
