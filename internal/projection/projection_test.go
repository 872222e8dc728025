package projection_test

import (
	"testing"

	"github.com/iwvelando/population-forecast/internal/config"
	"github.com/iwvelando/population-forecast/internal/projection"
	"github.com/iwvelando/population-forecast/pkg/mathutil"
	"github.com/iwvelando/population-forecast/pkg/testutil"
)

func TestProjectAnchorAndAnnualSeries(t *testing.T) {
	model := testutil.NewModel()
	engine := projection.NewEngine(nil, model)

	result, err := engine.Project(projection.Request{BaseYear: 2025, EndYear: 2100})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	expectedAnchors := []int{2025, 2030, 2035, 2040, 2045, 2050, 2055, 2060,
		2065, 2070, 2075, 2080, 2085, 2090, 2095, 2100}
	if len(result.Anchors) != len(expectedAnchors) {
		t.Fatalf("got %d anchors, expected %d", len(result.Anchors), len(expectedAnchors))
	}
	for i, anchor := range expectedAnchors {
		if result.Anchors[i] != anchor {
			t.Errorf("anchor %d = %d, expected %d", i, result.Anchors[i], anchor)
		}
	}

	// The base year entry is the observed data verbatim.
	observed := model.Observed[2025]
	base := result.AnchorSeries[2025]
	for i := range observed.Male {
		if base.Male[i] != observed.Male[i] || base.Female[i] != observed.Female[i] {
			t.Fatalf("base-year band %d differs from observed data", i)
		}
	}

	// Every year strictly after the base year through the end year is
	// present with full-length, non-negative series.
	n := model.BandCount()
	for year := 2026; year <= 2100; year++ {
		snap, ok := result.AnnualSeries[year]
		if !ok {
			t.Fatalf("annual series is missing year %d", year)
		}
		if len(snap.Male) != n || len(snap.Female) != n {
			t.Fatalf("year %d has %d male and %d female bands, expected %d",
				year, len(snap.Male), len(snap.Female), n)
		}
		for i := 0; i < n; i++ {
			if snap.Male[i] < 0 || snap.Female[i] < 0 {
				t.Fatalf("year %d band %d has negative count", year, i)
			}
		}
	}

	// Interpolation is idempotent at anchors.
	for _, anchor := range result.Anchors[1:] {
		annual := result.AnnualSeries[anchor]
		computed := result.AnchorSeries[anchor]
		for i := 0; i < n; i++ {
			if annual.Male[i] != computed.Male[i] || annual.Female[i] != computed.Female[i] {
				t.Errorf("anchor %d band %d: annual series diverges from anchor series", anchor, i)
			}
		}
	}
}

func TestProjectExplicitBaselineParametersMatchDefaults(t *testing.T) {
	model := testutil.NewModel()
	engine := projection.NewEngine(nil, model)

	defaults, err := engine.Project(projection.Request{BaseYear: 2025, EndYear: 2100})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	explicit, err := engine.Project(projection.Request{
		BaseYear: 2025,
		EndYear:  2100,
		Parameters: projection.Parameters{
			TFR:                  testutil.Float64(model.TFR),
			LifeExpectancyMale:   testutil.Float64(model.LifeExpectancy.Male),
			LifeExpectancyFemale: testutil.Float64(model.LifeExpectancy.Female),
			NetMigrationAnnual:   testutil.Float64(model.NetMigrationAnnual),
		},
	})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	for _, anchor := range defaults.Anchors {
		d := defaults.AnchorSeries[anchor]
		e := explicit.AnchorSeries[anchor]
		for i := range d.Male {
			if d.Male[i] != e.Male[i] || d.Female[i] != e.Female[i] {
				t.Fatalf("anchor %d band %d: explicit baseline parameters drifted from defaults", anchor, i)
			}
		}
	}
}

func TestProjectMigrationMonotonicity(t *testing.T) {
	model := testutil.NewModel()
	engine := projection.NewEngine(nil, model)

	low, err := engine.Project(projection.Request{
		BaseYear:   2025,
		EndYear:    2100,
		Parameters: projection.Parameters{NetMigrationAnnual: testutil.Float64(100000)},
	})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	high, err := engine.Project(projection.Request{
		BaseYear:   2025,
		EndYear:    2100,
		Parameters: projection.Parameters{NetMigrationAnnual: testutil.Float64(500000)},
	})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	for _, anchor := range low.Anchors[1:] {
		lowTotal := low.AnchorSeries[anchor].Total()
		highTotal := high.AnchorSeries[anchor].Total()
		if highTotal <= lowTotal {
			t.Errorf("anchor %d: total %d with higher migration not above %d", anchor, highTotal, lowTotal)
		}
	}
}

func TestProjectTerminalBandAccumulatesWithFullSurvival(t *testing.T) {
	model := testutil.NewModel()
	last := model.BandCount() - 1
	one := 1.0
	model.Survival.Male[last] = &one
	model.Survival.Female[last] = &one
	engine := projection.NewEngine(nil, model)

	result, err := engine.Project(projection.Request{BaseYear: 2025, EndYear: 2100})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	for i := 1; i < len(result.Anchors); i++ {
		prev := result.AnchorSeries[result.Anchors[i-1]]
		next := result.AnchorSeries[result.Anchors[i]]
		if next.Male[last] < prev.Male[last] {
			t.Errorf("anchor %d: male terminal band shrank from %d to %d despite full survival",
				result.Anchors[i], prev.Male[last], next.Male[last])
		}
		if next.Female[last] < prev.Female[last] {
			t.Errorf("anchor %d: female terminal band shrank from %d to %d despite full survival",
				result.Anchors[i], prev.Female[last], next.Female[last])
		}
	}
}

func TestProjectZeroFertilityAndMigration(t *testing.T) {
	model := testutil.NewModel()
	engine := projection.NewEngine(nil, model)

	result, err := engine.Project(projection.Request{
		BaseYear: 2025,
		EndYear:  2050,
		Parameters: projection.Parameters{
			TFR:                testutil.Float64(0),
			NetMigrationAnnual: testutil.Float64(0),
		},
	})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	// No births and no migrants leaves the youngest band empty at every
	// computed anchor.
	for _, anchor := range result.Anchors[1:] {
		snap := result.AnchorSeries[anchor]
		if snap.Male[0] != 0 || snap.Female[0] != 0 {
			t.Errorf("anchor %d: band 0 = male %d female %d, expected zeros",
				anchor, snap.Male[0], snap.Female[0])
		}
	}
}

func TestProjectZeroFertilityBandZeroEqualsMigration(t *testing.T) {
	model := testutil.NewModel()
	engine := projection.NewEngine(nil, model)

	target := 250000.0
	result, err := engine.Project(projection.Request{
		BaseYear: 2025,
		EndYear:  2050,
		Parameters: projection.Parameters{
			TFR:                testutil.Float64(0),
			NetMigrationAnnual: testutil.Float64(target),
		},
	})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	migMale, migFemale := projection.ScaleMigrationBySex(model.Migration.Male, model.Migration.Female, target)
	expectedMale := mathutil.RoundNonNegative(migMale[0] * 5)
	expectedFemale := mathutil.RoundNonNegative(migFemale[0] * 5)

	for _, anchor := range result.Anchors[1:] {
		snap := result.AnchorSeries[anchor]
		if snap.Male[0] != expectedMale {
			t.Errorf("anchor %d: male band 0 = %d, expected %d (migration only)",
				anchor, snap.Male[0], expectedMale)
		}
		if snap.Female[0] != expectedFemale {
			t.Errorf("anchor %d: female band 0 = %d, expected %d (migration only)",
				anchor, snap.Female[0], expectedFemale)
		}
	}
}

func TestProjectMissingBaseYear(t *testing.T) {
	model := testutil.NewModel()
	engine := projection.NewEngine(nil, model)

	if _, err := engine.Project(projection.Request{BaseYear: 2030, EndYear: 2100}); err == nil {
		t.Fatal("Project succeeded for a base year with no observed data, expected error")
	}
}

func TestProjectEndYearTruncation(t *testing.T) {
	model := testutil.NewModel()
	engine := projection.NewEngine(nil, model)

	result, err := engine.Project(projection.Request{BaseYear: 2025, EndYear: 2043})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	if result.FinalYear() != 2040 {
		t.Errorf("final anchor = %d, expected 2040", result.FinalYear())
	}
	if _, ok := result.AnnualSeries[2040]; !ok {
		t.Error("annual series is missing the final anchor year")
	}
	if _, ok := result.AnnualSeries[2041]; ok {
		t.Error("annual series extends past the final anchor")
	}
}

func TestRunScenarios(t *testing.T) {
	model := testutil.NewModel()
	engine := projection.NewEngine(nil, model)

	conf := config.Configuration{
		BaseYear:   2025,
		EndYear:    2050,
		AnchorStep: 5,
		Scenarios: []config.Scenario{
			{Name: "Status quo", Active: true},
			{Name: "Inactive", Active: false},
			{
				Name:               "High growth",
				Active:             true,
				TFR:                testutil.Float64(2.1),
				NetMigrationAnnual: testutil.Float64(600000),
			},
		},
	}

	results, err := engine.RunScenarios(conf)
	if err != nil {
		t.Fatalf("RunScenarios returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2 (inactive scenario skipped)", len(results))
	}

	statusQuo := testutil.FindScenarioResult(results, "Status quo")
	highGrowth := testutil.FindScenarioResult(results, "High growth")
	if statusQuo == nil || highGrowth == nil {
		t.Fatal("expected results for both active scenarios")
	}
	if testutil.FindScenarioResult(results, "Inactive") != nil {
		t.Fatal("inactive scenario produced a result")
	}

	sq := statusQuo.Result.AnchorSeries[2050].Total()
	hg := highGrowth.Result.AnchorSeries[2050].Total()
	if hg <= sq {
		t.Errorf("high-growth total %d not above status-quo total %d in 2050", hg, sq)
	}
}
