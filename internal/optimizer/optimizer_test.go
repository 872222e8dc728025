package optimizer

import (
	"math"
	"testing"

	"github.com/iwvelando/population-forecast/internal/config"
	"github.com/iwvelando/population-forecast/internal/projection"
	"github.com/iwvelando/population-forecast/pkg/optimization"
	"github.com/iwvelando/population-forecast/pkg/testutil"
)

func totalAt(t *testing.T, engine *projection.Engine, params projection.Parameters, year int) int {
	t.Helper()
	result, err := engine.Project(projection.Request{
		BaseYear:   2025,
		EndYear:    2050,
		AnchorStep: 5,
		Parameters: params,
	})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	snap, ok := result.SnapshotFor(year)
	if !ok {
		t.Fatalf("no snapshot for %d", year)
	}
	return snap.Total()
}

func TestSolveMigrationTarget(t *testing.T) {
	engine := projection.NewEngine(nil, testutil.NewModel())

	// Ask the solver to recover a known migration level.
	knownMigration := 700000.0
	target := totalAt(t, engine, projection.Parameters{NetMigrationAnnual: &knownMigration}, 2050)

	conf := &config.Configuration{
		BaseYear:   2025,
		EndYear:    2050,
		AnchorStep: 5,
		Scenarios: []config.Scenario{
			{
				Name:   "Recover migration",
				Active: true,
				Target: &config.Target{
					Year:            2050,
					TotalPopulation: target,
					Field:           config.TargetFieldMigration,
					Min:             0,
					Max:             2000000,
				},
			},
		},
	}

	runner, err := NewRunner(nil, engine, conf)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	summaries := result.Summaries["Recover migration"]
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, expected 1", len(summaries))
	}
	summary := summaries[0]

	if !summary.Converged {
		t.Errorf("solver did not converge: %+v", summary)
	}
	if math.Abs(summary.Value-knownMigration) > 20000 {
		t.Errorf("solved migration %v too far from known %v", summary.Value, knownMigration)
	}
	tolerance := int(math.Max(1, float64(target)*1e-5))
	if abs := absInt(summary.Achieved - target); abs > tolerance {
		t.Errorf("achieved total %d misses target %d by %d (tolerance %d)",
			summary.Achieved, target, abs, tolerance)
	}
}

func TestSolveTFRTarget(t *testing.T) {
	engine := projection.NewEngine(nil, testutil.NewModel())

	knownTFR := 2.0
	target := totalAt(t, engine, projection.Parameters{TFR: &knownTFR}, 2050)

	conf := &config.Configuration{
		BaseYear:   2025,
		EndYear:    2050,
		AnchorStep: 5,
		Scenarios: []config.Scenario{
			{
				Name:   "Recover fertility",
				Active: true,
				Target: &config.Target{
					Year:            2050,
					TotalPopulation: target,
					Field:           config.TargetFieldTFR,
				},
			},
		},
	}

	runner, err := NewRunner(nil, engine, conf)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	summary := result.Summaries["Recover fertility"][0]
	if !summary.Converged {
		t.Errorf("solver did not converge: %+v", summary)
	}
	if math.Abs(summary.Value-knownTFR) > 0.2 {
		t.Errorf("solved tfr %v too far from known %v", summary.Value, knownTFR)
	}
	if summary.Original != 1.42 {
		t.Errorf("original = %v, expected the baseline TFR 1.42", summary.Original)
	}
}

func TestSolveUnreachableTarget(t *testing.T) {
	engine := projection.NewEngine(nil, testutil.NewModel())

	conf := &config.Configuration{
		BaseYear:   2025,
		EndYear:    2050,
		AnchorStep: 5,
		Scenarios: []config.Scenario{
			{
				Name:   "Unreachable",
				Active: true,
				Target: &config.Target{
					Year:            2050,
					TotalPopulation: 2000000000,
					Field:           config.TargetFieldTFR,
				},
			},
		},
	}

	runner, err := NewRunner(nil, engine, conf)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	summary := result.Summaries["Unreachable"][0]
	if summary.Converged {
		t.Error("solver reported convergence on an unreachable target")
	}
	if summary.Value != 6.0 {
		t.Errorf("value = %v, expected the upper bound 6.0", summary.Value)
	}
	if len(summary.Notes) == 0 {
		t.Error("expected a note explaining the unreachable target")
	}
}

func TestSolveRejectsUnknownField(t *testing.T) {
	engine := projection.NewEngine(nil, testutil.NewModel())
	conf := &config.Configuration{BaseYear: 2025, EndYear: 2050, AnchorStep: 5}

	runner, err := NewRunner(nil, engine, conf)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	_, err = runner.Solve(config.Scenario{
		Name:   "Bad",
		Active: true,
		Target: &config.Target{Year: 2050, TotalPopulation: 1000, Field: "lifeExpectancyMale"},
	})
	if err == nil {
		t.Fatal("Solve accepted an unsolvable field, expected error")
	}
}

func TestRunSkipsScenariosWithoutTargets(t *testing.T) {
	engine := projection.NewEngine(nil, testutil.NewModel())
	conf := &config.Configuration{
		BaseYear:   2025,
		EndYear:    2050,
		AnchorStep: 5,
		Scenarios: []config.Scenario{
			{Name: "Plain", Active: true},
			{Name: "Inactive", Active: false, Target: &config.Target{Year: 2050, TotalPopulation: 1, Field: config.TargetFieldTFR}},
		},
	}

	runner, err := NewRunner(nil, engine, conf)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.Empty() {
		t.Errorf("expected no solver output, got %+v", result.Summaries)
	}
}

func TestApplyAttachesSummaries(t *testing.T) {
	result := Result{
		Summaries: map[string][]optimization.Summary{
			"Matched": {{ScenarioName: "Matched", Field: config.TargetFieldTFR, Value: 1.9}},
		},
	}

	scenarios := []projection.ScenarioResult{
		{Name: "Matched"},
		{Name: "Other"},
	}
	result.Apply(scenarios)

	if len(scenarios[0].Metrics.Solutions) != 1 {
		t.Fatalf("matched scenario has %d solutions, expected 1", len(scenarios[0].Metrics.Solutions))
	}
	if scenarios[0].Metrics.Solutions[0].Value != 1.9 {
		t.Errorf("solution value = %v, expected 1.9", scenarios[0].Metrics.Solutions[0].Value)
	}
	if len(scenarios[1].Metrics.Solutions) != 0 {
		t.Error("unmatched scenario received solutions")
	}
}
