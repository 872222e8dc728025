// Package optimizer searches for the value of a single scenario assumption
// that makes the projected total population hit a target in a target year.
// The projected total is monotonically non-decreasing in both solvable
// knobs (fertility and net migration), so a bounded bisection suffices.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/population-forecast/internal/config"
	"github.com/iwvelando/population-forecast/internal/projection"
	"github.com/iwvelando/population-forecast/pkg/optimization"
	"go.uber.org/zap"
)

const (
	maxIterations = 60

	defaultMinTFR = 0.0
	defaultMaxTFR = 6.0

	defaultMinMigration = -1000000.0
	defaultMaxMigration = 5000000.0
)

// Runner evaluates solver targets declared on scenarios.
type Runner struct {
	logger *zap.Logger
	engine *projection.Engine
	conf   *config.Configuration
}

// NewRunner constructs a solver runner over the given engine and
// configuration.
func NewRunner(logger *zap.Logger, engine *projection.Engine, conf *config.Configuration) (*Runner, error) {
	if engine == nil {
		return nil, fmt.Errorf("solver requires a projection engine")
	}
	if conf == nil {
		return nil, fmt.Errorf("solver requires a configuration")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, engine: engine, conf: conf}, nil
}

// Result summarizes solver adjustments keyed by scenario name.
type Result struct {
	Summaries map[string][]optimization.Summary
}

// Empty indicates whether any solver adjustments were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches solver summaries to the provided scenario results.
func (r Result) Apply(results []projection.ScenarioResult) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range results {
		summaries, ok := r.Summaries[results[i].Name]
		if !ok {
			continue
		}
		metrics := results[i].Metrics
		metrics.Solutions = append(metrics.Solutions, summaries...)
		results[i].Metrics = metrics
	}
}

// Run solves every active scenario that declares a target.
func (r *Runner) Run() (*Result, error) {
	result := &Result{Summaries: make(map[string][]optimization.Summary)}

	for _, scenario := range r.conf.Scenarios {
		if !scenario.Active || scenario.Target == nil {
			continue
		}

		summary, err := r.Solve(scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario '%s': %w", scenario.Name, err)
		}

		result.Summaries[scenario.Name] = append(result.Summaries[scenario.Name], summary)
		r.logger.Info("solver target evaluated",
			zap.String("op", "optimizer.Runner.Run"),
			zap.String("scenario", scenario.Name),
			zap.String("field", summary.Field),
			zap.Float64("value", summary.Value),
			zap.Bool("converged", summary.Converged),
		)
	}

	return result, nil
}

// Solve bisects one scenario's solvable field until the projected total
// population in the target year reaches the target, within tolerance.
func (r *Runner) Solve(scenario config.Scenario) (optimization.Summary, error) {
	target := scenario.Target
	if target == nil {
		return optimization.Summary{}, fmt.Errorf("scenario has no target")
	}

	min, max, original, err := r.searchBounds(scenario, *target)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := optimization.Summary{
		ScenarioName: scenario.Name,
		Field:        target.Field,
		Original:     original,
		TargetYear:   target.Year,
		TargetTotal:  target.TotalPopulation,
	}

	evaluate := func(value float64) (int, error) {
		return r.evaluate(scenario, target.Field, value, target.Year)
	}

	tolerance := int(math.Max(1, float64(target.TotalPopulation)*1e-5))

	lowTotal, err := evaluate(min)
	if err != nil {
		return summary, err
	}
	highTotal, err := evaluate(max)
	if err != nil {
		return summary, err
	}

	switch {
	case lowTotal >= target.TotalPopulation:
		summary.Value = min
		summary.Achieved = lowTotal
		summary.Converged = absInt(lowTotal-target.TotalPopulation) <= tolerance
		if !summary.Converged {
			summary.Notes = append(summary.Notes,
				fmt.Sprintf("target %d is below the population reachable at the lower bound %v", target.TotalPopulation, min))
		}
		return summary, nil
	case highTotal <= target.TotalPopulation:
		summary.Value = max
		summary.Achieved = highTotal
		summary.Converged = absInt(highTotal-target.TotalPopulation) <= tolerance
		if !summary.Converged {
			summary.Notes = append(summary.Notes,
				fmt.Sprintf("target %d is above the population reachable at the upper bound %v", target.TotalPopulation, max))
		}
		return summary, nil
	}

	value := min
	achieved := lowTotal
	for i := 0; i < maxIterations; i++ {
		summary.Iterations = i + 1
		value = (min + max) / 2
		achieved, err = evaluate(value)
		if err != nil {
			return summary, err
		}

		if absInt(achieved-target.TotalPopulation) <= tolerance {
			summary.Converged = true
			break
		}
		if achieved < target.TotalPopulation {
			min = value
		} else {
			max = value
		}
	}

	summary.Value = value
	summary.Achieved = achieved
	if !summary.Converged {
		summary.Notes = append(summary.Notes,
			fmt.Sprintf("did not converge within %d iterations; nearest total %d", maxIterations, achieved))
	}
	return summary, nil
}

func (r *Runner) searchBounds(scenario config.Scenario, target config.Target) (min, max, original float64, err error) {
	model := r.engine.Model()

	switch target.Field {
	case config.TargetFieldTFR:
		min, max = defaultMinTFR, defaultMaxTFR
		original = model.TFR
		if scenario.TFR != nil {
			original = *scenario.TFR
		}
	case config.TargetFieldMigration:
		min, max = defaultMinMigration, defaultMaxMigration
		original = model.NetMigrationAnnual
		if scenario.NetMigrationAnnual != nil {
			original = *scenario.NetMigrationAnnual
		}
	default:
		return 0, 0, 0, fmt.Errorf("field '%s' is not solvable", target.Field)
	}

	if target.Min != 0 || target.Max != 0 {
		if target.Min >= target.Max {
			return 0, 0, 0, fmt.Errorf("search range [%v, %v] is empty", target.Min, target.Max)
		}
		min, max = target.Min, target.Max
	}
	return min, max, original, nil
}

func (r *Runner) evaluate(scenario config.Scenario, field string, value float64, year int) (int, error) {
	params := projection.ScenarioParameters(scenario)
	switch field {
	case config.TargetFieldTFR:
		params.TFR = &value
	case config.TargetFieldMigration:
		params.NetMigrationAnnual = &value
	default:
		return 0, fmt.Errorf("field '%s' is not solvable", field)
	}

	result, err := r.engine.Project(projection.Request{
		BaseYear:   r.conf.BaseYear,
		EndYear:    r.conf.EndYear,
		AnchorStep: r.conf.AnchorStep,
		Parameters: params,
	})
	if err != nil {
		return 0, err
	}

	snap, ok := result.SnapshotFor(year)
	if !ok {
		return 0, fmt.Errorf("target year %d is outside the projected range ending %d", year, result.FinalYear())
	}
	return snap.Total(), nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
