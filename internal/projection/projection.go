// Package projection implements the cohort-component population projection:
// survivors age forward one five-year band per step, births enter the
// youngest band, and scaled net migration is added to every band. Annual
// estimates between anchor years are filled by linear interpolation.
package projection

import (
	"fmt"

	"github.com/iwvelando/population-forecast/internal/baseline"
	"github.com/iwvelando/population-forecast/internal/config"
	"github.com/iwvelando/population-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Engine runs projections against one immutable baseline model. An Engine
// is safe for concurrent use; every Project call builds its own series and
// never writes to the model.
type Engine struct {
	logger *zap.Logger
	model  *baseline.Model
}

// NewEngine constructs a projection engine for the given baseline model.
func NewEngine(logger *zap.Logger, model *baseline.Model) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, model: model}
}

// Model returns the baseline model the engine projects from.
func (e *Engine) Model() *baseline.Model {
	return e.model
}

// Project advances the base-year observed population to every anchor year
// up to req.EndYear and interpolates the years in between. Unset
// parameters resolve to the baseline's values.
func (e *Engine) Project(req Request) (*Result, error) {
	step := req.AnchorStep
	if step <= 0 {
		step = constants.DefaultAnchorStep
	}
	if req.EndYear < req.BaseYear {
		return nil, fmt.Errorf("end year %d precedes base year %d", req.EndYear, req.BaseYear)
	}

	observed, ok := e.model.ObservedSnapshot(req.BaseYear)
	if !ok {
		return nil, fmt.Errorf("baseline has no observed population for base year %d", req.BaseYear)
	}

	tfr := resolveParameter(req.Parameters.TFR, e.model.TFR)
	lifeExpMale := resolveParameter(req.Parameters.LifeExpectancyMale, e.model.LifeExpectancy.Male)
	lifeExpFemale := resolveParameter(req.Parameters.LifeExpectancyFemale, e.model.LifeExpectancy.Female)
	netMigration := resolveParameter(req.Parameters.NetMigrationAnnual, e.model.NetMigrationAnnual)

	survMale := AdjustSurvival(e.model.Survival.Male, e.model.LifeExpectancy.Male, lifeExpMale)
	survFemale := AdjustSurvival(e.model.Survival.Female, e.model.LifeExpectancy.Female, lifeExpFemale)
	migMale, migFemale := ScaleMigrationBySex(e.model.Migration.Male, e.model.Migration.Female, netMigration)
	tfrMultiplier := tfr / e.model.TFR

	var anchors []int
	for year := req.BaseYear; year <= req.EndYear; year += step {
		anchors = append(anchors, year)
	}

	result := &Result{
		Anchors:      anchors,
		AnchorSeries: make(map[int]baseline.Snapshot, len(anchors)),
		AnnualSeries: make(map[int]baseline.Snapshot),
	}

	// The base year's entry is the observed data verbatim; it is never
	// recomputed.
	result.AnchorSeries[req.BaseYear] = observed.Clone()

	bands := e.model.ReproductiveBands()
	for i := 1; i < len(anchors); i++ {
		prev := result.AnchorSeries[anchors[i-1]]
		result.AnchorSeries[anchors[i]] = Advance(prev, survMale, survFemale, migMale, migFemale,
			bands, tfrMultiplier, e.model.SexRatio)
	}

	// Annual estimates run strictly after the base year through the final
	// anchor. Years past the final anchor have no upper anchor to
	// interpolate against and are not produced.
	finalAnchor := anchors[len(anchors)-1]
	if finalAnchor < req.EndYear {
		e.logger.Debug(fmt.Sprintf("end year %d truncated to final anchor %d", req.EndYear, finalAnchor),
			zap.String("op", "projection.Engine.Project"),
		)
	}
	for year := req.BaseYear + 1; year <= finalAnchor; year++ {
		snap, err := Interpolate(anchors, result.AnchorSeries, year)
		if err != nil {
			return nil, err
		}
		result.AnnualSeries[year] = snap
	}

	e.logger.Debug("projection computed",
		zap.String("op", "projection.Engine.Project"),
		zap.Int("baseYear", req.BaseYear),
		zap.Int("finalAnchor", finalAnchor),
		zap.Int("anchors", len(anchors)),
		zap.Float64("tfr", tfr),
		zap.Float64("netMigrationAnnual", netMigration),
	)

	return result, nil
}

// RunScenarios projects every active scenario in the configuration.
func (e *Engine) RunScenarios(conf config.Configuration) ([]ScenarioResult, error) {
	var results []ScenarioResult
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			e.logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "projection.Engine.RunScenarios"),
			)
			continue
		}

		result, err := e.Project(Request{
			BaseYear:   conf.BaseYear,
			EndYear:    conf.EndYear,
			AnchorStep: conf.AnchorStep,
			Parameters: ScenarioParameters(scenario),
		})
		if err != nil {
			return results, fmt.Errorf("scenario '%s': %w", scenario.Name, err)
		}

		results = append(results, ScenarioResult{Name: scenario.Name, Result: result})
	}

	return results, nil
}

// ScenarioParameters converts a configured scenario's overrides into
// projection parameters.
func ScenarioParameters(scenario config.Scenario) Parameters {
	return Parameters{
		TFR:                  scenario.TFR,
		LifeExpectancyMale:   scenario.LifeExpectancyMale,
		LifeExpectancyFemale: scenario.LifeExpectancyFemale,
		NetMigrationAnnual:   scenario.NetMigrationAnnual,
	}
}

func resolveParameter(override *float64, baselineValue float64) float64 {
	if override != nil {
		return *override
	}
	return baselineValue
}
