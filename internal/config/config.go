// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/population-forecast/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for population-forecast.
type Configuration struct {
	BaselineFile string
	BaseYear     int
	EndYear      int
	AnchorStep   int
	Scenarios    []Scenario
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Scenario holds one named set of assumption overrides. A nil override
// falls back to the corresponding baseline value.
type Scenario struct {
	Name                 string
	Active               bool
	TFR                  *float64
	LifeExpectancyMale   *float64
	LifeExpectancyFemale *float64
	NetMigrationAnnual   *float64
	Target               *Target
}

// Target asks the solver to adjust one scenario field until the projected
// total population in Year reaches TotalPopulation.
type Target struct {
	Year            int
	TotalPopulation int
	Field           string // tfr or netMigrationAnnual
	Min             float64
	Max             float64
}

// Solver target field names.
const (
	TargetFieldTFR       = "tfr"
	TargetFieldMigration = "netMigrationAnnual"
)

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return unmarshalConfiguration(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from the
// given reader.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return unmarshalConfiguration(v)
}

func unmarshalConfiguration(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *Configuration) ApplyDefaults() {
	if c.BaselineFile == "" {
		c.BaselineFile = constants.DefaultBaselineFile
	}
	if c.AnchorStep == 0 {
		c.AnchorStep = constants.DefaultAnchorStep
	}
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
}

// ValidateConfiguration performs general validation of the configuration
// and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.BaseYear == 0 {
		warnings = append(warnings, "baseYear is not set; the projection will fail unless the baseline carries observed data for year 0")
	}
	if c.EndYear < c.BaseYear {
		warnings = append(warnings, fmt.Sprintf("endYear %d precedes baseYear %d", c.EndYear, c.BaseYear))
	}
	if c.AnchorStep < 0 {
		warnings = append(warnings, fmt.Sprintf("anchorStep %d is negative; the default of %d will be used",
			c.AnchorStep, constants.DefaultAnchorStep))
	}

	if len(c.Scenarios) == 0 {
		warnings = append(warnings, "no scenarios are defined")
	}

	anyActive := false
	for _, scenario := range c.Scenarios {
		if !scenario.Active {
			continue
		}
		anyActive = true

		if scenario.TFR != nil && *scenario.TFR < 0 {
			warnings = append(warnings, fmt.Sprintf("scenario '%s' has negative tfr %v",
				scenario.Name, *scenario.TFR))
		}
		if scenario.LifeExpectancyMale != nil && *scenario.LifeExpectancyMale <= 0 {
			warnings = append(warnings, fmt.Sprintf("scenario '%s' has non-positive male life expectancy %v",
				scenario.Name, *scenario.LifeExpectancyMale))
		}
		if scenario.LifeExpectancyFemale != nil && *scenario.LifeExpectancyFemale <= 0 {
			warnings = append(warnings, fmt.Sprintf("scenario '%s' has non-positive female life expectancy %v",
				scenario.Name, *scenario.LifeExpectancyFemale))
		}

		warnings = append(warnings, validateTarget(scenario, c.BaseYear, c.EndYear)...)
	}
	if len(c.Scenarios) > 0 && !anyActive {
		warnings = append(warnings, "no scenarios are active")
	}

	return warnings
}

func validateTarget(scenario Scenario, baseYear, endYear int) []string {
	var warnings []string
	target := scenario.Target
	if target == nil {
		return nil
	}

	switch target.Field {
	case TargetFieldTFR, TargetFieldMigration:
	default:
		warnings = append(warnings, fmt.Sprintf("scenario '%s' target field '%s' is not solvable (expected %s or %s)",
			scenario.Name, target.Field, TargetFieldTFR, TargetFieldMigration))
	}

	if target.Year <= baseYear || target.Year > endYear {
		warnings = append(warnings, fmt.Sprintf("scenario '%s' target year %d is outside (%d, %d]",
			scenario.Name, target.Year, baseYear, endYear))
	}
	// Min and Max both zero means the solver's default bounds apply.
	if (target.Min != 0 || target.Max != 0) && target.Min >= target.Max {
		warnings = append(warnings, fmt.Sprintf("scenario '%s' target search range [%v, %v] is empty",
			scenario.Name, target.Min, target.Max))
	}
	if target.TotalPopulation <= 0 {
		warnings = append(warnings, fmt.Sprintf("scenario '%s' target population %d is not positive",
			scenario.Name, target.TotalPopulation))
	}

	return warnings
}
