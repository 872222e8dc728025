// Package validation provides input validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/population-forecast/pkg/constants"
)

// ValidateOutputFormat checks that the requested output format is supported.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	default:
		return fmt.Errorf("invalid output format '%s': must be '%s' or '%s'",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV)
	}
}

// ValidateYearRange checks that a projection year range is usable.
func ValidateYearRange(baseYear, endYear, anchorStep int) error {
	if endYear < baseYear {
		return fmt.Errorf("end year %d precedes base year %d", endYear, baseYear)
	}
	if anchorStep < 0 {
		return fmt.Errorf("anchor step %d is negative", anchorStep)
	}
	return nil
}

// ValidateParameters returns warnings for assumption values outside
// plausible demographic ranges. None of these block a projection; the
// engine clamps where arithmetic requires it.
func ValidateParameters(tfr, lifeExpMale, lifeExpFemale *float64) []string {
	var warnings []string

	if tfr != nil && *tfr < 0 {
		warnings = append(warnings, fmt.Sprintf("total fertility rate %v is negative", *tfr))
	}
	if tfr != nil && *tfr > 10 {
		warnings = append(warnings, fmt.Sprintf("total fertility rate %v is implausibly high", *tfr))
	}
	if lifeExpMale != nil && (*lifeExpMale <= 0 || *lifeExpMale > 120) {
		warnings = append(warnings, fmt.Sprintf("male life expectancy %v is outside (0, 120]", *lifeExpMale))
	}
	if lifeExpFemale != nil && (*lifeExpFemale <= 0 || *lifeExpFemale > 120) {
		warnings = append(warnings, fmt.Sprintf("female life expectancy %v is outside (0, 120]", *lifeExpFemale))
	}

	return warnings
}
