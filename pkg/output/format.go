// Package output provides utilities for formatting and displaying
// projection results.
package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/population-forecast/internal/projection"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []projection.ScenarioResult) {
	p := message.NewPrinter(language.English)
	for _, result := range results {
		fmt.Printf("--- Results for scenario %s ---\n", result.Name)
		fmt.Printf("Year | Total         | Male          | Female\n")
		fmt.Printf("____ | _____________ | _____________ | _____________\n")
		for _, year := range scenarioYears(result) {
			snap, ok := result.Result.SnapshotFor(year)
			if !ok {
				continue
			}
			_, _ = p.Printf("%d | %13d | %13d | %13d\n", year, snap.Total(), snap.MaleTotal(), snap.FemaleTotal())
		}
		for _, solution := range result.Metrics.Solutions {
			_, _ = p.Printf("Solved %s = %v (total %d in %d, target %d, converged %t)\n",
				solution.Field, solution.Value, solution.Achieved, solution.TargetYear,
				solution.TargetTotal, solution.Converged)
		}
		if len(results) > 1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []projection.ScenarioResult) {
	fmt.Print(CsvString(results))
}

// CsvString renders the results in comma-separated value format.
func CsvString(results []projection.ScenarioResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder

	// All results share the same timeline, so grab the years from the first
	years := scenarioYears(results[0])

	b.WriteString(`"year"`)
	for _, result := range results {
		fmt.Fprintf(&b, `,"total (%s)","male (%s)","female (%s)"`, result.Name, result.Name, result.Name)
	}
	b.WriteString("\n")

	for _, year := range years {
		fmt.Fprintf(&b, `"%d"`, year)
		for _, result := range results {
			snap, ok := result.Result.SnapshotFor(year)
			if !ok {
				b.WriteString(`,"","",""`)
				continue
			}
			fmt.Fprintf(&b, `,"%d","%d","%d"`, snap.Total(), snap.MaleTotal(), snap.FemaleTotal())
		}
		b.WriteString("\n")
	}

	return b.String()
}

// scenarioYears returns every projected year in ascending order: the base
// anchor plus the full annual series.
func scenarioYears(result projection.ScenarioResult) []int {
	if result.Result == nil {
		return nil
	}

	yearSet := make(map[int]struct{}, len(result.Result.AnnualSeries)+1)
	for _, anchor := range result.Result.Anchors {
		yearSet[anchor] = struct{}{}
	}
	for year := range result.Result.AnnualSeries {
		yearSet[year] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
