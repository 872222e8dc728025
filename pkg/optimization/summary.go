// Package optimization provides shared data structures for solver results.
package optimization

// Summary captures the result of a single solver directive.
type Summary struct {
	ScenarioName string   `json:"scenarioName"`
	Field        string   `json:"field"`
	Original     float64  `json:"original"`
	Value        float64  `json:"value"`
	TargetYear   int      `json:"targetYear"`
	TargetTotal  int      `json:"targetTotal"`
	Achieved     int      `json:"achieved"`
	Iterations   int      `json:"iterations"`
	Converged    bool     `json:"converged"`
	Notes        []string `json:"notes,omitempty"`
}
