package domain

import "time"

// ExecutionTrace is the metadata of one successful pipeline run.
// Lengths are counted in runes.
type ExecutionTrace struct {
	Applied          []string      `json:"applied"`
	PerRuleElapsedMS []float64     `json:"per_rule_elapsed_ms"`
	InputLen         int           `json:"input_len"`
	OutputLen        int           `json:"output_len"`
	Total            time.Duration `json:"total_ns"`
}

// Record appends a completed step.
func (t *ExecutionTrace) Record(rule string, elapsed time.Duration) {
	t.Applied = append(t.Applied, rule)
	t.PerRuleElapsedMS = append(t.PerRuleElapsedMS, float64(elapsed.Nanoseconds())/1e6)
}
