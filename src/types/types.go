// Package types holds the records and aggregates shared by the reader,
// aggregator and renderer, plus the error taxonomy surfaced by the CLI.
package types

// Record is one input row: a single trial.
type Record struct {
	Phase   string `json:"phase"`
	Block   int    `json:"block"`
	Correct int    `json:"correct"` // 0 or 1
	// Line is the 1-based line (CSV) or row (XLSX) the record came from.
	Line int `json:"line,omitempty"`
}

// BlockKey identifies a group of trials.
type BlockKey struct {
	Phase string
	Block int
}

// BlockGroup accumulates trial counts for one (phase, block) pair.
type BlockGroup struct {
	BlockKey
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Accuracy returns Correct/Total, or 0 for an empty group.
func (g BlockGroup) Accuracy() float64 {
	if g.Total == 0 {
		return 0
	}
	return float64(g.Correct) / float64(g.Total)
}

// BlockAccuracy is the per-block summary fed to the renderer.
type BlockAccuracy struct {
	Phase    string  `json:"phase"`
	Block    int     `json:"block"`
	Accuracy float64 `json:"accuracy"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
}

// PhaseSummary describes the block accuracies within one phase.
type PhaseSummary struct {
	Phase  string  `json:"phase"`
	Blocks int     `json:"blocks"`
	Trials int     `json:"trials"`
	Mean   float64 `json:"mean_accuracy"`
	Min    float64 `json:"min_accuracy"`
	Max    float64 `json:"max_accuracy"`
}
