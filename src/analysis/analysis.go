// Package analysis turns per-trial records into per-block accuracy.
//
// Grouping keys are (phase, block) pairs. Output order is the order in which
// each pair first appears in the input; that order drives the chart x-axis,
// so nothing here sorts.
package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/iafilius/BlockAccuracyPlot/src/logging"
	"github.com/iafilius/BlockAccuracyPlot/src/types"
)

// GroupBlocks counts trials per (phase, block) in first-seen order.
func GroupBlocks(records []types.Record) []types.BlockGroup {
	index := make(map[types.BlockKey]int)
	var groups []types.BlockGroup
	for _, r := range records {
		k := types.BlockKey{Phase: r.Phase, Block: r.Block}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, types.BlockGroup{BlockKey: k})
		}
		groups[i].Total++
		groups[i].Correct += r.Correct
	}
	return groups
}

// Aggregate returns one BlockAccuracy per distinct (phase, block) pair.
// A group with no trials reports 0 accuracy; GroupBlocks never produces one.
func Aggregate(records []types.Record) []types.BlockAccuracy {
	groups := GroupBlocks(records)
	out := make([]types.BlockAccuracy, len(groups))
	for i, g := range groups {
		out[i] = types.BlockAccuracy{
			Phase:    g.Phase,
			Block:    g.Block,
			Accuracy: g.Accuracy(),
			Total:    g.Total,
			Correct:  g.Correct,
		}
	}
	return out
}

// LoadBlockAccuracy reads path and aggregates it. The record count is returned
// alongside the blocks for reporting.
func LoadBlockAccuracy(path string) ([]types.BlockAccuracy, int, error) {
	recs, err := ReadRecordsFile(path)
	if err != nil {
		return nil, 0, err
	}
	blocks := Aggregate(recs)
	logging.Debugf("aggregated %d records into %d blocks", len(recs), len(blocks))
	return blocks, len(recs), nil
}

// SummarizePhases describes block accuracies per phase name, in first-seen
// phase order. Non-contiguous segments of the same phase are pooled.
func SummarizePhases(blocks []types.BlockAccuracy) ([]types.PhaseSummary, error) {
	var order []string
	accs := map[string]stats.Float64Data{}
	trials := map[string]int{}
	for _, b := range blocks {
		if _, ok := accs[b.Phase]; !ok {
			order = append(order, b.Phase)
		}
		accs[b.Phase] = append(accs[b.Phase], b.Accuracy)
		trials[b.Phase] += b.Total
	}
	out := make([]types.PhaseSummary, 0, len(order))
	for _, phase := range order {
		data := accs[phase]
		mean, err := stats.Mean(data)
		if err != nil {
			return nil, fmt.Errorf("phase %q mean: %w", phase, err)
		}
		lo, err := stats.Min(data)
		if err != nil {
			return nil, fmt.Errorf("phase %q min: %w", phase, err)
		}
		hi, err := stats.Max(data)
		if err != nil {
			return nil, fmt.Errorf("phase %q max: %w", phase, err)
		}
		out = append(out, types.PhaseSummary{
			Phase:  phase,
			Blocks: len(data),
			Trials: trials[phase],
			Mean:   mean,
			Min:    lo,
			Max:    hi,
		})
	}
	return out, nil
}
