package ingest

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// ProcessingStats summarizes the registry: how many documents have been
// processed, how many runs, and how chunk counts are distributed per run.
//
// swagger:model ProcessingStats
type ProcessingStats struct {
	// Documents is the number of documents in the registry.
	Documents int `json:"documents"`
	// Runs is the total number of processing runs.
	Runs int `json:"runs"`
	// TotalChunks is the sum of chunk counts over all runs.
	TotalChunks int `json:"total_chunks"`
	// RunsByStrategy is a breakdown of runs per chunking strategy.
	RunsByStrategy map[string]int `json:"runs_by_strategy"`
	// ChunkCounts contains statistics about chunk counts per run.
	ChunkCounts ChunkCountStats `json:"chunk_counts"`
}

// ChunkCountStats contains statistics about chunk counts per run.
//
// swagger:model ChunkCountStats
type ChunkCountStats struct {
	// Min is the minimum chunk count across all runs.
	Min int `json:"min"`
	// Max is the maximum chunk count across all runs.
	Max int `json:"max"`
	// Mean is the mean chunk count across all runs.
	Mean float64 `json:"mean"`
	// P95 is the 95th percentile chunk count.
	P95 int `json:"p95"`
}

// GetProcessingStats computes processing statistics from the registry.
func (p *Pipeline) GetProcessingStats(ctx context.Context) (*ProcessingStats, error) {
	docs, err := p.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	runs, err := p.runRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	stats := &ProcessingStats{
		Documents:      len(docs),
		Runs:           len(runs),
		RunsByStrategy: make(map[string]int),
	}

	chunkCounts := make([]int, 0, len(runs))
	for _, run := range runs {
		stats.TotalChunks += run.ChunkCount
		stats.RunsByStrategy[run.Strategy]++
		chunkCounts = append(chunkCounts, run.ChunkCount)
	}
	stats.ChunkCounts = computeChunkCountStats(chunkCounts)

	return stats, nil
}

// computeChunkCountStats computes min, max, mean, and p95 from chunk counts.
func computeChunkCountStats(counts []int) ChunkCountStats {
	if len(counts) == 0 {
		return ChunkCountStats{}
	}

	// Sort for percentile calculation
	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	min := sorted[0]
	max := sorted[len(sorted)-1]

	// Compute mean
	sum := 0
	for _, count := range counts {
		sum += count
	}
	mean := float64(sum) / float64(len(counts))

	// Compute p95
	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}
	p95 := sorted[p95Index]

	return ChunkCountStats{
		Min:  min,
		Max:  max,
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  p95,
	}
}
