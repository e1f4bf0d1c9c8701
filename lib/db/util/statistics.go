// Package util provides testing, benchmarking, and utility tools for KVDB implementations.
// This file implements the statistics the engines report through GetInfo. Sampling
// and the statistical estimators come from go-metrics, so the engines only feed
// values in and read estimates out.
package util

import (
	"math"

	"github.com/rcrowley/go-metrics"
)

// ----------------------------------------------------------------------------
// Helper functions
// ----------------------------------------------------------------------------

type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes the (population) standard deviation, mean, minimum and
// maximum of values.
func NewStats(values []int64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	min := float64(metrics.SampleMin(values))
	max := float64(metrics.SampleMax(values))

	minMaxRatio := 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		StdDeviation: metrics.SampleStdDev(values),
		Min:          min,
		Max:          max,
		Mean:         metrics.SampleMean(values),
		MinMaxRatio:  minMaxRatio,
	}
}

type DistributionStats struct {
	Stats
	DistributionQuality float64 `json:"distribution_quality"`
}

// NewDistributionStats computes quality metrics for value distribution
func NewDistributionStats(shardSizes []int64) DistributionStats {
	stats := NewStats(shardSizes)

	// coefficient of variation
	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	// lower CV and higher min/max ratio indicate better distribution
	distributionQuality := (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5

	return DistributionStats{
		Stats:               stats,
		DistributionQuality: distributionQuality,
	}
}

// ----------------------------------------------------------------------------
// Size estimation
// ----------------------------------------------------------------------------

// NewSizeHistogram creates a histogram over a uniform reservoir of the given size.
// The returned histogram is safe for concurrent use.
func NewSizeHistogram(reservoirSize int) metrics.Histogram {
	return metrics.NewHistogram(metrics.NewUniformSample(reservoirSize))
}

// EstimateEntrySize returns a weighted estimate (60% median, 40% mean) of the
// size of one entry from a histogram of value sizes, adding overhead bytes per entry.
func EstimateEntrySize(h metrics.Histogram, overhead int) int {
	if h.Count() == 0 {
		return 0
	}
	median := h.Percentile(0.5) + float64(overhead)
	mean := h.Mean() + float64(overhead)
	return int(math.Round(median*0.6 + mean*0.4))
}
