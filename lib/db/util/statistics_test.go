package util

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewStats(t *testing.T) {
	stats := NewStats([]int64{2, 4, 4, 4, 5, 5, 7, 9})

	if stats.Min != 2 || stats.Max != 9 {
		t.Errorf("expected min 2 and max 9, got %v and %v", stats.Min, stats.Max)
	}
	if !almostEqual(stats.Mean, 5) {
		t.Errorf("expected mean 5, got %v", stats.Mean)
	}
	if !almostEqual(stats.StdDeviation, 2) {
		t.Errorf("expected std deviation 2, got %v", stats.StdDeviation)
	}
	if !almostEqual(stats.MinMaxRatio, 2.0/9.0) {
		t.Errorf("expected min/max ratio 2/9, got %v", stats.MinMaxRatio)
	}

	if empty := NewStats(nil); empty != (Stats{}) {
		t.Errorf("expected zero stats for no values, got %+v", empty)
	}
}

func TestNewDistributionStats(t *testing.T) {
	even := NewDistributionStats([]int64{10, 10, 10, 10})
	if !almostEqual(even.DistributionQuality, 1) {
		t.Errorf("even distribution should have quality 1, got %v", even.DistributionQuality)
	}

	skewed := NewDistributionStats([]int64{0, 0, 0, 40})
	if skewed.DistributionQuality >= even.DistributionQuality {
		t.Errorf("skewed distribution should score lower: %v >= %v",
			skewed.DistributionQuality, even.DistributionQuality)
	}
}

func TestEstimateEntrySize(t *testing.T) {
	h := NewSizeHistogram(100)
	if size := EstimateEntrySize(h, 32); size != 0 {
		t.Errorf("empty histogram should estimate 0, got %d", size)
	}

	for i := 0; i < 10; i++ {
		h.Update(100)
	}
	if size := EstimateEntrySize(h, 32); size != 132 {
		t.Errorf("expected 132, got %d", size)
	}
}
