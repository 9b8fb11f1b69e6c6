package temporal_test

import (
	"testing"
	"time"

	"promptline/domain/temporal"

	"github.com/stretchr/testify/assert"
)

func pointsAt(start time.Time, interval time.Duration, scores ...float64) []temporal.ScorePoint {
	points := make([]temporal.ScorePoint, len(scores))
	for i, s := range scores {
		points[i] = temporal.ScorePoint{
			Timestamp: start.Add(time.Duration(i) * interval),
			Score:     s,
		}
	}
	return points
}

func TestDetectTrend_Improving(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// +10 points per second, far above the 0.05/s threshold.
	result := d.DetectTrend(pointsAt(start, time.Second, 40, 50, 60, 70))

	assert.Equal(t, temporal.TrendImproving, result.Label)
	assert.InDelta(t, 10.0, result.Slope, 1e-9)
	assert.InDelta(t, 40.0, result.Intercept, 1e-9)
	assert.InDelta(t, 1.0, result.RSquared, 1e-9)
	assert.Equal(t, 4, result.SampleCount)
}

func TestDetectTrend_Degrading(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	result := d.DetectTrend(pointsAt(start, time.Second, 90, 70, 50))

	assert.Equal(t, temporal.TrendDegrading, result.Label)
	assert.InDelta(t, -20.0, result.Slope, 1e-9)
}

func TestDetectTrend_FlatSeriesIsStable(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	result := d.DetectTrend(pointsAt(start, time.Hour, 60, 60, 60, 60))

	assert.Equal(t, temporal.TrendStable, result.Label)
	assert.InDelta(t, 0.0, result.Slope, 1e-9)
	// A perfectly flat fit explains all of the (zero) variance.
	assert.InDelta(t, 1.0, result.RSquared, 1e-9)
}

func TestDetectTrend_SlopeInsideThresholdsIsStable(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// 1 point over 100 seconds: slope 0.01, inside the +/-0.05 band.
	points := []temporal.ScorePoint{
		{Timestamp: start, Score: 50},
		{Timestamp: start.Add(100 * time.Second), Score: 51},
	}

	result := d.DetectTrend(points)

	assert.Equal(t, temporal.TrendStable, result.Label)
}

func TestDetectTrend_TooFewPoints(t *testing.T) {
	d := temporal.NewTrendDetector(nil)

	empty := d.DetectTrend(nil)
	single := d.DetectTrend([]temporal.ScorePoint{{Timestamp: time.Now(), Score: 80}})

	assert.Equal(t, temporal.TrendInsufficientData, empty.Label)
	assert.Equal(t, 0, empty.SampleCount)
	assert.Equal(t, temporal.TrendInsufficientData, single.Label)
	assert.Equal(t, 1, single.SampleCount)
}

func TestDetectTrend_IdenticalTimestamps(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	points := []temporal.ScorePoint{
		{Timestamp: at, Score: 40},
		{Timestamp: at, Score: 60},
	}

	result := d.DetectTrend(points)

	assert.Equal(t, temporal.TrendStable, result.Label)
	assert.InDelta(t, 50.0, result.Intercept, 1e-9)
}

func TestComputeStatistics(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	stats := d.ComputeStatistics(pointsAt(start, time.Minute, 2, 4, 4, 4, 5, 5, 7, 9))

	assert.Equal(t, 8, stats.Count)
	assert.InDelta(t, 5.0, stats.Mean, 1e-9)
	assert.InDelta(t, 2.0, stats.Min, 1e-9)
	assert.InDelta(t, 9.0, stats.Max, 1e-9)
	// Sample variance: 32/7.
	assert.InDelta(t, 2.13808993529939, stats.StdDev, 1e-9)
}

func TestComputeStatistics_Degenerate(t *testing.T) {
	d := temporal.NewTrendDetector(nil)

	assert.Equal(t, temporal.Statistics{}, d.ComputeStatistics(nil))

	one := d.ComputeStatistics([]temporal.ScorePoint{{Timestamp: time.Now(), Score: 73}})
	assert.Equal(t, 1, one.Count)
	assert.InDelta(t, 73.0, one.Mean, 1e-9)
	assert.Equal(t, 0.0, one.StdDev)
}

func TestComputeVelocity(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Scores climb from 50 to 60 over 2 days: 5 points per day. Only
	// the endpoints matter, not how many revisions sit between them.
	points := pointsAt(start, 9*time.Hour+36*time.Minute, 50, 52, 54, 56, 58, 60)
	assert.InDelta(t, 5.0, d.ComputeVelocity(points), 1e-9)

	endpoints := []temporal.ScorePoint{
		{Timestamp: start, Score: 50},
		{Timestamp: start.Add(48 * time.Hour), Score: 60},
	}
	assert.InDelta(t, 5.0, d.ComputeVelocity(endpoints), 1e-9)
}

func TestComputeVelocity_Declining(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	points := []temporal.ScorePoint{
		{Timestamp: start, Score: 80},
		{Timestamp: start.Add(12 * time.Hour), Score: 70},
	}

	assert.InDelta(t, -20.0, d.ComputeVelocity(points), 1e-9)
}

func TestComputeVelocity_ZeroSpan(t *testing.T) {
	d := temporal.NewTrendDetector(nil)
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	points := []temporal.ScorePoint{
		{Timestamp: at, Score: 50},
		{Timestamp: at, Score: 55},
	}

	assert.Equal(t, 0.0, d.ComputeVelocity(points))
	assert.Equal(t, 0.0, d.ComputeVelocity(points[:1]))
}
