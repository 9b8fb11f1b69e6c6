// Package temporal analyzes scored revision histories over time:
// trend fitting, summary statistics, change-point detection, and
// change-type/score correlation hints.
package temporal

import (
	"math"
	"time"

	"promptline/domain/config"
)

// Trend labels.
const (
	TrendImproving        = "improving"
	TrendDegrading        = "degrading"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// ScorePoint is one scored revision positioned in time.
type ScorePoint struct {
	Timestamp time.Time
	Score     float64
}

// TrendResult is the outcome of fitting a line through scores.
type TrendResult struct {
	Label       string  `json:"label"`
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	RSquared    float64 `json:"r_squared"`
	SampleCount int     `json:"sample_count"`
}

// Statistics summarizes a score series.
type Statistics struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// TrendDetector fits ordinary least squares over (elapsed seconds,
// score) pairs and labels the slope against configured thresholds.
type TrendDetector struct {
	cfg *config.DomainConfig
}

// NewTrendDetector creates a trend detector.
func NewTrendDetector(cfg *config.DomainConfig) *TrendDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &TrendDetector{cfg: cfg}
}

// DetectTrend fits a least-squares line through the points. The x axis
// is seconds elapsed since the first point. Fewer than two points is
// labeled insufficient_data; a series with no time spread gets slope
// zero and is labeled stable.
func (d *TrendDetector) DetectTrend(points []ScorePoint) TrendResult {
	n := len(points)
	if n < 2 {
		return TrendResult{Label: TrendInsufficientData, SampleCount: n}
	}

	origin := points[0].Timestamp
	var sumX, sumY, sumXX, sumXY float64
	for _, p := range points {
		x := p.Timestamp.Sub(origin).Seconds()
		sumX += x
		sumY += p.Score
		sumXX += x * x
		sumXY += x * p.Score
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		// All samples share one instant; no direction to read.
		return TrendResult{
			Label:       TrendStable,
			Intercept:   sumY / fn,
			SampleCount: n,
		}
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	return TrendResult{
		Label:       d.labelSlope(slope),
		Slope:       slope,
		Intercept:   intercept,
		RSquared:    rSquared(points, origin, slope, intercept),
		SampleCount: n,
	}
}

// ComputeStatistics returns count, mean, min, max, and sample standard
// deviation for the series. StdDev is zero for fewer than two points.
func (d *TrendDetector) ComputeStatistics(points []ScorePoint) Statistics {
	n := len(points)
	if n == 0 {
		return Statistics{}
	}

	stats := Statistics{
		Count: n,
		Min:   points[0].Score,
		Max:   points[0].Score,
	}
	var sum float64
	for _, p := range points {
		sum += p.Score
		if p.Score < stats.Min {
			stats.Min = p.Score
		}
		if p.Score > stats.Max {
			stats.Max = p.Score
		}
	}
	stats.Mean = sum / float64(n)

	if n > 1 {
		var ss float64
		for _, p := range points {
			dev := p.Score - stats.Mean
			ss += dev * dev
		}
		stats.StdDev = math.Sqrt(ss / float64(n-1))
	}
	return stats
}

// ComputeVelocity returns the score change per day between the first
// and last points. A span of zero (single point, or identical
// timestamps) yields zero.
func (d *TrendDetector) ComputeVelocity(points []ScorePoint) float64 {
	if len(points) < 2 {
		return 0
	}
	elapsed := points[len(points)-1].Timestamp.Sub(points[0].Timestamp)
	if elapsed <= 0 {
		return 0
	}
	days := elapsed.Hours() / 24
	return (points[len(points)-1].Score - points[0].Score) / days
}

func (d *TrendDetector) labelSlope(slope float64) string {
	switch {
	case slope > d.cfg.ImprovingSlopeThreshold:
		return TrendImproving
	case slope < d.cfg.DegradingSlopeThreshold:
		return TrendDegrading
	default:
		return TrendStable
	}
}

func rSquared(points []ScorePoint, origin time.Time, slope, intercept float64) float64 {
	var sumY float64
	for _, p := range points {
		sumY += p.Score
	}
	mean := sumY / float64(len(points))

	var ssRes, ssTot float64
	for _, p := range points {
		x := p.Timestamp.Sub(origin).Seconds()
		predicted := slope*x + intercept
		ssRes += (p.Score - predicted) * (p.Score - predicted)
		ssTot += (p.Score - mean) * (p.Score - mean)
	}
	if ssTot == 0 {
		// Flat series: the fit explains everything there is to explain.
		return 1
	}
	return 1 - ssRes/ssTot
}
