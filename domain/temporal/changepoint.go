package temporal

import (
	"math"
	"time"

	"promptline/domain/config"
)

// ChangePoint marks a consecutive score jump larger than the
// configured fraction of the score range.
type ChangePoint struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Delta     float64   `json:"delta"`
	Before    float64   `json:"before"`
	After     float64   `json:"after"`
}

// ChangePointDetector finds abrupt shifts between consecutive scores.
type ChangePointDetector struct {
	cfg *config.DomainConfig
}

// NewChangePointDetector creates a change-point detector.
func NewChangePointDetector(cfg *config.DomainConfig) *ChangePointDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ChangePointDetector{cfg: cfg}
}

// Detect flags every consecutive pair whose absolute score delta
// exceeds threshold * score range. A non-positive threshold falls back
// to the configured default. The reported index is the position of the
// second element of the pair.
func (d *ChangePointDetector) Detect(points []ScorePoint, threshold float64) []ChangePoint {
	if threshold <= 0 {
		threshold = d.cfg.ChangePointThreshold
	}
	cutoff := threshold * d.cfg.ScoreRangeUnit

	out := []ChangePoint{}
	for i := 1; i < len(points); i++ {
		delta := points[i].Score - points[i-1].Score
		if math.Abs(delta) > cutoff {
			out = append(out, ChangePoint{
				Index:     i,
				Timestamp: points[i].Timestamp,
				Delta:     delta,
				Before:    points[i-1].Score,
				After:     points[i].Score,
			})
		}
	}
	return out
}
