package temporal_test

import (
	"testing"
	"time"

	"promptline/domain/temporal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_FlagsSingleJump(t *testing.T) {
	d := temporal.NewChangePointDetector(nil)
	start := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	// Only the 50 -> 80 jump exceeds the default cutoff of 20 points.
	points := pointsAt(start, time.Hour, 50, 50, 50, 80, 80)

	found := d.Detect(points, 0)

	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].Index)
	assert.Equal(t, start.Add(3*time.Hour), found[0].Timestamp)
	assert.InDelta(t, 30.0, found[0].Delta, 1e-9)
	assert.InDelta(t, 50.0, found[0].Before, 1e-9)
	assert.InDelta(t, 80.0, found[0].After, 1e-9)
}

func TestDetect_NegativeJumps(t *testing.T) {
	d := temporal.NewChangePointDetector(nil)
	start := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	found := d.Detect(pointsAt(start, time.Hour, 90, 40, 45), 0)

	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].Index)
	assert.InDelta(t, -50.0, found[0].Delta, 1e-9)
}

func TestDetect_CutoffIsExclusive(t *testing.T) {
	d := temporal.NewChangePointDetector(nil)
	start := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	// Delta of exactly 20 with the default 0.2 threshold does not qualify.
	found := d.Detect(pointsAt(start, time.Hour, 50, 70), 0)

	assert.Empty(t, found)
}

func TestDetect_CustomThreshold(t *testing.T) {
	d := temporal.NewChangePointDetector(nil)
	start := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	points := pointsAt(start, time.Hour, 50, 56, 50)

	assert.Empty(t, d.Detect(points, 0.2))
	assert.Len(t, d.Detect(points, 0.05), 2)
}

func TestDetect_ShortSeries(t *testing.T) {
	d := temporal.NewChangePointDetector(nil)

	assert.Empty(t, d.Detect(nil, 0))
	assert.Empty(t, d.Detect([]temporal.ScorePoint{{Timestamp: time.Now(), Score: 10}}, 0))
}
