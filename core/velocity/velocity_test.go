package velocity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)

	t.Run("mid sprint figures", func(t *testing.T) {
		snap := BuildSnapshot("Sprint 42", start, 10, 5, 100, 40, now)
		assert.InDelta(t, 10.0, snap.TargetVelocity, 1e-9)
		assert.InDelta(t, 8.0, snap.CurrentVelocity, 1e-9)
		assert.Equal(t, 80, snap.PredictedTotal)
		// Remaining 60 points over 5 days needs 12/day, a 50% uplift over 8.
		assert.InDelta(t, 50.0, snap.UpliftNeededPct, 1e-9)
	})

	t.Run("zero elapsed days has no current velocity", func(t *testing.T) {
		snap := BuildSnapshot("Sprint 42", start, 10, 0, 100, 0, now)
		assert.Equal(t, 0.0, snap.CurrentVelocity)
		assert.Equal(t, 0, snap.PredictedTotal)
		assert.Equal(t, 0.0, snap.UpliftNeededPct)
	})

	t.Run("zero total days has no target velocity", func(t *testing.T) {
		snap := BuildSnapshot("Sprint 42", start, 0, 0, 100, 0, now)
		assert.Equal(t, 0.0, snap.TargetVelocity)
	})

	t.Run("no remaining days means no uplift", func(t *testing.T) {
		snap := BuildSnapshot("Sprint 42", start, 10, 10, 100, 80, now)
		assert.Equal(t, 0.0, snap.UpliftNeededPct)
	})

	t.Run("ahead of target yields negative uplift", func(t *testing.T) {
		snap := BuildSnapshot("Sprint 42", start, 10, 5, 100, 60, now)
		assert.Less(t, snap.UpliftNeededPct, 0.0)
	})
}

func TestDistribute(t *testing.T) {
	t.Run("ten day profile sums exactly", func(t *testing.T) {
		days := Distribute(100, 10)
		require.Len(t, days, 10)

		var sum float64
		for _, d := range days {
			sum += d.Points
		}
		assert.InDelta(t, 100.0, sum, 1e-9)

		// Peak burn sits mid-sprint, taper at both ends.
		assert.Less(t, days[0].Points, days[4].Points)
		assert.Less(t, days[9].Points, days[5].Points)
	})

	t.Run("days are one-based and shares normalized", func(t *testing.T) {
		days := Distribute(50, 5)
		require.Len(t, days, 5)
		var share float64
		for i, d := range days {
			assert.Equal(t, i+1, d.Day)
			share += d.Share
		}
		assert.InDelta(t, 1.0, share, 1e-9)
	})

	t.Run("uneven totals fold residual into the middle day", func(t *testing.T) {
		days := Distribute(7, 10)
		var sum float64
		for _, d := range days {
			sum += d.Points
		}
		assert.InDelta(t, 7.0, sum, 1e-9)
	})

	t.Run("lengths without a tuned profile use the generated curve", func(t *testing.T) {
		days := Distribute(100, 15)
		require.Len(t, days, 15)
		var sum float64
		for _, d := range days {
			sum += d.Points
		}
		assert.InDelta(t, 100.0, sum, 1e-9)
		// Smoothstep ramp: the first day carries no burn.
		assert.Equal(t, 0.0, days[0].Points)
	})

	t.Run("zero working days yields nil", func(t *testing.T) {
		assert.Nil(t, Distribute(100, 0))
	})

	t.Run("single day takes everything", func(t *testing.T) {
		days := Distribute(13, 1)
		require.Len(t, days, 1)
		assert.InDelta(t, 13.0, days[0].Points, 1e-9)
	})
}

func TestProject(t *testing.T) {
	t.Run("behind schedule", func(t *testing.T) {
		proj := Project(50, 5, 8)
		assert.InDelta(t, 10.0, proj.DaysNeeded, 1e-9)
		require.NotNil(t, proj.OverrunDays)
		assert.Equal(t, 2, *proj.OverrunDays)
	})

	t.Run("ahead of schedule", func(t *testing.T) {
		proj := Project(10, 5, 8)
		require.NotNil(t, proj.OverrunDays)
		assert.Equal(t, -6, *proj.OverrunDays)
	})

	t.Run("zero velocity is unknown not on-schedule", func(t *testing.T) {
		proj := Project(50, 0, 8)
		assert.Nil(t, proj.OverrunDays)
		assert.Equal(t, 0.0, proj.DaysNeeded)
	})
}
