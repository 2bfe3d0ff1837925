// Package velocity has the burn arithmetic: velocity snapshots, S-curve
// daily target distribution and overrun projection.
package velocity

import (
	"math"
	"time"

	"github.com/sprintlens/sprintlens/schema"
)

// smallProfiles are tuned daily weight profiles for short sprints, shaped to
// match historically observed slow-start/slow-finish pacing. Weights are
// relative; shares are normalized by the profile sum. Any working-day count
// without a profile falls back to the generated smoothstep curve.
var smallProfiles = map[int][]float64{
	5:  {10, 25, 30, 25, 10},
	6:  {8, 17, 25, 25, 17, 8},
	7:  {6, 13, 19, 24, 19, 13, 6},
	8:  {5, 10, 15, 20, 20, 15, 10, 5},
	9:  {4, 9, 14, 18, 20, 18, 14, 9, 4},
	10: {5, 7, 10, 12, 13, 13, 12, 10, 7, 5},
}

// BuildSnapshot computes the derived velocity figures for a sprint at a
// point in time. Divisions degrade to 0 rather than faulting: a sprint with
// no elapsed days has no current velocity yet.
func BuildSnapshot(sprint string, start time.Time, totalWorkingDays, elapsedWorkingDays int, committed, delivered float64, now time.Time) schema.VelocitySnapshot {
	snap := schema.VelocitySnapshot{
		Sprint:             sprint,
		TakenAt:            now,
		StartDate:          start,
		TotalWorkingDays:   totalWorkingDays,
		ElapsedWorkingDays: elapsedWorkingDays,
		CommittedPoints:    committed,
		DeliveredPoints:    delivered,
	}
	if totalWorkingDays > 0 {
		snap.TargetVelocity = committed / float64(totalWorkingDays)
	}
	if elapsedWorkingDays > 0 {
		snap.CurrentVelocity = delivered / float64(elapsedWorkingDays)
	}
	snap.PredictedTotal = int(math.Round(snap.CurrentVelocity * float64(totalWorkingDays)))
	snap.UpliftNeededPct = upliftNeeded(committed, delivered, totalWorkingDays, elapsedWorkingDays, snap.CurrentVelocity)
	return snap
}

// upliftNeeded is the percentage increase over the current velocity required
// across the remaining working days to still deliver the committed total.
// Defined as 0 when no days remain or no velocity has been established.
func upliftNeeded(committed, delivered float64, totalDays, elapsedDays int, currentVelocity float64) float64 {
	remainingDays := totalDays - elapsedDays
	if remainingDays <= 0 || currentVelocity == 0 {
		return 0
	}
	remainingPoints := committed - delivered
	required := remainingPoints / float64(remainingDays)
	return (required/currentVelocity - 1) * 100
}

// Distribute spreads the committed total over the sprint's working days
// following an S-curve profile. Each day's value is rounded to 2 decimal
// places and the rounding residual is folded into the middle day so the days
// still sum exactly to the committed total.
func Distribute(committed float64, workingDays int) []schema.DailyTarget {
	if workingDays <= 0 {
		return nil
	}

	shares := profileShares(workingDays)
	days := make([]schema.DailyTarget, workingDays)
	var sum float64
	for i, share := range shares {
		points := round2(committed * share)
		days[i] = schema.DailyTarget{Day: i + 1, Share: share, Points: points}
		sum += points
	}

	if residual := round2(committed - sum); residual != 0 {
		mid := workingDays / 2
		days[mid].Points = round2(days[mid].Points + residual)
	}
	return days
}

// profileShares returns the normalized daily shares for a sprint length,
// preferring a tuned profile and generating a smoothstep curve otherwise.
func profileShares(workingDays int) []float64 {
	weights, ok := smallProfiles[workingDays]
	if !ok {
		weights = smoothstepWeights(workingDays)
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	shares := make([]float64, len(weights))
	for i, w := range weights {
		shares[i] = w / sum
	}
	return shares
}

// smoothstepWeights generates the fallback curve f(t) = t^2(3-2t) sampled at
// t = i/(N-1). The first sample is 0 by construction, giving the ramp-up
// profile used for sprint lengths without a tuned table.
func smoothstepWeights(n int) []float64 {
	if n == 1 {
		return []float64{1}
	}
	weights := make([]float64, n)
	for i := range weights {
		t := float64(i) / float64(n-1)
		weights[i] = t * t * (3 - 2*t)
	}
	return weights
}

// Project computes the overrun/underrun against a deadline. Positive
// OverrunDays means behind schedule, negative ahead, zero on schedule. The
// projection is undefined when the current velocity is 0: OverrunDays stays
// nil and must be reported as unknown rather than on-schedule.
func Project(remainingPoints, currentVelocity float64, workingDaysRemaining int) schema.OverrunProjection {
	proj := schema.OverrunProjection{
		RemainingPoints:      remainingPoints,
		WorkingDaysRemaining: workingDaysRemaining,
	}
	if currentVelocity == 0 {
		return proj
	}
	proj.DaysNeeded = remainingPoints / currentVelocity
	overrun := int(math.Round(proj.DaysNeeded - float64(workingDaysRemaining)))
	proj.OverrunDays = &overrun
	return proj
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
