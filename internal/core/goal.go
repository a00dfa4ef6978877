package core

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalCompleted  GoalStatus = "completed"
	GoalOnTrack    GoalStatus = "on-track"
	GoalInProgress GoalStatus = "in-progress"
	GoalOffTrack   GoalStatus = "off-track"
)

type (
	GoalStatus string

	// GoalProgress is the derived view of a goal: raw completion percent,
	// a display percent capped at 100, a status classification and the days
	// remaining until the target date (negative once overdue).
	GoalProgress struct {
		Percent        decimal.Decimal `json:"percent"`
		DisplayPercent decimal.Decimal `json:"displayPercent"`
		Status         GoalStatus      `json:"status"`
		DaysLeft       int             `json:"daysLeft"`
	}
)

// EvaluateGoal computes progress for a goal at the given time.
//
// Percent is current/target*100 with a zero target yielding zero. The raw
// value may exceed 100 (overachievement); DisplayPercent is capped. The
// status rules are policy and must be applied in order:
//
//	percent >= 100                  -> completed
//	percent >= 75                   -> on-track
//	percent >= 50 or daysLeft > 30  -> in-progress
//	otherwise                       -> off-track
func EvaluateGoal(g Goal, now time.Time) GoalProgress {
	percent := PercentOf(g.CurrentAmount, g.TargetAmount)
	daysLeft := int(math.Ceil(g.TargetDate.Sub(now).Hours() / 24))

	display := percent
	if display.GreaterThan(hundred) {
		display = hundred
	}

	var status GoalStatus
	switch {
	case percent.GreaterThanOrEqual(hundred):
		status = GoalCompleted
	case percent.GreaterThanOrEqual(decimal.NewFromInt(75)):
		status = GoalOnTrack
	case percent.GreaterThanOrEqual(decimal.NewFromInt(50)) || daysLeft > 30:
		status = GoalInProgress
	default:
		status = GoalOffTrack
	}

	return GoalProgress{
		Percent:        percent,
		DisplayPercent: display,
		Status:         status,
		DaysLeft:       daysLeft,
	}
}

// GoalAchieved reports whether progress crossed the 100% boundary between
// two evaluations. Callers use it to fire the one-time "goal achieved"
// notification without recomputing anything.
func GoalAchieved(prev, next GoalProgress) bool {
	return prev.Percent.LessThan(hundred) && next.Percent.GreaterThanOrEqual(hundred)
}
