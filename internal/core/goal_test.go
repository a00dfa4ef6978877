package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEvaluateGoal_StatusRules(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	nearDeadline := now.AddDate(0, 0, 10)
	farDeadline := now.AddDate(0, 0, 90)

	tests := []struct {
		name       string
		current    string
		target     string
		targetDate time.Time
		want       GoalStatus
	}{
		{"completed exactly", "100", "100", nearDeadline, GoalCompleted},
		{"overachieved", "150", "100", nearDeadline, GoalCompleted},
		{"on track at 75", "75", "100", nearDeadline, GoalOnTrack},
		{"in progress at 50", "50", "100", nearDeadline, GoalInProgress},
		{"in progress with far deadline", "10", "100", farDeadline, GoalInProgress},
		{"off track", "10", "100", nearDeadline, GoalOffTrack},
		{"zero target is off track", "50", "0", nearDeadline, GoalOffTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{
				CurrentAmount: dec(tt.current),
				TargetAmount:  dec(tt.target),
				TargetDate:    tt.targetDate,
			}
			got := EvaluateGoal(g, now)
			if got.Status != tt.want {
				t.Errorf("status = %s, want %s (percent %s, daysLeft %d)",
					got.Status, tt.want, got.Percent, got.DaysLeft)
			}
		})
	}
}

func TestEvaluateGoal_PercentAndDisplay(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	g := Goal{
		CurrentAmount: dec("150"),
		TargetAmount:  dec("100"),
		TargetDate:    now.AddDate(0, 0, 5),
	}
	got := EvaluateGoal(g, now)
	if !got.Percent.Equal(dec("150")) {
		t.Errorf("raw percent = %s, want 150", got.Percent)
	}
	if !got.DisplayPercent.Equal(dec("100")) {
		t.Errorf("display percent = %s, want 100", got.DisplayPercent)
	}

	// Zero target guards divide-by-zero.
	g.TargetAmount = decimal.Zero
	if p := EvaluateGoal(g, now).Percent; !p.IsZero() {
		t.Errorf("zero-target percent = %s, want 0", p)
	}
}

func TestEvaluateGoal_DaysLeft(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	g := Goal{TargetAmount: dec("100"), TargetDate: now.AddDate(0, 0, 30)}
	if got := EvaluateGoal(g, now).DaysLeft; got != 30 {
		t.Errorf("daysLeft = %d, want 30", got)
	}

	// Overdue goals report negative days; the UI renders "Overdue".
	g.TargetDate = now.AddDate(0, 0, -5)
	if got := EvaluateGoal(g, now).DaysLeft; got != -5 {
		t.Errorf("overdue daysLeft = %d, want -5", got)
	}
}

// statusRank orders statuses from worst to best so monotonicity can be
// asserted numerically.
func statusRank(s GoalStatus) int {
	switch s {
	case GoalOffTrack:
		return 0
	case GoalInProgress:
		return 1
	case GoalOnTrack:
		return 2
	case GoalCompleted:
		return 3
	}
	return -1
}

func TestEvaluateGoal_StatusMonotonic(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	g := Goal{
		TargetAmount: dec("1000"),
		TargetDate:   now.AddDate(0, 0, 15),
	}

	prevRank := -1
	for current := int64(0); current <= 1200; current += 50 {
		g.CurrentAmount = decimal.NewFromInt(current)
		rank := statusRank(EvaluateGoal(g, now).Status)
		if rank < prevRank {
			t.Fatalf("status moved backward at current=%d (rank %d -> %d)", current, prevRank, rank)
		}
		prevRank = rank
	}
}

func TestGoalAchieved(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	g := Goal{TargetAmount: dec("100"), TargetDate: now.AddDate(0, 0, 10)}

	g.CurrentAmount = dec("90")
	before := EvaluateGoal(g, now)
	g.CurrentAmount = dec("110")
	after := EvaluateGoal(g, now)

	if !GoalAchieved(before, after) {
		t.Error("crossing 100%% should report achievement")
	}
	if GoalAchieved(after, after) {
		t.Error("staying above 100%% must not re-trigger")
	}
	if GoalAchieved(before, before) {
		t.Error("staying below 100%% must not trigger")
	}
}

func TestAddToGoal(t *testing.T) {
	now := time.Now()
	g := Goal{CurrentAmount: dec("40")}

	g.AddToGoal(dec("10"), now)
	if !g.CurrentAmount.Equal(dec("50")) {
		t.Errorf("current = %s, want 50", g.CurrentAmount)
	}

	// Negative adjustments are dropped.
	g.AddToGoal(dec("-20"), now)
	if !g.CurrentAmount.Equal(dec("50")) {
		t.Errorf("current after negative add = %s, want 50", g.CurrentAmount)
	}
}
