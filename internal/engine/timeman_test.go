package engine

import (
	"testing"
	"time"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

func TestTimeManagerMoveTimeOverridesEverything(t *testing.T) {
	tm := NewTimeManager()
	limits := USILimits{MoveTime: 3 * time.Second, Time: [2]time.Duration{time.Minute, time.Minute}}
	tm.Init(limits, shogi.Black, 10)

	if tm.OptimumTime() != 3*time.Second || tm.MaximumTime() != 3*time.Second {
		t.Errorf("MoveTime should pin both budgets, got optimum=%v maximum=%v", tm.OptimumTime(), tm.MaximumTime())
	}
}

func TestTimeManagerInfiniteGivesGenerousBudget(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(USILimits{Infinite: true}, shogi.Black, 1)
	if tm.OptimumTime() < time.Minute {
		t.Errorf("infinite search should get a very large optimum budget, got %v", tm.OptimumTime())
	}
}

func TestTimeManagerNoTimeControlGivesGenerousBudget(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(USILimits{}, shogi.Black, 1)
	if tm.OptimumTime() < time.Minute {
		t.Errorf("no time control at all should get a very large optimum budget, got %v", tm.OptimumTime())
	}
}

func TestTimeManagerMaximumNeverExceedsRemainingTime(t *testing.T) {
	tm := NewTimeManager()
	limits := USILimits{Time: [2]time.Duration{10 * time.Second, 10 * time.Second}}
	tm.Init(limits, shogi.Black, 0)

	if tm.MaximumTime() > 10*time.Second {
		t.Errorf("maximum time %v should never exceed time remaining", tm.MaximumTime())
	}
	if tm.OptimumTime() > tm.MaximumTime() {
		t.Errorf("optimum %v should never exceed maximum %v", tm.OptimumTime(), tm.MaximumTime())
	}
}

func TestTimeManagerByoyomiContributesTime(t *testing.T) {
	tmNoByoyomi := NewTimeManager()
	tmNoByoyomi.Init(USILimits{Time: [2]time.Duration{20 * time.Second, 20 * time.Second}}, shogi.Black, 20)

	tmWithByoyomi := NewTimeManager()
	tmWithByoyomi.Init(USILimits{
		Time:    [2]time.Duration{20 * time.Second, 20 * time.Second},
		Byoyomi: 10 * time.Second,
	}, shogi.Black, 20)

	if tmWithByoyomi.OptimumTime() <= tmNoByoyomi.OptimumTime() {
		t.Error("byoyomi reserve should increase the optimum time budget")
	}
}

func TestAdjustForStabilityShrinksOptimum(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(USILimits{Time: [2]time.Duration{30 * time.Second, 30 * time.Second}}, shogi.Black, 10)
	before := tm.OptimumTime()

	tm.AdjustForStability(6)
	if tm.OptimumTime() >= before {
		t.Errorf("stability adjustment should shrink optimum time: before=%v after=%v", before, tm.OptimumTime())
	}
}

func TestAdjustForInstabilityGrowsOptimumButCapsAtMaximum(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(USILimits{Time: [2]time.Duration{30 * time.Second, 30 * time.Second}}, shogi.Black, 10)
	before := tm.OptimumTime()

	tm.AdjustForInstability(10)
	if tm.OptimumTime() <= before {
		t.Errorf("instability adjustment should grow optimum time: before=%v after=%v", before, tm.OptimumTime())
	}
	if tm.OptimumTime() > tm.MaximumTime() {
		t.Error("optimum time should never exceed maximum after instability growth")
	}
}

func TestShouldStopAndPastOptimum(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(USILimits{MoveTime: 1 * time.Millisecond}, shogi.Black, 1)
	time.Sleep(5 * time.Millisecond)

	if !tm.ShouldStop() {
		t.Error("ShouldStop should be true once elapsed time exceeds the maximum budget")
	}
	if !tm.PastOptimum() {
		t.Error("PastOptimum should be true once elapsed time exceeds the optimum budget")
	}
}
