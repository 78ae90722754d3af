package engine

import (
	"time"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

// USILimits mirrors the USI "go" command's time-control parameters (the
// Shogi protocol analogue of UCI's go command), grounded in the reference
// engine's UCILimits.
type USILimits struct {
	Time      [2]time.Duration // btime, wtime
	Inc       [2]time.Duration // binc, winc (Fischer increment, rare in USI but supported)
	Byoyomi   time.Duration    // fixed per-move reserve once main time is exhausted
	MoveTime  time.Duration    // fixed time for this move, overrides everything else
	Depth     int
	Nodes     uint64
	Infinite  bool
	Ponder    bool
}

// TimeManager allocates search time for a single move.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init sets the optimum/maximum time budget for the move about to be
// searched. ply is the current game ply.
func (tm *TimeManager) Init(limits USILimits, us shogi.Color, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || (limits.Time[us] == 0 && limits.Byoyomi == 0) {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]
	byoyomi := limits.Byoyomi

	// Sudden-death estimate of remaining moves: Shogi games run somewhat
	// longer than chess on average (more forced recaptures via drops), so
	// the floor/ceiling are shifted up slightly from the reference's chess
	// tuning.
	mtg := 60 - ply/4
	if mtg < 15 {
		mtg = 15
	}
	if mtg > 60 {
		mtg = 60
	}

	baseTime := timeLeft / time.Duration(mtg)
	baseTime += inc * 9 / 10
	baseTime += byoyomi * 8 / 10

	tm.optimumTime = baseTime
	if ply < 8 {
		tm.optimumTime = baseTime * 85 / 100
	}

	maxFromOptimum := tm.optimumTime * 5
	maxFromRemaining := timeLeft*8/10 + byoyomi
	if maxFromOptimum < maxFromRemaining {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromRemaining
	}

	safetyMargin := timeLeft*95/100 + byoyomi
	if tm.maximumTime > safetyMargin {
		tm.maximumTime = safetyMargin
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

func (tm *TimeManager) OptimumTime() time.Duration { return tm.optimumTime }
func (tm *TimeManager) MaximumTime() time.Duration { return tm.maximumTime }

func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability shortens the optimum budget once the best move has held
// steady across several iterative-deepening depths.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability extends the optimum budget (never past maximum) when
// the best move keeps changing between depths.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = tm.optimumTime * 200 / 100
	case changes >= 2:
		tm.optimumTime = tm.optimumTime * 150 / 100
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}
