package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

func newTestInstance() (*SearchInstance, *shogi.Position) {
	eval := NewIntegratedEvaluator()
	tt := NewTranspositionTable(1)
	si := NewSearchInstance(eval, tt)
	pos := shogi.NewPosition()
	si.prepare(pos, nil, time.Time{}, false)
	return si, pos
}

func TestNegamaxStartingPositionFindsLegalMove(t *testing.T) {
	si, pos := newTestInstance()
	before := *pos
	score := si.Negamax(3, -MateScore-1, MateScore+1, 0, true)
	if score < -500 || score > 500 {
		t.Errorf("shallow search from the starting position scored %d, expected roughly balanced", score)
	}
	if *pos != before {
		t.Error("Negamax must leave the board byte-identical to its pre-call state")
	}
}

func TestNegamaxRepetitionReturnsContempt(t *testing.T) {
	si, pos := newTestInstance()
	si.contempt = 0

	// Three prior occurrences plus the live one (which the parent's
	// MakeMove would have pushed) trip the fourfold sennichite rule.
	si.history.Push(pos.Hash)
	si.history.Push(pos.Hash)
	si.history.Push(pos.Hash)
	si.history.Push(pos.Hash)

	if !si.history.IsRepetition(pos.Hash) {
		t.Fatal("expected four recorded occurrences to count as a fourfold repetition")
	}

	score := si.Negamax(4, -MateScore-1, MateScore+1, 1, true)
	if score != si.contempt {
		t.Errorf("Negamax at a repeated position returned %d, want contempt score %d", score, si.contempt)
	}
}

func TestNegamaxRepetitionHonorsNonZeroContempt(t *testing.T) {
	si, pos := newTestInstance()
	si.contempt = -30
	si.history.Push(pos.Hash)
	si.history.Push(pos.Hash)
	si.history.Push(pos.Hash)
	si.history.Push(pos.Hash)

	score := si.Negamax(2, -MateScore-1, MateScore+1, 1, true)
	if score != -30 {
		t.Errorf("Negamax at a repeated position returned %d, want contempt -30", score)
	}
}

func TestNegamaxStoresAndReusesTTEntry(t *testing.T) {
	si, pos := newTestInstance()
	si.Negamax(4, -MateScore-1, MateScore+1, 0, true)

	entry, found := si.tt.Probe(pos.Hash)
	if !found {
		t.Fatal("expected the root position to be stored in the transposition table after a search")
	}
	if int(entry.Depth) < 4 {
		t.Errorf("stored TT entry depth = %d, want >= 4", entry.Depth)
	}
}

func TestNegamaxMateDistancePruningStaysInBounds(t *testing.T) {
	si, _ := newTestInstance()
	// At ply 10 no mate can score above MateScore-10, so mate-distance
	// pruning lowers beta to MateScore-10; with alpha already at MateScore-5
	// the window collapses (alpha >= beta) and Negamax returns immediately
	// without touching move generation.
	ply := 10
	score := si.Negamax(4, MateScore-5, MateScore+1, ply, true)
	if score < -MateScore || score > MateScore {
		t.Errorf("mate-distance-pruned score %d fell outside [-MateScore, MateScore]", score)
	}
}

func TestStoppedHonorsExternalStopFlag(t *testing.T) {
	si, pos := newTestInstance()
	var stop atomic.Bool
	stop.Store(true)
	si.prepare(pos, &stop, time.Time{}, false)

	if !si.stopped() {
		t.Error("expected stopped() to observe an externally set stop flag")
	}
	score := si.Negamax(5, -MateScore-1, MateScore+1, 0, true)
	if score != 0 {
		t.Errorf("a pre-stopped search should return the discard sentinel 0, got %d", score)
	}
}

func TestLmrReductionClampedToDepthMinusTwo(t *testing.T) {
	if r := lmrReduction(3, 20); r != 1 {
		t.Errorf("lmrReduction(3, 20) = %d, want clamped to 1 (depth-2)", r)
	}
	if r := lmrReduction(10, 2); r < 1 || r > 8 {
		t.Errorf("lmrReduction(10, 2) = %d, out of [1, depth-2]", r)
	}
}

func TestQuiescenceStandPatBoundsScore(t *testing.T) {
	si, pos := newTestInstance()
	before := *pos
	score := si.quiescence(0, 0, -MateScore-1, MateScore+1)
	if score < -2000 || score > 2000 {
		t.Errorf("quiescence from a quiet starting position scored %d, expected near the static eval", score)
	}
	if *pos != before {
		t.Error("quiescence must leave the board byte-identical to its pre-call state")
	}
}
