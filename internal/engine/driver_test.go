package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

// TestEngineSearchStartingPositionDepth1: a depth-1 search from the
// starting position must return some legal move with a roughly balanced
// score, having visited more than a handful of nodes.
func TestEngineSearchStartingPositionDepth1(t *testing.T) {
	e := NewEngine(1)
	pos := shogi.NewPosition()

	result := e.Search(pos, SearchOptions{MaxDepth: 1})

	if result.BestMove == shogi.NoMove {
		t.Fatal("expected a legal best move from the starting position")
	}
	legal := shogi.GenerateLegalMoves(pos)
	if !legal.Contains(result.BestMove) {
		t.Errorf("returned move %s is not a legal move of the starting position", result.BestMove.String())
	}
	if result.Score < -50 || result.Score > 50 {
		t.Errorf("depth-1 starting position score = %d, want in [-50, 50]", result.Score)
	}
	if result.Nodes < 30 {
		t.Errorf("depth-1 search visited only %d nodes, want >= 30", result.Nodes)
	}
}

// TestEngineSearchTimeStopReturnsLegalMove: a tiny time budget on a
// non-trivial position must still return quickly with a legal move, never
// an error.
func TestEngineSearchTimeStopReturnsLegalMove(t *testing.T) {
	e := NewEngine(8)
	pos := shogi.NewPosition()

	start := time.Now()
	result := e.Search(pos, SearchOptions{MaxDepth: 64, TimeMS: 10})
	elapsed := time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Errorf("time-limited search took %v, want well under the wall-clock safety margin", elapsed)
	}
	if result.BestMove == shogi.NoMove {
		t.Fatal("expected a legal best move even when the search is cut short")
	}
	legal := shogi.GenerateLegalMoves(pos)
	if !legal.Contains(result.BestMove) {
		t.Errorf("time-limited search returned an illegal move %s", result.BestMove.String())
	}
}

// TestEngineSearchExternalStopFlagDiscardsPartialIteration exercises the
// "external stop" failure category: a pre-set stop flag must still yield a
// legal move (falling back to the first generated move if even depth 1 is
// interrupted), never a raw error.
func TestEngineSearchExternalStopFlagDiscardsPartialIteration(t *testing.T) {
	e := NewEngine(1)
	pos := shogi.NewPosition()
	var stop atomic.Bool
	stop.Store(true)

	result := e.Search(pos, SearchOptions{MaxDepth: 10, StopFlag: &stop})

	if result.BestMove == shogi.NoMove {
		t.Fatal("a pre-stopped search should still fall back to a legal move")
	}
}

// TestEngineSearchFindsMateInOne: Black holds a rook and the White king is
// boxed in by its own lances and pawns with the central file open; dropping
// the rook anywhere on that file is mate. The search must report mate in 1
// and return a move that actually delivers it.
func TestEngineSearchFindsMateInOne(t *testing.T) {
	pos, err := shogi.ParseSFEN("3lkl3/3p1p3/3G5/9/9/9/9/9/4K4 b R 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}

	e := NewEngine(1)
	result := e.Search(pos, SearchOptions{MaxDepth: 3})

	if result.Score != MateScore-1 {
		t.Fatalf("score = %d, want MateScore-1 = %d", result.Score, MateScore-1)
	}
	if result.Mate != 1 {
		t.Errorf("Mate = %d, want 1", result.Mate)
	}

	undo := pos.MakeMove(result.BestMove)
	defer pos.UnmakeMove(result.BestMove, undo)
	if !shogi.IsInCheck(pos, shogi.White) {
		t.Errorf("best move %s does not give check", result.BestMove.String())
	}
	if replies := shogi.GenerateLegalMoves(pos); replies.Len() != 0 {
		t.Errorf("best move %s leaves %d legal replies, want mate", result.BestMove.String(), replies.Len())
	}
}

func TestEngineNewGameClearsTranspositionTable(t *testing.T) {
	e := NewEngine(1)
	pos := shogi.NewPosition()
	e.Search(pos, SearchOptions{MaxDepth: 4})

	if _, found := e.tt.Probe(pos.Hash); !found {
		t.Fatal("expected the root position to be present in the TT after a search")
	}

	e.NewGame()
	if _, found := e.tt.Probe(pos.Hash); found {
		t.Error("NewGame should clear the transposition table")
	}
}

func TestMateInReportsZeroForOrdinaryScores(t *testing.T) {
	if mate, _ := mateIn(120); mate {
		t.Error("an ordinary centipawn score should not be reported as a mate")
	}
	if mate, plies := mateIn(MateScore - 3); !mate || plies != 3 {
		t.Errorf("mateIn(MateScore-3) = (%v, %d), want (true, 3)", mate, plies)
	}
}

func TestSetEvalWeightsRejectsOutOfRange(t *testing.T) {
	e := NewEngine(1)
	bad := DefaultEvaluationWeights()
	bad.Mobility = 50
	if err := e.SetEvalWeights(bad); err == nil {
		t.Error("expected SetEvalWeights to reject an out-of-range weight")
	}
}

func TestSetEvalWeightsAppliesValidConfig(t *testing.T) {
	e := NewEngine(1)
	good := DefaultEvaluationWeights()
	good.Mobility = 2
	if err := e.SetEvalWeights(good); err != nil {
		t.Fatalf("SetEvalWeights rejected a valid config: %v", err)
	}
	if e.eval.Weights.Mobility != 2 {
		t.Errorf("eval.Weights.Mobility = %v, want 2", e.eval.Weights.Mobility)
	}
}
