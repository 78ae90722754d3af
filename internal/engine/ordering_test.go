package engine

import (
	"testing"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

func TestScoreMovesRanksTTMoveHighest(t *testing.T) {
	pos := shogi.NewPosition()
	moves := shogi.GenerateLegalMoves(pos)
	mo := NewMoveOrderer()

	ttMove := moves.Get(moves.Len() / 2)
	scores := mo.ScoreMoves(pos, moves, 0, ttMove)

	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i) == ttMove {
			continue
		}
		if scores[i] >= TTMoveScore {
			t.Errorf("non-TT move %s scored %d, should be below TTMoveScore", moves.Get(i).String(), scores[i])
		}
	}
}

func TestUpdateKillersTracksTwoMostRecent(t *testing.T) {
	mo := NewMoveOrderer()
	m1 := shogi.Move{From: shogi.NewSquare(0, 0), To: shogi.NewSquare(0, 1), Piece: shogi.Lance, Captured: shogi.NoPieceType}
	m2 := shogi.Move{From: shogi.NewSquare(1, 0), To: shogi.NewSquare(1, 1), Piece: shogi.Knight, Captured: shogi.NoPieceType}
	m3 := shogi.Move{From: shogi.NewSquare(2, 0), To: shogi.NewSquare(2, 1), Piece: shogi.Silver, Captured: shogi.NoPieceType}

	mo.UpdateKillers(m1, 3)
	mo.UpdateKillers(m2, 3)
	mo.UpdateKillers(m3, 3)

	if mo.killers[3][0] != m3 || mo.killers[3][1] != m2 {
		t.Errorf("killers[3] = %v, %v; want %v, %v", mo.killers[3][0], mo.killers[3][1], m3, m2)
	}
}

func TestUpdateKillersIgnoresCaptures(t *testing.T) {
	mo := NewMoveOrderer()
	capture := shogi.Move{From: shogi.NewSquare(0, 0), To: shogi.NewSquare(0, 1), Piece: shogi.Lance, Captured: shogi.Pawn}
	mo.UpdateKillers(capture, 0)
	if mo.killers[0][0] == capture {
		t.Error("captures should never be recorded as killers")
	}
}

func TestUpdateHistoryRewardsGoodAndPenalizesBad(t *testing.T) {
	mo := NewMoveOrderer()
	m := shogi.Move{From: shogi.NewSquare(0, 0), To: shogi.NewSquare(0, 1), Piece: shogi.Lance}

	mo.UpdateHistory(m, 4, true)
	good := mo.history[historyIndex(m)][m.To]
	if good <= 0 {
		t.Fatalf("history after a good update = %d, want positive", good)
	}

	mo.UpdateHistory(m, 4, false)
	after := mo.history[historyIndex(m)][m.To]
	if after >= good {
		t.Errorf("history after a bad update = %d, want less than %d", after, good)
	}
}

func TestPickMoveSelectsHighestRemainingScore(t *testing.T) {
	var moves shogi.MoveList
	m1 := shogi.Move{From: shogi.NewSquare(0, 0), To: shogi.NewSquare(0, 1), Piece: shogi.Lance}
	m2 := shogi.Move{From: shogi.NewSquare(1, 0), To: shogi.NewSquare(1, 1), Piece: shogi.Knight}
	m3 := shogi.Move{From: shogi.NewSquare(2, 0), To: shogi.NewSquare(2, 1), Piece: shogi.Silver}
	moves.Add(m1)
	moves.Add(m2)
	moves.Add(m3)
	scores := []int{10, 30, 20}

	PickMove(&moves, scores, 0)

	if moves.Get(0) != m2 {
		t.Errorf("PickMove did not bring the highest-scored move to the front, got %s", moves.Get(0).String())
	}
	if scores[0] != 30 {
		t.Errorf("PickMove did not swap the scores alongside the moves, got %d", scores[0])
	}
}
