package engine

import (
	"testing"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

func TestKingActivityRewardsCentralization(t *testing.T) {
	central, err := shogi.ParseSFEN("9/9/9/9/4K4/9/9/9/9 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}
	cornered, err := shogi.ParseSFEN("K8/9/9/9/9/9/9/9/9 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}

	centralScore := kingActivity(central, shogi.Black)
	corneredScore := kingActivity(cornered, shogi.Black)
	if centralScore.EG <= corneredScore.EG {
		t.Errorf("a centralized king should have higher eg activity than a cornered one: central=%+v cornered=%+v", centralScore, corneredScore)
	}
	if corneredScore.EG != 0 {
		t.Errorf("a king at the farthest corner should have zero activity bonus, got %+v", corneredScore)
	}
}

func TestEndgamePassedPawnsRewardsUnblockedFile(t *testing.T) {
	passed, err := shogi.ParseSFEN("9/9/9/9/9/9/4P4/9/4K4 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}
	blocked, err := shogi.ParseSFEN("9/9/9/9/9/4p4/4P4/9/4K4 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}

	passedScore := endgamePassedPawns(passed, shogi.Black)
	blockedScore := endgamePassedPawns(blocked, shogi.Black)
	if passedScore.EG <= blockedScore.EG {
		t.Errorf("an unblocked pawn should score higher than one with an enemy pawn ahead on its file: passed=%+v blocked=%+v", passedScore, blockedScore)
	}
	if blockedScore != (TaperedScore{}) {
		t.Errorf("a pawn with an enemy pawn on its file contributes nothing, got %+v", blockedScore)
	}
}

func TestPieceCoordinationRewardsRookBishopProximity(t *testing.T) {
	near, err := shogi.ParseSFEN("9/9/9/9/3RB4/9/9/9/9 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}
	far, err := shogi.ParseSFEN("R8/9/9/9/9/9/9/9/7B1 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}

	nearScore := pieceCoordination(near, shogi.Black)
	farScore := pieceCoordination(far, shogi.Black)
	if nearScore.MG <= farScore.MG {
		t.Errorf("an adjacent rook and bishop should coordinate better than a distant pair: near=%+v far=%+v", nearScore, farScore)
	}
}

func TestMatingPatternsRewardsCorneredKingUnderAttack(t *testing.T) {
	cornered, err := shogi.ParseSFEN("kR7/9/B8/9/9/9/9/9/4K4 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}
	safe, err := shogi.ParseSFEN("R8/9/9/9/4k4/9/9/9/4K3B b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}

	corneredScore := matingPatterns(cornered, shogi.Black)
	safeScore := matingPatterns(safe, shogi.Black)
	if corneredScore.EG <= safeScore.EG {
		t.Errorf("a cornered enemy king flanked by a rook and bishop should score higher than a centralized, unattacked one: cornered=%+v safe=%+v", corneredScore, safeScore)
	}
	if safeScore != (TaperedScore{}) {
		t.Errorf("no mating pattern should be detected against a centralized, unattacked king, got %+v", safeScore)
	}
}
