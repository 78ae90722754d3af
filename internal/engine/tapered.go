// Package engine implements the phase-aware tapered evaluator, the
// iterative-deepening alpha-beta search, and the transposition table and
// repetition tracker that make up the engine's search + evaluation core. It
// consumes internal/shogi purely through a Board-shaped surface, keeping
// evaluation and search decoupled from board representation details.
package engine

// TaperedScore is an (mg, eg) pair interpolated to a single scalar by the
// current GamePhase. Arithmetic is componentwise; it is a pure value type,
// copied freely, never aliased.
type TaperedScore struct {
	MG int32
	EG int32
}

func (a TaperedScore) Add(b TaperedScore) TaperedScore {
	return TaperedScore{a.MG + b.MG, a.EG + b.EG}
}

func (a TaperedScore) Sub(b TaperedScore) TaperedScore {
	return TaperedScore{a.MG - b.MG, a.EG - b.EG}
}

func (a TaperedScore) Negate() TaperedScore {
	return TaperedScore{-a.MG, -a.EG}
}

// Scale multiplies both components by a real-valued weight, truncating
// toward zero. Used to apply EvaluationWeights to a component's
// result before accumulation.
func (a TaperedScore) Scale(w float64) TaperedScore {
	return TaperedScore{
		MG: int32(float64(a.MG) * w),
		EG: int32(float64(a.EG) * w),
	}
}

func (a TaperedScore) MulInt(n int) TaperedScore {
	return TaperedScore{a.MG * int32(n), a.EG * int32(n)}
}

// GamePhase is an integer in [0, 256]; 256 is full opening material, 0 is a
// bare-king endgame.
type GamePhase int32

const MaxPhase GamePhase = 256

func clampPhase(p int32) GamePhase {
	if p < 0 {
		return 0
	}
	if p > int32(MaxPhase) {
		return MaxPhase
	}
	return GamePhase(p)
}
