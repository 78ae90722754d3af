package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// phaseWeight gives each base piece type's contribution to GamePhase. A
// promoted piece counts by its base type's weight (the table below is
// indexed by shogi.PieceType, and promoted indices alias their base
// weight) — chosen so the starting position's phase is exactly MaxPhase
// and the value is invariant to promotion/demotion churn during a game,
// which keeps GamePhase a smooth function of captures rather than of
// promotion decisions.
var phaseWeight = [14]int32{
	shogi.Pawn:   0,
	shogi.Lance:  1,
	shogi.Knight: 1,
	shogi.Silver: 2,
	shogi.Gold:   2,
	shogi.Bishop: 4,
	shogi.Rook:   5,
	shogi.King:   0,
}

func init() {
	// Promoted pieces alias their base type's phase weight.
	phaseWeight[shogi.ProPawn] = phaseWeight[shogi.Pawn]
	phaseWeight[shogi.ProLance] = phaseWeight[shogi.Lance]
	phaseWeight[shogi.ProKnight] = phaseWeight[shogi.Knight]
	phaseWeight[shogi.ProSilver] = phaseWeight[shogi.Silver]
	phaseWeight[shogi.Horse] = phaseWeight[shogi.Bishop]
	phaseWeight[shogi.Dragon] = phaseWeight[shogi.Rook]
}

// startPhaseSum is the raw (pre-clamp) weighted sum at the starting
// position; both sides start with 2 lances, 2 knights, 2 silvers, 2 golds,
// 1 bishop, 1 rook, so the per-side sum is 2·1+2·1+2·2+2·2+4+5 = 21,
// doubled for both sides = 42. We rescale compute_phase's raw sum so the
// starting position maps exactly to 256.
const startPhaseSum = 42

// computePhase computes compute_phase(board): a pure, total function of
// on-board material, side-to-move independent, never failing.
func computePhase(counts [2][14]int) GamePhase {
	var raw int32
	for c := 0; c < 2; c++ {
		for pt := shogi.PieceType(0); pt < 14; pt++ {
			raw += phaseWeight[pt] * int32(counts[c][pt])
		}
	}
	scaled := raw * int32(MaxPhase) / startPhaseSum
	return clampPhase(scaled)
}

// PhaseCache maps a material fingerprint to a previously computed GamePhase.
// Bounded by maxCacheSize; on overflow the whole cache is cleared rather
// than evicted piecemeal — phase computation is cheap, so a cache miss
// storm after a clear costs little.
type PhaseCache struct {
	entries      map[uint64]GamePhase
	maxCacheSize int
}

func NewPhaseCache(maxCacheSize int) *PhaseCache {
	if maxCacheSize <= 0 {
		maxCacheSize = 4096
	}
	return &PhaseCache{
		entries:      make(map[uint64]GamePhase, maxCacheSize),
		maxCacheSize: maxCacheSize,
	}
}

// Get looks up a fingerprint; ok is false on miss.
func (c *PhaseCache) Get(fingerprint uint64) (GamePhase, bool) {
	p, ok := c.entries[fingerprint]
	return p, ok
}

func (c *PhaseCache) Put(fingerprint uint64, phase GamePhase) {
	if len(c.entries) >= c.maxCacheSize {
		c.entries = make(map[uint64]GamePhase, c.maxCacheSize)
	}
	c.entries[fingerprint] = phase
}

func (c *PhaseCache) Clear() {
	c.entries = make(map[uint64]GamePhase, c.maxCacheSize)
}
