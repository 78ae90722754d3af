package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// EvalCache maps a position fingerprint to a final interpolated score,
// bounded the same way as PhaseCache: clear-on-overflow.
type EvalCache struct {
	entries      map[uint64]int32
	maxCacheSize int
}

func NewEvalCache(maxCacheSize int) *EvalCache {
	if maxCacheSize <= 0 {
		maxCacheSize = 8192
	}
	return &EvalCache{entries: make(map[uint64]int32, maxCacheSize), maxCacheSize: maxCacheSize}
}

func (c *EvalCache) Get(fingerprint uint64) (int32, bool) {
	v, ok := c.entries[fingerprint]
	return v, ok
}

func (c *EvalCache) Put(fingerprint uint64, score int32) {
	if len(c.entries) >= c.maxCacheSize {
		c.entries = make(map[uint64]int32, c.maxCacheSize)
	}
	c.entries[fingerprint] = score
}

func (c *EvalCache) Clear() {
	c.entries = make(map[uint64]int32, c.maxCacheSize)
}

// EvalStats are opt-in counters; all record sites branch on Enabled so
// disabled telemetry is a single bool check rather than an allocation.
type EvalStats struct {
	Enabled   bool
	Evals     uint64
	CacheHits uint64
	CacheMiss uint64
}

func (s *EvalStats) recordEval() {
	if s == nil || !s.Enabled {
		return
	}
	s.Evals++
}

func (s *EvalStats) recordHit() {
	if s == nil || !s.Enabled {
		return
	}
	s.CacheHits++
}

func (s *EvalStats) recordMiss() {
	if s == nil || !s.Enabled {
		return
	}
	s.CacheMiss++
}

// HitRate returns the cache hit rate in [0, 1], 0 if no lookups recorded.
func (s *EvalStats) HitRate() float64 {
	if s == nil {
		return 0
	}
	total := s.CacheHits + s.CacheMiss
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// IntegratedEvaluator is the central orchestrator: owns all component
// instances, the phase calculator, the interpolator, component flags,
// weights, phase/eval caches, and optional stats.
type IntegratedEvaluator struct {
	Components EvaluationComponent
	Weights    EvaluationWeights
	Interp     *Interpolator

	Material *MaterialEvaluator
	PST      *PSTEvaluator
	Features *FeatureEvaluator
	Opening  *OpeningEvaluator
	Endgame  *EndgameEvaluator
	// Correction is an optional quality addition; nil disables it entirely.
	Correction *EvalCorrection

	phaseCache   *PhaseCache
	evalCache    *EvalCache
	CacheEnabled bool

	Stats *EvalStats

	moveCount int // supplied by the search driver for opening-principles gating
}

func NewIntegratedEvaluator() *IntegratedEvaluator {
	return &IntegratedEvaluator{
		Components:   DefaultEvaluationComponent(),
		Weights:      DefaultEvaluationWeights(),
		Interp:       NewInterpolator(),
		Material:     NewMaterialEvaluator(),
		PST:          NewPSTEvaluator(),
		Features:     NewFeatureEvaluator(),
		Opening:      NewOpeningEvaluator(),
		Endgame:      NewEndgameEvaluator(),
		phaseCache:   NewPhaseCache(4096),
		evalCache:    NewEvalCache(8192),
		CacheEnabled: true,
	}
}

// SetMoveCount lets the search driver report the current game's move count,
// consulted by the opening-principles component.
func (e *IntegratedEvaluator) SetMoveCount(n int) {
	e.moveCount = n
}

// positionFingerprint is the pseudo-Zobrist key used for the eval cache: the
// position's own incrementally maintained Zobrist hash already folds in
// piece placement, side to move, and hands, so it is reused directly.
func positionFingerprint(pos *shogi.Position) uint64 {
	return pos.Hash
}

// Phase returns the cached (or newly computed) GamePhase for pos.
func (e *IntegratedEvaluator) Phase(pos *shogi.Position) GamePhase {
	fp := shogi.MaterialFingerprint(pos.PieceCounts())
	if p, ok := e.phaseCache.Get(fp); ok {
		return p
	}
	p := computePhase(pos.PieceCounts())
	e.phaseCache.Put(fp, p)
	return p
}

// Evaluate scores a position from side's perspective: phase lookup,
// eval-cache lookup, phase-gated component selection, weighted summation,
// interpolation to a scalar, then cache store.
func (e *IntegratedEvaluator) Evaluate(pos *shogi.Position, side shogi.Color) int32 {
	e.Stats.recordEval()

	fp := positionFingerprint(pos)
	if e.CacheEnabled {
		if v, ok := e.evalCache.Get(fp); ok {
			e.Stats.recordHit()
			// The cache holds the raw score; the correction table keeps
			// learning during a search, so its term is applied outside.
			if e.Correction != nil {
				v += e.Correction.Lookup(pos)
			}
			if side == pos.SideToMove {
				return v
			}
			// Cache stores the score from pos.SideToMove's perspective; if
			// the caller asked for the other side, flip.
			return -v
		}
		e.Stats.recordMiss()
	}

	phase := e.Phase(pos)

	var total TaperedScore
	if e.Components.Material {
		total = total.Add(e.Material.Evaluate(pos, pos.SideToMove).Scale(e.Weights.Material))
	}
	if e.Components.PST {
		total = total.Add(e.PST.Evaluate(pos, pos.SideToMove).Scale(e.Weights.Positional))
	}
	if e.Components.Features {
		total = total.Add(e.scaledFeatures(pos))
	}
	if e.Components.OpeningPrinciples && phase >= 192 {
		total = total.Add(e.Opening.Evaluate(pos, pos.SideToMove, e.moveCount).Scale(e.Weights.Positional))
	}
	if e.Components.EndgamePatterns && phase < 64 {
		total = total.Add(e.Endgame.Evaluate(pos, pos.SideToMove).Scale(e.Weights.Positional))
	}

	score := e.Interp.Interpolate(total, phase)

	if e.CacheEnabled {
		e.evalCache.Put(fp, score)
	}

	if e.Correction != nil {
		score += e.Correction.Lookup(pos)
	}

	if side != pos.SideToMove {
		return -score
	}
	return score
}

// scaledFeatures applies each of the five feature weights individually
// rather than one blanket "features" weight: king-safety, pawn-structure,
// mobility, and center each scale separately.
func (e *IntegratedEvaluator) scaledFeatures(pos *shogi.Position) TaperedScore {
	flags := e.Features.Flags
	var total TaperedScore
	if flags.KingSafety {
		v := kingSafety(pos, pos.SideToMove).Sub(kingSafety(pos, pos.SideToMove.Other()))
		total = total.Add(v.Scale(e.Weights.KingSafety))
	}
	if flags.PawnStructure {
		v := pawnStructure(pos, pos.SideToMove).Sub(pawnStructure(pos, pos.SideToMove.Other()))
		total = total.Add(v.Scale(e.Weights.PawnStructure))
	}
	if flags.Mobility {
		v := mobility(pos, pos.SideToMove).Sub(mobility(pos, pos.SideToMove.Other()))
		total = total.Add(v.Scale(e.Weights.Mobility))
	}
	if flags.CenterControl {
		v := centerControl(pos, pos.SideToMove).Sub(centerControl(pos, pos.SideToMove.Other()))
		total = total.Add(v.Scale(e.Weights.Center))
	}
	if flags.Development {
		v := development(pos, pos.SideToMove).Sub(development(pos, pos.SideToMove.Other()))
		total = total.Add(v.Scale(e.Weights.Development))
	}
	return total
}

// Reset clears both caches, used on "new game".
func (e *IntegratedEvaluator) Reset() {
	e.phaseCache.Clear()
	e.evalCache.Clear()
}

// ApplyConfig applies a validated EvalConfig to the evaluator.
func (e *IntegratedEvaluator) ApplyConfig(cfg EvalConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.Components = cfg.ToComponentFlags()
	e.Weights = cfg.ToWeights()
	if method, ok := ParseInterpolationMethod(cfg.Interp.Method); ok {
		e.Interp.Method = method
	}
	if cfg.Interp.SigmoidSteepness > 0 {
		e.Interp.SigmoidSteepness = cfg.Interp.SigmoidSteepness
	}
	return nil
}
