package engine

import (
	"sync/atomic"
	"time"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

// SearchOptions bundles the root search request: the host-facing knobs for
// depth/time/node limits, contempt, and an external stop flag.
type SearchOptions struct {
	MaxDepth int
	TimeMS   int
	MaxNodes uint64
	Contempt int32
	StopFlag *atomic.Bool

	// InfoFunc, if set, is called once per completed iteration with a
	// telemetry snapshot (an "info" event, in USI-protocol parlance).
	InfoFunc func(InfoEvent)
}

// SearchResult is the host-facing outcome of one Search call.
type SearchResult struct {
	BestMove     shogi.Move
	Score        int32
	Mate         int // plies to mate, signed, 0 if not a mate score
	DepthReached int
	Nodes        uint64
	PV           []shogi.Move
	Stats        SearchStats
}

const maxSearchDepth = 128

// Engine is the top-level object a host (USI loop, storage layer, tests)
// drives: one evaluator, one transposition table, one search instance, all
// scoped to a single game.
type Engine struct {
	eval *IntegratedEvaluator
	tt   *TranspositionTable
	si   *SearchInstance
}

// NewEngine builds a ready-to-use engine with the given transposition table
// size.
func NewEngine(ttSizeMB int) *Engine {
	eval := NewIntegratedEvaluator()
	tt := NewTranspositionTable(ttSizeMB)
	return &Engine{
		eval: eval,
		tt:   tt,
		si:   NewSearchInstance(eval, tt),
	}
}

// NewGame clears TT age, caches, killers, and history.
func (e *Engine) NewGame() {
	e.si.NewGame()
}

// SetTTSizeMB replaces the transposition table with a freshly sized one.
func (e *Engine) SetTTSizeMB(sizeMB int) {
	e.tt = NewTranspositionTable(sizeMB)
	e.si.tt = e.tt
}

func (e *Engine) SetEvalWeights(w EvaluationWeights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	e.eval.Weights = w
	return nil
}

func (e *Engine) SetInterpolationMethod(m InterpolationMethod) {
	e.eval.Interp.Method = m
}

func (e *Engine) SetComponentFlags(c EvaluationComponent) {
	e.eval.Components = c
}

// ApplyEvalConfig wires a persisted/host-supplied EvalConfig into the
// evaluator and transposition table in one call, the path a USI frontend
// takes on startup after loading stored configuration.
func (e *Engine) ApplyEvalConfig(cfg EvalConfig) error {
	if err := e.eval.ApplyConfig(cfg); err != nil {
		return err
	}
	e.SetTTSizeMB(int(cfg.TTSizeMB))
	return nil
}

// EnableEvalCorrection attaches (or detaches) the optional eval-error
// correction table.
func (e *Engine) EnableEvalCorrection(enabled bool) {
	if enabled {
		e.eval.Correction = NewEvalCorrection()
	} else {
		e.eval.Correction = nil
	}
}

func (e *Engine) ResetStats() {
	e.si.stats.Reset()
}

func (e *Engine) Stats() SearchStats {
	return *e.si.stats
}

func (e *Engine) EnableStats(enabled bool) {
	e.si.stats.Enabled = enabled
}

// History exposes the engine's repetition tracker so a host can push moves
// played outside of search (e.g. replaying a game from an SFEN/USI position
// command) before the next search begins.
func (e *Engine) History() *GameHistory {
	return e.si.history
}

// Search runs the iterative-deepening driver against pos, returning the
// best move found by the last fully completed depth.
func (e *Engine) Search(pos *shogi.Position, opts SearchOptions) SearchResult {
	start := time.Now()

	var deadline time.Time
	hasDeadline := opts.TimeMS > 0
	if hasDeadline {
		deadline = start.Add(time.Duration(opts.TimeMS) * time.Millisecond)
	}

	e.si.prepare(pos, opts.StopFlag, deadline, hasDeadline)
	e.si.contempt = opts.Contempt
	e.eval.SetMoveCount(pos.Ply)
	e.tt.NewSearch()

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 || maxDepth > maxSearchDepth {
		maxDepth = maxSearchDepth
	}

	var result SearchResult
	var score int32
	stability := 0
	changes := 0
	prevBest := shogi.NoMove

	for depth := 1; depth <= maxDepth; depth++ {
		var alpha, beta int32
		delta := int32(16)
		if depth >= 5 {
			alpha = score - delta
			beta = score + delta
		} else {
			alpha = -MateScore - 1
			beta = MateScore + 1
		}

		var iterScore int32
		for {
			iterScore = e.si.Negamax(depth, alpha, beta, 0, true)
			if e.si.stopFlag {
				break
			}
			if iterScore <= alpha {
				alpha -= delta
				if alpha < -MateScore {
					alpha = -MateScore - 1
				}
				delta *= 2
				continue
			}
			if iterScore >= beta {
				beta += delta
				if beta > MateScore {
					beta = MateScore + 1
				}
				delta *= 2
				continue
			}
			break
		}

		if e.si.stopFlag {
			break
		}

		score = iterScore
		pv := e.extractPV(pos, depth)
		best := shogi.NoMove
		if len(pv) > 0 {
			best = pv[0]
		}

		if best == prevBest && best != shogi.NoMove {
			stability++
		} else {
			changes++
			stability = 0
		}
		prevBest = best

		result = e.buildResult(best, score, depth, pv)

		if opts.InfoFunc != nil {
			opts.InfoFunc(e.infoEvent(depth, score, pv, start))
		}

		if mate, plies := mateIn(score); mate && plies <= depth {
			break
		}

		if opts.MaxNodes > 0 && e.si.nodes >= opts.MaxNodes {
			break
		}

		if hasDeadline {
			// 60% of the budget is the baseline for starting another
			// iteration; a stable best move gives up earlier, a churning
			// one gets closer to the full budget.
			threshold := 60
			if stability >= 4 {
				threshold = 40
			} else if changes >= 3 {
				threshold = 80
			}
			elapsed := time.Since(start)
			budget := time.Duration(opts.TimeMS) * time.Millisecond
			if elapsed > budget*time.Duration(threshold)/100 {
				break
			}
		}
	}

	// A stop before depth 1 completed leaves no recorded result; fall back
	// to the first legally generated move so the host always gets a move.
	if result.BestMove == shogi.NoMove {
		legal := shogi.GenerateLegalMoves(pos)
		if legal.Len() > 0 {
			result.BestMove = legal.Get(0)
		}
		result.Nodes = e.si.nodes
	}

	return result
}

func (e *Engine) buildResult(best shogi.Move, score int32, depth int, pv []shogi.Move) SearchResult {
	mate, plies := mateIn(score)
	mateVal := 0
	if mate {
		mateVal = plies
		if score < 0 {
			mateVal = -plies
		}
	}
	return SearchResult{
		BestMove:     best,
		Score:        score,
		Mate:         mateVal,
		DepthReached: depth,
		Nodes:        e.si.nodes,
		PV:           pv,
		Stats:        *e.si.stats,
	}
}

func (e *Engine) infoEvent(depth int, score int32, pv []shogi.Move, start time.Time) InfoEvent {
	elapsed := time.Since(start)
	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(e.si.nodes) / elapsed.Seconds())
	}
	pvStrings := make([]string, len(pv))
	for i, m := range pv {
		pvStrings[i] = m.String()
	}
	mate := 0
	if isMate, plies := mateIn(score); isMate {
		mate = plies
		if score < 0 {
			mate = -plies
		}
	}
	return InfoEvent{
		Depth:           depth,
		SelDepth:        e.si.seldepth,
		Score:           score,
		Mate:            mate,
		Nodes:           e.si.nodes,
		NPS:             nps,
		TimeMS:          elapsed.Milliseconds(),
		HashFull:        e.tt.HashFull(),
		TTHitRate:       e.tt.HitRate(),
		LMRResearchRate: e.si.stats.LMRResearchRate(),
		PV:              pvStrings,
	}
}

// mateIn reports whether score represents a mate and, if so, the number of
// plies to deliver it.
func mateIn(score int32) (bool, int) {
	abs := score
	if abs < 0 {
		abs = -abs
	}
	if abs <= MateThreshold {
		return false, 0
	}
	return true, int(MateScore - abs)
}

// extractPV walks the transposition table from the root following best moves,
// bounded by depth plus a small guard against cycles.
func (e *Engine) extractPV(pos *shogi.Position, depth int) []shogi.Move {
	pv := make([]shogi.Move, 0, depth)
	undos := make([]shogi.UndoInfo, 0, depth)
	moves := make([]shogi.Move, 0, depth)

	guard := depth + 8
	for i := 0; i < guard; i++ {
		entry, found := e.tt.Probe(pos.Hash)
		if !found || entry.BestMove == shogi.NoMove {
			break
		}
		legal := shogi.GenerateLegalMoves(pos)
		if !legal.Contains(entry.BestMove) {
			break
		}
		pv = append(pv, entry.BestMove)
		undo := pos.MakeMove(entry.BestMove)
		undos = append(undos, undo)
		moves = append(moves, entry.BestMove)
	}

	for i := len(moves) - 1; i >= 0; i-- {
		pos.UnmakeMove(moves[i], undos[i])
	}

	return pv
}
