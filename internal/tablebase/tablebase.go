// Package tablebase defines the endgame-tablebase probing contract: a
// position with few enough pieces remaining can be looked up for an exact
// win/draw/loss verdict instead of searched. No public Shogi endgame
// database exists to query online, so the concrete Probers shipped here are
// RemoteProber, which queries a host-supplied HTTP endpoint, and
// CachedProber, a cache wrapper around another Prober; NoopProber is the
// default when none is configured.
package tablebase

import (
	"github.com/fgantt/shogi-engine/internal/shogi"
)

// WDL represents a Win/Draw/Loss verdict from the side to move's
// perspective.
type WDL int

const (
	WDLLoss WDL = -1
	WDLDraw WDL = 0
	WDLWin  WDL = 1
)

// ProbeResult contains the result of a tablebase probe.
type ProbeResult struct {
	Found bool
	WDL   WDL
	DTM   int // distance to mate in plies, meaningful only when WDL != WDLDraw
}

// RootResult contains the best move from tablebase at the root position.
type RootResult struct {
	Found bool
	Move  shogi.Move
	WDL   WDL
	DTM   int
}

// Prober is the interface for tablebase probing.
type Prober interface {
	Probe(pos *shogi.Position) ProbeResult
	ProbeRoot(pos *shogi.Position) RootResult
	// MaxPieces returns the maximum total piece count (board + hands) this
	// prober can resolve.
	MaxPieces() int
	Available() bool
}

// WDLToScore converts a WDL verdict into a search score, using the same
// mate-score convention as the main search core so tablebase hits compose
// cleanly with alpha-beta bounds.
func WDLToScore(wdl WDL, ply int) int32 {
	const mateScore = 32000
	switch wdl {
	case WDLWin:
		return mateScore - int32(ply) - 1
	case WDLLoss:
		return -mateScore + int32(ply) + 1
	default:
		return 0
	}
}

// NoopProber always reports "not found"; the default when no tablebase
// implementation has been configured.
type NoopProber struct{}

func (NoopProber) Probe(pos *shogi.Position) ProbeResult    { return ProbeResult{Found: false} }
func (NoopProber) ProbeRoot(pos *shogi.Position) RootResult { return RootResult{Found: false} }
func (NoopProber) MaxPieces() int                           { return 0 }
func (NoopProber) Available() bool                          { return false }

// CountPieces returns the total number of pieces still in play: on the
// board plus in both hands.
func CountPieces(pos *shogi.Position) int {
	counts := pos.PieceCounts()
	total := 0
	for _, side := range counts {
		for _, n := range side {
			total += n
		}
	}
	return total
}
