package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// EvalCorrection learns the static evaluator's systematic error per board
// structure and feeds it back into future evaluations. The key is not the
// full position hash but a coarser structure signature — both kings'
// squares plus both hands — because in Shogi those are the features whose
// mis-evaluation persists across a whole subtree: hand material and king
// placement change slowly while the rest of the board churns. Optional;
// nil on IntegratedEvaluator disables it.
type EvalCorrection struct {
	// Indexed by side to move, then structure bucket: the same structure
	// is often mis-evaluated in opposite directions depending on whose
	// turn it is (tempo with a full hand is worth more).
	table [2][correctionBuckets]int16
}

const (
	correctionBuckets = 1 << 13

	// Observed errors are clipped before blending so one tactically wild
	// subtree can't poison a bucket.
	correctionErrClip = 200

	// Stored corrections stay well inside the eval range.
	correctionBound = 800
)

func NewEvalCorrection() *EvalCorrection {
	return &EvalCorrection{}
}

// structureKey folds both hands and both king squares into a bucket index.
// Deliberately ignores piece placement: two positions with the same kings
// and hands share a bucket even if every other piece differs.
func structureKey(pos *shogi.Position) uint64 {
	const prime = 0x100000001B3
	h := uint64(0x9E3779B97F4A7C15)
	for c := shogi.Black; c <= shogi.White; c++ {
		for hi := 0; hi < 7; hi++ {
			h = (h ^ uint64(pos.Hand[c][hi])) * prime
		}
		h = (h ^ uint64(uint8(pos.KingSquare[c]))) * prime
	}
	return h
}

// Lookup returns the learned correction to add to pos's static eval, from
// the side to move's perspective. Halved on the way out: the bucket is
// coarse, so only part of the stored error transfers to any one position.
func (ec *EvalCorrection) Lookup(pos *shogi.Position) int32 {
	idx := structureKey(pos) & (correctionBuckets - 1)
	return int32(ec.table[pos.SideToMove][idx]) / 2
}

// Observe blends the search-vs-static error for pos into its structure
// bucket. Deeper searches see through more tactics, so their verdict gets
// proportionally more weight.
func (ec *EvalCorrection) Observe(pos *shogi.Position, searchScore, staticEval int32, depth int) {
	if depth < 2 {
		return
	}
	diff := searchScore - staticEval
	if diff > correctionErrClip {
		diff = correctionErrClip
	} else if diff < -correctionErrClip {
		diff = -correctionErrClip
	}

	w := int32(depth)
	if w > 12 {
		w = 12
	}

	idx := structureKey(pos) & (correctionBuckets - 1)
	entry := int32(ec.table[pos.SideToMove][idx])
	entry += (diff - entry) * w / 32
	if entry > correctionBound {
		entry = correctionBound
	} else if entry < -correctionBound {
		entry = -correctionBound
	}
	ec.table[pos.SideToMove][idx] = int16(entry)
}

func (ec *EvalCorrection) Clear() {
	ec.table = [2][correctionBuckets]int16{}
}
