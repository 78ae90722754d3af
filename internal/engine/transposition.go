package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// MateScore and MaxPly bound the engine's score range: every score returned
// lies in [-MateScore, MateScore], with MateScore >= MaxPly plus a buffer.
const (
	MaxPly    = 512
	MateScore = 32000
	// MateThreshold is the |score| above which a score is treated as a mate
	// distance rather than a material evaluation, and therefore needs ply
	// adjustment when stored to/read from the TT.
	MateThreshold = MateScore - MaxPly
)

// TTFlag is the bound type stored in a transposition entry.
type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLowerBound
	TTUpperBound
)

// TTEntry is a transposition table entry packed to a small fixed size: upper
// 32 bits of the Zobrist hash for verification (the index already encodes
// the lower bits), a 16-bit score, 8-bit depth, 2-bit flag, 8-bit age.
type TTEntry struct {
	Key      uint32
	BestMove shogi.Move
	Score    int16
	Depth    int8
	Flag     TTFlag
	Age      uint8
}

// TranspositionTable is a fixed-size linear array of entries, indexed by
// key mod table_size (power of two, so a mask suffices).
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

// NewTranspositionTable allocates a table sized to approximately sizeMB
// megabytes, rounded down to a power of two entry count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const approxEntrySize = 24 // shogi.Move is a small struct, wider than chess's packed uint16
	numEntries := (uint64(sizeMB) * 1024 * 1024) / approxEntrySize
	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1024
	}
	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up hash; returns the entry and true on a verified hit.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	idx := hash & tt.mask
	entry := tt.entries[idx]
	if entry.Key == uint32(hash>>32) && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

// Store saves a result, always overwriting if the new depth is >= the
// existing depth, OR the existing entry's age differs from the table's
// current age.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int32, flag TTFlag, bestMove shogi.Move) {
	idx := hash & tt.mask
	entry := &tt.entries[idx]
	if entry.Age != tt.age || depth >= int(entry.Depth) {
		entry.Key = uint32(hash >> 32)
		entry.BestMove = bestMove
		entry.Score = int16(score)
		entry.Depth = int8(depth)
		entry.Flag = flag
		entry.Age = tt.age
	}
}

// NewSearch advances the age counter once per iterative-deepening search
// (or per "new game").
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull samples the first 1000 entries and returns the permille (parts
// per thousand) occupied by the current search generation.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}
	used := 0
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}
	return (used * 1000) / sampleSize
}

func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// AdjustScoreFromTT converts a stored, ply-independent mate distance back
// into a score relative to the current node's ply. Mirrors
// AdjustScoreToTT.
func AdjustScoreFromTT(score int32, ply int) int32 {
	if score > MateThreshold {
		return score - int32(ply)
	}
	if score < -MateThreshold {
		return score + int32(ply)
	}
	return score
}

// AdjustScoreToTT converts a node-relative mate score into the
// depth-independent form stored in the TT. This is the single subtlest
// correctness point in the whole search: get it wrong and mate scores
// reported at different plies disagree.
func AdjustScoreToTT(score int32, ply int) int32 {
	if score > MateThreshold {
		return score + int32(ply)
	}
	if score < -MateThreshold {
		return score - int32(ply)
	}
	return score
}
