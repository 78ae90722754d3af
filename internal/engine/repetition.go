package engine

// GameHistory is a flat stack of position hashes reached so far in the
// game, consulted by the search core to detect sennichite (fourfold
// repetition). A plain O(ply) scan is cheap enough up to MaxPly and avoids
// the bookkeeping a hash-indexed structure would need on every
// make/unmake.
type GameHistory struct {
	hashes []uint64
}

func NewGameHistory() *GameHistory {
	return &GameHistory{hashes: make([]uint64, 0, 256)}
}

func (h *GameHistory) Push(hash uint64) {
	h.hashes = append(h.hashes, hash)
}

func (h *GameHistory) Pop() {
	h.hashes = h.hashes[:len(h.hashes)-1]
}

func (h *GameHistory) Len() int {
	return len(h.hashes)
}

func (h *GameHistory) Reset() {
	h.hashes = h.hashes[:0]
}

// IsRepetition reports whether the current hash (assumed already pushed, or
// passed explicitly) has occurred four times total in the recorded history,
// i.e. sennichite. The perpetual-check exception (continuous check by the
// same side voids the draw and instead loses for the checking side) is
// explicitly not implemented here.
func (h *GameHistory) IsRepetition(hash uint64) bool {
	count := 0
	for _, past := range h.hashes {
		if past == hash {
			count++
			if count >= 4 {
				return true
			}
		}
	}
	return false
}
