// Package book implements an opening-book lookup: a position hash maps to a
// small set of weighted candidate moves, queried by the search driver before
// falling back to a full search. Persisted in BadgerDB (entries survive
// process restarts) with a Ristretto front cache for the hot positions
// revisited across a single process's searches.
package book

import (
	"encoding/binary"
	"encoding/json"
	"math/rand"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

// entry is the JSON-serializable form of a weighted book move: From is -1
// for a drop, in which case Piece names the dropped type.
type entry struct {
	From    int8   `json:"from"`
	To      int8   `json:"to"`
	Piece   int8   `json:"piece"`
	Promote bool   `json:"promote"`
	Weight  uint16 `json:"weight"`
}

// BookEntry is a candidate move paired with its relative popularity weight.
type BookEntry struct {
	Move   shogi.Move
	Weight uint16
}

func toEntry(m shogi.Move, weight uint16) entry {
	from := int8(-1)
	if !m.IsDrop() {
		from = int8(m.From)
	}
	return entry{From: from, To: int8(m.To), Piece: int8(m.Piece), Promote: m.Promote, Weight: weight}
}

func (e entry) toMove() shogi.Move {
	m := shogi.Move{To: shogi.Square(e.To), Piece: shogi.PieceType(e.Piece), Promote: e.Promote}
	if e.From < 0 {
		m.From = shogi.NoSquare
	} else {
		m.From = shogi.Square(e.From)
	}
	return m
}

// Book stores weighted opening-book moves keyed by position Zobrist hash.
type Book struct {
	db    *badger.DB
	cache *ristretto.Cache[uint64, []entry]
}

func keyFor(hash uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], hash)
	return buf[:]
}

// Open opens (creating if absent) a book database at dir, with a small
// in-memory front cache for positions probed repeatedly within one process.
func Open(dir string) (*Book, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	cache, err := ristretto.NewCache(&ristretto.Config[uint64, []entry]{
		NumCounters: 100_000,
		MaxCost:     10_000,
		BufferItems: 64,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Book{db: db, cache: cache}, nil
}

func (b *Book) Close() error {
	b.cache.Close()
	return b.db.Close()
}

// Add inserts (or replaces) the book entries for a position hash.
func (b *Book) Add(hash uint64, entries []BookEntry) error {
	encoded := make([]entry, len(entries))
	for i, e := range entries {
		encoded[i] = toEntry(e.Move, e.Weight)
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return err
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFor(hash), data)
	}); err != nil {
		return err
	}
	b.cache.Set(hash, encoded, int64(len(encoded)))
	b.cache.Wait()
	return nil
}

func (b *Book) lookup(hash uint64) ([]entry, bool) {
	if entries, ok := b.cache.Get(hash); ok {
		return entries, true
	}

	var entries []entry
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFor(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entries)
		})
	})
	if err != nil || !found {
		return nil, false
	}

	b.cache.Set(hash, entries, int64(len(entries)))
	return entries, true
}

// Probe returns a single book move for the position's hash using weighted
// random selection, or false if no book entry exists.
func (b *Book) Probe(hash uint64) (shogi.Move, bool) {
	if b == nil {
		return shogi.NoMove, false
	}

	entries, ok := b.lookup(hash)
	if !ok || len(entries) == 0 {
		return shogi.NoMove, false
	}

	totalWeight := uint32(0)
	for _, e := range entries {
		totalWeight += uint32(e.Weight)
	}
	if totalWeight == 0 {
		return entries[0].toMove(), true
	}

	r := rand.Uint32() % totalWeight
	cumulative := uint32(0)
	for _, e := range entries {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return e.toMove(), true
		}
	}
	return entries[0].toMove(), true
}

// ProbeAll returns every book move for the position's hash, sorted by
// descending weight.
func (b *Book) ProbeAll(hash uint64) []BookEntry {
	if b == nil {
		return nil
	}
	entries, ok := b.lookup(hash)
	if !ok {
		return nil
	}

	result := make([]BookEntry, len(entries))
	for i, e := range entries {
		result[i] = BookEntry{Move: e.toMove(), Weight: e.Weight}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})
	return result
}
