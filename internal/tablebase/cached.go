package tablebase

import (
	"encoding/binary"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

// CachedProber wraps another Prober with a two-tier cache: a Ristretto
// in-memory front cache for the current process's hot positions, backed by
// BadgerDB so probes resolved in a past process are never repeated.
type CachedProber struct {
	inner Prober
	db    *badger.DB
	front *ristretto.Cache[uint64, ProbeResult]

	hits, misses uint64
}

// NewCachedProber wraps inner with a Badger-backed cache rooted at dir.
func NewCachedProber(inner Prober, dir string) (*CachedProber, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	front, err := ristretto.NewCache(&ristretto.Config[uint64, ProbeResult]{
		NumCounters: 1_000_000,
		MaxCost:     100_000,
		BufferItems: 64,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &CachedProber{inner: inner, db: db, front: front}, nil
}

func (cp *CachedProber) Close() error {
	cp.front.Close()
	return cp.db.Close()
}

func keyFor(hash uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], hash)
	return buf[:]
}

func (cp *CachedProber) Probe(pos *shogi.Position) ProbeResult {
	hash := pos.Hash

	if result, ok := cp.front.Get(hash); ok {
		cp.hits++
		return result
	}

	if result, ok := cp.loadFromDB(hash); ok {
		cp.hits++
		cp.front.Set(hash, result, 1)
		return result
	}

	cp.misses++
	result := cp.inner.Probe(pos)
	if result.Found {
		cp.storeToDB(hash, result)
		cp.front.Set(hash, result, 1)
	}
	return result
}

func (cp *CachedProber) loadFromDB(hash uint64) (ProbeResult, bool) {
	var result ProbeResult
	found := false
	err := cp.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFor(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err != nil {
		return ProbeResult{}, false
	}
	return result, found
}

func (cp *CachedProber) storeToDB(hash uint64, result ProbeResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = cp.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFor(hash), data)
	})
}

// ProbeRoot is never cached: it needs per-move information the position
// hash alone doesn't capture.
func (cp *CachedProber) ProbeRoot(pos *shogi.Position) RootResult {
	return cp.inner.ProbeRoot(pos)
}

func (cp *CachedProber) MaxPieces() int  { return cp.inner.MaxPieces() }
func (cp *CachedProber) Available() bool { return cp.inner.Available() }

// HitRate returns the combined front+DB cache hit rate as a percentage.
func (cp *CachedProber) HitRate() float64 {
	total := cp.hits + cp.misses
	if total == 0 {
		return 0
	}
	return float64(cp.hits) / float64(total) * 100
}
