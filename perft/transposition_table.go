package perft

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/nazo/zobrist"
)

const entrySize = 32

const (
	minSizePowerOf2 = 16
	maxSizePowerOf2 = 30
)

// TableEntry caches the counts below one position at one remaining depth.
// The full hash is kept since perft counts must never be borrowed from a
// different position.
type TableEntry struct {
	hash       uint64
	nodes      uint64
	chainMoves uint64
	deadEnds   uint32
	maxChain   uint8
	depth      uint8
	_          [2]byte
}

func (t TableEntry) valid() bool {
	return t.depth != 0
}

func (t TableEntry) counts() counts {
	return counts{
		nodes:      t.nodes,
		chainMoves: t.chainMoves,
		deadEnds:   uint64(t.deadEnds),
		maxChain:   int(t.maxChain),
	}
}

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

type TranspositionTable struct {
	TableLock
	table        []TableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
	// positions that map to the same slot as a different stored position.
	t2collisions atomic.Uint64

	zobrist *zobrist.Zobrist
}

// GlobalTranspositionTable is shared by every run so that repeated runs
// reuse the allocation. Runs that use it must not overlap.
var GlobalTranspositionTable = &TranspositionTable{TableLock: FakeLock{}}

func (t *TranspositionTable) SetSingleThreadedMode() {
	t.TableLock = FakeLock{}
}

// SetMultiThreadedMode guards entries with a lock. An entry spans four
// words, so unguarded concurrent stores could tear it.
func (t *TranspositionTable) SetMultiThreadedMode() {
	t.TableLock = new(sync.RWMutex)
}

func (t *TranspositionTable) lookup(zval uint64, depth int) (TableEntry, bool) {
	t.RLock()
	defer t.RUnlock()
	t.lookups.Add(1)
	e := t.table[zval&t.sizeMask]
	if e.hash != zval || int(e.depth) != depth {
		if e.valid() {
			t.t2collisions.Add(1)
		}
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return e, true
}

func (t *TranspositionTable) store(zval uint64, depth int, c counts) {
	e := TableEntry{
		hash:       zval,
		nodes:      c.nodes,
		chainMoves: c.chainMoves,
		deadEnds:   uint32(min(c.deadEnds, math.MaxUint32)),
		maxChain:   uint8(c.maxChain),
		depth:      uint8(depth),
	}
	t.Lock()
	defer t.Unlock()
	// always replace
	t.table[zval&t.sizeMask] = e
	t.created.Add(1)
}

// Reset sizes the table to roughly fractionOfMemory of system memory,
// rounded down to a power of two, and empties it.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	if t.TableLock == nil {
		t.TableLock = FakeLock{}
	}
	t.Lock()
	defer t.Unlock()
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = int(math.Log2(desiredNElems))
	if desiredNElems < 1 || t.sizePowerOf2 < minSizePowerOf2 {
		t.sizePowerOf2 = minSizePowerOf2
	}
	if t.sizePowerOf2 > maxSizePowerOf2 {
		t.sizePowerOf2 = maxSizePowerOf2
	}

	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}

	if t.zobrist == nil {
		log.Info().Msg("creating zobrist hash")
		t.zobrist = &zobrist.Zobrist{}
		t.zobrist.Initialize()
	}

	log.Info().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

func (t *TranspositionTable) Zobrist() *zobrist.Zobrist {
	return t.zobrist
}

// TableStats is a snapshot of the table counters since the last Reset.
type TableStats struct {
	Created      uint64
	Lookups      uint64
	Hits         uint64
	T2Collisions uint64
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Created:      t.created.Load(),
		Lookups:      t.lookups.Load(),
		Hits:         t.hits.Load(),
		T2Collisions: t.t2collisions.Load(),
	}
}
