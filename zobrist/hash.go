package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/puyo"
)

const bignum = 1<<63 - 2

// MaxDepth bounds the remaining-depth component a search may mix in.
const MaxDepth = 64

// Zobrist hashes a well as the xor of one random value per occupied cell.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable   [puyo.Cells][puyo.NumColors]uint64
	depthTable [MaxDepth + 1]uint64
}

func (z *Zobrist) Initialize() {
	for i := range z.posTable {
		// Empty cells hash to zero so an empty well hashes to zero.
		for c := 1; c < puyo.NumColors; c++ {
			z.posTable[i][c] = frand.Uint64n(bignum) + 1
		}
	}
	for d := range z.depthTable {
		z.depthTable[d] = frand.Uint64n(bignum) + 1
	}
}

func (z *Zobrist) Hash(d board.Displayer) uint64 {
	key := uint64(0)
	for p, c := range d.Cells() {
		key ^= z.posTable[p.Index()][c]
	}
	return key
}

// Toggle adds c at p to the hash, or takes it back out if it was there.
func (z *Zobrist) Toggle(key uint64, p puyo.Position, c puyo.Color) uint64 {
	return key ^ z.posTable[p.Index()][c]
}

// WithDepth mixes a remaining search depth into key. Applying it twice
// removes it again.
func (z *Zobrist) WithDepth(key uint64, depth int) uint64 {
	return key ^ z.depthTable[depth]
}
