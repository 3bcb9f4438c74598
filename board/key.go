package board

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash"

	"github.com/domino14/nazo/puyo"
)

const (
	cellBits  = 3
	cellMask  = 1<<cellBits - 1
	keyLength = puyo.Columns * 8
)

// Key identifies a board state independently of its representation: two
// boards with the same cells have equal keys, whatever their packing. It is
// comparable and can be used directly as a map key.
type Key struct {
	cols [puyo.Columns]uint64
}

// ColumnKey is the canonical encoding of one column inside a Key: 3 bits
// per row, row 0 in the low bits.
type ColumnKey = uint64

// MakeKey builds a key from canonical column encodings.
func MakeKey(cols [puyo.Columns]ColumnKey) Key {
	return Key{cols: cols}
}

// KeyOf builds the key of any board from its cell enumeration.
func KeyOf(d Displayer) Key {
	var k Key
	for p, c := range d.Cells() {
		k.cols[p.Col()] |= uint64(c) << (cellBits * p.Row())
	}
	return k
}

// Hash is a stable 64-bit hash of the key, identical across processes.
func (k Key) Hash() uint64 {
	var buf [keyLength]byte
	for i, c := range k.cols {
		binary.LittleEndian.PutUint64(buf[i*8:], c)
	}
	return xxhash.Sum64(buf[:])
}

// Get decodes a single cell from the key.
func (k Key) Get(p puyo.Position) puyo.Color {
	return puyo.Color(k.cols[p.Col()] >> (cellBits * p.Row()) & cellMask)
}

func (k Key) IsZero() bool {
	return k == Key{}
}

var spreadTable [1 << puyo.Rows]uint64

func init() {
	for m := range spreadTable {
		var v uint64
		for r := 0; r < puyo.Rows; r++ {
			if m&(1<<r) != 0 {
				v |= 1 << (cellBits * r)
			}
		}
		spreadTable[m] = v
	}
}

// SpreadRows deposits a 13-bit row mask into the low bit of each 3-bit
// field of a canonical column encoding.
func SpreadRows(rows uint16) ColumnKey {
	return spreadTable[rows&puyo.RowMask]
}

// FieldMask widens a row mask to cover whole 3-bit fields.
func FieldMask(rows uint16) ColumnKey {
	return SpreadRows(rows) * cellMask
}

// OccupiedRows returns a row mask with a bit for every non-empty field of
// a canonical column encoding.
func OccupiedRows(col ColumnKey) uint16 {
	low := (col | col>>1 | col>>2) & spreadTable[puyo.RowMask]
	var rows uint16
	for low != 0 {
		tz := bits.TrailingZeros64(low)
		rows |= 1 << (tz / cellBits)
		low &= low - 1
	}
	return rows
}
