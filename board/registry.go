package board

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrUnknownRepresentation = errors.New("unknown board representation")

// Constructor builds a board of one representation from a layout. The zero
// Grid yields an empty board. A grid that fails Validate makes it panic.
type Constructor func(g Grid) Board

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register makes a representation available by name. Representations
// register themselves from init, so importing the package is enough.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("board: Register called twice for " + name)
	}
	registry[name] = ctor
}

// New builds a board of the named representation. It rejects a grid
// holding an invalid color instead of handing it to the constructor.
func New(name string, g Grid) (Board, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownRepresentation, name, Representations())
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return ctor(g), nil
}

// Representations lists the registered names in sorted order.
func Representations() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
