// Package ecs is a small entity-component store.
//
// Components of one type live in a table indexed by the entity's dense index,
// with a presence bitset per table. Views borrow a table for reading or
// writing; joins intersect the presence bitsets of the tables they read.
// Entity creation and destruction are staged and applied by World.Maintain.
package ecs

import "fmt"

// Entity identifies an entity in a World. The zero Entity is never valid.
type Entity struct {
	index      uint32
	generation uint32
}

// Index returns the entity's slot in the component tables.
func (e Entity) Index() uint32 { return e.index }

// Generation returns how many times the slot has been reused.
func (e Entity) Generation() uint32 { return e.generation }

// IsZero reports whether e is the zero Entity.
func (e Entity) IsZero() bool { return e.generation == 0 }

// String returns a compact "index.generation" form for logs.
func (e Entity) String() string {
	return fmt.Sprintf("%d.%d", e.index, e.generation)
}
