package ecs

import (
	"reflect"

	"github.com/bits-and-blooms/bitset"
	"github.com/rotisserie/eris"
)

// anyTable is the type-erased side of a table, used by World for staging,
// destruction and borrow bookkeeping.
type anyTable interface {
	name() string
	insertAny(index uint32, value any) error
	remove(index uint32)
	count() uint
	borrowed() bool
}

// table stores every component of type T in a slice indexed by entity index.
type table[T any] struct {
	typeName string
	present  *bitset.BitSet
	values   []T

	readers int
	writing bool
}

func newTable[T any]() *table[T] {
	return &table[T]{
		typeName: reflect.TypeFor[T]().String(),
		present:  bitset.New(64),
		values:   make([]T, 0, 64),
	}
}

func (t *table[T]) name() string { return t.typeName }

func (t *table[T]) insert(index uint32, value T) {
	if n := int(index) + 1; n > len(t.values) {
		t.values = append(t.values, make([]T, n-len(t.values))...)
	}
	t.values[index] = value
	t.present.Set(uint(index))
}

func (t *table[T]) insertAny(index uint32, value any) error {
	v, ok := value.(T)
	if !ok {
		return eris.Errorf("value of type %T staged for %s", value, t.typeName)
	}
	t.insert(index, v)
	return nil
}

func (t *table[T]) remove(index uint32) {
	if !t.has(index) {
		return
	}
	var zero T
	t.values[index] = zero
	t.present.Clear(uint(index))
}

func (t *table[T]) has(index uint32) bool {
	return t.present.Test(uint(index))
}

func (t *table[T]) count() uint {
	return t.present.Count()
}

func (t *table[T]) borrowed() bool {
	return t.readers > 0 || t.writing
}

func (t *table[T]) acquireRead() error {
	if t.writing {
		return eris.Wrapf(ErrBorrowConflict, "%s is borrowed for writing", t.typeName)
	}
	t.readers++
	return nil
}

func (t *table[T]) acquireWrite() error {
	if t.writing || t.readers > 0 {
		return eris.Wrapf(ErrBorrowConflict, "%s has %d readers, writing=%v", t.typeName, t.readers, t.writing)
	}
	t.writing = true
	return nil
}
