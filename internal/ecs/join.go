package ecs

import (
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// Row2 is one entity yielded by Join2 with pointers to its components.
// Components reached through a ReadView must not be modified.
type Row2[A, B any] struct {
	Entity Entity
	A      *A
	B      *B
}

// Row3 is one entity yielded by Join3.
type Row3[A, B, C any] struct {
	Entity Entity
	A      *A
	B      *B
	C      *C
}

// Join2 yields every live entity that has both an A and a B component,
// in ascending entity index order.
func Join2[A, B any](a Viewer[A], b Viewer[B]) iter.Seq[Row2[A, B]] {
	w := sameWorld(a.owner(), b.owner())
	ta, tb := a.source(), b.source()

	return func(yield func(Row2[A, B]) bool) {
		mask := intersect(w, ta.present, tb.present)
		for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
			row := Row2[A, B]{
				Entity: w.entityAt(uint32(i)),
				A:      &ta.values[i],
				B:      &tb.values[i],
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Join3 yields every live entity that has an A, a B and a C component,
// in ascending entity index order.
func Join3[A, B, C any](a Viewer[A], b Viewer[B], c Viewer[C]) iter.Seq[Row3[A, B, C]] {
	w := sameWorld(sameWorld(a.owner(), b.owner()), c.owner())
	ta, tb, tc := a.source(), b.source(), c.source()

	return func(yield func(Row3[A, B, C]) bool) {
		mask := intersect(w, ta.present, tb.present, tc.present)
		for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
			row := Row3[A, B, C]{
				Entity: w.entityAt(uint32(i)),
				A:      &ta.values[i],
				B:      &tb.values[i],
				C:      &tc.values[i],
			}
			if !yield(row) {
				return
			}
		}
	}
}

// intersect ANDs the presence sets with the alive set into a fresh bitset.
func intersect(w *World, sets ...*bitset.BitSet) *bitset.BitSet {
	mask := w.alive.Clone()
	for _, s := range sets {
		mask.InPlaceIntersection(s)
	}
	return mask
}

func sameWorld(a, b *World) *World {
	if a != b {
		panic("ecs: join across different worlds")
	}
	return a
}
