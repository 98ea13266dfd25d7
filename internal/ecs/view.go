package ecs

// Viewer is implemented by ReadView and WriteView so both can take part in joins.
type Viewer[T any] interface {
	source() *table[T]
	owner() *World
}

// ReadView is a shared borrow of every component of type T.
// Any number of ReadViews may coexist; none may coexist with a WriteView.
type ReadView[T any] struct {
	world    *World
	table    *table[T]
	released bool
}

// Read borrows the T table for reading. Release the view when done.
func Read[T any](w *World) (*ReadView[T], error) {
	t, err := lookup[T](w)
	if err != nil {
		return nil, err
	}
	if err := t.acquireRead(); err != nil {
		return nil, err
	}
	return &ReadView[T]{world: w, table: t}, nil
}

// Get returns a copy of e's component. ok is false when e has none or is not alive.
func (v *ReadView[T]) Get(e Entity) (value T, ok bool) {
	t := v.source()
	if !v.world.Alive(e) || !t.has(e.index) {
		return value, false
	}
	return t.values[e.index], true
}

// Has reports whether e has a T component.
func (v *ReadView[T]) Has(e Entity) bool {
	return v.world.Alive(e) && v.source().has(e.index)
}

// Len returns the number of stored T components.
func (v *ReadView[T]) Len() int {
	return int(v.source().count())
}

// Release ends the borrow. Releasing twice is a no-op.
func (v *ReadView[T]) Release() {
	if v.released {
		return
	}
	v.released = true
	v.table.readers--
}

func (v *ReadView[T]) source() *table[T] {
	if v.released {
		panic("ecs: use of released view on " + v.table.typeName)
	}
	return v.table
}

func (v *ReadView[T]) owner() *World { return v.world }

// WriteView is an exclusive borrow of every component of type T.
type WriteView[T any] struct {
	world    *World
	table    *table[T]
	released bool
}

// Write borrows the T table exclusively. Release the view when done.
func Write[T any](w *World) (*WriteView[T], error) {
	t, err := lookup[T](w)
	if err != nil {
		return nil, err
	}
	if err := t.acquireWrite(); err != nil {
		return nil, err
	}
	return &WriteView[T]{world: w, table: t}, nil
}

// Get returns e's component for in-place mutation. ok is false when e has
// none or is not alive. The pointer is valid until the view is released.
func (v *WriteView[T]) Get(e Entity) (*T, bool) {
	t := v.source()
	if !v.world.Alive(e) || !t.has(e.index) {
		return nil, false
	}
	return &t.values[e.index], true
}

// Has reports whether e has a T component.
func (v *WriteView[T]) Has(e Entity) bool {
	return v.world.Alive(e) && v.source().has(e.index)
}

// Len returns the number of stored T components.
func (v *WriteView[T]) Len() int {
	return int(v.source().count())
}

// Release ends the borrow. Releasing twice is a no-op.
func (v *WriteView[T]) Release() {
	if v.released {
		return
	}
	v.released = true
	v.table.writing = false
}

func (v *WriteView[T]) source() *table[T] {
	if v.released {
		panic("ecs: use of released view on " + v.table.typeName)
	}
	return v.table
}

func (v *WriteView[T]) owner() *World { return v.world }
