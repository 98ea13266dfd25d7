package ecs

import (
	"reflect"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World owns every entity and component table.
//
// A World is not safe for concurrent use; it is driven by one tick loop.
type World struct {
	tables map[reflect.Type]anyTable

	generations []uint32 // per slot, bumped on destroy
	free        []uint32
	alive       *bitset.BitSet

	pending []staged
	doomed  []Entity

	logger zerolog.Logger
}

// staged is an entity built but not yet committed.
type staged struct {
	entity Entity
	values []stagedValue
}

type stagedValue struct {
	table anyTable
	value any
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for commit and registration events.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates an empty World.
func NewWorld(opts ...Option) *World {
	w := &World{
		tables: make(map[reflect.Type]anyTable),
		alive:  bitset.New(64),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register declares T as a storable component type. Registering twice is a no-op.
func Register[T any](w *World) {
	key := reflect.TypeFor[T]()
	if _, ok := w.tables[key]; ok {
		return
	}
	t := newTable[T]()
	w.tables[key] = t
	w.logger.Debug().Str("component_name", t.name()).Int("total_components", len(w.tables)).Msg("component registered")
}

func lookup[T any](w *World) (*table[T], error) {
	t, ok := w.tables[reflect.TypeFor[T]()]
	if !ok {
		return nil, eris.Wrapf(ErrNotRegistered, "%s", reflect.TypeFor[T]())
	}
	return t.(*table[T]), nil
}

// ComponentNames returns the registered component type names, sorted.
func (w *World) ComponentNames() []string {
	names := make([]string, 0, len(w.tables))
	for _, t := range w.tables {
		names = append(names, t.name())
	}
	sort.Strings(names)
	return names
}

// Alive reports whether e has been committed and not destroyed since.
func (w *World) Alive(e Entity) bool {
	if e.IsZero() || int(e.index) >= len(w.generations) {
		return false
	}
	return w.generations[e.index] == e.generation && w.alive.Test(uint(e.index))
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return int(w.alive.Count())
}

// Pending returns the number of staged creations and destructions.
func (w *World) Pending() int {
	return len(w.pending) + len(w.doomed)
}

// Destroy stages e and all its components for removal at the next Maintain.
func (w *World) Destroy(e Entity) error {
	if !w.Alive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "destroy %s", e)
	}
	w.doomed = append(w.doomed, e)
	return nil
}

// Maintain commits staged entities and applies staged destructions.
// It fails with ErrBorrowConflict while any view is outstanding.
func (w *World) Maintain() error {
	for _, t := range w.tables {
		if t.borrowed() {
			return eris.Wrapf(ErrBorrowConflict, "maintain while %s is borrowed", t.name())
		}
	}

	destroyed := 0
	for _, e := range w.doomed {
		if !w.Alive(e) {
			continue // destroyed twice in one tick
		}
		for _, t := range w.tables {
			t.remove(e.index)
		}
		w.alive.Clear(uint(e.index))
		w.generations[e.index]++
		w.free = append(w.free, e.index)
		destroyed++
	}
	w.doomed = w.doomed[:0]

	created := len(w.pending)
	for _, s := range w.pending {
		for _, v := range s.values {
			if err := v.table.insertAny(s.entity.index, v.value); err != nil {
				return err
			}
		}
		w.alive.Set(uint(s.entity.index))
	}
	w.pending = w.pending[:0]

	if created > 0 || destroyed > 0 {
		w.logger.Debug().
			Int("created", created).
			Int("destroyed", destroyed).
			Int("alive", w.Len()).
			Msg("world maintained")
	}
	return nil
}

// reserve hands out a slot for a staged entity. Slots freed by Maintain are reused
// with a bumped generation.
func (w *World) reserve() Entity {
	if n := len(w.free); n > 0 {
		index := w.free[n-1]
		w.free = w.free[:n-1]
		return Entity{index: index, generation: w.generations[index]}
	}
	index := uint32(len(w.generations))
	w.generations = append(w.generations, 1)
	return Entity{index: index, generation: 1}
}

func (w *World) entityAt(index uint32) Entity {
	return Entity{index: index, generation: w.generations[index]}
}
