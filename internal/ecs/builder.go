package ecs

import "reflect"

// Builder collects the initial components of a new entity. Nothing reaches the
// component tables until Build stages the entity and World.Maintain commits it.
//
//	b := w.Create()
//	ecs.With(b, Position{X: 1, Y: 2})
//	ecs.With(b, Player{})
//	e, err := b.Build()
type Builder struct {
	world  *World
	values []stagedValue
	types  map[reflect.Type]int
	err    error
	built  bool
}

// Create starts building a new entity.
func (w *World) Create() *Builder {
	return &Builder{
		world: w,
		types: make(map[reflect.Type]int),
	}
}

// With adds a component to the entity being built. A second value of the same
// type replaces the first. Using an unregistered type fails the Build.
func With[T any](b *Builder, component T) *Builder {
	if b.built {
		panic("ecs: entity already built - cannot add components after Build()")
	}
	if b.err != nil {
		return b
	}

	t, err := lookup[T](b.world)
	if err != nil {
		b.err = err
		return b
	}

	key := reflect.TypeFor[T]()
	if i, ok := b.types[key]; ok {
		b.values[i].value = component
		return b
	}
	b.types[key] = len(b.values)
	b.values = append(b.values, stagedValue{table: t, value: component})
	return b
}

// Build stages the entity and returns its identity. The entity is not alive,
// and not visible to views, until the next World.Maintain.
func (b *Builder) Build() (Entity, error) {
	if b.built {
		panic("ecs: Build() called twice")
	}
	b.built = true
	if b.err != nil {
		return Entity{}, b.err
	}

	e := b.world.reserve()
	b.world.pending = append(b.world.pending, staged{entity: e, values: b.values})
	return e, nil
}
