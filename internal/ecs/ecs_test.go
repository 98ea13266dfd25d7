package ecs_test

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeonsight/internal/ecs"
)

type position struct{ X, Y int }

type glyph struct{ Rune rune }

type health struct{ HP int }

type marker struct{}

func newWorld() *ecs.World {
	w := ecs.NewWorld()
	ecs.Register[position](w)
	ecs.Register[glyph](w)
	ecs.Register[health](w)
	ecs.Register[marker](w)
	return w
}

func spawn(t *testing.T, w *ecs.World, build func(*ecs.Builder)) ecs.Entity {
	t.Helper()
	b := w.Create()
	build(b)
	e, err := b.Build()
	require.NoError(t, err)
	return e
}

func TestCreateIsStagedUntilMaintain(t *testing.T) {
	w := newWorld()
	e := spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, position{X: 1, Y: 2})
	})

	assert.False(t, e.IsZero())
	assert.False(t, w.Alive(e))
	assert.Equal(t, 1, w.Pending())

	positions, err := ecs.Read[position](w)
	require.NoError(t, err)
	_, ok := positions.Get(e)
	assert.False(t, ok, "staged entity must not be visible before Maintain")
	assert.Equal(t, 0, positions.Len())
	positions.Release()

	require.NoError(t, w.Maintain())
	assert.True(t, w.Alive(e))
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 1, w.Len())

	positions, err = ecs.Read[position](w)
	require.NoError(t, err)
	defer positions.Release()
	got, ok := positions.Get(e)
	require.True(t, ok)
	assert.Equal(t, position{X: 1, Y: 2}, got)
}

func TestJoinReturnsOnlyEntitiesWithEveryComponent(t *testing.T) {
	w := newWorld()
	a := spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, position{X: 1, Y: 1})
		ecs.With(b, glyph{Rune: '@'})
	})
	spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, position{X: 2, Y: 2})
	})
	spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, glyph{Rune: 'g'})
	})
	require.NoError(t, w.Maintain())

	positions, err := ecs.Read[position](w)
	require.NoError(t, err)
	defer positions.Release()
	glyphs, err := ecs.Read[glyph](w)
	require.NoError(t, err)
	defer glyphs.Release()

	var got []ecs.Entity
	for row := range ecs.Join2(positions, glyphs) {
		got = append(got, row.Entity)
		assert.Equal(t, position{X: 1, Y: 1}, *row.A)
		assert.Equal(t, '@', row.B.Rune)
	}
	assert.Equal(t, []ecs.Entity{a}, got)
}

func TestJoin3AndOrdering(t *testing.T) {
	w := newWorld()
	var want []ecs.Entity
	for i := range 5 {
		e := spawn(t, w, func(b *ecs.Builder) {
			ecs.With(b, position{X: i})
			ecs.With(b, health{HP: 10 * i})
			if i%2 == 0 {
				ecs.With(b, marker{})
			}
		})
		if i%2 == 0 {
			want = append(want, e)
		}
	}
	require.NoError(t, w.Maintain())

	positions, err := ecs.Read[position](w)
	require.NoError(t, err)
	defer positions.Release()
	healths, err := ecs.Read[health](w)
	require.NoError(t, err)
	defer healths.Release()
	markers, err := ecs.Read[marker](w)
	require.NoError(t, err)
	defer markers.Release()

	var first, second []ecs.Entity
	for row := range ecs.Join3(positions, healths, markers) {
		first = append(first, row.Entity)
		assert.Equal(t, row.A.X*10, row.B.HP)
	}
	for row := range ecs.Join3(positions, healths, markers) {
		second = append(second, row.Entity)
	}
	assert.Equal(t, want, first)
	assert.Equal(t, first, second, "join order must be stable")
}

func TestJoinStopsEarly(t *testing.T) {
	w := newWorld()
	for range 3 {
		spawn(t, w, func(b *ecs.Builder) {
			ecs.With(b, position{})
			ecs.With(b, glyph{})
		})
	}
	require.NoError(t, w.Maintain())

	positions, err := ecs.Read[position](w)
	require.NoError(t, err)
	defer positions.Release()
	glyphs, err := ecs.Read[glyph](w)
	require.NoError(t, err)
	defer glyphs.Release()

	n := 0
	for range ecs.Join2(positions, glyphs) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestWriteViewMutatesInPlace(t *testing.T) {
	w := newWorld()
	e := spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, position{X: 1, Y: 1})
		ecs.With(b, glyph{Rune: '@'})
	})
	require.NoError(t, w.Maintain())

	positions, err := ecs.Write[position](w)
	require.NoError(t, err)
	glyphs, err := ecs.Read[glyph](w)
	require.NoError(t, err)
	for row := range ecs.Join2(positions, glyphs) {
		row.A.X += 5
	}
	p, ok := positions.Get(e)
	require.True(t, ok)
	p.Y = 9
	positions.Release()
	glyphs.Release()

	read, err := ecs.Read[position](w)
	require.NoError(t, err)
	defer read.Release()
	got, ok := read.Get(e)
	require.True(t, ok)
	assert.Equal(t, position{X: 6, Y: 9}, got)
}

func TestLookupReportsAbsence(t *testing.T) {
	w := newWorld()
	e := spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, position{})
	})
	require.NoError(t, w.Maintain())

	glyphs, err := ecs.Write[glyph](w)
	require.NoError(t, err)
	defer glyphs.Release()

	got, ok := glyphs.Get(e)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, glyphs.Has(e))
}

func TestUnregisteredComponent(t *testing.T) {
	w := ecs.NewWorld()
	ecs.Register[position](w)

	_, err := ecs.Read[glyph](w)
	assert.True(t, eris.Is(err, ecs.ErrNotRegistered), "got %v", err)

	_, err = ecs.Write[glyph](w)
	assert.True(t, eris.Is(err, ecs.ErrNotRegistered), "got %v", err)

	b := w.Create()
	ecs.With(b, position{})
	ecs.With(b, glyph{})
	e, err := b.Build()
	assert.True(t, eris.Is(err, ecs.ErrNotRegistered), "got %v", err)
	assert.True(t, e.IsZero())
	assert.Equal(t, 0, w.Pending())
}

func TestBorrowRules(t *testing.T) {
	w := newWorld()

	r1, err := ecs.Read[position](w)
	require.NoError(t, err)
	r2, err := ecs.Read[position](w)
	require.NoError(t, err, "shared reads may coexist")

	_, err = ecs.Write[position](w)
	assert.True(t, eris.Is(err, ecs.ErrBorrowConflict), "write during read: %v", err)

	r1.Release()
	_, err = ecs.Write[position](w)
	assert.True(t, eris.Is(err, ecs.ErrBorrowConflict), "write while one reader remains: %v", err)

	r2.Release()
	wv, err := ecs.Write[position](w)
	require.NoError(t, err)

	_, err = ecs.Read[position](w)
	assert.True(t, eris.Is(err, ecs.ErrBorrowConflict), "read during write: %v", err)
	_, err = ecs.Write[position](w)
	assert.True(t, eris.Is(err, ecs.ErrBorrowConflict), "second writer: %v", err)

	// Other tables are unaffected.
	other, err := ecs.Write[glyph](w)
	require.NoError(t, err)
	other.Release()

	err = w.Maintain()
	assert.True(t, eris.Is(err, ecs.ErrBorrowConflict), "maintain during borrow: %v", err)

	wv.Release()
	wv.Release()
	require.NoError(t, w.Maintain())
}

func TestReleasedViewPanics(t *testing.T) {
	w := newWorld()
	v, err := ecs.Read[position](w)
	require.NoError(t, err)
	v.Release()

	assert.Panics(t, func() { v.Len() })
}

func TestDestroyAndSlotReuse(t *testing.T) {
	w := newWorld()
	e := spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, position{X: 3})
		ecs.With(b, glyph{Rune: 'x'})
	})
	require.NoError(t, w.Maintain())

	require.NoError(t, w.Destroy(e))
	assert.True(t, w.Alive(e), "destruction is staged")
	require.NoError(t, w.Maintain())
	assert.False(t, w.Alive(e))
	assert.Equal(t, 0, w.Len())

	err := w.Destroy(e)
	assert.True(t, eris.Is(err, ecs.ErrEntityNotAlive), "got %v", err)

	reused := spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, position{X: 7})
	})
	require.NoError(t, w.Maintain())
	assert.Equal(t, e.Index(), reused.Index())
	assert.NotEqual(t, e.Generation(), reused.Generation())

	positions, err := ecs.Read[position](w)
	require.NoError(t, err)
	defer positions.Release()
	glyphs, err := ecs.Read[glyph](w)
	require.NoError(t, err)
	defer glyphs.Release()

	_, ok := positions.Get(e)
	assert.False(t, ok, "stale handle must not see the new occupant")
	got, ok := positions.Get(reused)
	require.True(t, ok)
	assert.Equal(t, 7, got.X)
	assert.False(t, glyphs.Has(reused), "components of the old occupant are gone")
}

func TestWithReplacesSameType(t *testing.T) {
	w := newWorld()
	e := spawn(t, w, func(b *ecs.Builder) {
		ecs.With(b, position{X: 1})
		ecs.With(b, position{X: 2})
	})
	require.NoError(t, w.Maintain())

	positions, err := ecs.Read[position](w)
	require.NoError(t, err)
	defer positions.Release()
	got, _ := positions.Get(e)
	assert.Equal(t, 2, got.X)
	assert.Equal(t, 1, positions.Len())
}

func TestBuildTwicePanics(t *testing.T) {
	w := newWorld()
	b := w.Create()
	_, err := b.Build()
	require.NoError(t, err)
	assert.Panics(t, func() { _, _ = b.Build() })
	assert.Panics(t, func() { ecs.With(b, position{}) })
}

func TestComponentNames(t *testing.T) {
	w := newWorld()
	ecs.Register[position](w)

	assert.Equal(t, []string{
		"ecs_test.glyph",
		"ecs_test.health",
		"ecs_test.marker",
		"ecs_test.position",
	}, w.ComponentNames())
}
