// Package entity defines the components of the dungeon's actors and helpers
// that spawn them into an ecs.World.
package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonsight/internal/ecs"
	"github.com/samdwyer/dungeonsight/internal/fov"
)

// Position is an entity's cell on the map.
type Position struct {
	X, Y int
}

// Renderable is how an entity is drawn.
type Renderable struct {
	Glyph rune
	FG    tcell.Color
	BG    tcell.Color
}

// Viewshed holds the cells an entity can currently see.
// Visible is only meaningful while Dirty is false.
type Viewshed struct {
	Visible []fov.Point
	Range   int
	Dirty   bool
}

// NewViewshed returns a viewshed that will be computed on the next visibility pass.
func NewViewshed(sightRange int) Viewshed {
	return Viewshed{Range: sightRange, Dirty: true}
}

// CanSee reports whether (x, y) is in the last computed view.
func (v *Viewshed) CanSee(x, y int) bool {
	for _, p := range v.Visible {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

// Player marks the entity driven by input.
type Player struct{}

// Monster marks hostile entities.
type Monster struct{}

// BlocksTile marks entities that occupy their cell.
type BlocksTile struct{}

// Name is a display name.
type Name struct {
	Text string
}

// Kind records which monster definition an entity was spawned from.
type Kind struct {
	ID string
}

// Register registers every component type in this package with w.
func Register(w *ecs.World) {
	ecs.Register[Position](w)
	ecs.Register[Renderable](w)
	ecs.Register[Viewshed](w)
	ecs.Register[Player](w)
	ecs.Register[Monster](w)
	ecs.Register[BlocksTile](w)
	ecs.Register[Name](w)
	ecs.Register[Kind](w)
}
