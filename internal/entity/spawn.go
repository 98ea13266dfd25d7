package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonsight/internal/ecs"
	"github.com/samdwyer/dungeonsight/internal/gamedata"
)

// PlayerGlyph is the player's on-screen symbol.
const PlayerGlyph = '@'

// DefaultSightRange is the player's viewshed range when none is configured.
const DefaultSightRange = 8

// SpawnPlayer stages the player at (x, y). The entity becomes alive at the
// next World.Maintain.
func SpawnPlayer(w *ecs.World, x, y, sightRange int) (ecs.Entity, error) {
	if sightRange <= 0 {
		sightRange = DefaultSightRange
	}
	b := w.Create()
	ecs.With(b, Position{X: x, Y: y})
	ecs.With(b, Renderable{Glyph: PlayerGlyph, FG: tcell.ColorYellow, BG: tcell.ColorBlack})
	ecs.With(b, NewViewshed(sightRange))
	ecs.With(b, Player{})
	ecs.With(b, Name{Text: "Player"})
	return b.Build()
}

// SpawnMonster stages a monster of kind def at (x, y).
func SpawnMonster(w *ecs.World, def *gamedata.MonsterDef, x, y int) (ecs.Entity, error) {
	b := w.Create()
	ecs.With(b, Position{X: x, Y: y})
	ecs.With(b, Renderable{Glyph: def.GlyphRune(), FG: def.TCellColor(), BG: tcell.ColorBlack})
	ecs.With(b, NewViewshed(def.Sight))
	ecs.With(b, Monster{})
	ecs.With(b, BlocksTile{})
	ecs.With(b, Name{Text: def.Name})
	ecs.With(b, Kind{ID: def.ID})
	return b.Build()
}
