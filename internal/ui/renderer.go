package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonsight/internal/ecs"
	"github.com/samdwyer/dungeonsight/internal/entity"
	"github.com/samdwyer/dungeonsight/internal/world"
)

// Tile colors while in view. Revealed tiles out of view are drawn in greyscale.
var (
	FloorColor = tcell.NewRGBColor(128, 128, 128)
	WallColor  = tcell.NewRGBColor(0, 255, 0)
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the revealed part of the map and every entity standing on a
// currently visible tile.
func (r *Renderer) Render(m *world.Map, w *ecs.World) error {
	r.screen.Clear()

	for idx := 0; idx < m.Len(); idx++ {
		if !m.IsRevealed(idx) {
			continue
		}
		x, y := m.Coords(idx)
		tile := m.Tile(idx)
		r.screen.SetContent(x, y, tile.Rune(), TileStyle(tile, m.IsVisible(idx)))
	}

	positions, err := ecs.Read[entity.Position](w)
	if err != nil {
		return err
	}
	defer positions.Release()
	renderables, err := ecs.Read[entity.Renderable](w)
	if err != nil {
		return err
	}
	defer renderables.Release()

	for row := range ecs.Join2(positions, renderables) {
		pos, rend := row.A, row.B
		if !m.InBounds(pos.X, pos.Y) || !m.IsVisible(m.Idx(pos.X, pos.Y)) {
			continue
		}
		style := tcell.StyleDefault.Foreground(rend.FG).Background(rend.BG)
		r.screen.SetContent(pos.X, pos.Y, rend.Glyph, style)
	}

	r.screen.Show()
	return nil
}

// TileStyle returns the style for a tile, dimmed to greyscale when out of view.
func TileStyle(tile world.Tile, visible bool) tcell.Style {
	var fg tcell.Color
	switch tile {
	case world.TileWall:
		fg = WallColor
	case world.TileFloor:
		fg = FloorColor
	default:
		return tcell.StyleDefault
	}
	if !visible {
		fg = Greyscale(fg)
	}
	return tcell.StyleDefault.Foreground(fg).Background(tcell.ColorBlack)
}

// Greyscale converts c to the grey of the same luminance.
func Greyscale(c tcell.Color) tcell.Color {
	red, green, blue := c.RGB()
	l := (red*299 + green*587 + blue*114) / 1000
	return tcell.NewRGBColor(l, l, l)
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
	r.screen.Show()
}
