package world

// Map is a row-major tile grid plus the per-tile reveal and visibility
// state of the player's view. Index a tile with Idx.
type Map struct {
	Width  int
	Height int
	Rooms  []Rect // Accepted rooms in generation order

	tiles    []Tile
	revealed []bool
	visible  []bool
}

// NewMap creates a map filled with walls.
func NewMap(width, height int) *Map {
	n := width * height
	tiles := make([]Tile, n)
	for i := range tiles {
		tiles[i] = TileWall
	}

	return &Map{
		Width:    width,
		Height:   height,
		Rooms:    make([]Rect, 0),
		tiles:    tiles,
		revealed: make([]bool, n),
		visible:  make([]bool, n),
	}
}

// Idx converts a coordinate to its index in the flat tile sequence.
// Coordinates are not checked; use InBounds first when they may be outside the grid.
func (m *Map) Idx(x, y int) int {
	return y*m.Width + x
}

// Coords converts an index back to its coordinate.
func (m *Map) Coords(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

// Len returns the number of tiles.
func (m *Map) Len() int {
	return len(m.tiles)
}

// InBounds returns true if the coordinate lies on the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// IsOpaque reports whether the tile at idx blocks line of sight.
func (m *Map) IsOpaque(idx int) bool {
	return m.tiles[idx].IsOpaque()
}

// IsOpaqueAt reports whether the tile at (x, y) blocks line of sight.
// Everything off the grid is opaque.
func (m *Map) IsOpaqueAt(x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	return m.IsOpaque(m.Idx(x, y))
}

// Tile returns the tile at idx.
func (m *Map) Tile(idx int) Tile {
	return m.tiles[idx]
}

// SetTile replaces the tile at idx.
func (m *Map) SetTile(idx int, t Tile) {
	m.tiles[idx] = t
}

// TileAt returns the tile at the given position. Off-grid positions read as walls.
func (m *Map) TileAt(x, y int) Tile {
	if !m.InBounds(x, y) {
		return TileWall
	}
	return m.tiles[m.Idx(x, y)]
}

// IsPassable returns true if the given position can be walked on.
func (m *Map) IsPassable(x, y int) bool {
	return m.TileAt(x, y).IsPassable()
}

// IsRevealed reports whether the player has ever seen the tile at idx.
func (m *Map) IsRevealed(idx int) bool {
	return m.revealed[idx]
}

// Reveal marks the tile at idx as seen. Reveal state is never cleared.
func (m *Map) Reveal(idx int) {
	m.revealed[idx] = true
}

// RevealedCount returns the number of revealed tiles.
func (m *Map) RevealedCount() int {
	n := 0
	for _, r := range m.revealed {
		if r {
			n++
		}
	}
	return n
}

// IsVisible reports whether the tile at idx is in the player's current view.
func (m *Map) IsVisible(idx int) bool {
	return m.visible[idx]
}

// SetVisible marks the tile at idx as currently visible.
func (m *Map) SetVisible(idx int) {
	m.visible[idx] = true
}

// ClearVisible resets the current view.
func (m *Map) ClearVisible() {
	clear(m.visible)
}

// RoomIndexAt returns the index of the room containing the position, or -1 if not in a room.
func (m *Map) RoomIndexAt(x, y int) int {
	for i, room := range m.Rooms {
		if room.Contains(x, y) {
			return i
		}
	}
	return -1
}

// SpawnPoint returns the center of the first room. ok is false when no room was placed.
func (m *Map) SpawnPoint() (x, y int, ok bool) {
	if len(m.Rooms) == 0 {
		return 0, 0, false
	}
	x, y = m.Rooms[0].Center()
	return x, y, true
}
