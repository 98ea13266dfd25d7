package world

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonsight/internal/telemetry"
)

const (
	// Default dungeon dimensions
	DefaultWidth  = 80
	DefaultHeight = 50

	// Rooms-and-corridors parameters
	DefaultMaxRooms    = 30
	DefaultMinRoomSize = 6
	DefaultMaxRoomSize = 10
)

// Rand is the random source the generator draws from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Params controls dungeon generation.
type Params struct {
	Width       int
	Height      int
	MaxRooms    int // Placement attempts; rejected attempts are not retried
	MinRoomSize int
	MaxRoomSize int
}

// DefaultParams returns the standard 80x50 rooms-and-corridors layout.
func DefaultParams() Params {
	return Params{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		MaxRooms:    DefaultMaxRooms,
		MinRoomSize: DefaultMinRoomSize,
		MaxRoomSize: DefaultMaxRoomSize,
	}
}

// Validate checks that every room the parameters allow fits inside the border.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid map size %dx%d", p.Width, p.Height)
	}
	if p.MaxRooms < 0 {
		return fmt.Errorf("invalid max rooms %d", p.MaxRooms)
	}
	// A room needs at least one interior tile for its center to be floor.
	if p.MinRoomSize < 2 || p.MinRoomSize > p.MaxRoomSize {
		return fmt.Errorf("invalid room size range [%d, %d]", p.MinRoomSize, p.MaxRoomSize)
	}
	if p.MaxRoomSize+2 > p.Width || p.MaxRoomSize+2 > p.Height {
		return fmt.Errorf("room size %d does not fit a %dx%d map", p.MaxRoomSize, p.Width, p.Height)
	}
	return nil
}

// Generate builds a rooms-and-corridors dungeon.
//
// Each of MaxRooms attempts samples a room and keeps it only if it does not
// intersect an accepted room, so the final room count may be lower. Every
// accepted room after the first is joined to the previous one by an L-shaped
// corridor. The first room's center is the player spawn point.
func Generate(ctx context.Context, p Params, rng Rand) (*Map, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()
	m := NewMap(p.Width, p.Height)

	for range p.MaxRooms {
		w := p.MinRoomSize + rng.Intn(p.MaxRoomSize-p.MinRoomSize+1)
		h := p.MinRoomSize + rng.Intn(p.MaxRoomSize-p.MinRoomSize+1)
		x := 1 + rng.Intn(p.Width-w-1)
		y := 1 + rng.Intn(p.Height-h-1)
		candidate := NewRect(x, y, w, h)

		if m.intersectsAny(candidate) {
			continue
		}

		m.CarveRoom(candidate)
		if n := len(m.Rooms); n > 0 {
			m.ConnectRooms(m.Rooms[n-1], candidate, rng.Intn(2) == 1)
		}
		m.Rooms = append(m.Rooms, candidate)
	}

	span.SetAttributes(
		attribute.Int("dungeon.width", m.Width),
		attribute.Int("dungeon.height", m.Height),
		attribute.Int("dungeon.max_rooms", p.MaxRooms),
		attribute.Int("dungeon.room_count", len(m.Rooms)),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return m, nil
}

func (m *Map) intersectsAny(r Rect) bool {
	for _, other := range m.Rooms {
		if r.Intersect(other) {
			return true
		}
	}
	return false
}

// CarveRoom sets every tile strictly inside the room's bounds to floor.
// The room must lie on the grid.
func (m *Map) CarveRoom(room Rect) {
	for y := room.Y1 + 1; y < room.Y2; y++ {
		for x := room.X1 + 1; x < room.X2; x++ {
			m.tiles[m.Idx(x, y)] = TileFloor
		}
	}
}

// ConnectRooms carves an L-shaped corridor from the center of from to the
// center of to, horizontal leg first when horizontalFirst is set.
func (m *Map) ConnectRooms(from, to Rect, horizontalFirst bool) {
	x1, y1 := from.Center()
	x2, y2 := to.Center()

	if horizontalFirst {
		m.CarveHorizontalTunnel(x1, x2, y1)
		m.CarveVerticalTunnel(y1, y2, x2)
	} else {
		m.CarveVerticalTunnel(y1, y2, x1)
		m.CarveHorizontalTunnel(x1, x2, y2)
	}
}

// CarveHorizontalTunnel carves floor along row y between x1 and x2 inclusive.
// Indices outside the tile sequence are skipped.
func (m *Map) CarveHorizontalTunnel(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		m.carve(m.Idx(x, y))
	}
}

// CarveVerticalTunnel carves floor along column x between y1 and y2 inclusive.
// Indices outside the tile sequence are skipped.
func (m *Map) CarveVerticalTunnel(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		m.carve(m.Idx(x, y))
	}
}

// carve only checks the flat range: a coordinate off either side of a row
// lands on the neighbouring row. Rooms are always placed inside the border so
// generated corridors never get there.
func (m *Map) carve(idx int) {
	if idx >= 0 && idx < len(m.tiles) {
		m.tiles[idx] = TileFloor
	}
}
