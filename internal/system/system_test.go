package system_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeonsight/internal/ecs"
	"github.com/samdwyer/dungeonsight/internal/entity"
	"github.com/samdwyer/dungeonsight/internal/fov"
	"github.com/samdwyer/dungeonsight/internal/gamedata"
	"github.com/samdwyer/dungeonsight/internal/system"
	"github.com/samdwyer/dungeonsight/internal/world"
)

var orc = &gamedata.MonsterDef{ID: "orc", Name: "Orc", Glyph: "o", Color: "#D2691E", Sight: 6, SpawnWeight: 1}

// twoRooms is a 30x12 map with rooms interior x 3..9 and x 17..23 (y 3..7)
// joined by a corridor on row 5.
func twoRooms() *world.Map {
	m := world.NewMap(30, 12)
	left := world.NewRect(2, 2, 8, 6)
	right := world.NewRect(16, 2, 8, 6)
	m.CarveRoom(left)
	m.CarveRoom(right)
	m.Rooms = append(m.Rooms, left, right)
	m.ConnectRooms(left, right, true)
	return m
}

type fixture struct {
	ctx        context.Context
	m          *world.Map
	w          *ecs.World
	player     ecs.Entity
	visibility *system.Visibility
	movement   *system.Movement
}

func newFixture(t *testing.T, px, py int) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), m: twoRooms(), w: ecs.NewWorld()}
	entity.Register(f.w)

	var err error
	f.player, err = entity.SpawnPlayer(f.w, px, py, 8)
	require.NoError(t, err)
	require.NoError(t, f.w.Maintain())

	f.visibility = system.NewVisibility(f.m, zerolog.Nop())
	f.visibility.Revealer = f.player
	f.movement = system.NewMovement(f.m, zerolog.Nop())
	return f
}

func (f *fixture) viewshed(t *testing.T, e ecs.Entity) entity.Viewshed {
	t.Helper()
	sheds, err := ecs.Read[entity.Viewshed](f.w)
	require.NoError(t, err)
	defer sheds.Release()
	v, ok := sheds.Get(e)
	require.True(t, ok)
	return v
}

func (f *fixture) position(t *testing.T, e ecs.Entity) entity.Position {
	t.Helper()
	positions, err := ecs.Read[entity.Position](f.w)
	require.NoError(t, err)
	defer positions.Release()
	p, ok := positions.Get(e)
	require.True(t, ok)
	return p
}

func (f *fixture) visibleTiles() map[fov.Point]bool {
	got := make(map[fov.Point]bool)
	for idx := 0; idx < f.m.Len(); idx++ {
		if f.m.IsVisible(idx) {
			x, y := f.m.Coords(idx)
			got[fov.Point{X: x, Y: y}] = true
		}
	}
	return got
}

func TestVisibilityComputesDirtyViewshed(t *testing.T) {
	f := newFixture(t, 5, 5)
	require.True(t, f.viewshed(t, f.player).Dirty)

	require.NoError(t, f.visibility.Run(f.ctx, f.w))

	v := f.viewshed(t, f.player)
	assert.False(t, v.Dirty)
	assert.NotEmpty(t, v.Visible)
	assert.True(t, v.CanSee(5, 5))
}

func TestVisibilitySkipsCleanViewshed(t *testing.T) {
	f := newFixture(t, 5, 5)
	require.NoError(t, f.visibility.Run(f.ctx, f.w))
	require.NotEmpty(t, f.visibleTiles())

	f.m.ClearVisible()
	require.NoError(t, f.visibility.Run(f.ctx, f.w))

	assert.Empty(t, f.visibleTiles(), "clean viewshed must not be recomputed")
}

func TestVisibleGridMatchesLatestView(t *testing.T) {
	f := newFixture(t, 5, 5)
	require.NoError(t, f.visibility.Run(f.ctx, f.w))

	moved, err := f.movement.TryMove(f.ctx, f.w, f.player, 1, 0)
	require.NoError(t, err)
	require.True(t, moved)
	require.NoError(t, f.visibility.Run(f.ctx, f.w))

	want := make(map[fov.Point]bool)
	for _, p := range fov.Compute(fov.Point{X: 6, Y: 5}, 8, f.m) {
		if f.m.InBounds(p.X, p.Y) {
			want[p] = true
		}
	}
	assert.Equal(t, want, f.visibleTiles())

	v := f.viewshed(t, f.player)
	assert.Len(t, v.Visible, len(want))
	for _, p := range v.Visible {
		assert.True(t, want[p], "cached %v not in field of view", p)
	}
}

func TestRevealIsMonotonic(t *testing.T) {
	f := newFixture(t, 5, 5)
	require.NoError(t, f.visibility.Run(f.ctx, f.w))

	revealed := func() []bool {
		out := make([]bool, f.m.Len())
		for i := range out {
			out[i] = f.m.IsRevealed(i)
		}
		return out
	}

	prev := revealed()
	// Walk east along the corridor into the far room and back.
	steps := make([]int, 0, 30)
	for i := 0; i < 15; i++ {
		steps = append(steps, 1)
	}
	for i := 0; i < 15; i++ {
		steps = append(steps, -1)
	}
	for _, dx := range steps {
		_, err := f.movement.TryMove(f.ctx, f.w, f.player, dx, 0)
		require.NoError(t, err)
		require.NoError(t, f.visibility.Run(f.ctx, f.w))

		cur := revealed()
		for i := range prev {
			if prev[i] {
				require.True(t, cur[i], "tile %d was unrevealed", i)
			}
		}
		prev = cur
	}

	assert.True(t, f.m.IsRevealed(f.m.Idx(20, 5)), "far room interior seen on the walk")
	assert.False(t, f.m.IsVisible(f.m.Idx(20, 5)), "far room out of view once back")
}

func TestNonRevealerLeavesMapAlone(t *testing.T) {
	f := newFixture(t, 5, 5)
	monster, err := entity.SpawnMonster(f.w, orc, 20, 5)
	require.NoError(t, err)
	require.NoError(t, f.w.Maintain())

	f.visibility.Revealer = ecs.Entity{}
	require.NoError(t, f.visibility.Run(f.ctx, f.w))

	assert.Zero(t, f.m.RevealedCount())
	assert.Empty(t, f.visibleTiles())

	v := f.viewshed(t, monster)
	assert.False(t, v.Dirty)
	assert.True(t, v.CanSee(20, 5))
	assert.False(t, f.viewshed(t, f.player).Dirty)
}

func TestMonsterViewDoesNotLeakIntoPlayerView(t *testing.T) {
	f := newFixture(t, 5, 5)
	_, err := entity.SpawnMonster(f.w, orc, 20, 5)
	require.NoError(t, err)
	require.NoError(t, f.w.Maintain())

	require.NoError(t, f.visibility.Run(f.ctx, f.w))

	assert.False(t, f.m.IsRevealed(f.m.Idx(22, 7)), "only the monster can see the far corner")
	assert.True(t, f.m.IsVisible(f.m.Idx(5, 5)))
}

func TestTryMoveOntoFloor(t *testing.T) {
	f := newFixture(t, 5, 5)
	require.NoError(t, f.visibility.Run(f.ctx, f.w))
	require.False(t, f.viewshed(t, f.player).Dirty)

	moved, err := f.movement.TryMove(f.ctx, f.w, f.player, 0, 1)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, entity.Position{X: 5, Y: 6}, f.position(t, f.player))
	assert.True(t, f.viewshed(t, f.player).Dirty)
}

func TestTryMoveIntoWall(t *testing.T) {
	tests := []struct {
		name      string
		cleanView bool
	}{
		{"clean viewshed stays clean", true},
		{"dirty viewshed stays dirty", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 3, 3)
			if tt.cleanView {
				require.NoError(t, f.visibility.Run(f.ctx, f.w))
			}

			for _, d := range [][2]int{{-1, 0}, {0, -1}} {
				moved, err := f.movement.TryMove(f.ctx, f.w, f.player, d[0], d[1])
				require.NoError(t, err)
				assert.False(t, moved)
			}

			assert.Equal(t, entity.Position{X: 3, Y: 3}, f.position(t, f.player))
			assert.Equal(t, !tt.cleanView, f.viewshed(t, f.player).Dirty)
		})
	}
}

func TestTryMoveOffGrid(t *testing.T) {
	f := newFixture(t, 0, 0)
	f.m.SetTile(f.m.Idx(0, 0), world.TileFloor)
	require.NoError(t, f.visibility.Run(f.ctx, f.w))

	moved, err := f.movement.TryMove(f.ctx, f.w, f.player, -1, 0)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, entity.Position{X: 0, Y: 0}, f.position(t, f.player))
	assert.False(t, f.viewshed(t, f.player).Dirty)
}

func TestTryMoveRequiresPlayer(t *testing.T) {
	f := newFixture(t, 5, 5)
	monster, err := entity.SpawnMonster(f.w, orc, 20, 5)
	require.NoError(t, err)
	require.NoError(t, f.w.Maintain())

	moved, err := f.movement.TryMove(f.ctx, f.w, monster, 1, 0)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, entity.Position{X: 20, Y: 5}, f.position(t, monster))
}

func TestTryMoveRequiresViewshed(t *testing.T) {
	f := newFixture(t, 5, 5)
	b := f.w.Create()
	ecs.With(b, entity.Position{X: 6, Y: 6})
	ecs.With(b, entity.Player{})
	blind, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, f.w.Maintain())

	moved, err := f.movement.TryMove(f.ctx, f.w, blind, 1, 0)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, entity.Position{X: 6, Y: 6}, f.position(t, blind))
}

func TestTryMoveStagedEntity(t *testing.T) {
	f := newFixture(t, 5, 5)
	staged, err := entity.SpawnPlayer(f.w, 6, 6, 8)
	require.NoError(t, err)

	moved, err := f.movement.TryMove(f.ctx, f.w, staged, 1, 0)
	require.NoError(t, err)
	assert.False(t, moved, "entity is not alive before Maintain")
}

func TestSystemsNeedRegisteredComponents(t *testing.T) {
	m := twoRooms()
	w := ecs.NewWorld()

	err := system.NewVisibility(m, zerolog.Nop()).Run(context.Background(), w)
	assert.ErrorIs(t, err, ecs.ErrNotRegistered)

	_, err = system.NewMovement(m, zerolog.Nop()).TryMove(context.Background(), w, ecs.Entity{}, 1, 0)
	assert.ErrorIs(t, err, ecs.ErrNotRegistered)
}

func TestSingleRoomEndToEnd(t *testing.T) {
	m := world.NewMap(40, 30)
	room := world.NewRect(10, 8, 9, 7)
	m.CarveRoom(room)
	m.Rooms = append(m.Rooms, room)

	x, y, ok := m.SpawnPoint()
	require.True(t, ok)

	w := ecs.NewWorld()
	entity.Register(w)
	player, err := entity.SpawnPlayer(w, x, y, 8)
	require.NoError(t, err)
	require.NoError(t, w.Maintain())

	vis := system.NewVisibility(m, zerolog.Nop())
	vis.Revealer = player
	require.NoError(t, vis.Run(context.Background(), w))

	for idx := 0; idx < m.Len(); idx++ {
		if !m.IsVisible(idx) {
			continue
		}
		vx, vy := m.Coords(idx)
		assert.True(t, vx >= room.X1 && vx <= room.X2 && vy >= room.Y1 && vy <= room.Y2,
			"(%d,%d) visible beyond the room walls", vx, vy)
	}
	assert.True(t, m.IsVisible(m.Idx(x, y)))
}
