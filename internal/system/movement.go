package system

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/samdwyer/dungeonsight/internal/ecs"
	"github.com/samdwyer/dungeonsight/internal/entity"
	"github.com/samdwyer/dungeonsight/internal/telemetry"
	"github.com/samdwyer/dungeonsight/internal/world"
)

// Movement applies player moves against Map.
type Movement struct {
	Map *world.Map

	logger   zerolog.Logger
	rejected metric.Int64Counter
}

// NewMovement creates a movement system for m.
func NewMovement(m *world.Map, logger zerolog.Logger) *Movement {
	return &Movement{
		Map:      m,
		logger:   logger.With().Str("system", "movement").Logger(),
		rejected: telemetry.Counter("system", "movement.rejected", "Moves blocked by walls"),
	}
}

// TryMove moves e by (dx, dy) and marks its viewshed dirty. It reports whether
// the entity moved.
//
// e must carry Player, Position and Viewshed; otherwise nothing happens.
// A destination that is a wall, or off the grid, is rejected without touching
// any state. Errors are only returned for store misuse.
func (s *Movement) TryMove(ctx context.Context, w *ecs.World, e ecs.Entity, dx, dy int) (bool, error) {
	ctx, span := telemetry.Tracer("system").Start(ctx, "movement.try")
	defer span.End()
	span.SetAttributes(attribute.Int("move.dx", dx), attribute.Int("move.dy", dy))

	players, err := ecs.Read[entity.Player](w)
	if err != nil {
		return false, err
	}
	defer players.Release()

	positions, err := ecs.Write[entity.Position](w)
	if err != nil {
		return false, err
	}
	defer positions.Release()

	sheds, err := ecs.Write[entity.Viewshed](w)
	if err != nil {
		return false, err
	}
	defer sheds.Release()

	pos, ok := positions.Get(e)
	if !ok || !players.Has(e) {
		return false, nil
	}
	v, ok := sheds.Get(e)
	if !ok {
		return false, nil
	}

	nx, ny := pos.X+dx, pos.Y+dy
	if s.Map.TileAt(nx, ny) == world.TileWall {
		s.rejected.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("move.rejected", true))
		s.logger.Debug().Int("x", nx).Int("y", ny).Msg("move blocked")
		return false, nil
	}

	pos.X = clamp(nx, 0, s.Map.Width-1)
	pos.Y = clamp(ny, 0, s.Map.Height-1)
	v.Dirty = true

	span.SetAttributes(attribute.Int("move.x", pos.X), attribute.Int("move.y", pos.Y))
	return true, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
