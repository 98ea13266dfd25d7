// Package system holds the per-tick systems that operate on the ecs.World
// and the dungeon map: movement first, then visibility.
package system

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/samdwyer/dungeonsight/internal/ecs"
	"github.com/samdwyer/dungeonsight/internal/entity"
	"github.com/samdwyer/dungeonsight/internal/fov"
	"github.com/samdwyer/dungeonsight/internal/telemetry"
	"github.com/samdwyer/dungeonsight/internal/world"
)

// Visibility recomputes dirty viewsheds against Map. The viewshed of Revealer
// also drives the map's revealed and visible grids; every other observer only
// updates its own list.
type Visibility struct {
	Map      *world.Map
	Revealer ecs.Entity

	logger     zerolog.Logger
	recomputed metric.Int64Counter
}

// NewVisibility creates a visibility system for m with no revealer.
func NewVisibility(m *world.Map, logger zerolog.Logger) *Visibility {
	return &Visibility{
		Map:        m,
		logger:     logger.With().Str("system", "visibility").Logger(),
		recomputed: telemetry.Counter("system", "visibility.recomputed", "Viewsheds recomputed"),
	}
}

// Run recomputes every viewshed whose Dirty flag is set and clears the flag.
// Clean viewsheds are left alone, so a stationary observer costs nothing.
func (s *Visibility) Run(ctx context.Context, w *ecs.World) error {
	ctx, span := telemetry.Tracer("system").Start(ctx, "visibility.run")
	defer span.End()

	sheds, err := ecs.Write[entity.Viewshed](w)
	if err != nil {
		return err
	}
	defer sheds.Release()

	positions, err := ecs.Read[entity.Position](w)
	if err != nil {
		return err
	}
	defer positions.Release()

	recomputed := 0
	for row := range ecs.Join2(sheds, positions) {
		v, pos := row.A, row.B
		if !v.Dirty {
			continue
		}

		points := fov.Compute(fov.Point{X: pos.X, Y: pos.Y}, v.Range, s.Map)
		visible := make([]fov.Point, 0, len(points))
		for _, p := range points {
			if s.Map.InBounds(p.X, p.Y) {
				visible = append(visible, p)
			}
		}
		v.Visible = visible
		v.Dirty = false
		recomputed++

		if row.Entity == s.Revealer {
			s.Map.ClearVisible()
			for _, p := range visible {
				idx := s.Map.Idx(p.X, p.Y)
				s.Map.Reveal(idx)
				s.Map.SetVisible(idx)
			}
			s.logger.Debug().
				Stringer("entity", row.Entity).
				Int("visible", len(visible)).
				Int("revealed", s.Map.RevealedCount()).
				Msg("player view updated")
		}
	}

	if recomputed > 0 {
		s.recomputed.Add(ctx, int64(recomputed))
	}
	span.SetAttributes(attribute.Int("visibility.recomputed", recomputed))
	return nil
}
