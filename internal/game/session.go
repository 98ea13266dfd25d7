package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonsight/internal/ecs"
	"github.com/samdwyer/dungeonsight/internal/entity"
	"github.com/samdwyer/dungeonsight/internal/gamedata"
	"github.com/samdwyer/dungeonsight/internal/system"
	"github.com/samdwyer/dungeonsight/internal/telemetry"
	"github.com/samdwyer/dungeonsight/internal/world"
)

// Session is one dungeon run: the map, the entities on it and the systems
// that advance them one tick at a time.
type Session struct {
	ID     uuid.UUID
	Seed   int64
	Map    *world.Map
	World  *ecs.World
	Player ecs.Entity

	visibility *system.Visibility
	movement   *system.Movement
	logger     zerolog.Logger
	ticks      int
}

// NewSession generates a dungeon from cfg, places the player in the first room
// and one monster from monsters in each other room, and computes the first view.
// monsters may be nil for an empty dungeon. A nil id is replaced by a fresh one.
func NewSession(ctx context.Context, id uuid.UUID, cfg Config, monsters *gamedata.MonsterRegistry, logger zerolog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if id == uuid.Nil {
		id = uuid.New()
	}
	seed := cfg.ResolveSeed()
	logger = logger.With().Str("session", id.String()).Logger()

	ctx, span := telemetry.Tracer("game").Start(ctx, "session.init")
	defer span.End()

	rng := rand.New(rand.NewSource(seed))
	m, err := world.Generate(ctx, cfg.Params(), rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dungeon: %w", err)
	}

	w := ecs.NewWorld(ecs.WithLogger(logger))
	entity.Register(w)

	startX, startY, ok := m.SpawnPoint()
	if !ok {
		// Fallback: place in center of map
		startX, startY = m.Width/2, m.Height/2
		logger.Warn().Msg("no rooms generated, using fallback position")
	}
	player, err := entity.SpawnPlayer(w, startX, startY, cfg.SightRange)
	if err != nil {
		return nil, err
	}

	spawned, kinds := 0, 0
	if monsters != nil {
		kinds = monsters.Count()
		for _, room := range m.Rooms[min(1, len(m.Rooms)):] {
			def := monsters.SpawnRandom(rng)
			if def == nil {
				break
			}
			x, y := room.Center()
			if _, err := entity.SpawnMonster(w, def, x, y); err != nil {
				return nil, err
			}
			spawned++
		}
	}

	if err := w.Maintain(); err != nil {
		return nil, err
	}

	s := &Session{
		ID:         id,
		Seed:       seed,
		Map:        m,
		World:      w,
		Player:     player,
		visibility: system.NewVisibility(m, logger),
		movement:   system.NewMovement(m, logger),
		logger:     logger,
	}
	s.visibility.Revealer = player

	if err := s.visibility.Run(ctx, w); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("session.id", id.String()),
		attribute.Int64("session.seed", seed),
		attribute.Int("dungeon.rooms", len(m.Rooms)),
		attribute.Int("session.monsters", spawned),
		attribute.Int("player.start_x", startX),
		attribute.Int("player.start_y", startY),
	)
	logger.Info().
		Int64("seed", seed).
		Int("rooms", len(m.Rooms)).
		Int("monsters", spawned).
		Int("monster_kinds", kinds).
		Strs("components", w.ComponentNames()).
		Msg("session started")

	return s, nil
}

// Tick advances the simulation by one step: movement, then visibility, then
// the world's staged changes are committed. It reports whether the player moved.
func (s *Session) Tick(ctx context.Context, dir Direction) (bool, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "session.tick")
	defer span.End()

	s.ticks++
	span.SetAttributes(
		attribute.Int("session.tick", s.ticks),
		attribute.String("input.direction", dir.String()),
	)

	moved := false
	if dir != DirNone {
		dx, dy := dir.Delta()
		var err error
		moved, err = s.movement.TryMove(ctx, s.World, s.Player, dx, dy)
		if err != nil {
			return false, err
		}
	}

	if err := s.visibility.Run(ctx, s.World); err != nil {
		return moved, err
	}
	if err := s.World.Maintain(); err != nil {
		return moved, err
	}

	s.logger.Debug().Int("tick", s.ticks).Stringer("dir", dir).Bool("moved", moved).Msg("tick")
	return moved, nil
}

// Ticks returns the number of ticks run so far.
func (s *Session) Ticks() int {
	return s.ticks
}

// PlayerPosition returns the player's current cell.
func (s *Session) PlayerPosition() (entity.Position, error) {
	positions, err := ecs.Read[entity.Position](s.World)
	if err != nil {
		return entity.Position{}, err
	}
	defer positions.Release()

	pos, ok := positions.Get(s.Player)
	if !ok {
		return entity.Position{}, eris.Wrapf(ecs.ErrEntityNotAlive, "player %s has no position", s.Player)
	}
	return pos, nil
}
