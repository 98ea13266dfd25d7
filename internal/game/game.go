package game

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/samdwyer/dungeonsight/internal/gamedata"
	"github.com/samdwyer/dungeonsight/internal/ui"
)

// Game is the terminal host: it feeds key presses to a Session and draws it.
type Game struct {
	id       uuid.UUID
	cfg      Config
	logger   zerolog.Logger
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	running  bool
}

// New creates a new game instance on the terminal. id names the session.
func New(id uuid.UUID, cfg Config, logger zerolog.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(id, cfg, logger, screen), nil
}

// NewWithScreen creates a game drawing to an already initialized screen.
func NewWithScreen(id uuid.UUID, cfg Config, logger zerolog.Logger, screen *ui.Screen) *Game {
	return &Game{
		id:       id,
		cfg:      cfg,
		logger:   logger,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		running:  true,
	}
}

// Run executes the main game loop until the player quits.
func (g *Game) Run(ctx context.Context) error {
	defer g.Close()

	monsters, err := gamedata.LoadMonsterRegistry()
	if err != nil {
		return fmt.Errorf("failed to load monsters: %w", err)
	}

	g.session, err = NewSession(ctx, g.id, g.cfg, monsters, g.logger)
	if err != nil {
		return err
	}

	for g.running {
		if err := g.draw(); err != nil {
			return err
		}

		// Handle input (blocking)
		if err := g.handleInput(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Session returns the running session, or nil before Run.
func (g *Game) Session() *Session {
	return g.session
}

func (g *Game) draw() error {
	if err := g.renderer.Render(g.session.Map, g.session.World); err != nil {
		return err
	}
	pos, err := g.session.PlayerPosition()
	if err != nil {
		return err
	}
	status := fmt.Sprintf("seed %d  (%d,%d)  turn %d  arrows/hjkl move, q quits",
		g.session.Seed, pos.X, pos.Y, g.session.Ticks())
	g.renderer.RenderMessage(status, g.session.Map.Height)
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) error {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case nil:
		// Screen finalized
		g.running = false
	case *tcell.EventKey:
		return g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return nil
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) error {
	dir, quit := KeyAction(ev.Key(), ev.Rune())
	if quit {
		g.running = false
		return nil
	}
	if dir == DirNone {
		return nil
	}
	_, err := g.session.Tick(ctx, dir)
	return err
}

// KeyAction maps a key press to a movement direction, or reports that the
// player asked to quit. Unbound keys yield DirNone.
func KeyAction(key tcell.Key, r rune) (dir Direction, quit bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return DirNone, true
	case tcell.KeyUp:
		return DirNorth, false
	case tcell.KeyDown:
		return DirSouth, false
	case tcell.KeyLeft:
		return DirWest, false
	case tcell.KeyRight:
		return DirEast, false
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return DirNone, true
		case 'k', '8':
			return DirNorth, false
		case 'j', '2':
			return DirSouth, false
		case 'h', '4':
			return DirWest, false
		case 'l', '6':
			return DirEast, false
		}
	}
	return DirNone, false
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}
