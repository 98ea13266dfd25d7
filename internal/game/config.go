package game

import (
	"fmt"
	"time"

	"github.com/JeremyLoy/config"

	"github.com/samdwyer/dungeonsight/internal/entity"
	"github.com/samdwyer/dungeonsight/internal/world"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible dungeon generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64 `config:"DUNGEONSIGHT_SEED"`

	MapWidth    int `config:"DUNGEONSIGHT_MAP_WIDTH"`
	MapHeight   int `config:"DUNGEONSIGHT_MAP_HEIGHT"`
	MaxRooms    int `config:"DUNGEONSIGHT_MAX_ROOMS"`
	MinRoomSize int `config:"DUNGEONSIGHT_MIN_ROOM_SIZE"`
	MaxRoomSize int `config:"DUNGEONSIGHT_MAX_ROOM_SIZE"`

	// SightRange is the player's viewshed radius in tiles.
	SightRange int `config:"DUNGEONSIGHT_SIGHT_RANGE"`

	// LogFile receives the JSON log. Empty disables logging.
	LogFile  string `config:"DUNGEONSIGHT_LOG_FILE"`
	LogLevel string `config:"DUNGEONSIGHT_LOG_LEVEL"`
}

// DefaultConfig returns the standard 80x50 dungeon with an 8-tile sight range.
func DefaultConfig() Config {
	p := world.DefaultParams()
	return Config{
		MapWidth:    p.Width,
		MapHeight:   p.Height,
		MaxRooms:    p.MaxRooms,
		MinRoomSize: p.MinRoomSize,
		MaxRoomSize: p.MaxRoomSize,
		SightRange:  entity.DefaultSightRange,
		LogFile:     "dungeonsight.log",
		LogLevel:    "info",
	}
}

// LoadConfig overlays DUNGEONSIGHT_* environment variables on DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Params returns the generator parameters described by the config.
func (c Config) Params() world.Params {
	return world.Params{
		Width:       c.MapWidth,
		Height:      c.MapHeight,
		MaxRooms:    c.MaxRooms,
		MinRoomSize: c.MinRoomSize,
		MaxRoomSize: c.MaxRoomSize,
	}
}

// Validate rejects configs the generator or the player could not use.
func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("invalid dungeon config: %w", err)
	}
	if c.SightRange < 1 {
		return fmt.Errorf("invalid sight range %d", c.SightRange)
	}
	return nil
}

// ResolveSeed returns Seed, or a time-based seed when Seed is 0.
func (c Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
