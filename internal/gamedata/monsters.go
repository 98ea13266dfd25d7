package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// MonsterDef defines a monster kind loaded from JSON.
type MonsterDef struct {
	ID          string `json:"id"`          // Unique identifier (e.g., "goblin")
	Name        string `json:"name"`        // Display name (e.g., "Goblin")
	Glyph       string `json:"glyph"`       // Single character for rendering (e.g., "g")
	Color       string `json:"color"`       // Hex color code (e.g., "#FF0000")
	Sight       int    `json:"sight"`       // Viewshed range in tiles
	SpawnWeight int    `json:"spawnWeight"` // Relative spawn frequency (higher = more common)
}

// GlyphRune returns the glyph as a rune for rendering.
func (m *MonsterDef) GlyphRune() rune {
	for _, r := range m.Glyph {
		return r
	}
	return '?'
}

// TCellColor returns the color as a tcell.Color.
func (m *MonsterDef) TCellColor() tcell.Color {
	return ParseHexColorOr(m.Color, tcell.ColorWhite)
}

// Validate checks the fields the spawner depends on.
func (m *MonsterDef) Validate() error {
	switch {
	case m.ID == "":
		return fmt.Errorf("monster %q has no id", m.Name)
	case m.Glyph == "":
		return fmt.Errorf("monster %s has no glyph", m.ID)
	case m.Sight < 1:
		return fmt.Errorf("monster %s has sight %d", m.ID, m.Sight)
	case m.SpawnWeight < 0:
		return fmt.Errorf("monster %s has negative spawn weight", m.ID)
	}
	if _, err := ParseHexColor(m.Color); err != nil {
		return fmt.Errorf("monster %s: %w", m.ID, err)
	}
	return nil
}

// MonstersFile represents the structure of monsters.json.
type MonstersFile struct {
	Monsters []MonsterDef `json:"monsters"`
}

// LoadMonsters loads monster definitions from the embedded monsters.json file.
func LoadMonsters() ([]MonsterDef, error) {
	file, err := Load[MonstersFile]("monsters.json")
	if err != nil {
		return nil, err
	}
	for i := range file.Monsters {
		if err := file.Monsters[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid monsters.json: %w", err)
		}
	}
	return file.Monsters, nil
}
