package gamedata

import "errors"

// MonsterRegistry holds loaded monster definitions and provides spawning utilities.
type MonsterRegistry struct {
	monsters    []MonsterDef
	totalWeight int
}

// NewMonsterRegistry creates a registry from loaded monster definitions.
func NewMonsterRegistry(monsters []MonsterDef) *MonsterRegistry {
	totalWeight := 0
	for _, m := range monsters {
		totalWeight += m.SpawnWeight
	}
	return &MonsterRegistry{
		monsters:    monsters,
		totalWeight: totalWeight,
	}
}

// LoadMonsterRegistry loads and creates a registry from the embedded monsters.json.
func LoadMonsterRegistry() (*MonsterRegistry, error) {
	monsters, err := LoadMonsters()
	if err != nil {
		return nil, err
	}
	if len(monsters) == 0 {
		return nil, errors.New("no monsters loaded from monsters.json")
	}
	return NewMonsterRegistry(monsters), nil
}

// Intn is the random source SpawnRandom draws from. *math/rand.Rand satisfies it.
type Intn interface {
	Intn(n int) int
}

// SpawnRandom selects a monster definition using weighted probability.
// It returns nil when the registry has no weight to draw from.
func (r *MonsterRegistry) SpawnRandom(rng Intn) *MonsterDef {
	if r.totalWeight <= 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)
	for i := range r.monsters {
		roll -= r.monsters[i].SpawnWeight
		if roll < 0 {
			return &r.monsters[i]
		}
	}
	return nil
}

// Count returns the number of monster kinds in the registry.
func (r *MonsterRegistry) Count() int {
	return len(r.monsters)
}
