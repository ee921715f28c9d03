// Package terrain holds the fixed table of battle environments. The table
// is immutable after construction and safe to share across all concurrent
// battles without synchronization.
package terrain

import (
	"sort"

	"github.com/shinobios/mission-api/internal/entities"
)

// DefaultKey is the terrain used when a caller names an unknown one
const DefaultKey = "forest"

// Table is a read-only registry of terrain keys to environment effects
type Table struct {
	effects map[string]entities.EnvironmentEffect
}

// NewTable builds the fixed environment table
func NewTable() *Table {
	return &Table{
		effects: map[string]entities.EnvironmentEffect{
			"forest": {
				Name:             "Dense Forest",
				Description:      "Thick trees provide cover but limit visibility",
				ChakraModifier:   1.1,
				DamageModifier:   1.0,
				AccuracyModifier: 0.9,
				StaminaModifier:  1.0,
				SpecialEffects:   []string{"wood_release_boost", "stealth_bonus"},
			},
			"desert": {
				Name:             "Scorching Desert",
				Description:      "Harsh conditions drain stamina and chakra",
				ChakraModifier:   0.8,
				DamageModifier:   1.0,
				AccuracyModifier: 1.0,
				StaminaModifier:  0.7,
				SpecialEffects:   []string{"sand_control_boost", "heat_damage"},
			},
			"mountain": {
				Name:             "Rocky Mountains",
				Description:      "High altitude affects breathing and chakra flow",
				ChakraModifier:   0.9,
				DamageModifier:   1.0,
				AccuracyModifier: 1.0,
				StaminaModifier:  1.0,
				SpecialEffects:   []string{"earth_release_boost", "wind_advantage"},
			},
			"urban": {
				Name:             "Urban Environment",
				Description:      "Buildings provide cover but limit movement",
				ChakraModifier:   1.0,
				DamageModifier:   1.0,
				AccuracyModifier: 0.95,
				StaminaModifier:  1.0,
				SpecialEffects:   []string{"stealth_penalty", "cover_bonus"},
			},
			"underground": {
				Name:             "Underground Caverns",
				Description:      "Confined spaces amplify jutsu effects",
				ChakraModifier:   0.85,
				DamageModifier:   1.2,
				AccuracyModifier: 1.0,
				StaminaModifier:  1.0,
				SpecialEffects:   []string{"sound_amplification", "limited_mobility"},
			},
			"water": {
				Name:             "Water Environment",
				Description:      "Water enhances water jutsu but hinders fire",
				ChakraModifier:   1.0,
				DamageModifier:   1.0,
				AccuracyModifier: 1.0,
				StaminaModifier:  1.0,
				SpecialEffects:   []string{"water_release_boost", "fire_penalty"},
			},
			"volcanic": {
				Name:             "Volcanic Terrain",
				Description:      "Intense heat and unstable ground",
				ChakraModifier:   0.7,
				DamageModifier:   1.3,
				AccuracyModifier: 1.0,
				StaminaModifier:  1.0,
				SpecialEffects:   []string{"fire_release_boost", "environmental_damage"},
			},
		},
	}
}

// Get returns the environment for a terrain key
func (t *Table) Get(key string) (entities.EnvironmentEffect, bool) {
	env, ok := t.effects[key]
	return env, ok
}

// GetOrDefault returns the environment for a terrain key, falling back to
// the default terrain for unknown keys.
func (t *Table) GetOrDefault(key string) (string, entities.EnvironmentEffect) {
	if env, ok := t.effects[key]; ok {
		return key, env
	}
	return DefaultKey, t.effects[DefaultKey]
}

// Keys returns all terrain keys in sorted order
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.effects))
	for k := range t.effects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
