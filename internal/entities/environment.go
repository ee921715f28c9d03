package entities

// EnvironmentEffect is an immutable terrain modifier set. One of a small
// fixed table (see catalog/terrain); shared read-only across battles.
type EnvironmentEffect struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Multiplicative modifiers applied during action resolution and
	// per-turn regeneration. 1.0 means neutral.
	ChakraModifier   float64 `json:"chakra_modifier"`
	DamageModifier   float64 `json:"damage_modifier"`
	AccuracyModifier float64 `json:"accuracy_modifier"`
	StaminaModifier  float64 `json:"stamina_modifier"`

	SpecialEffects []string `json:"special_effects,omitempty"`
}
