package testutils

import (
	"time"

	"github.com/shinobios/mission-api/internal/entities"
)

// TestActorID is the default mission owner for test fixtures
const TestActorID = "actor-test-001"

// CreateTestMission creates an available C-rank mission with sensible
// defaults
func CreateTestMission(ownerID string) *entities.Mission {
	return entities.NewMission(entities.NewMissionInput{
		ID:          "mission-test-001",
		OwnerID:     ownerID,
		Title:       "Caravan Escort",
		Description: "Escort a supply caravan through the Land of Rivers.",
		Difficulty:  entities.DifficultyC,
		Region:      "Land of Rivers",
		Reward:      map[string]interface{}{"exp": 120, "ryo": 250},
		Duration:    time.Hour,
	})
}

// CreateTestBattle creates a forest battle with one player and one
// opponent, both active
func CreateTestBattle(playerID string) *entities.BattleState {
	env := entities.EnvironmentEffect{
		Name:             "Dense Forest",
		ChakraModifier:   1.1,
		DamageModifier:   1.0,
		AccuracyModifier: 0.9,
		StaminaModifier:  1.0,
	}

	battle := entities.NewBattleState("forest", env, []string{"Defeat the opponent"})
	battle.AddParticipant(entities.NewBattleParticipant(
		playerID, "Test Shinobi", entities.NewStatBlock("Test Shinobi", 10), true))
	battle.AddParticipant(entities.NewBattleParticipant(
		"opponent-test-001", "Rogue Genin", entities.NewStatBlock("Rogue Genin", 8), false))
	return battle
}
