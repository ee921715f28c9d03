package mission

import (
	"context"

	"github.com/shinobios/mission-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_service.go -package=missionmock github.com/shinobios/mission-api/internal/orchestrators/mission Service

// Service orchestrates the mission lifecycle: generation, battle
// initialization, turn resolution, and completion. All mutating entry
// points serialize per owner, so two requests for the same actor never
// interleave.
type Service interface {
	// GenerateMission creates a mission for an actor, or returns the
	// actor's existing non-terminal mission unchanged
	GenerateMission(ctx context.Context, input *GenerateMissionInput) (*GenerateMissionOutput, error)

	// GetActiveMission returns the actor's current mission, applying
	// lazy expiry first
	GetActiveMission(ctx context.Context, input *GetActiveMissionInput) (*GetActiveMissionOutput, error)

	// InitializeBattle builds the mission's battle and starts the mission
	InitializeBattle(ctx context.Context, input *InitializeBattleInput) (*InitializeBattleOutput, error)

	// ApplyPlayerAction resolves one player action inside the mission's
	// battle
	ApplyPlayerAction(ctx context.Context, input *ApplyPlayerActionInput) (*ApplyPlayerActionOutput, error)

	// ApplyOpponentTurn resolves one action for every active opponent
	ApplyOpponentTurn(ctx context.Context, input *ApplyOpponentTurnInput) (*ApplyOpponentTurnOutput, error)

	// CompleteMission finalizes a mission from its battle outcome and
	// releases the owner's slot
	CompleteMission(ctx context.Context, input *CompleteMissionInput) (*CompleteMissionOutput, error)
}

// GenerateMissionInput requests a mission for an actor
type GenerateMissionInput struct {
	ActorID    string
	ActorName  string
	Region     string
	Difficulty entities.Difficulty
}

// GenerateMissionOutput holds the actor's mission. Existing reports
// whether the mission already existed rather than being freshly generated.
type GenerateMissionOutput struct {
	Mission  *entities.Mission
	Existing bool
}

// GetActiveMissionInput identifies the actor whose mission to fetch
type GetActiveMissionInput struct {
	ActorID string
}

// GetActiveMissionOutput holds the actor's current mission
type GetActiveMissionOutput struct {
	Mission *entities.Mission
}

// PlayerDescriptor carries what the battle needs to know about one
// player-controlled combatant
type PlayerDescriptor struct {
	ActorID string
	Name    string
	Level   int32
}

// InitializeBattleInput sets up the battle for an actor's mission
type InitializeBattleInput struct {
	ActorID string
	Players []PlayerDescriptor
	Terrain string
}

// InitializeBattleOutput holds the started mission with its battle
type InitializeBattleOutput struct {
	Mission *entities.Mission
}

// ApplyPlayerActionInput is one player action against a target
type ApplyPlayerActionInput struct {
	ActorID string
	// ParticipantID selects which player participant acts; defaults to
	// ActorID for solo missions
	ParticipantID string
	TargetID      string
	JutsuName     string
}

// ApplyPlayerActionOutput is the resolved action and resulting state
type ApplyPlayerActionOutput struct {
	Action  entities.BattleAction
	Outcome entities.Outcome
	Mission *entities.Mission
}

// ApplyOpponentTurnInput advances every active opponent by one action
type ApplyOpponentTurnInput struct {
	ActorID string
}

// ApplyOpponentTurnOutput lists the opponents' resolved actions
type ApplyOpponentTurnOutput struct {
	Actions []entities.BattleAction
	Outcome entities.Outcome
	Mission *entities.Mission
}

// CompleteMissionInput finalizes the actor's mission
type CompleteMissionInput struct {
	ActorID string
}

// CompleteMissionOutput holds the finalized mission and, on success, its
// reward payload
type CompleteMissionOutput struct {
	Mission *entities.Mission
	Reward  map[string]interface{}
}
