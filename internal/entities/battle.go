package entities

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// ParticipantStatus is a battle participant's lifecycle state. Transitions
// only move forward: active participants may become defeated or escaped,
// never the reverse.
type ParticipantStatus string

// Participant statuses
const (
	ParticipantActive   ParticipantStatus = "active"
	ParticipantDefeated ParticipantStatus = "defeated"
	ParticipantEscaped  ParticipantStatus = "escaped"
)

// Entity types reported to rpg-toolkit consumers
const (
	EntityTypePlayer   = "player"
	EntityTypeOpponent = "opponent"
)

// BattleParticipant is one actor inside a battle: an external actor id, an
// ephemeral stat block, and a forward-only lifecycle status.
type BattleParticipant struct {
	ActorID  string
	Name     string
	Stats    *StatBlock
	IsPlayer bool

	status ParticipantStatus
}

// Ensure participants satisfy the toolkit entity contract
var _ core.Entity = (*BattleParticipant)(nil)

// NewBattleParticipant creates an active participant
func NewBattleParticipant(actorID, name string, stats *StatBlock, isPlayer bool) *BattleParticipant {
	return &BattleParticipant{
		ActorID:  actorID,
		Name:     name,
		Stats:    stats,
		IsPlayer: isPlayer,
		status:   ParticipantActive,
	}
}

// GetID implements core.Entity
func (p *BattleParticipant) GetID() string {
	return p.ActorID
}

// GetType implements core.Entity
func (p *BattleParticipant) GetType() string {
	if p.IsPlayer {
		return EntityTypePlayer
	}
	return EntityTypeOpponent
}

// Status returns the participant's lifecycle status
func (p *BattleParticipant) Status() ParticipantStatus {
	return p.status
}

// Active reports whether the participant is still in the fight
func (p *BattleParticipant) Active() bool {
	return p.status == ParticipantActive
}

// Escape marks an active participant as escaped. No-op once the
// participant has already left the battle.
func (p *BattleParticipant) Escape() {
	if p.status == ParticipantActive {
		p.status = ParticipantEscaped
	}
}

func (p *BattleParticipant) defeat() {
	if p.status == ParticipantActive {
		p.status = ParticipantDefeated
	}
}

// BattleAction is one resolved action: the append-only audit record the
// resolver produces and the battle log stores.
type BattleAction struct {
	ActorID    string
	TargetID   string
	JutsuName  string
	Success    bool
	Damage     int32
	ChakraUsed int32
	Effects    []string
	Narration  string
	Timestamp  time.Time
}

// Outcome is the completion state derived from a battle's participants
type Outcome string

// Battle outcomes
const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeSuccess    Outcome = "success"
	OutcomeFailed     Outcome = "failed"
)

// Terminal reports whether the outcome ends the battle
func (o Outcome) Terminal() bool {
	return o == OutcomeSuccess || o == OutcomeFailed
}

// BattleState aggregates one encounter: its participants, turn counter,
// action log, environment, and objectives. A BattleState is owned by
// exactly one mission and must not be mutated concurrently; the
// orchestrator's per-actor guard enforces that.
type BattleState struct {
	terrain     string
	environment EnvironmentEffect

	participants []*BattleParticipant
	turn         int32
	log          []BattleAction

	objectives          []string
	completedObjectives []string
}

// NewBattleState creates an empty battle in the given environment
func NewBattleState(terrain string, env EnvironmentEffect, objectives []string) *BattleState {
	return &BattleState{
		terrain:     terrain,
		environment: env,
		objectives:  append([]string(nil), objectives...),
	}
}

// AddParticipant adds a participant to the battle
func (b *BattleState) AddParticipant(p *BattleParticipant) {
	b.participants = append(b.participants, p)
}

// Participant looks up a participant by actor id
func (b *BattleState) Participant(actorID string) (*BattleParticipant, bool) {
	for _, p := range b.participants {
		if p.ActorID == actorID {
			return p, true
		}
	}
	return nil, false
}

// Participants returns all participants in join order
func (b *BattleState) Participants() []*BattleParticipant {
	return append([]*BattleParticipant(nil), b.participants...)
}

// ActiveParticipants returns every participant still in the fight
func (b *BattleState) ActiveParticipants() []*BattleParticipant {
	return b.filter(func(p *BattleParticipant) bool { return p.Active() })
}

// Players returns the active player-controlled participants
func (b *BattleState) Players() []*BattleParticipant {
	return b.filter(func(p *BattleParticipant) bool { return p.Active() && p.IsPlayer })
}

// Enemies returns the active generated-opponent participants
func (b *BattleState) Enemies() []*BattleParticipant {
	return b.filter(func(p *BattleParticipant) bool { return p.Active() && !p.IsPlayer })
}

func (b *BattleState) filter(keep func(*BattleParticipant) bool) []*BattleParticipant {
	var out []*BattleParticipant
	for _, p := range b.participants {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Turn returns the turn counter: the number of actions recorded so far
func (b *BattleState) Turn() int32 {
	return b.turn
}

// Log returns a copy of the append-only action log
func (b *BattleState) Log() []BattleAction {
	return append([]BattleAction(nil), b.log...)
}

// Environment returns the battle's terrain modifiers
func (b *BattleState) Environment() EnvironmentEffect {
	return b.environment
}

// Terrain returns the terrain key the environment was selected by
func (b *BattleState) Terrain() string {
	return b.terrain
}

// Objectives returns the mission objective descriptions
func (b *BattleState) Objectives() []string {
	return append([]string(nil), b.objectives...)
}

// CompletedObjectives returns the objectives satisfied so far
func (b *BattleState) CompletedObjectives() []string {
	return append([]string(nil), b.completedObjectives...)
}

// CompleteObjective records an objective as satisfied. Idempotent.
func (b *BattleState) CompleteObjective(objective string) {
	for _, done := range b.completedObjectives {
		if done == objective {
			return
		}
	}
	b.completedObjectives = append(b.completedObjectives, objective)
}

// Record appends an action to the log and advances the turn counter.
// Every attempted action counts as a turn, failed casts included. If the
// action dropped its target to zero health the target is marked defeated;
// that transition never reverts.
func (b *BattleState) Record(action BattleAction) {
	b.log = append(b.log, action)
	b.turn++

	if target, ok := b.Participant(action.TargetID); ok {
		if target.Stats != nil && target.Stats.Health() <= 0 {
			target.defeat()
		}
	}
}

// Outcome evaluates completion from current participant state: no active
// players means the battle is lost, no active enemies means it is won.
func (b *BattleState) Outcome() Outcome {
	if len(b.Players()) == 0 {
		return OutcomeFailed
	}
	if len(b.Enemies()) == 0 {
		return OutcomeSuccess
	}
	return OutcomeInProgress
}

// RegenerateAll applies per-turn regeneration to every active participant:
// chakra and stamina recover at a base rate scaled by the environment's
// chakra modifier.
func (b *BattleState) RegenerateAll() {
	chakraRegen := int32(5 * b.environment.ChakraModifier)
	staminaRegen := int32(3 * b.environment.ChakraModifier)

	for _, p := range b.ActiveParticipants() {
		p.Stats.Regenerate(PoolChakra, chakraRegen)
		p.Stats.Regenerate(PoolStamina, staminaRegen)
	}
}
