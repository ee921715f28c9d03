// Package mission implements the mission lifecycle orchestrator: it owns
// the coordination between mission records, battle state, the action
// resolver, and the narrative client. All per-owner mutations run under a
// per-owner lock; mission expiry is evaluated lazily on every entry point
// that touches a mission.
package mission

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/shinobios/mission-api/internal/catalog/jutsu"
	"github.com/shinobios/mission-api/internal/catalog/terrain"
	"github.com/shinobios/mission-api/internal/clients/narrative"
	"github.com/shinobios/mission-api/internal/engine"
	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
	"github.com/shinobios/mission-api/internal/pkg/clock"
	"github.com/shinobios/mission-api/internal/pkg/idgen"
	"github.com/shinobios/mission-api/internal/repositories/missions"
)

// Config holds the dependencies for the orchestrator
type Config struct {
	MissionRepo     missions.Repository
	NarrativeClient narrative.Client
	JutsuCatalog    *jutsu.Catalog
	TerrainTable    *terrain.Table
	Resolver        *engine.Resolver
	Roller          dice.Roller
	IDGenerator     idgen.Generator
	Clock           clock.Clock

	// GenerationCooldown overrides the per-region generation cooldown;
	// zero means the default
	GenerationCooldown time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.MissionRepo == nil {
		vb.RequiredField("MissionRepo")
	}
	if c.NarrativeClient == nil {
		vb.RequiredField("NarrativeClient")
	}
	if c.JutsuCatalog == nil {
		vb.RequiredField("JutsuCatalog")
	}
	if c.TerrainTable == nil {
		vb.RequiredField("TerrainTable")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// Orchestrator implements the mission Service
type Orchestrator struct {
	missionRepo     missions.Repository
	narrativeClient narrative.Client
	jutsuCatalog    *jutsu.Catalog
	terrainTable    *terrain.Table
	resolver        *engine.Resolver
	roller          dice.Roller
	idGen           idgen.Generator
	clock           clock.Clock
	guard           *guard
}

// NewOrchestrator creates a mission orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		missionRepo:     cfg.MissionRepo,
		narrativeClient: cfg.NarrativeClient,
		jutsuCatalog:    cfg.JutsuCatalog,
		terrainTable:    cfg.TerrainTable,
		resolver:        cfg.Resolver,
		roller:          cfg.Roller,
		idGen:           cfg.IDGenerator,
		clock:           cfg.Clock,
		guard:           newGuard(cfg.GenerationCooldown, cfg.Clock),
	}, nil
}

// Ensure Orchestrator implements Service
var _ Service = (*Orchestrator)(nil)

// GenerateMission creates a mission for the actor. If the actor already
// holds a non-terminal mission it is returned unchanged; holding a mission
// is never an error, only a fact. Generation in the same region is
// rate-limited.
func (o *Orchestrator) GenerateMission(ctx context.Context, input *GenerateMissionInput) (*GenerateMissionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	if input.ActorID == "" {
		vb.RequiredField("ActorID")
	}
	if !input.Difficulty.Valid() {
		vb.InvalidField("Difficulty", "must be one of D, C, B, A, S")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.guard.lockOwner(input.ActorID)
	defer unlock()

	existing, err := o.currentMission(ctx, input.ActorID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil && !existing.Status().Terminal() {
		slog.Info("actor already holds a mission",
			"actor_id", input.ActorID,
			"mission_id", existing.ID(),
			"status", string(existing.Status()))
		return &GenerateMissionOutput{Mission: existing, Existing: true}, nil
	}

	claimedAt, err := o.guard.reserveRegion(input.Region)
	if err != nil {
		return nil, err
	}

	text, err := o.narrativeClient.GenerateMission(ctx, &narrative.GenerateMissionInput{
		ActorID:    input.ActorID,
		ActorName:  input.ActorName,
		Region:     input.Region,
		Difficulty: input.Difficulty,
	})
	if err != nil {
		o.guard.releaseRegion(input.Region, claimedAt)
		return nil, errors.Wrap(err, "failed to generate mission narrative")
	}

	scenario, err := engine.BuildScenario(input.Difficulty)
	if err != nil {
		o.guard.releaseRegion(input.Region, claimedAt)
		return nil, err
	}

	mission := entities.NewMission(entities.NewMissionInput{
		ID:           o.idGen.Generate(),
		OwnerID:      input.ActorID,
		Title:        text.Title,
		Description:  text.Description,
		Difficulty:   input.Difficulty,
		Region:       input.Region,
		Reward:       scenario.Reward,
		Requirements: text.Requirements,
		Duration:     scenario.Duration,
	})

	if _, err := o.missionRepo.Create(ctx, missions.CreateInput{Mission: mission}); err != nil {
		o.guard.releaseRegion(input.Region, claimedAt)
		return nil, errors.Wrap(err, "failed to store mission")
	}

	slog.Info("mission generated",
		"actor_id", input.ActorID,
		"mission_id", mission.ID(),
		"difficulty", string(input.Difficulty),
		"region", input.Region)

	return &GenerateMissionOutput{Mission: mission}, nil
}

// GetActiveMission returns the actor's current mission. Expiry is checked
// and persisted before the mission is reported, so callers never see a
// stale in-progress status.
func (o *Orchestrator) GetActiveMission(ctx context.Context, input *GetActiveMissionInput) (*GetActiveMissionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ActorID == "" {
		return nil, errors.InvalidArgument("actor ID is required")
	}

	unlock := o.guard.lockOwner(input.ActorID)
	defer unlock()

	mission, err := o.currentMission(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	return &GetActiveMissionOutput{Mission: mission}, nil
}

// InitializeBattle builds the mission's battle from the difficulty's
// scenario and starts the mission
func (o *Orchestrator) InitializeBattle(ctx context.Context, input *InitializeBattleInput) (*InitializeBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	if input.ActorID == "" {
		vb.RequiredField("ActorID")
	}
	if len(input.Players) == 0 {
		vb.RequiredField("Players")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.guard.lockOwner(input.ActorID)
	defer unlock()

	mission, err := o.currentMission(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if mission.Status() != entities.MissionAvailable {
		return nil, errors.FailedPreconditionf(
			"mission %s cannot start a battle from status %s", mission.ID(), mission.Status())
	}

	scenario, err := engine.BuildScenario(mission.Difficulty())
	if err != nil {
		return nil, err
	}

	terrainKey, env := o.terrainTable.GetOrDefault(input.Terrain)
	battle := entities.NewBattleState(terrainKey, env, scenario.Objectives)

	for _, player := range input.Players {
		level := player.Level
		if level < 1 {
			level = 1
		}
		stats := entities.NewStatBlock(player.Name, level)
		battle.AddParticipant(entities.NewBattleParticipant(player.ActorID, player.Name, stats, true))
	}
	for _, opponent := range scenario.Opponents {
		battle.AddParticipant(entities.NewBattleParticipant(
			o.idGen.Generate(), opponent.Name, opponent, false))
	}

	mission.SetBattle(battle)
	if err := mission.Start(o.clock.Now()); err != nil {
		return nil, err
	}

	if _, err := o.missionRepo.Save(ctx, missions.SaveInput{Mission: mission}); err != nil {
		return nil, errors.Wrap(err, "failed to save mission")
	}

	slog.Info("battle initialized",
		"mission_id", mission.ID(),
		"terrain", terrainKey,
		"players", len(input.Players),
		"opponents", len(scenario.Opponents))

	return &InitializeBattleOutput{Mission: mission}, nil
}

// ApplyPlayerAction resolves one player action, records it, applies
// regeneration, and folds a terminal battle outcome into the mission
// status
func (o *Orchestrator) ApplyPlayerAction(ctx context.Context, input *ApplyPlayerActionInput) (*ApplyPlayerActionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	if input.ActorID == "" {
		vb.RequiredField("ActorID")
	}
	if input.TargetID == "" {
		vb.RequiredField("TargetID")
	}
	if input.JutsuName == "" {
		vb.RequiredField("JutsuName")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.guard.lockOwner(input.ActorID)
	defer unlock()

	mission, battle, err := o.missionInBattle(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	participantID := input.ParticipantID
	if participantID == "" {
		participantID = input.ActorID
	}

	actor, err := o.eligibleParticipant(battle, participantID, true)
	if err != nil {
		return nil, err
	}
	target, err := o.eligibleParticipant(battle, input.TargetID, false)
	if err != nil {
		return nil, err
	}

	j, ok := o.jutsuCatalog.GetByName(input.JutsuName)
	if !ok {
		return nil, errors.NotFoundf("jutsu %q not found", input.JutsuName)
	}
	if j.LevelRequirement > actor.Stats.Level {
		return nil, errors.FailedPreconditionf(
			"%s requires level %d, %s is level %d",
			j.Name, j.LevelRequirement, actor.Name, actor.Stats.Level)
	}

	action, err := o.resolver.Resolve(actor, target, j, battle.Environment())
	if err != nil {
		return nil, err
	}
	battle.Record(action)
	battle.RegenerateAll()

	outcome, err := o.settleOutcome(mission, battle)
	if err != nil {
		return nil, err
	}

	if _, err := o.missionRepo.Save(ctx, missions.SaveInput{Mission: mission}); err != nil {
		return nil, errors.Wrap(err, "failed to save mission")
	}

	slog.Debug("player action resolved",
		"mission_id", mission.ID(),
		"actor_id", actor.ActorID,
		"target_id", target.ActorID,
		"jutsu", j.Name,
		"hit", action.Success,
		"damage", action.Damage,
		"outcome", string(outcome))

	return &ApplyPlayerActionOutput{
		Action:  action,
		Outcome: outcome,
		Mission: mission,
	}, nil
}

// ApplyOpponentTurn resolves one action for every active opponent in join
// order. Each opponent picks a usable technique and a player target at
// random. The turn short-circuits as soon as the battle becomes terminal.
func (o *Orchestrator) ApplyOpponentTurn(ctx context.Context, input *ApplyOpponentTurnInput) (*ApplyOpponentTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ActorID == "" {
		return nil, errors.InvalidArgument("actor ID is required")
	}

	unlock := o.guard.lockOwner(input.ActorID)
	defer unlock()

	mission, battle, err := o.missionInBattle(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	var actions []entities.BattleAction
	for _, opponent := range battle.Enemies() {
		if battle.Outcome().Terminal() {
			break
		}
		if !opponent.Active() {
			continue
		}

		j, err := o.pickJutsu(opponent)
		if err != nil {
			return nil, err
		}
		if j == nil {
			// No technique usable at this opponent's level; it sits the
			// turn out
			continue
		}
		target, err := o.pickTarget(battle)
		if err != nil {
			return nil, err
		}

		action, err := o.resolver.Resolve(opponent, target, j, battle.Environment())
		if err != nil {
			return nil, err
		}
		battle.Record(action)
		actions = append(actions, action)
	}
	battle.RegenerateAll()

	outcome, err := o.settleOutcome(mission, battle)
	if err != nil {
		return nil, err
	}

	if _, err := o.missionRepo.Save(ctx, missions.SaveInput{Mission: mission}); err != nil {
		return nil, errors.Wrap(err, "failed to save mission")
	}

	slog.Debug("opponent turn resolved",
		"mission_id", mission.ID(),
		"actions", len(actions),
		"outcome", string(outcome))

	return &ApplyOpponentTurnOutput{
		Actions: actions,
		Outcome: outcome,
		Mission: mission,
	}, nil
}

// CompleteMission finalizes the actor's mission from its battle outcome
func (o *Orchestrator) CompleteMission(ctx context.Context, input *CompleteMissionInput) (*CompleteMissionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ActorID == "" {
		return nil, errors.InvalidArgument("actor ID is required")
	}

	unlock := o.guard.lockOwner(input.ActorID)
	defer unlock()

	mission, battle, err := o.missionInBattle(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	outcome := battle.Outcome()
	if !outcome.Terminal() {
		return nil, errors.FailedPreconditionf(
			"mission %s battle is still in progress", mission.ID())
	}

	if err := o.applyOutcome(mission, battle, outcome); err != nil {
		return nil, err
	}

	if _, err := o.missionRepo.Save(ctx, missions.SaveInput{Mission: mission}); err != nil {
		return nil, errors.Wrap(err, "failed to save mission")
	}

	out := &CompleteMissionOutput{Mission: mission}
	if mission.Status() == entities.MissionCompleted {
		out.Reward = mission.Reward()
	}

	slog.Info("mission finalized",
		"mission_id", mission.ID(),
		"status", string(mission.Status()))

	return out, nil
}

// currentMission loads the owner's indexed mission and applies lazy
// expiry, persisting the transition before returning. Must run under the
// owner lock.
func (o *Orchestrator) currentMission(ctx context.Context, ownerID string) (*entities.Mission, error) {
	out, err := o.missionRepo.GetForOwner(ctx, missions.GetForOwnerInput{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	mission := out.Mission

	if mission.CheckExpired(o.clock.Now()) {
		if _, err := o.missionRepo.Save(ctx, missions.SaveInput{Mission: mission}); err != nil {
			return nil, errors.Wrap(err, "failed to persist mission expiry")
		}
		slog.Info("mission expired",
			"mission_id", mission.ID(),
			"owner_id", ownerID)
	}

	return mission, nil
}

// missionInBattle loads the owner's mission and requires it to be in
// progress with a battle attached
func (o *Orchestrator) missionInBattle(ctx context.Context, ownerID string) (*entities.Mission, *entities.BattleState, error) {
	mission, err := o.currentMission(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if mission.Status() != entities.MissionInProgress {
		return nil, nil, errors.FailedPreconditionf(
			"mission %s is %s, not in progress", mission.ID(), mission.Status())
	}
	if mission.Battle() == nil {
		return nil, nil, errors.FailedPreconditionf(
			"mission %s has no battle", mission.ID())
	}
	return mission, mission.Battle(), nil
}

// eligibleParticipant looks up a participant and checks it can take part
// in an action right now
func (o *Orchestrator) eligibleParticipant(battle *entities.BattleState, actorID string, wantPlayer bool) (*entities.BattleParticipant, error) {
	p, ok := battle.Participant(actorID)
	if !ok {
		return nil, errors.NotFoundf("participant %s not found in battle", actorID)
	}
	if !p.Active() {
		return nil, errors.FailedPreconditionf(
			"participant %s is %s and cannot act or be targeted", actorID, p.Status())
	}
	if wantPlayer && !p.IsPlayer {
		return nil, errors.FailedPreconditionf(
			"participant %s is not player-controlled", actorID)
	}
	return p, nil
}

// pickTarget chooses a random active player participant
func (o *Orchestrator) pickTarget(battle *entities.BattleState) (*entities.BattleParticipant, error) {
	players := battle.Players()
	if len(players) == 0 {
		return nil, errors.FailedPrecondition("no active players to target")
	}
	pick, err := o.roller.Roll(len(players))
	if err != nil {
		return nil, errors.Wrap(err, "target roll failed")
	}
	return players[pick-1], nil
}

// pickJutsu chooses a random technique the opponent can use at its level,
// preferring ones it can currently afford. Returns nil when nothing is
// available at the opponent's level.
func (o *Orchestrator) pickJutsu(opponent *entities.BattleParticipant) (*entities.Jutsu, error) {
	available := o.jutsuCatalog.AvailableForLevel(opponent.Stats.Level)
	if len(available) == 0 {
		return nil, nil
	}

	var affordable []*entities.Jutsu
	for _, j := range available {
		if j.ChakraCost <= opponent.Stats.Chakra() {
			affordable = append(affordable, j)
		}
	}
	if len(affordable) == 0 {
		affordable = available
	}

	pick, err := o.roller.Roll(len(affordable))
	if err != nil {
		return nil, errors.Wrap(err, "jutsu roll failed")
	}
	return affordable[pick-1], nil
}

// settleOutcome records a terminal battle outcome in the mission's
// progress. The mission status itself only moves in CompleteMission, so a
// won battle stays claimable until the owner turns it in. The mission's
// deadline keeps running meanwhile: a won battle that is never turned in
// still expires.
func (o *Orchestrator) settleOutcome(mission *entities.Mission, battle *entities.BattleState) (entities.Outcome, error) {
	outcome := battle.Outcome()
	if !outcome.Terminal() {
		return outcome, nil
	}
	if err := mission.UpdateProgress("battle_outcome", string(outcome)); err != nil {
		return outcome, err
	}
	if err := mission.UpdateProgress("turns", battle.Turn()); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// applyOutcome moves the mission to its final status for the outcome
func (o *Orchestrator) applyOutcome(mission *entities.Mission, battle *entities.BattleState, outcome entities.Outcome) error {
	if err := mission.UpdateProgress("battle_outcome", string(outcome)); err != nil {
		return err
	}
	if err := mission.UpdateProgress("turns", battle.Turn()); err != nil {
		return err
	}

	switch outcome {
	case entities.OutcomeSuccess:
		for _, objective := range battle.Objectives() {
			battle.CompleteObjective(objective)
		}
		return mission.Complete(o.clock.Now())
	case entities.OutcomeFailed:
		return mission.Fail()
	default:
		return errors.Internalf("outcome %s is not terminal", outcome)
	}
}
