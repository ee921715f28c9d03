package mission_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/shinobios/mission-api/internal/catalog/jutsu"
	"github.com/shinobios/mission-api/internal/catalog/terrain"
	"github.com/shinobios/mission-api/internal/clients/narrative"
	narrativemock "github.com/shinobios/mission-api/internal/clients/narrative/mock"
	"github.com/shinobios/mission-api/internal/engine"
	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
	"github.com/shinobios/mission-api/internal/orchestrators/mission"
	"github.com/shinobios/mission-api/internal/pkg/clock"
	"github.com/shinobios/mission-api/internal/pkg/idgen"
	"github.com/shinobios/mission-api/internal/repositories/missions"
	"github.com/shinobios/mission-api/internal/testutils"
)

const testActorID = "actor-1"

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockNarrative *narrativemock.MockClient
	clock         *clock.Manual
	catalog       *jutsu.Catalog
	ctx           context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockNarrative = narrativemock.NewMockClient(s.ctrl)
	s.clock = clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	catalog, err := jutsu.Load()
	s.Require().NoError(err)
	s.catalog = catalog

	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// newService builds an orchestrator over in-memory storage. The roller
// feeds both the resolver and the orchestrator's own picks, so tests
// script one stream of rolls.
func (s *OrchestratorTestSuite) newService(roller dice.Roller) mission.Service {
	return s.newServiceWithCatalog(roller, s.catalog)
}

func (s *OrchestratorTestSuite) newServiceWithCatalog(roller dice.Roller, catalog *jutsu.Catalog) mission.Service {
	resolver, err := engine.NewResolver(&engine.Config{
		Roller: roller,
		Clock:  s.clock,
	})
	s.Require().NoError(err)

	svc, err := mission.NewOrchestrator(&mission.Config{
		MissionRepo:     missions.NewInMemoryRepository(),
		NarrativeClient: s.mockNarrative,
		JutsuCatalog:    catalog,
		TerrainTable:    terrain.NewTable(),
		Resolver:        resolver,
		Roller:          roller,
		IDGenerator:     idgen.NewSequential("mission"),
		Clock:           s.clock,
	})
	s.Require().NoError(err)
	return svc
}

func (s *OrchestratorTestSuite) expectNarrative(times int) {
	s.mockNarrative.EXPECT().
		GenerateMission(gomock.Any(), gomock.Any()).
		Return(&narrative.GenerateMissionOutput{
			Title:        "Caravan Escort",
			Description:  "Escort a supply caravan.",
			Requirements: map[string]interface{}{"min_rank": "C"},
		}, nil).
		Times(times)
}

func (s *OrchestratorTestSuite) generate(svc mission.Service, difficulty entities.Difficulty) *entities.Mission {
	out, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
		ActorID:    testActorID,
		ActorName:  "Wanderer",
		Region:     "Land of Rivers",
		Difficulty: difficulty,
	})
	s.Require().NoError(err)
	return out.Mission
}

func (s *OrchestratorTestSuite) initBattle(svc mission.Service, level int32, terrainKey string) *entities.Mission {
	out, err := svc.InitializeBattle(s.ctx, &mission.InitializeBattleInput{
		ActorID: testActorID,
		Players: []mission.PlayerDescriptor{{ActorID: testActorID, Name: "Wanderer", Level: level}},
		Terrain: terrainKey,
	})
	s.Require().NoError(err)
	return out.Mission
}

func (s *OrchestratorTestSuite) TestGenerateMission() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(1)

	out, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
		ActorID:    testActorID,
		ActorName:  "Wanderer",
		Region:     "Land of Rivers",
		Difficulty: entities.DifficultyC,
	})
	s.Require().NoError(err)

	m := out.Mission
	s.False(out.Existing)
	s.Equal("Caravan Escort", m.Title())
	s.Equal(testActorID, m.OwnerID())
	s.Equal(entities.MissionAvailable, m.Status())
	s.Equal(time.Hour, m.Duration())
	s.Contains(m.Reward(), "exp")
	s.Contains(m.Requirements(), "min_rank")
}

func (s *OrchestratorTestSuite) TestGenerateMissionValidation() {
	svc := s.newService(&dice.CryptoRoller{})

	_, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
		ActorID:    testActorID,
		Difficulty: entities.Difficulty("Z"),
	})
	s.Require().Error(err)
	s.Equal(errors.CodeInvalidArgument, errors.GetCode(err))
}

func (s *OrchestratorTestSuite) TestGenerateMissionReturnsExistingUnchanged() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(1)

	first := s.generate(svc, entities.DifficultyC)

	out, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
		ActorID:    testActorID,
		Difficulty: entities.DifficultyS, // different request, same holder
	})
	s.Require().NoError(err)
	s.True(out.Existing)
	s.Equal(first.ID(), out.Mission.ID())
	s.Equal(entities.DifficultyC, out.Mission.Difficulty())
}

func (s *OrchestratorTestSuite) TestGenerateMissionConcurrent() {
	svc := s.newService(&dice.CryptoRoller{})
	s.mockNarrative.EXPECT().
		GenerateMission(gomock.Any(), gomock.Any()).
		Return(&narrative.GenerateMissionOutput{Title: "Caravan Escort"}, nil).
		AnyTimes()

	const workers = 10
	var wg sync.WaitGroup
	fresh := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
				ActorID:    testActorID,
				Region:     "Land of Rivers",
				Difficulty: entities.DifficultyC,
			})
			s.Require().NoError(err)
			if !out.Existing {
				fresh <- out.Mission.ID()
			}
		}()
	}
	wg.Wait()
	close(fresh)

	var freshIDs []string
	for id := range fresh {
		freshIDs = append(freshIDs, id)
	}
	s.Len(freshIDs, 1, "exactly one goroutine should create the mission")
}

func (s *OrchestratorTestSuite) TestGenerateMissionRegionCooldown() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(2)

	s.generate(svc, entities.DifficultyC)

	// A different actor hits the same region inside the cooldown window
	_, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
		ActorID:    "actor-2",
		Region:     "Land of Rivers",
		Difficulty: entities.DifficultyC,
	})
	s.Require().Error(err)
	s.Equal(errors.CodeResourceExhausted, errors.GetCode(err))

	s.clock.Advance(mission.DefaultGenerationCooldown)

	out, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
		ActorID:    "actor-2",
		Region:     "Land of Rivers",
		Difficulty: entities.DifficultyC,
	})
	s.Require().NoError(err)
	s.False(out.Existing)
}

func (s *OrchestratorTestSuite) TestGenerateMissionFailureReleasesRegionCooldown() {
	svc := s.newService(&dice.CryptoRoller{})
	s.mockNarrative.EXPECT().
		GenerateMission(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("narrative service down"))
	s.expectNarrative(1)

	_, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
		ActorID:    testActorID,
		Region:     "Land of Rivers",
		Difficulty: entities.DifficultyC,
	})
	s.Require().Error(err)

	// No clock movement: the failed attempt must not hold the region
	out, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
		ActorID:    testActorID,
		Region:     "Land of Rivers",
		Difficulty: entities.DifficultyC,
	})
	s.Require().NoError(err)
	s.False(out.Existing)
}

func (s *OrchestratorTestSuite) TestGetActiveMissionNotFound() {
	svc := s.newService(&dice.CryptoRoller{})

	_, err := svc.GetActiveMission(s.ctx, &mission.GetActiveMissionInput{ActorID: testActorID})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestInitializeBattle() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyC)

	m := s.initBattle(svc, 10, "desert")

	s.Equal(entities.MissionInProgress, m.Status())
	s.Require().NotNil(m.StartedAt())

	battle := m.Battle()
	s.Require().NotNil(battle)
	s.Equal("desert", battle.Terrain())
	s.Len(battle.Players(), 1)
	s.Len(battle.Enemies(), 1) // C rank fields one opponent
	s.NotEmpty(battle.Objectives())
}

func (s *OrchestratorTestSuite) TestInitializeBattleOpponentCountByDifficulty() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyS)

	m := s.initBattle(svc, 30, "forest")

	s.Len(m.Battle().Enemies(), 3)
}

func (s *OrchestratorTestSuite) TestInitializeBattleUnknownTerrainFallsBack() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyC)

	m := s.initBattle(svc, 10, "moon")

	s.Equal("forest", m.Battle().Terrain())
}

func (s *OrchestratorTestSuite) TestInitializeBattleTwiceFails() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyC)
	s.initBattle(svc, 10, "forest")

	_, err := svc.InitializeBattle(s.ctx, &mission.InitializeBattleInput{
		ActorID: testActorID,
		Players: []mission.PlayerDescriptor{{ActorID: testActorID, Name: "Wanderer", Level: 10}},
	})
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *OrchestratorTestSuite) TestApplyPlayerActionDefeatsOpponent() {
	// hit roll 50, no crit, narration pick 1
	svc := s.newService(testutils.NewScriptedRoller(50, 50, 1))
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyD)
	m := s.initBattle(svc, 30, "forest")

	target := m.Battle().Enemies()[0]

	out, err := svc.ApplyPlayerAction(s.ctx, &mission.ApplyPlayerActionInput{
		ActorID:   testActorID,
		TargetID:  target.ActorID,
		JutsuName: "Rasengan",
	})
	s.Require().NoError(err)

	s.True(out.Action.Success)
	s.Equal(entities.OutcomeSuccess, out.Outcome)
	// Turn resolution records the outcome but completion is a separate step
	s.Equal(entities.MissionInProgress, out.Mission.Status())
	s.Equal("success", out.Mission.Progress()["battle_outcome"])
	s.Empty(out.Mission.Battle().Enemies())
}

func (s *OrchestratorTestSuite) TestApplyPlayerActionErrors() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyC)

	s.Run("before battle starts", func() {
		_, err := svc.ApplyPlayerAction(s.ctx, &mission.ApplyPlayerActionInput{
			ActorID:   testActorID,
			TargetID:  "anyone",
			JutsuName: "Punch",
		})
		s.Require().Error(err)
		s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
	})

	m := s.initBattle(svc, 5, "forest")
	target := m.Battle().Enemies()[0]

	s.Run("unknown target", func() {
		_, err := svc.ApplyPlayerAction(s.ctx, &mission.ApplyPlayerActionInput{
			ActorID:   testActorID,
			TargetID:  "nobody",
			JutsuName: "Punch",
		})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
	})

	s.Run("unknown jutsu", func() {
		_, err := svc.ApplyPlayerAction(s.ctx, &mission.ApplyPlayerActionInput{
			ActorID:   testActorID,
			TargetID:  target.ActorID,
			JutsuName: "Forbidden Art",
		})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
	})

	s.Run("level-gated jutsu", func() {
		_, err := svc.ApplyPlayerAction(s.ctx, &mission.ApplyPlayerActionInput{
			ActorID:   testActorID,
			TargetID:  target.ActorID,
			JutsuName: "Rasengan", // requires level 20, player is 5
		})
		s.Require().Error(err)
		s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
	})
}

func (s *OrchestratorTestSuite) TestApplyOpponentTurn() {
	// jutsu pick, target pick, then hit/crit/narration for the one opponent
	svc := s.newService(testutils.NewScriptedRoller(1, 1, 50, 50, 1))
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyC)
	s.initBattle(svc, 30, "forest")

	out, err := svc.ApplyOpponentTurn(s.ctx, &mission.ApplyOpponentTurnInput{ActorID: testActorID})
	s.Require().NoError(err)

	s.Require().Len(out.Actions, 1)
	s.Equal(testActorID, out.Actions[0].TargetID)
	s.Equal(entities.OutcomeInProgress, out.Outcome)

	player, ok := out.Mission.Battle().Participant(testActorID)
	s.Require().True(ok)
	s.Less(player.Stats.Health(), player.Stats.MaxHealth())
}

func (s *OrchestratorTestSuite) TestApplyOpponentTurnSkipsOpponentWithoutTechniques() {
	// A catalog whose only technique is far above the opponents' levels
	path := filepath.Join(s.T().TempDir(), "jutsu.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(`
jutsu:
  - id: forbidden_art
    name: Forbidden Art
    chakra_cost: 90
    power: 100
    accuracy: 50
    level_requirement: 50
`), 0o600))
	catalog, err := jutsu.LoadFile(path)
	s.Require().NoError(err)

	// No rolls: a skipped opponent must not consume any
	svc := s.newServiceWithCatalog(testutils.NewScriptedRoller(), catalog)
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyD)
	s.initBattle(svc, 10, "forest")

	out, err := svc.ApplyOpponentTurn(s.ctx, &mission.ApplyOpponentTurnInput{ActorID: testActorID})
	s.Require().NoError(err)

	s.Empty(out.Actions)
	s.Equal(entities.OutcomeInProgress, out.Outcome)

	player, ok := out.Mission.Battle().Participant(testActorID)
	s.Require().True(ok)
	s.Equal(player.Stats.MaxHealth(), player.Stats.Health())
}

func (s *OrchestratorTestSuite) TestCompleteMission() {
	svc := s.newService(testutils.NewScriptedRoller(50, 50, 1))
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyD)
	m := s.initBattle(svc, 30, "forest")
	target := m.Battle().Enemies()[0]

	_, err := svc.ApplyPlayerAction(s.ctx, &mission.ApplyPlayerActionInput{
		ActorID:   testActorID,
		TargetID:  target.ActorID,
		JutsuName: "Rasengan",
	})
	s.Require().NoError(err)

	out, err := svc.CompleteMission(s.ctx, &mission.CompleteMissionInput{ActorID: testActorID})
	s.Require().NoError(err)

	s.Equal(entities.MissionCompleted, out.Mission.Status())
	s.Require().NotNil(out.Mission.CompletedAt())
	s.Contains(out.Reward, "exp")
	s.Equal(out.Mission.Battle().Objectives(), out.Mission.Battle().CompletedObjectives())

	// The owner's slot is free again
	_, err = svc.GetActiveMission(s.ctx, &mission.GetActiveMissionInput{ActorID: testActorID})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestCompleteMissionFailure() {
	// Seven bandit turns of Basic Attack wear the level 1 player down;
	// each turn rolls jutsu pick, target pick, hit, crit, narration
	var rolls []int
	for i := 0; i < 7; i++ {
		rolls = append(rolls, 1, 1, 50, 50, 1)
	}
	svc := s.newService(testutils.NewScriptedRoller(rolls...))
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyD)
	s.initBattle(svc, 1, "forest")

	var outcome entities.Outcome
	for i := 0; i < 7; i++ {
		out, err := svc.ApplyOpponentTurn(s.ctx, &mission.ApplyOpponentTurnInput{ActorID: testActorID})
		s.Require().NoError(err)
		outcome = out.Outcome
	}
	s.Equal(entities.OutcomeFailed, outcome)

	out, err := svc.CompleteMission(s.ctx, &mission.CompleteMissionInput{ActorID: testActorID})
	s.Require().NoError(err)

	s.Equal(entities.MissionFailed, out.Mission.Status())
	s.Empty(out.Reward)
	s.Equal("failed", out.Mission.Progress()["battle_outcome"])

	// A failed mission frees the owner's slot like a completed one
	_, err = svc.GetActiveMission(s.ctx, &mission.GetActiveMissionInput{ActorID: testActorID})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestCompleteMissionWhileBattleOngoing() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(1)
	s.generate(svc, entities.DifficultyC)
	s.initBattle(svc, 10, "forest")

	_, err := svc.CompleteMission(s.ctx, &mission.CompleteMissionInput{ActorID: testActorID})
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *OrchestratorTestSuite) TestMissionExpiry() {
	svc := s.newService(&dice.CryptoRoller{})
	s.expectNarrative(2)
	s.generate(svc, entities.DifficultyD) // 30 minute window
	m := s.initBattle(svc, 10, "forest")
	target := m.Battle().Enemies()[0]

	s.clock.Advance(31 * time.Minute)

	s.Run("expiry is observed and persisted on read", func() {
		out, err := svc.GetActiveMission(s.ctx, &mission.GetActiveMissionInput{ActorID: testActorID})
		s.Require().NoError(err)
		s.Equal(entities.MissionExpired, out.Mission.Status())
	})

	s.Run("expired missions reject actions", func() {
		// The expiry was persisted terminal, freeing the slot
		_, err := svc.ApplyPlayerAction(s.ctx, &mission.ApplyPlayerActionInput{
			ActorID:   testActorID,
			TargetID:  target.ActorID,
			JutsuName: "Punch",
		})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
	})

	s.Run("the owner can take on new work", func() {
		out, err := svc.GenerateMission(s.ctx, &mission.GenerateMissionInput{
			ActorID:    testActorID,
			Region:     "Land of Rivers",
			Difficulty: entities.DifficultyC,
		})
		s.Require().NoError(err)
		s.False(out.Existing)
		s.NotEqual(m.ID(), out.Mission.ID())
	})
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
