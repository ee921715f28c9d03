package main

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"

	"github.com/shinobios/mission-api/internal/catalog/jutsu"
	"github.com/shinobios/mission-api/internal/catalog/terrain"
	"github.com/shinobios/mission-api/internal/clients/narrative"
	"github.com/shinobios/mission-api/internal/engine"
	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/orchestrators/mission"
	"github.com/shinobios/mission-api/internal/pkg/clock"
	"github.com/shinobios/mission-api/internal/pkg/idgen"
	"github.com/shinobios/mission-api/internal/repositories/missions"
)

var (
	simDifficulty string
	simTerrain    string
	simLevel      int32
	simMaxTurns   int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one mission end to end in memory",
	Long:  `Generate a mission, fight its battle turn by turn, and print the log. Uses in-memory storage, no Redis required.`,
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simDifficulty, "difficulty", "C", "mission difficulty (D, C, B, A, S)")
	simulateCmd.Flags().StringVar(&simTerrain, "terrain", "forest", "battle terrain")
	simulateCmd.Flags().Int32Var(&simLevel, "level", 10, "player level")
	simulateCmd.Flags().IntVar(&simMaxTurns, "max-turns", 50, "round limit before giving up")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	catalog, err := jutsu.Load()
	if err != nil {
		return err
	}

	roller := &dice.CryptoRoller{}
	clk := clock.New()

	resolver, err := engine.NewResolver(&engine.Config{Roller: roller, Clock: clk})
	if err != nil {
		return err
	}
	narrativeClient, err := narrative.NewStaticClient(roller)
	if err != nil {
		return err
	}

	svc, err := mission.NewOrchestrator(&mission.Config{
		MissionRepo:     missions.NewInMemoryRepository(),
		NarrativeClient: narrativeClient,
		JutsuCatalog:    catalog,
		TerrainTable:    terrain.NewTable(),
		Resolver:        resolver,
		Roller:          roller,
		IDGenerator:     idgen.NewPrefixed("mission"),
		Clock:           clk,
	})
	if err != nil {
		return err
	}

	const actorID = "player_1"

	generated, err := svc.GenerateMission(ctx, &mission.GenerateMissionInput{
		ActorID:    actorID,
		ActorName:  "Wanderer",
		Region:     "Land of Rivers",
		Difficulty: entities.Difficulty(simDifficulty),
	})
	if err != nil {
		return err
	}
	m := generated.Mission
	fmt.Printf("Mission: %s [%s]\n%s\n\n", m.Title(), m.Difficulty(), m.Description())

	started, err := svc.InitializeBattle(ctx, &mission.InitializeBattleInput{
		ActorID: actorID,
		Players: []mission.PlayerDescriptor{{ActorID: actorID, Name: "Wanderer", Level: simLevel}},
		Terrain: simTerrain,
	})
	if err != nil {
		return err
	}
	battle := started.Mission.Battle()
	fmt.Printf("Terrain: %s (%s)\n", battle.Terrain(), battle.Environment().Name)
	for _, p := range battle.Participants() {
		fmt.Printf("  %s: lvl %d, hp %d\n", p.Name, p.Stats.Level, p.Stats.Health())
	}
	fmt.Println()

	m = started.Mission
	usable := catalog.AvailableForLevel(simLevel)
	for turn := 0; turn < simMaxTurns; turn++ {
		pick, err := roller.Roll(len(usable))
		if err != nil {
			return err
		}
		chosen := usable[pick-1]

		enemies := m.Battle().Enemies()
		if len(enemies) == 0 {
			break
		}

		played, err := svc.ApplyPlayerAction(ctx, &mission.ApplyPlayerActionInput{
			ActorID:   actorID,
			TargetID:  enemies[0].ActorID,
			JutsuName: chosen.Name,
		})
		if err != nil {
			return err
		}
		m = played.Mission
		fmt.Println(played.Action.Narration)
		if played.Outcome.Terminal() {
			break
		}

		opposed, err := svc.ApplyOpponentTurn(ctx, &mission.ApplyOpponentTurnInput{ActorID: actorID})
		if err != nil {
			return err
		}
		m = opposed.Mission
		for _, action := range opposed.Actions {
			fmt.Println(action.Narration)
		}
		if opposed.Outcome.Terminal() {
			break
		}
	}

	fmt.Printf("\nMission status: %s after %d turns\n", m.Status(), m.Battle().Turn())
	if m.Status() == entities.MissionCompleted {
		fmt.Printf("Reward: %v\n", m.Reward())
	}
	return nil
}
