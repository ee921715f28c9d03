package engine

import (
	"time"

	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
)

// Scenario is the combat setup for one mission difficulty tier: who the
// player fights, what must be accomplished, how long the mission stays
// open, and what completing it pays.
type Scenario struct {
	Opponents  []*entities.StatBlock
	Objectives []string
	Duration   time.Duration
	Reward     map[string]interface{}
}

// tier describes the fixed shape of one difficulty
type tier struct {
	opponents  []opponentSpec
	objectives []string
	duration   time.Duration
	expReward  int
	ryoReward  int
}

type opponentSpec struct {
	name  string
	level int32
}

var tiers = map[entities.Difficulty]tier{
	entities.DifficultyD: {
		opponents:  []opponentSpec{{"Bandit", 5}},
		objectives: []string{"Defeat the bandit"},
		duration:   30 * time.Minute,
		expReward:  50,
		ryoReward:  100,
	},
	entities.DifficultyC: {
		opponents:  []opponentSpec{{"Missing-nin", 10}},
		objectives: []string{"Capture the missing-nin"},
		duration:   time.Hour,
		expReward:  120,
		ryoReward:  250,
	},
	entities.DifficultyB: {
		opponents:  []opponentSpec{{"Elite Missing-nin", 15}, {"Academy Student", 8}},
		objectives: []string{"Defeat the missing-nin", "Protect the student"},
		duration:   2 * time.Hour,
		expReward:  300,
		ryoReward:  600,
	},
	entities.DifficultyA: {
		opponents:  []opponentSpec{{"S-rank Criminal", 25}, {"Elite Guard", 20}},
		objectives: []string{"Eliminate the criminal", "Secure the area"},
		duration:   4 * time.Hour,
		expReward:  700,
		ryoReward:  1500,
	},
	entities.DifficultyS: {
		opponents:  []opponentSpec{{"Legendary Shinobi", 40}, {"Elite Squad Leader", 30}, {"Elite Guard", 25}},
		objectives: []string{"Defeat the legendary shinobi", "Survive the encounter"},
		duration:   6 * time.Hour,
		expReward:  1500,
		ryoReward:  4000,
	},
}

// BuildScenario produces the combat setup for a difficulty. Opponent stat
// blocks are freshly scaled per call so concurrent missions never share
// mutable state.
func BuildScenario(difficulty entities.Difficulty) (Scenario, error) {
	t, ok := tiers[difficulty]
	if !ok {
		return Scenario{}, errors.InvalidArgumentf("unknown difficulty %q", difficulty)
	}

	opponents := make([]*entities.StatBlock, 0, len(t.opponents))
	for _, spec := range t.opponents {
		opponents = append(opponents, entities.NewStatBlock(spec.name, spec.level))
	}

	return Scenario{
		Opponents:  opponents,
		Objectives: append([]string(nil), t.objectives...),
		Duration:   t.duration,
		Reward: map[string]interface{}{
			"exp": t.expReward,
			"ryo": t.ryoReward,
		},
	}, nil
}
