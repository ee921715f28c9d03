package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shinobios/mission-api/internal/engine"
	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/pkg/clock"
	"github.com/shinobios/mission-api/internal/testutils"
)

var forestEnv = entities.EnvironmentEffect{
	Name:             "Dense Forest",
	ChakraModifier:   1.1,
	DamageModifier:   1.0,
	AccuracyModifier: 0.9,
	StaminaModifier:  1.0,
}

var fireball = &entities.Jutsu{
	ID:             "fireball",
	Name:           "Fireball Jutsu",
	Element:        "fire",
	ChakraCost:     30,
	Power:          40,
	Accuracy:       85,
	SpecialEffects: []string{"burn_chance"},
}

type ResolverTestSuite struct {
	suite.Suite
	now    time.Time
	actor  *entities.BattleParticipant
	target *entities.BattleParticipant
}

func (s *ResolverTestSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.actor = entities.NewBattleParticipant(
		"attacker", "Attacker", entities.NewStatBlock("Attacker", 10), true)
	s.target = entities.NewBattleParticipant(
		"defender", "Defender", entities.NewStatBlock("Defender", 10), false)
}

func (s *ResolverTestSuite) newResolver(rolls ...int) *engine.Resolver {
	resolver, err := engine.NewResolver(&engine.Config{
		Roller: testutils.NewScriptedRoller(rolls...),
		Clock:  clock.NewManual(s.now),
	})
	s.Require().NoError(err)
	return resolver
}

func (s *ResolverTestSuite) TestResolveHit() {
	// hit roll 50, crit roll 50 (no crit), narration pick 1
	resolver := s.newResolver(50, 50, 1)

	action, err := resolver.Resolve(s.actor, s.target, fireball, forestEnv)
	s.Require().NoError(err)

	s.True(action.Success)
	// power 40 scaled by ninjutsu 68 and chakra control 68, minus
	// defense mitigation 68/10
	s.Equal(int32(88), action.Damage)
	s.Equal(int32(30), action.ChakraUsed)
	s.Equal(int32(160), s.actor.Stats.Chakra())
	s.Equal(int32(147), s.target.Stats.Health())
	s.Contains(action.Effects, "burn_chance")
	s.NotContains(action.Effects, engine.EffectCriticalHit)
	s.Equal(s.now, action.Timestamp)
	s.Contains(action.Narration, "Attacker")
}

func (s *ResolverTestSuite) TestResolveCriticalHit() {
	resolver := s.newResolver(50, 3, 1)

	action, err := resolver.Resolve(s.actor, s.target, fireball, forestEnv)
	s.Require().NoError(err)

	s.True(action.Success)
	s.Equal(int32(135), action.Damage)
	s.Contains(action.Effects, engine.EffectCriticalHit)
}

func (s *ResolverTestSuite) TestResolveMiss() {
	// accuracy caps at 95, so a 96 always misses
	resolver := s.newResolver(96, 50, 1)

	action, err := resolver.Resolve(s.actor, s.target, fireball, forestEnv)
	s.Require().NoError(err)

	s.False(action.Success)
	s.Zero(action.Damage)
	s.Equal(s.target.Stats.MaxHealth(), s.target.Stats.Health())
	s.NotContains(action.Effects, "burn_chance")
	// Chakra is spent on a miss
	s.Equal(int32(160), s.actor.Stats.Chakra())
}

func (s *ResolverTestSuite) TestAccuracyCapBoundary() {
	hit := s.newResolver(95, 50, 1)
	action, err := hit.Resolve(s.actor, s.target, fireball, forestEnv)
	s.Require().NoError(err)
	s.True(action.Success)
}

func (s *ResolverTestSuite) TestAccuracyFloor() {
	wildSwing := &entities.Jutsu{
		ID:       "wild_swing",
		Name:     "Wild Swing",
		Power:    10,
		Accuracy: 1,
	}

	// Base accuracy 1 collapses below the floor; a roll of 10 still hits
	hit := s.newResolver(10, 50, 1)
	action, err := hit.Resolve(s.actor, s.target, wildSwing, forestEnv)
	s.Require().NoError(err)
	s.True(action.Success)

	miss := s.newResolver(11, 50, 1)
	action, err = miss.Resolve(s.actor, s.target, wildSwing, forestEnv)
	s.Require().NoError(err)
	s.False(action.Success)
}

func (s *ResolverTestSuite) TestElementalAffinityBonus() {
	s.actor.Stats.ElementalAffinity = "fire"
	resolver := s.newResolver(50, 50, 1)

	action, err := resolver.Resolve(s.actor, s.target, fireball, forestEnv)
	s.Require().NoError(err)

	// 20% affinity bonus over the 88 baseline
	s.Equal(int32(106), action.Damage)
}

func (s *ResolverTestSuite) TestNeutralElementGetsNoAffinityBonus() {
	rasengan := &entities.Jutsu{
		ID:         "rasengan",
		Name:       "Rasengan",
		Element:    "none",
		ChakraCost: 50,
		Power:      60,
		Accuracy:   70,
	}
	s.actor.Stats.ElementalAffinity = "none"
	resolver := s.newResolver(50, 50, 1)

	action, err := resolver.Resolve(s.actor, s.target, rasengan, forestEnv)
	s.Require().NoError(err)

	// "none" matching "none" is not an affinity; power 60 scaled by
	// ninjutsu 68 and chakra control 68, minus defense mitigation 68/10
	s.Equal(int32(135), action.Damage)
}

func (s *ResolverTestSuite) TestEnvironmentDamageModifier() {
	volcanic := forestEnv
	volcanic.Name = "Volcanic Terrain"
	volcanic.DamageModifier = 1.3
	resolver := s.newResolver(50, 50, 1)

	action, err := resolver.Resolve(s.actor, s.target, fireball, volcanic)
	s.Require().NoError(err)

	s.Greater(action.Damage, int32(88))
}

func (s *ResolverTestSuite) TestZeroPowerStillDealsMinimumOnHit() {
	shadowClone := &entities.Jutsu{
		ID:             "shadow_clone",
		Name:           "Shadow Clone Technique",
		ChakraCost:     20,
		Power:          0,
		Accuracy:       90,
		SpecialEffects: []string{"clone_creation"},
	}
	resolver := s.newResolver(50, 50, 1)

	action, err := resolver.Resolve(s.actor, s.target, shadowClone, forestEnv)
	s.Require().NoError(err)

	s.True(action.Success)
	s.Equal(int32(1), action.Damage)
}

func (s *ResolverTestSuite) TestInsufficientChakra() {
	s.actor.Stats.Consume(entities.PoolChakra, 170) // 20 left, fireball costs 30
	resolver := s.newResolver()                     // no rolls should be consumed

	action, err := resolver.Resolve(s.actor, s.target, fireball, forestEnv)
	s.Require().NoError(err)

	s.False(action.Success)
	s.Zero(action.Damage)
	s.Zero(action.ChakraUsed)
	s.Equal([]string{engine.EffectInsufficientChakra}, action.Effects)
	s.Equal(int32(20), s.actor.Stats.Chakra())
	s.Equal(s.target.Stats.MaxHealth(), s.target.Stats.Health())
	s.NotEmpty(action.Narration)
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}
