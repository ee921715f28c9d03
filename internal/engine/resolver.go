// Package engine implements combat action resolution: the numeric model
// that turns "actor uses jutsu on target under environment" into a
// BattleAction. All randomness flows through an injected dice.Roller so
// resolution is deterministic and replayable under a fixed roller.
package engine

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
	"github.com/shinobios/mission-api/internal/pkg/clock"
)

// Resolution constants
const (
	critChancePercent = 5
	critMultiplier    = 1.5
	affinityBonus     = 1.2

	minAccuracy = 10.0
	maxAccuracy = 95.0
)

// Effect tags the resolver attaches beyond a jutsu's own special effects
const (
	EffectInsufficientChakra = "insufficient_chakra"
	EffectCriticalHit        = "critical_hit"
)

// Config holds the dependencies for the resolver
type Config struct {
	Roller dice.Roller
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// Resolver computes battle action outcomes
type Resolver struct {
	roller dice.Roller
	clock  clock.Clock
}

// NewResolver creates a resolver with the provided dependencies
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{
		roller: cfg.Roller,
		clock:  cfg.Clock,
	}, nil
}

// Resolve executes one action. It consumes the actor's chakra and, on a
// hit, applies damage to the target; nothing else is touched. A failed
// chakra check is a successful resolution carrying a failed outcome, not
// an error; the actor spends its attempt and the target is untouched.
func (r *Resolver) Resolve(
	actor, target *entities.BattleParticipant,
	jutsu *entities.Jutsu,
	env entities.EnvironmentEffect,
) (entities.BattleAction, error) {
	action := entities.BattleAction{
		ActorID:   actor.ActorID,
		TargetID:  target.ActorID,
		JutsuName: jutsu.Name,
		Timestamp: r.clock.Now().UTC(),
	}

	if !actor.Stats.Consume(entities.PoolChakra, jutsu.ChakraCost) {
		action.Effects = []string{EffectInsufficientChakra}
		action.Narration = fmt.Sprintf("%s lacks the chakra to perform %s!", actor.Name, jutsu.Name)
		return action, nil
	}
	action.ChakraUsed = jutsu.ChakraCost

	accuracy := r.accuracy(jutsu, actor.Stats, target.Stats, env)
	damage := r.damage(jutsu, actor.Stats, target.Stats, env)

	hitRoll, err := r.roller.Roll(100)
	if err != nil {
		return entities.BattleAction{}, errors.Wrap(err, "hit roll failed")
	}
	hit := float64(hitRoll) <= accuracy

	critRoll, err := r.roller.Roll(100)
	if err != nil {
		return entities.BattleAction{}, errors.Wrap(err, "critical roll failed")
	}
	critical := critRoll <= critChancePercent

	if hit {
		if critical {
			damage = int32(float64(damage) * critMultiplier)
		}
		action.Success = true
		action.Damage = target.Stats.Damage(damage)
		action.Effects = append(action.Effects, jutsu.SpecialEffects...)
		if critical {
			action.Effects = append(action.Effects, EffectCriticalHit)
		}
	}

	narration, err := r.narrate(actor, target, jutsu, env, hit, hit && critical)
	if err != nil {
		return entities.BattleAction{}, err
	}
	action.Narration = narration

	return action, nil
}

// accuracy computes the final hit chance: base accuracy scaled by the
// actor's intelligence and chakra control and the environment, reduced by
// the target's speed, clamped into [10, 95] so nothing is a sure hit or a
// sure miss.
func (r *Resolver) accuracy(
	jutsu *entities.Jutsu,
	actor, target *entities.StatBlock,
	env entities.EnvironmentEffect,
) float64 {
	intelligenceBonus := float64(actor.Intelligence) / 100
	controlBonus := float64(actor.ChakraControl) / 100
	speedPenalty := float64(target.Speed) / 200

	accuracy := float64(jutsu.Accuracy) * (1 + intelligenceBonus + controlBonus) * env.AccuracyModifier
	accuracy -= speedPenalty

	if accuracy < minAccuracy {
		return minAccuracy
	}
	if accuracy > maxAccuracy {
		return maxAccuracy
	}
	return accuracy
}

// damage computes pre-mitigation damage: base power scaled by the actor's
// ninjutsu and chakra control, the elemental affinity bonus, and the
// environment, reduced by the target's defense, floored at 1.
func (r *Resolver) damage(
	jutsu *entities.Jutsu,
	actor, target *entities.StatBlock,
	env entities.EnvironmentEffect,
) int32 {
	ninjutsuBonus := float64(actor.Ninjutsu) / 100
	controlBonus := float64(actor.ChakraControl) / 100
	defenseReduction := float64(target.Defense) / 200

	elemental := 1.0
	if jutsu.Element != "" && jutsu.Element != "none" && jutsu.Element == actor.ElementalAffinity {
		elemental = affinityBonus
	}

	damage := float64(jutsu.Power)*(1+ninjutsuBonus+controlBonus)*elemental*env.DamageModifier - defenseReduction
	if damage < 1 {
		return 1
	}
	return int32(damage)
}
