package engine

import (
	"strings"

	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
)

// Narration templates. Placeholders are substituted at resolution time;
// the roller picks which template fires so replays stay deterministic.
var (
	hitTemplates = []string{
		"{actor} unleashes {jutsu} and strikes {target} squarely!",
		"{actor}'s {jutsu} tears through the {environment}, catching {target}!",
		"With practiced hands, {actor} lands {jutsu} on {target}.",
		"{target} fails to evade as {actor}'s {jutsu} connects!",
	}

	criticalTemplates = []string{
		"A devastating blow! {actor}'s {jutsu} finds a fatal opening in {target}'s guard!",
		"{actor} channels everything into {jutsu} and {target} reels from the impact!",
		"Perfect execution! {actor}'s {jutsu} strikes {target} at the worst possible moment!",
	}

	missTemplates = []string{
		"{target} slips away as {actor}'s {jutsu} goes wide!",
		"{actor} launches {jutsu}, but {target} reads the attack and dodges.",
		"The {environment} works against {actor}; {jutsu} misses {target} entirely.",
		"{target} deflects {actor}'s {jutsu} at the last instant!",
	}
)

// narrate renders one line of battle prose for the resolved action
func (r *Resolver) narrate(
	actor, target *entities.BattleParticipant,
	jutsu *entities.Jutsu,
	env entities.EnvironmentEffect,
	hit, critical bool,
) (string, error) {
	templates := missTemplates
	if critical {
		templates = criticalTemplates
	} else if hit {
		templates = hitTemplates
	}

	pick, err := r.roller.Roll(len(templates))
	if err != nil {
		return "", errors.Wrap(err, "narration roll failed")
	}

	replacer := strings.NewReplacer(
		"{actor}", actor.Name,
		"{target}", target.Name,
		"{jutsu}", jutsu.Name,
		"{environment}", env.Name,
	)
	return replacer.Replace(templates[pick-1]), nil
}
