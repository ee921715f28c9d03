package narrative

import (
	"context"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
)

// template pairs a mission title with its briefing text. Placeholders are
// substituted from the generation input.
type template struct {
	title       string
	description string
}

var staticTemplates = map[entities.Difficulty][]template{
	entities.DifficultyD: {
		{"Lost Pet Recovery", "A merchant in {region} lost a prized pet. Track it down before nightfall."},
		{"Bandit Trouble", "A lone bandit has been shaking down travelers on the {region} road. Put a stop to it."},
	},
	entities.DifficultyC: {
		{"Caravan Escort", "Escort a supply caravan through {region}. Scouts report a rogue genin in the area."},
		{"Missing Courier", "A courier vanished en route to {region}. Find them and recover the dispatch."},
	},
	entities.DifficultyB: {
		{"Outpost Under Siege", "A border outpost near {region} has gone quiet. Investigate and secure it."},
		{"Missing-nin Cell", "A cell of missing-nin is operating out of {region}. Eliminate the threat."},
	},
	entities.DifficultyA: {
		{"Classified Retrieval", "A classified scroll was stolen and traced to {region}. Retrieve it at any cost."},
		{"Jonin-level Threat", "An elite rogue jonin was sighted in {region}. Neutralize them before they strike."},
	},
	entities.DifficultyS: {
		{"S-rank Manhunt", "An S-rank criminal has established a hideout in {region}. This is a kill-or-capture order."},
		{"Village Defense", "Intelligence warns of an imminent attack on {region} by an S-rank threat. Intercept it."},
	},
}

// StaticClient generates mission text from built-in templates. It needs no
// network and serves as the fallback when no narrative service is
// configured.
type StaticClient struct {
	roller dice.Roller
}

// NewStaticClient creates a template-based narrative client
func NewStaticClient(roller dice.Roller) (*StaticClient, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("roller is required")
	}
	return &StaticClient{roller: roller}, nil
}

// GenerateMission picks a template for the difficulty and fills it in
func (c *StaticClient) GenerateMission(_ context.Context, input *GenerateMissionInput) (*GenerateMissionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	templates, ok := staticTemplates[input.Difficulty]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown difficulty %q", input.Difficulty)
	}

	pick, err := c.roller.Roll(len(templates))
	if err != nil {
		return nil, errors.Wrap(err, "template roll failed")
	}
	chosen := templates[pick-1]

	region := input.Region
	if region == "" {
		region = "the borderlands"
	}

	return &GenerateMissionOutput{
		Title:       chosen.title,
		Description: strings.ReplaceAll(chosen.description, "{region}", region),
		Requirements: map[string]interface{}{
			"min_rank": string(input.Difficulty),
		},
	}, nil
}
