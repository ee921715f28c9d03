// Package jutsu provides the immutable technique catalog: lookup,
// filtering, and unlock eligibility. The catalog loads once at process
// start and is shared read-only across all concurrent operations.
package jutsu

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
)

//go:embed data/jutsu.yaml
var defaultCatalogYAML []byte

// definition is the YAML file schema for one jutsu
type definition struct {
	ID                      string           `yaml:"id"`
	Name                    string           `yaml:"name"`
	Rank                    string           `yaml:"rank"`
	Type                    string           `yaml:"type"`
	Element                 string           `yaml:"element"`
	Description             string           `yaml:"description"`
	ChakraCost              int32            `yaml:"chakra_cost"`
	Power                   int32            `yaml:"power"`
	Accuracy                int32            `yaml:"accuracy"`
	Range                   string           `yaml:"range"`
	SpecialEffects          []string         `yaml:"special_effects"`
	Cooldown                int32            `yaml:"cooldown"`
	Rarity                  string           `yaml:"rarity"`
	LevelRequirement        int32            `yaml:"level_requirement"`
	StatRequirements        map[string]int32 `yaml:"stat_requirements"`
	AchievementRequirements []string         `yaml:"achievement_requirements"`
	ClanRestrictions        []string         `yaml:"clan_restrictions"`
}

type catalogFile struct {
	Jutsu []definition `yaml:"jutsu"`
}

// Catalog is a read-only registry of techniques keyed by id
type Catalog struct {
	byID    map[string]*entities.Jutsu
	ordered []*entities.Jutsu
}

// Load builds the catalog from the embedded default data
func Load() (*Catalog, error) {
	return parse(defaultCatalogYAML)
}

// LoadFile builds the catalog from a YAML file on disk, for deployments
// that override the embedded set.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read jutsu catalog %s", path)
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse jutsu catalog")
	}
	if len(file.Jutsu) == 0 {
		return nil, errors.InvalidArgument("jutsu catalog is empty")
	}

	c := &Catalog{byID: make(map[string]*entities.Jutsu, len(file.Jutsu))}
	for _, def := range file.Jutsu {
		if def.ID == "" || def.Name == "" {
			return nil, errors.InvalidArgument("jutsu catalog entry missing id or name")
		}
		if def.Accuracy < 0 || def.Accuracy > 100 {
			return nil, errors.InvalidArgumentf("jutsu %s accuracy %d outside [0,100]", def.ID, def.Accuracy)
		}
		if _, exists := c.byID[def.ID]; exists {
			return nil, errors.InvalidArgumentf("duplicate jutsu id %s", def.ID)
		}

		level := def.LevelRequirement
		if level < 1 {
			level = 1
		}

		j := &entities.Jutsu{
			ID:                      def.ID,
			Name:                    def.Name,
			Rank:                    def.Rank,
			Type:                    def.Type,
			Element:                 def.Element,
			Description:             def.Description,
			ChakraCost:              def.ChakraCost,
			Power:                   def.Power,
			Accuracy:                def.Accuracy,
			Range:                   def.Range,
			SpecialEffects:          def.SpecialEffects,
			Cooldown:                def.Cooldown,
			Rarity:                  def.Rarity,
			LevelRequirement:        level,
			StatRequirements:        def.StatRequirements,
			AchievementRequirements: def.AchievementRequirements,
			ClanRestrictions:        def.ClanRestrictions,
		}
		c.byID[j.ID] = j
		c.ordered = append(c.ordered, j)
	}

	return c, nil
}

// Get returns a jutsu by id
func (c *Catalog) Get(id string) (*entities.Jutsu, bool) {
	j, ok := c.byID[id]
	return j, ok
}

// GetByName returns a jutsu by display name, case-insensitively
func (c *Catalog) GetByName(name string) (*entities.Jutsu, bool) {
	for _, j := range c.ordered {
		if strings.EqualFold(j.Name, name) {
			return j, true
		}
	}
	return nil, false
}

// All returns every jutsu in catalog order
func (c *Catalog) All() []*entities.Jutsu {
	return append([]*entities.Jutsu(nil), c.ordered...)
}

// ByElement returns every jutsu of the given element
func (c *Catalog) ByElement(element string) []*entities.Jutsu {
	return c.filter(func(j *entities.Jutsu) bool {
		return strings.EqualFold(j.Element, element)
	})
}

// ByRank returns every jutsu of the given rank
func (c *Catalog) ByRank(rank string) []*entities.Jutsu {
	return c.filter(func(j *entities.Jutsu) bool {
		return j.Rank == rank
	})
}

// ByRarity returns every jutsu of the given rarity tier
func (c *Catalog) ByRarity(rarity string) []*entities.Jutsu {
	return c.filter(func(j *entities.Jutsu) bool {
		return strings.EqualFold(j.Rarity, rarity)
	})
}

// ByType returns every jutsu of the given type
func (c *Catalog) ByType(jutsuType string) []*entities.Jutsu {
	return c.filter(func(j *entities.Jutsu) bool {
		return strings.EqualFold(j.Type, jutsuType)
	})
}

// Search returns every jutsu whose name, description, or element contains
// the query, case-insensitively.
func (c *Catalog) Search(query string) []*entities.Jutsu {
	q := strings.ToLower(query)
	return c.filter(func(j *entities.Jutsu) bool {
		return strings.Contains(strings.ToLower(j.Name), q) ||
			strings.Contains(strings.ToLower(j.Description), q) ||
			strings.Contains(strings.ToLower(j.Element), q)
	})
}

func (c *Catalog) filter(keep func(*entities.Jutsu) bool) []*entities.Jutsu {
	var out []*entities.Jutsu
	for _, j := range c.ordered {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

// AvailableForLevel returns the techniques usable in battle at the given
// level. Battle availability is gated by level alone; the full unlock
// prerequisites apply only to learning new techniques via Unlock.
func (c *Catalog) AvailableForLevel(level int32) []*entities.Jutsu {
	return c.filter(func(j *entities.Jutsu) bool {
		return j.LevelRequirement <= level
	})
}

// CanLearn reports whether the profile meets every unlock prerequisite for
// the jutsu: level, every attribute threshold, every achievement, clan
// affiliation, and not already knowing it. All requirement classes are
// AND-combined; one unmet requirement makes the jutsu ineligible.
func (c *Catalog) CanLearn(profile *entities.Profile, j *entities.Jutsu) bool {
	if profile == nil || j == nil {
		return false
	}
	if profile.Knows(j.Name) {
		return false
	}
	if profile.Level < j.LevelRequirement {
		return false
	}
	for stat, required := range j.StatRequirements {
		if profile.Attribute(stat) < required {
			return false
		}
	}
	for _, achievement := range j.AchievementRequirements {
		if !profile.HasAchievement(achievement) {
			return false
		}
	}
	if len(j.ClanRestrictions) > 0 {
		allowed := false
		for _, clan := range j.ClanRestrictions {
			if profile.Clan == clan {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return true
}

// Unlock adds the named jutsu to the profile's known set if the profile is
// eligible. Returns false, leaving the profile untouched, when the jutsu
// is unknown, already learned, or any prerequisite is unmet.
func (c *Catalog) Unlock(profile *entities.Profile, jutsuName string) bool {
	j, ok := c.GetByName(jutsuName)
	if !ok {
		return false
	}
	if !c.CanLearn(profile, j) {
		return false
	}
	profile.KnownJutsu = append(profile.KnownJutsu, j.Name)
	return true
}
