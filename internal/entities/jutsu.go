package entities

// Jutsu is an immutable technique definition from the catalog. Instances
// are shared read-only across all battles; nothing may mutate one after
// the catalog loads.
type Jutsu struct {
	ID          string
	Name        string
	Rank        string
	Type        string
	Element     string
	Description string

	ChakraCost int32
	Power      int32
	Accuracy   int32
	Range      string

	SpecialEffects []string
	Cooldown       int32
	Rarity         string

	// Unlock prerequisites, checked by the catalog's CanLearn
	LevelRequirement        int32
	StatRequirements        map[string]int32
	AchievementRequirements []string
	ClanRestrictions        []string
}

// Profile is the slice of a long-lived character record the engine needs:
// progression state supplied by the character store. The engine reads it
// for eligibility checks and appends to KnownJutsu on unlock; it never
// persists profiles itself.
type Profile struct {
	ActorID      string
	Name         string
	Level        int32
	Attributes   map[string]int32
	Achievements []string
	Clan         string
	KnownJutsu   []string
}

// Knows reports whether the profile already contains the named jutsu
func (p *Profile) Knows(jutsuName string) bool {
	for _, name := range p.KnownJutsu {
		if name == jutsuName {
			return true
		}
	}
	return false
}

// Attribute returns the named attribute score, zero when absent
func (p *Profile) Attribute(name string) int32 {
	return p.Attributes[name]
}

// HasAchievement reports whether the profile holds the named achievement
func (p *Profile) HasAchievement(name string) bool {
	for _, a := range p.Achievements {
		if a == name {
			return true
		}
	}
	return false
}
