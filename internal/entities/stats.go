package entities

// Pool identifies one of a shinobi's depletable resource pools.
type Pool string

// Resource pools
const (
	PoolChakra  Pool = "chakra"
	PoolHealth  Pool = "health"
	PoolStamina Pool = "stamina"
)

// Base values for a level 1 shinobi. Maxima and attributes scale from these
// at creation time.
const (
	basePool      int32 = 100
	baseAttribute int32 = 50
)

// StatBlock holds a battle participant's resource pools and attribute
// scores. It is ephemeral: built when the participant enters a battle and
// discarded when the battle ends. Pools are only mutated through Consume,
// Damage, Heal and Regenerate so that 0 <= current <= max always holds.
type StatBlock struct {
	Name string

	chakra     int32
	maxChakra  int32
	health     int32
	maxHealth  int32
	stamina    int32
	maxStamina int32

	Taijutsu      int32
	Ninjutsu      int32
	Genjutsu      int32
	Intelligence  int32
	Speed         int32
	Strength      int32
	Defense       int32
	ChakraControl int32

	Level      int32
	Experience int32

	ElementalAffinity string
	KekkeiGenkai      string
	SpecialAbilities  []string
}

// NewStatBlock creates a stat block for a participant of the given level,
// scaling maxima and attributes from the level 1 baseline. Pools start full.
func NewStatBlock(name string, level int32) *StatBlock {
	if level < 1 {
		level = 1
	}

	s := &StatBlock{
		Name:          name,
		maxChakra:     basePool + (level-1)*10,
		maxHealth:     basePool + (level-1)*15,
		maxStamina:    basePool + (level-1)*8,
		Taijutsu:      baseAttribute + (level-1)*2,
		Ninjutsu:      baseAttribute + (level-1)*2,
		Genjutsu:      baseAttribute + (level-1)*2,
		Intelligence:  baseAttribute + (level - 1),
		Speed:         baseAttribute + (level-1)*2,
		Strength:      baseAttribute + (level-1)*2,
		Defense:       baseAttribute + (level-1)*2,
		ChakraControl: baseAttribute + (level-1)*2,
		Level:         level,
	}
	s.chakra = s.maxChakra
	s.health = s.maxHealth
	s.stamina = s.maxStamina

	return s
}

// Chakra returns the current chakra pool
func (s *StatBlock) Chakra() int32 { return s.chakra }

// MaxChakra returns the chakra pool maximum
func (s *StatBlock) MaxChakra() int32 { return s.maxChakra }

// Health returns the current health pool
func (s *StatBlock) Health() int32 { return s.health }

// MaxHealth returns the health pool maximum
func (s *StatBlock) MaxHealth() int32 { return s.maxHealth }

// Stamina returns the current stamina pool
func (s *StatBlock) Stamina() int32 { return s.stamina }

// MaxStamina returns the stamina pool maximum
func (s *StatBlock) MaxStamina() int32 { return s.maxStamina }

// Consume decrements a pool by amount if it holds at least that much.
// Returns false, leaving the pool untouched, when the balance is short.
func (s *StatBlock) Consume(pool Pool, amount int32) bool {
	if amount < 0 {
		return false
	}

	current := s.current(pool)
	if current == nil || *current < amount {
		return false
	}

	*current -= amount
	return true
}

// Regenerate increments a pool by amount, capped at the pool's maximum
func (s *StatBlock) Regenerate(pool Pool, amount int32) {
	if amount <= 0 {
		return
	}

	current := s.current(pool)
	if current == nil {
		return
	}

	*current = min32(s.max(pool), *current+amount)
}

// Damage applies incoming damage, reduced by a tenth of defense but never
// below 1 so an attack is never fully nullified. Health floors at 0.
// Returns the damage actually dealt.
func (s *StatBlock) Damage(amount int32) int32 {
	actual := max32(1, amount-s.Defense/10)
	s.health = max32(0, s.health-actual)
	return actual
}

// Heal restores health, capped at the maximum
func (s *StatBlock) Heal(amount int32) {
	s.Regenerate(PoolHealth, amount)
}

func (s *StatBlock) current(pool Pool) *int32 {
	switch pool {
	case PoolChakra:
		return &s.chakra
	case PoolHealth:
		return &s.health
	case PoolStamina:
		return &s.stamina
	default:
		return nil
	}
}

func (s *StatBlock) max(pool Pool) int32 {
	switch pool {
	case PoolChakra:
		return s.maxChakra
	case PoolHealth:
		return s.maxHealth
	case PoolStamina:
		return s.maxStamina
	default:
		return 0
	}
}

// StatBlockData is the flat serializable form of a StatBlock
type StatBlockData struct {
	Name              string   `json:"name"`
	Chakra            int32    `json:"chakra"`
	MaxChakra         int32    `json:"max_chakra"`
	Health            int32    `json:"health"`
	MaxHealth         int32    `json:"max_health"`
	Stamina           int32    `json:"stamina"`
	MaxStamina        int32    `json:"max_stamina"`
	Taijutsu          int32    `json:"taijutsu"`
	Ninjutsu          int32    `json:"ninjutsu"`
	Genjutsu          int32    `json:"genjutsu"`
	Intelligence      int32    `json:"intelligence"`
	Speed             int32    `json:"speed"`
	Strength          int32    `json:"strength"`
	Defense           int32    `json:"defense"`
	ChakraControl     int32    `json:"chakra_control"`
	Level             int32    `json:"level"`
	Experience        int32    `json:"experience"`
	ElementalAffinity string   `json:"elemental_affinity,omitempty"`
	KekkeiGenkai      string   `json:"kekkei_genkai,omitempty"`
	SpecialAbilities  []string `json:"special_abilities,omitempty"`
}

// ToData converts the stat block to its serializable form
func (s *StatBlock) ToData() StatBlockData {
	return StatBlockData{
		Name:              s.Name,
		Chakra:            s.chakra,
		MaxChakra:         s.maxChakra,
		Health:            s.health,
		MaxHealth:         s.maxHealth,
		Stamina:           s.stamina,
		MaxStamina:        s.maxStamina,
		Taijutsu:          s.Taijutsu,
		Ninjutsu:          s.Ninjutsu,
		Genjutsu:          s.Genjutsu,
		Intelligence:      s.Intelligence,
		Speed:             s.Speed,
		Strength:          s.Strength,
		Defense:           s.Defense,
		ChakraControl:     s.ChakraControl,
		Level:             s.Level,
		Experience:        s.Experience,
		ElementalAffinity: s.ElementalAffinity,
		KekkeiGenkai:      s.KekkeiGenkai,
		SpecialAbilities:  append([]string(nil), s.SpecialAbilities...),
	}
}

// StatBlockFromData restores a stat block from its serializable form,
// clamping current pools into [0, max].
func StatBlockFromData(d StatBlockData) *StatBlock {
	s := &StatBlock{
		Name:              d.Name,
		maxChakra:         d.MaxChakra,
		maxHealth:         d.MaxHealth,
		maxStamina:        d.MaxStamina,
		Taijutsu:          d.Taijutsu,
		Ninjutsu:          d.Ninjutsu,
		Genjutsu:          d.Genjutsu,
		Intelligence:      d.Intelligence,
		Speed:             d.Speed,
		Strength:          d.Strength,
		Defense:           d.Defense,
		ChakraControl:     d.ChakraControl,
		Level:             d.Level,
		Experience:        d.Experience,
		ElementalAffinity: d.ElementalAffinity,
		KekkeiGenkai:      d.KekkeiGenkai,
		SpecialAbilities:  append([]string(nil), d.SpecialAbilities...),
	}
	s.chakra = clamp32(d.Chakra, 0, s.maxChakra)
	s.health = clamp32(d.Health, 0, s.maxHealth)
	s.stamina = clamp32(d.Stamina, 0, s.maxStamina)

	return s
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func clamp32(v, lo, hi int32) int32 {
	return max32(lo, min32(hi, v))
}
