package entities

import (
	"time"

	"github.com/shinobios/mission-api/internal/errors"
)

// Difficulty is a mission's tier, D (easiest) through S (hardest)
type Difficulty string

// Mission difficulties
const (
	DifficultyD Difficulty = "D"
	DifficultyC Difficulty = "C"
	DifficultyB Difficulty = "B"
	DifficultyA Difficulty = "A"
	DifficultyS Difficulty = "S"
)

// Difficulties lists every tier in ascending order
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyD, DifficultyC, DifficultyB, DifficultyA, DifficultyS}
}

// Valid reports whether d is a known tier
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyD, DifficultyC, DifficultyB, DifficultyA, DifficultyS:
		return true
	default:
		return false
	}
}

// MissionStatus is a mission's lifecycle state
type MissionStatus string

// Mission statuses. Available -> InProgress -> {Completed, Failed}, with
// Expired reachable only by time from Available or InProgress. Transitions
// never move backward.
const (
	MissionAvailable  MissionStatus = "available"
	MissionInProgress MissionStatus = "in_progress"
	MissionCompleted  MissionStatus = "completed"
	MissionFailed     MissionStatus = "failed"
	MissionExpired    MissionStatus = "expired"
)

// Terminal reports whether the status ends the mission
func (s MissionStatus) Terminal() bool {
	switch s {
	case MissionCompleted, MissionFailed, MissionExpired:
		return true
	default:
		return false
	}
}

// Mission is a unit of work with a reward and a deadline that one actor
// undertakes. It owns at most one BattleState. All state transitions go
// through the methods below; illegal ones are rejected with a
// FailedPrecondition error before any field changes.
type Mission struct {
	id          string
	ownerID     string
	title       string
	description string
	difficulty  Difficulty
	region      string

	// Reward and requirements are opaque to the engine; the reward
	// ledger and presentation layer interpret them.
	reward       map[string]interface{}
	requirements map[string]interface{}

	duration time.Duration

	status      MissionStatus
	progress    map[string]interface{}
	startedAt   *time.Time
	completedAt *time.Time

	battle *BattleState
}

// NewMissionInput carries the fields for a freshly generated mission
type NewMissionInput struct {
	ID           string
	OwnerID      string
	Title        string
	Description  string
	Difficulty   Difficulty
	Region       string
	Reward       map[string]interface{}
	Requirements map[string]interface{}
	Duration     time.Duration
}

// NewMission creates a mission in the Available state
func NewMission(input NewMissionInput) *Mission {
	return &Mission{
		id:           input.ID,
		ownerID:      input.OwnerID,
		title:        input.Title,
		description:  input.Description,
		difficulty:   input.Difficulty,
		region:       input.Region,
		reward:       input.Reward,
		requirements: input.Requirements,
		duration:     input.Duration,
		status:       MissionAvailable,
		progress:     make(map[string]interface{}),
	}
}

// ID returns the mission id
func (m *Mission) ID() string { return m.id }

// OwnerID returns the actor the mission was generated for
func (m *Mission) OwnerID() string { return m.ownerID }

// Title returns the mission title
func (m *Mission) Title() string { return m.title }

// Description returns the mission description
func (m *Mission) Description() string { return m.description }

// Difficulty returns the mission tier
func (m *Mission) Difficulty() Difficulty { return m.difficulty }

// Region returns the mission's generation scope
func (m *Mission) Region() string { return m.region }

// Reward returns the opaque reward payload
func (m *Mission) Reward() map[string]interface{} { return m.reward }

// Requirements returns the opaque precondition bag
func (m *Mission) Requirements() map[string]interface{} { return m.requirements }

// Duration returns the mission's time budget
func (m *Mission) Duration() time.Duration { return m.duration }

// Status returns the current lifecycle state
func (m *Mission) Status() MissionStatus { return m.status }

// StartedAt returns when the mission started, nil if it never did
func (m *Mission) StartedAt() *time.Time { return m.startedAt }

// CompletedAt returns when the mission completed, nil otherwise
func (m *Mission) CompletedAt() *time.Time { return m.completedAt }

// Battle returns the mission's battle state, nil before initialization
func (m *Mission) Battle() *BattleState { return m.battle }

// SetBattle attaches a battle to the mission. Calling it again replaces
// the prior battle; callers are responsible for initializing only once.
func (m *Mission) SetBattle(b *BattleState) {
	m.battle = b
}

// Progress returns a copy of the progress map
func (m *Mission) Progress() map[string]interface{} {
	out := make(map[string]interface{}, len(m.progress))
	for k, v := range m.progress {
		out[k] = v
	}
	return out
}

// Start moves the mission from Available to InProgress
func (m *Mission) Start(now time.Time) error {
	if m.status != MissionAvailable {
		return errors.FailedPreconditionf("mission %s cannot start from status %s", m.id, m.status)
	}
	m.status = MissionInProgress
	t := now.UTC()
	m.startedAt = &t
	return nil
}

// Complete moves the mission from InProgress to Completed
func (m *Mission) Complete(now time.Time) error {
	if m.status != MissionInProgress {
		return errors.FailedPreconditionf("mission %s cannot complete from status %s", m.id, m.status)
	}
	m.status = MissionCompleted
	t := now.UTC()
	m.completedAt = &t
	return nil
}

// Fail moves the mission to Failed from Available or InProgress
func (m *Mission) Fail() error {
	if m.status != MissionAvailable && m.status != MissionInProgress {
		return errors.FailedPreconditionf("mission %s cannot fail from status %s", m.id, m.status)
	}
	m.status = MissionFailed
	return nil
}

// UpdateProgress records a progress entry. Legal only while InProgress.
func (m *Mission) UpdateProgress(key string, value interface{}) error {
	if m.status != MissionInProgress {
		return errors.FailedPreconditionf("mission %s is not in progress", m.id)
	}
	m.progress[key] = value
	return nil
}

// CheckExpired forces the mission to Expired and returns true once the
// deadline has passed. Expiry is pull-based: there is no background timer,
// so callers must invoke this before trusting a possibly stale status.
// Idempotent after expiry; a no-op for terminal or never-started missions.
func (m *Mission) CheckExpired(now time.Time) bool {
	if m.status == MissionExpired {
		return true
	}
	if m.startedAt == nil || m.status.Terminal() {
		return false
	}
	if !now.Before(m.startedAt.Add(m.duration)) {
		m.status = MissionExpired
		return true
	}
	return false
}
