package entities

import "time"

// MissionData is the flat serializable form of a Mission: enums as string
// tags, the duration as integer seconds, timestamps as unix seconds. A
// caller can snapshot a mission (embedded battle included) to a record and
// restore it across process restarts.
type MissionData struct {
	ID              string                 `json:"id"`
	OwnerID         string                 `json:"owner_id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Difficulty      string                 `json:"difficulty"`
	Region          string                 `json:"region"`
	Reward          map[string]interface{} `json:"reward,omitempty"`
	Requirements    map[string]interface{} `json:"requirements,omitempty"`
	DurationSeconds int64                  `json:"duration_seconds"`
	Status          string                 `json:"status"`
	Progress        map[string]interface{} `json:"progress,omitempty"`
	StartedAt       int64                  `json:"started_at,omitempty"`
	CompletedAt     int64                  `json:"completed_at,omitempty"`
	Battle          *BattleStateData       `json:"battle,omitempty"`
}

// ToData converts the mission to its serializable form
func (m *Mission) ToData() *MissionData {
	d := &MissionData{
		ID:              m.id,
		OwnerID:         m.ownerID,
		Title:           m.title,
		Description:     m.description,
		Difficulty:      string(m.difficulty),
		Region:          m.region,
		Reward:          m.reward,
		Requirements:    m.requirements,
		DurationSeconds: int64(m.duration / time.Second),
		Status:          string(m.status),
		Progress:        m.Progress(),
	}

	if m.startedAt != nil {
		d.StartedAt = m.startedAt.Unix()
	}
	if m.completedAt != nil {
		d.CompletedAt = m.completedAt.Unix()
	}
	if m.battle != nil {
		d.Battle = m.battle.ToData()
	}

	return d
}

// MissionFromData restores a mission from its serializable form
func MissionFromData(d *MissionData) *Mission {
	if d == nil {
		return nil
	}

	m := &Mission{
		id:           d.ID,
		ownerID:      d.OwnerID,
		title:        d.Title,
		description:  d.Description,
		difficulty:   Difficulty(d.Difficulty),
		region:       d.Region,
		reward:       d.Reward,
		requirements: d.Requirements,
		duration:     time.Duration(d.DurationSeconds) * time.Second,
		status:       MissionStatus(d.Status),
		progress:     d.Progress,
		battle:       BattleStateFromData(d.Battle),
	}
	if m.progress == nil {
		m.progress = make(map[string]interface{})
	}
	if m.status == "" {
		m.status = MissionAvailable
	}

	if d.StartedAt != 0 {
		t := time.Unix(d.StartedAt, 0).UTC()
		m.startedAt = &t
	}
	if d.CompletedAt != 0 {
		t := time.Unix(d.CompletedAt, 0).UTC()
		m.completedAt = &t
	}

	return m
}
