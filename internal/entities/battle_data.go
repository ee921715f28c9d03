package entities

import "time"

// BattleParticipantData is the flat serializable form of a participant
type BattleParticipantData struct {
	ActorID  string        `json:"actor_id"`
	Name     string        `json:"name"`
	Stats    StatBlockData `json:"stats"`
	IsPlayer bool          `json:"is_player"`
	Status   string        `json:"status"`
}

// BattleActionData is the flat serializable form of a logged action
type BattleActionData struct {
	ActorID    string   `json:"actor_id"`
	TargetID   string   `json:"target_id"`
	JutsuName  string   `json:"jutsu"`
	Success    bool     `json:"success"`
	Damage     int32    `json:"damage"`
	ChakraUsed int32    `json:"chakra_used"`
	Effects    []string `json:"effects,omitempty"`
	Narration  string   `json:"narration"`
	Timestamp  int64    `json:"timestamp"`
}

// BattleStateData is the flat serializable form of a battle. The
// environment is embedded whole so a snapshot restores without a catalog
// lookup.
type BattleStateData struct {
	Terrain             string                  `json:"terrain"`
	Environment         EnvironmentEffect       `json:"environment"`
	Participants        []BattleParticipantData `json:"participants"`
	CurrentTurn         int32                   `json:"current_turn"`
	Log                 []BattleActionData      `json:"log,omitempty"`
	Objectives          []string                `json:"objectives,omitempty"`
	CompletedObjectives []string                `json:"completed_objectives,omitempty"`
}

// ToData converts the battle to its serializable form
func (b *BattleState) ToData() *BattleStateData {
	d := &BattleStateData{
		Terrain:             b.terrain,
		Environment:         b.environment,
		CurrentTurn:         b.turn,
		Objectives:          append([]string(nil), b.objectives...),
		CompletedObjectives: append([]string(nil), b.completedObjectives...),
	}

	for _, p := range b.participants {
		d.Participants = append(d.Participants, BattleParticipantData{
			ActorID:  p.ActorID,
			Name:     p.Name,
			Stats:    p.Stats.ToData(),
			IsPlayer: p.IsPlayer,
			Status:   string(p.status),
		})
	}

	for _, a := range b.log {
		d.Log = append(d.Log, BattleActionData{
			ActorID:    a.ActorID,
			TargetID:   a.TargetID,
			JutsuName:  a.JutsuName,
			Success:    a.Success,
			Damage:     a.Damage,
			ChakraUsed: a.ChakraUsed,
			Effects:    append([]string(nil), a.Effects...),
			Narration:  a.Narration,
			Timestamp:  a.Timestamp.Unix(),
		})
	}

	return d
}

// BattleStateFromData restores a battle from its serializable form
func BattleStateFromData(d *BattleStateData) *BattleState {
	if d == nil {
		return nil
	}

	b := &BattleState{
		terrain:             d.Terrain,
		environment:         d.Environment,
		turn:                d.CurrentTurn,
		objectives:          append([]string(nil), d.Objectives...),
		completedObjectives: append([]string(nil), d.CompletedObjectives...),
	}

	for _, pd := range d.Participants {
		b.participants = append(b.participants, &BattleParticipant{
			ActorID:  pd.ActorID,
			Name:     pd.Name,
			Stats:    StatBlockFromData(pd.Stats),
			IsPlayer: pd.IsPlayer,
			status:   ParticipantStatus(pd.Status),
		})
	}

	for _, ad := range d.Log {
		b.log = append(b.log, BattleAction{
			ActorID:    ad.ActorID,
			TargetID:   ad.TargetID,
			JutsuName:  ad.JutsuName,
			Success:    ad.Success,
			Damage:     ad.Damage,
			ChakraUsed: ad.ChakraUsed,
			Effects:    append([]string(nil), ad.Effects...),
			Narration:  ad.Narration,
			Timestamp:  time.Unix(ad.Timestamp, 0).UTC(),
		})
	}

	return b
}
