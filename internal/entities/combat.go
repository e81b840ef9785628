package entities

import "time"

// EncounterStatus is the state of the combat state machine
type EncounterStatus string

// Encounter statuses; everything but active is terminal
const (
	EncounterStatusActive   EncounterStatus = "active"
	EncounterStatusVictory  EncounterStatus = "victory"
	EncounterStatusDefeat   EncounterStatus = "defeat"
	EncounterStatusFled     EncounterStatus = "fled"
	EncounterStatusAnalyzed EncounterStatus = "analyzed"
)

// IsTerminal reports whether the encounter has ended
func (s EncounterStatus) IsTerminal() bool {
	return s != EncounterStatusActive
}

// CombatAction is a player action
type CombatAction string

// Player actions
const (
	CombatActionAttack  CombatAction = "attack"
	CombatActionDefend  CombatAction = "defend"
	CombatActionAnalyze CombatAction = "analyze"
	CombatActionFlee    CombatAction = "flee"
)

// CombatActions lists the valid player actions
var CombatActions = []string{
	string(CombatActionAttack),
	string(CombatActionDefend),
	string(CombatActionAnalyze),
	string(CombatActionFlee),
}

// Actor identifies who acted in a log record
type Actor string

// Actors
const (
	ActorPlayer Actor = "player"
	ActorAnimal Actor = "animal"
)

// CombatActionRecord is one append-only entry of the encounter log
type CombatActionRecord struct {
	Turn      int       `json:"turn"`
	Actor     Actor     `json:"actor"`
	Action    string    `json:"action"`
	Damage    *int      `json:"damage,omitempty"`
	Effect    string    `json:"effect"`
	Timestamp time.Time `json:"timestamp"`
}

// Encounter is a turn-based combat nested inside an expedition
type Encounter struct {
	ID           string               `json:"id"`
	PlayerID     string               `json:"player_id"`
	ExpeditionID string               `json:"expedition_id"`
	AnimalID     string               `json:"animal_id"`
	Status       EncounterStatus      `json:"status"`
	PlayerHealth int                  `json:"player_health"`
	AnimalHealth int                  `json:"animal_health"`
	Turn         int                  `json:"turn"`
	Log          []CombatActionRecord `json:"log"`
	Rewards      *RewardGrant         `json:"rewards,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	EndedAt      *time.Time           `json:"ended_at,omitempty"`
}

// IsActive reports whether actions can still be taken
func (e *Encounter) IsActive() bool {
	return e.Status == EncounterStatusActive
}

// Append adds a record to the action log
func (e *Encounter) Append(record CombatActionRecord) {
	e.Log = append(e.Log, record)
}

// Clone returns a deep copy
func (e *Encounter) Clone() *Encounter {
	if e == nil {
		return nil
	}
	out := *e
	out.Log = make([]CombatActionRecord, len(e.Log))
	for i, r := range e.Log {
		if r.Damage != nil {
			d := *r.Damage
			r.Damage = &d
		}
		out.Log[i] = r
	}
	if e.Rewards != nil {
		r := e.Rewards.Clone()
		out.Rewards = &r
	}
	if e.EndedAt != nil {
		t := *e.EndedAt
		out.EndedAt = &t
	}
	return &out
}
