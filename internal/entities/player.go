package entities

import "github.com/KirkDiggler/rpg-toolkit/core"

// Player is the survival record of one player as held by the player store
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`

	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Hunger    int `json:"hunger"`
	Thirst    int `json:"thirst"`
	Fatigue   int `json:"fatigue"`

	Attack      int `json:"attack"`
	Defense     int `json:"defense"`
	WeaponBonus int `json:"weapon_bonus"`
	ArmorBonus  int `json:"armor_bonus"`

	// CarryCapacity is the maximum carried weight
	CarryCapacity float64 `json:"carry_capacity"`

	DiscoveredAnimals []string `json:"discovered_animals,omitempty"`

	Modifiers Modifiers `json:"modifiers"`
}

// EntityTypePlayer is the toolkit entity type of a player
const EntityTypePlayer = "player"

var _ core.Entity = (*Player)(nil)

// GetID returns the player ID
func (p *Player) GetID() string { return p.ID }

// GetType returns the toolkit entity type
func (p *Player) GetType() string { return EntityTypePlayer }

// Modifiers are multiplier inputs supplied by the skill system
type Modifiers struct {
	// DurationMultiplier scales expedition duration; zero means 1
	DurationMultiplier float64 `json:"duration_multiplier,omitempty"`
	// GatheringBonus is added to every collection chance, in percentage points
	GatheringBonus float64 `json:"gathering_bonus,omitempty"`
	// CapacityBonus is added to the carry capacity
	CapacityBonus float64 `json:"capacity_bonus,omitempty"`
}

// EffectiveCapacity returns carry capacity including skill bonuses
func (p *Player) EffectiveCapacity() float64 {
	return p.CarryCapacity + p.Modifiers.CapacityBonus
}

// DurationScale returns the duration multiplier, defaulting to 1
func (p *Player) DurationScale() float64 {
	if p.Modifiers.DurationMultiplier <= 0 {
		return 1
	}
	return p.Modifiers.DurationMultiplier
}

// HasDiscovered reports whether the animal is already in the discovery record
func (p *Player) HasDiscovered(animalID string) bool {
	for _, id := range p.DiscoveredAnimals {
		if id == animalID {
			return true
		}
	}
	return false
}

// PlayerPatch is a partial update; nil fields are left untouched
type PlayerPatch struct {
	Level             *int     `json:"level,omitempty"`
	Experience        *int     `json:"experience,omitempty"`
	Health            *int     `json:"health,omitempty"`
	Hunger            *int     `json:"hunger,omitempty"`
	Thirst            *int     `json:"thirst,omitempty"`
	Fatigue           *int     `json:"fatigue,omitempty"`
	DiscoveredAnimals []string `json:"discovered_animals,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p PlayerPatch) IsEmpty() bool {
	return p.Level == nil && p.Experience == nil && p.Health == nil &&
		p.Hunger == nil && p.Thirst == nil && p.Fatigue == nil && p.DiscoveredAnimals == nil
}

// Apply writes the patch onto the player, clamping survival stats
func (p PlayerPatch) Apply(player *Player) {
	if p.Level != nil {
		player.Level = *p.Level
	}
	if p.Experience != nil {
		player.Experience = *p.Experience
	}
	if p.Health != nil {
		player.Health = clampStat(*p.Health, player.MaxHealth)
	}
	if p.Hunger != nil {
		player.Hunger = clampStat(*p.Hunger, MaxSurvivalStat)
	}
	if p.Thirst != nil {
		player.Thirst = clampStat(*p.Thirst, MaxSurvivalStat)
	}
	if p.Fatigue != nil {
		player.Fatigue = clampStat(*p.Fatigue, MaxSurvivalStat)
	}
	if p.DiscoveredAnimals != nil {
		player.DiscoveredAnimals = p.DiscoveredAnimals
	}
}

// MaxSurvivalStat caps hunger, thirst and fatigue
const MaxSurvivalStat = 100

func clampStat(v, maxValue int) int {
	if v < 0 {
		return 0
	}
	if maxValue > 0 && v > maxValue {
		return maxValue
	}
	return v
}

// Int returns a pointer to v, for building patches
func Int(v int) *int {
	return &v
}

// InventoryItem is a stack of one resource in inventory or storage
type InventoryItem struct {
	ResourceID string `json:"resource_id"`
	Quantity   int    `json:"quantity"`
}
