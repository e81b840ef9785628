package entities

import "time"

// ExpeditionTemplate is an immutable catalog definition expeditions are created from
type ExpeditionTemplate struct {
	ID                 string           `json:"id" yaml:"id"`
	Name               string           `json:"name" yaml:"name"`
	BiomeID            string           `json:"biome_id" yaml:"biome_id"`
	MinDurationMinutes int              `json:"min_duration_minutes" yaml:"min_duration_minutes"`
	MaxDurationMinutes int              `json:"max_duration_minutes" yaml:"max_duration_minutes"`
	Requirements       Requirements     `json:"requirements" yaml:"requirements"`
	GuaranteedRewards  map[string]int   `json:"guaranteed_rewards" yaml:"guaranteed_rewards"`
	PossibleRewards    []PossibleReward `json:"possible_rewards" yaml:"possible_rewards"`
	Experience         int              `json:"experience" yaml:"experience"`
	// MaxDistance is the collection radius once the party is fully deployed
	MaxDistance float64 `json:"max_distance" yaml:"max_distance"`
}

// Requirements are the entry thresholds of a template
type Requirements struct {
	MinLevel       int      `json:"min_level" yaml:"min_level"`
	MinHunger      int      `json:"min_hunger" yaml:"min_hunger"`
	MinThirst      int      `json:"min_thirst" yaml:"min_thirst"`
	MinHealth      int      `json:"min_health" yaml:"min_health"`
	ToolCategories []string `json:"tool_categories" yaml:"tool_categories"`
}

// PossibleReward is granted on completion with probability Chance in [0,1]
type PossibleReward struct {
	ResourceID string  `json:"resource_id" yaml:"resource_id"`
	Quantity   int     `json:"quantity" yaml:"quantity"`
	Chance     float64 `json:"chance" yaml:"chance"`
}

// ExpeditionStatus is the lifecycle status of an instance
type ExpeditionStatus string

// Expedition statuses
const (
	ExpeditionStatusActive    ExpeditionStatus = "active"
	ExpeditionStatusCompleted ExpeditionStatus = "completed"
	ExpeditionStatusFailed    ExpeditionStatus = "failed"
	ExpeditionStatusCancelled ExpeditionStatus = "cancelled"
)

// IsTerminal reports whether the status can no longer change
func (s ExpeditionStatus) IsTerminal() bool {
	return s != ExpeditionStatusActive
}

// Phase is derived from progress
type Phase string

// Expedition phases
const (
	PhasePreparing Phase = "preparing"
	PhaseTraveling Phase = "traveling"
	PhaseExploring Phase = "exploring"
	PhaseReturning Phase = "returning"
	PhaseCompleted Phase = "completed"
)

// Milestone is a bit in the instance's processed-milestones mask
type Milestone uint8

// Milestones in the order they are crossed
const (
	// MilestoneExplore marks that collection was opened
	MilestoneExplore Milestone = 1 << iota
	// MilestoneReturn marks that the haul was finalized
	MilestoneReturn
	// MilestoneComplete marks that the completion bundle was rolled and its
	// grant started
	MilestoneComplete
)

// ReturnReason explains a forced early completion
type ReturnReason string

// Auto-return reasons in priority order
const (
	ReturnReasonNone          ReturnReason = ""
	ReturnReasonInventoryFull ReturnReason = "inventory_full"
	ReturnReasonHungerLow     ReturnReason = "hunger_low"
	ReturnReasonThirstLow     ReturnReason = "thirst_low"
)

// CancelReason explains why an expedition was cancelled
type CancelReason string

// Cancel reasons
const (
	CancelReasonPlayer        CancelReason = "player_abandoned"
	CancelReasonDataIntegrity CancelReason = "data_integrity"
	// CancelReasonStartFailed rolls back an expedition whose upfront costs could not be charged
	CancelReasonStartFailed CancelReason = "start_failed"
)

// TemplateSource tells whether the requested template or the configured default was used
type TemplateSource string

// Template sources
const (
	TemplateSourceRequested TemplateSource = "requested"
	TemplateSourceDefault   TemplateSource = "default"
)

// Expedition is one player's running or finished expedition
type Expedition struct {
	ID                string           `json:"id"`
	PlayerID          string           `json:"player_id"`
	TemplateID        string           `json:"template_id"`
	TemplateSource    TemplateSource   `json:"template_source"`
	BiomeID           string           `json:"biome_id"`
	StartTime         time.Time        `json:"start_time"`
	Duration          time.Duration    `json:"duration"`
	Status            ExpeditionStatus `json:"status"`
	Progress          float64          `json:"progress"`
	Phase             Phase            `json:"phase"`
	SelectedResources []string         `json:"selected_resources,omitempty"`

	CollectedResources map[string]int `json:"collected_resources"`
	// CollectedWeight is the weight of CollectedResources
	CollectedWeight float64 `json:"collected_weight"`
	// SearchCursor is the simulated time already consumed by collection attempts,
	// measured from StartTime
	SearchCursor time.Duration `json:"search_cursor"`
	Milestones   Milestone     `json:"milestones"`

	CombatEncounterID string        `json:"combat_encounter_id,omitempty"`
	ReturnReason      ReturnReason  `json:"return_reason,omitempty"`
	CancelReason      CancelReason  `json:"cancel_reason,omitempty"`
	// PendingRewards is the rolled completion bundle while its grant is in flight
	PendingRewards    *RewardBundle `json:"pending_rewards,omitempty"`
	Rewards           *RewardGrant  `json:"rewards,omitempty"`
	EndedAt           *time.Time    `json:"ended_at,omitempty"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// HasMilestone reports whether the milestone was already processed
func (e *Expedition) HasMilestone(m Milestone) bool {
	return e.Milestones&m != 0
}

// MarkMilestone records the milestone as processed
func (e *Expedition) MarkMilestone(m Milestone) {
	e.Milestones |= m
}

// IsActive reports whether the expedition is still running
func (e *Expedition) IsActive() bool {
	return e.Status == ExpeditionStatusActive
}

// AddCollected adds units of a resource to the haul
func (e *Expedition) AddCollected(resourceID string, quantity int, unitWeight float64) {
	if quantity <= 0 {
		return
	}
	if e.CollectedResources == nil {
		e.CollectedResources = make(map[string]int)
	}
	e.CollectedResources[resourceID] += quantity
	e.CollectedWeight += unitWeight * float64(quantity)
}

// Clone returns a deep copy
func (e *Expedition) Clone() *Expedition {
	if e == nil {
		return nil
	}
	out := *e
	out.SelectedResources = append([]string(nil), e.SelectedResources...)
	out.CollectedResources = make(map[string]int, len(e.CollectedResources))
	for k, v := range e.CollectedResources {
		out.CollectedResources[k] = v
	}
	if e.PendingRewards != nil {
		b := e.PendingRewards.Clone()
		out.PendingRewards = &b
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

// RewardBundle is the set of grants produced for one completion, consumed once
type RewardBundle struct {
	Resources  map[string]int `json:"resources"`
	Experience int            `json:"experience"`
}

// Add merges quantity of a resource into the bundle
func (b *RewardBundle) Add(resourceID string, quantity int) {
	if quantity <= 0 {
		return
	}
	if b.Resources == nil {
		b.Resources = make(map[string]int)
	}
	b.Resources[resourceID] += quantity
}

// Clone returns a deep copy
func (b RewardBundle) Clone() RewardBundle {
	if b.Resources != nil {
		resources := make(map[string]int, len(b.Resources))
		for k, v := range b.Resources {
			resources[k] = v
		}
		b.Resources = resources
	}
	return b
}

// Destination is where granted resources were placed
type Destination string

// Destinations
const (
	DestinationInventory Destination = "inventory"
	DestinationStorage   Destination = "storage"
)

// Placement records one resource grant and where it landed
type Placement struct {
	ResourceID  string      `json:"resource_id"`
	Quantity    int         `json:"quantity"`
	Destination Destination `json:"destination"`
}

// RewardGrant is the applied outcome of a RewardBundle
type RewardGrant struct {
	Placements      []Placement `json:"placements"`
	Experience      int         `json:"experience"`
	TotalExperience int         `json:"total_experience"`
	Level           int         `json:"level"`
	LeveledUp       bool        `json:"leveled_up"`
}

// Clone returns a deep copy
func (g RewardGrant) Clone() RewardGrant {
	g.Placements = append([]Placement(nil), g.Placements...)
	return g
}

// Quantity sums the placed units of a resource across destinations
func (g *RewardGrant) Quantity(resourceID string) int {
	total := 0
	for _, p := range g.Placements {
		if p.ResourceID == resourceID {
			total += p.Quantity
		}
	}
	return total
}
