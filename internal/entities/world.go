package entities

import "strings"

// Resource is a catalog entry for an item that can be carried
type Resource struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Weight   float64 `json:"weight" yaml:"weight"`
	Category string  `json:"category" yaml:"category"`
	// ToolCategory marks the resource as a tool of that category when carried
	ToolCategory string `json:"tool_category,omitempty" yaml:"tool_category,omitempty"`
}

// Biome is a themed region with collectable resources and fauna
type Biome struct {
	ID               string          `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	LevelRequirement int             `json:"level_requirement" yaml:"level_requirement"`
	Tags             []string        `json:"tags" yaml:"tags"`
	Resources        []BiomeResource `json:"resources" yaml:"resources"`
}

// BiomeResource is a resource collectable in a biome
type BiomeResource struct {
	ResourceID string `json:"resource_id" yaml:"resource_id"`
	// CollectionChance is a percentage in [0,100]
	CollectionChance float64 `json:"collection_chance" yaml:"collection_chance"`
	DistanceFromCamp float64 `json:"distance_from_camp" yaml:"distance_from_camp"`
	// CollectionSeconds is the search time a successful attempt takes
	CollectionSeconds int `json:"collection_seconds" yaml:"collection_seconds"`
	Yield             int `json:"yield" yaml:"yield"`
}

// MatchTags returns the normalized tag set of the biome, including its ID
func (b *Biome) MatchTags() map[string]struct{} {
	tags := make(map[string]struct{}, len(b.Tags)+1)
	tags[NormalizeTag(b.ID)] = struct{}{}
	for _, t := range b.Tags {
		tags[NormalizeTag(t)] = struct{}{}
	}
	return tags
}

// NormalizeTag lowercases and trims a habitat or biome tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Animal is a creature that can be encountered in combat
type Animal struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Habitats   []string     `json:"habitats" yaml:"habitats"`
	Health     int          `json:"health" yaml:"health"`
	Attack     int          `json:"attack" yaml:"attack"`
	Defense    int          `json:"defense" yaml:"defense"`
	Experience int          `json:"experience" yaml:"experience"`
	Moves      []AnimalMove `json:"moves" yaml:"moves"`
	Drops      []Drop       `json:"drops" yaml:"drops"`
}

// LivesIn reports whether any habitat tag is in the given normalized tag set
func (a *Animal) LivesIn(tags map[string]struct{}) bool {
	for _, h := range a.Habitats {
		if _, ok := tags[NormalizeTag(h)]; ok {
			return true
		}
	}
	return false
}

// AnimalMove is one attack from an animal's fixed move list
type AnimalMove struct {
	Name string `json:"name" yaml:"name"`
	// Power plays the role of the weapon bonus in the damage formula
	Power int `json:"power" yaml:"power"`
}

// Drop is a possible victory reward
type Drop struct {
	ResourceID string  `json:"resource_id" yaml:"resource_id"`
	Rate       float64 `json:"rate" yaml:"rate"`
	Min        int     `json:"min" yaml:"min"`
	Max        int     `json:"max" yaml:"max"`
}
