// Package combat resolves turn-based encounters between a player and an animal.
// The engine is a pure state machine over entities.Encounter: it rolls, mutates
// health and the action log, and reports the side effects the caller must apply
// (discoveries, penalties, rewards).
package combat

import (
	"fmt"
	"math"
	"time"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
)

// Config holds the tunable combat constants
type Config struct {
	FleeChance    float64
	MinMultiplier float64
	MaxMultiplier float64
	// DefendDivisor divides the damage of the animal's next action after defend
	DefendDivisor int
	// AnalyzeExperienceDivisor reduces the animal's experience for analyze
	AnalyzeExperienceDivisor int
	DefeatHungerPenalty      int
	DefeatThirstPenalty      int
}

// DefaultConfig returns the standard rules
func DefaultConfig() Config {
	return Config{
		FleeChance:               0.7,
		MinMultiplier:            0.8,
		MaxMultiplier:            1.2,
		DefendDivisor:            2,
		AnalyzeExperienceDivisor: 4,
		DefeatHungerPenalty:      20,
		DefeatThirstPenalty:      20,
	}
}

// Combatants are the fighters' stats for one exchange
type Combatants struct {
	Player *entities.Player
	Animal *entities.Animal
}

// Outcome reports what one exchange did beyond mutating the encounter
type Outcome struct {
	PlayerRecord entities.CombatActionRecord
	AnimalRecord *entities.CombatActionRecord
	Status       entities.EncounterStatus
	// Discovered is set by analyze
	Discovered bool
	// Rewards holds victory drops or the analyze experience
	Rewards entities.RewardBundle
	// DefeatPenalty is set when the player was knocked out
	DefeatPenalty bool
}

// Engine resolves combat exchanges
type Engine struct {
	cfg Config
	src random.Source
}

// New creates a combat engine
func New(cfg Config, src random.Source) *Engine {
	return &Engine{cfg: cfg, src: src}
}

// Config returns the engine's rules
func (e *Engine) Config() Config {
	return e.cfg
}

// Damage is max(1, floor((attack + bonus - 0.5*defense) * multiplier))
func Damage(attack, bonus, defense int, multiplier float64) int {
	raw := (float64(attack+bonus) - 0.5*float64(defense)) * multiplier
	d := int(math.Floor(raw))
	if d < 1 {
		return 1
	}
	return d
}

func (e *Engine) multiplier() float64 {
	return random.Between(e.src, e.cfg.MinMultiplier, e.cfg.MaxMultiplier)
}

// Resolve plays the player's action and, while the encounter stays active, the
// animal's reply. The encounter is mutated in place.
func (e *Engine) Resolve(
	enc *entities.Encounter,
	action entities.CombatAction,
	fighters Combatants,
	now time.Time,
) (*Outcome, error) {
	if enc == nil || fighters.Player == nil || fighters.Animal == nil {
		return nil, errors.InvalidArgument("encounter, player and animal are required")
	}
	if !enc.IsActive() {
		return nil, errors.FailedPreconditionf("encounter %s already ended with %s", enc.ID, enc.Status).
			WithReason(errors.ReasonEncounterFinished)
	}

	player, animal := fighters.Player, fighters.Animal
	enc.Turn++
	out := &Outcome{}
	defending := false

	switch action {
	case entities.CombatActionAttack:
		dmg := Damage(player.Attack, player.WeaponBonus, animal.Defense, e.multiplier())
		enc.AnimalHealth -= dmg
		out.PlayerRecord = e.record(enc, entities.ActorPlayer, string(action), &dmg,
			fmt.Sprintf("You strike the %s for %d damage", animal.Name, dmg), now)
		if enc.AnimalHealth <= 0 {
			enc.AnimalHealth = 0
			enc.Status = entities.EncounterStatusVictory
			out.Rewards = e.rollDrops(animal)
		}

	case entities.CombatActionDefend:
		defending = true
		out.PlayerRecord = e.record(enc, entities.ActorPlayer, string(action), nil,
			"You brace yourself for the next blow", now)

	case entities.CombatActionAnalyze:
		enc.Status = entities.EncounterStatusAnalyzed
		out.Discovered = true
		if e.cfg.AnalyzeExperienceDivisor > 0 {
			out.Rewards.Experience = animal.Experience / e.cfg.AnalyzeExperienceDivisor
		}
		out.PlayerRecord = e.record(enc, entities.ActorPlayer, string(action), nil,
			fmt.Sprintf("You study the %s and note its habits before it slips away", animal.Name), now)

	case entities.CombatActionFlee:
		if random.Chance(e.src, e.cfg.FleeChance) {
			enc.Status = entities.EncounterStatusFled
			out.PlayerRecord = e.record(enc, entities.ActorPlayer, string(action), nil,
				fmt.Sprintf("You escape from the %s", animal.Name), now)
		} else {
			out.PlayerRecord = e.record(enc, entities.ActorPlayer, string(action), nil,
				fmt.Sprintf("You fail to escape from the %s", animal.Name), now)
		}

	default:
		enc.Turn--
		return nil, errors.InvalidArgumentf("unknown combat action %q", action)
	}

	if enc.IsActive() {
		rec := e.animalTurn(enc, fighters, defending, now)
		out.AnimalRecord = &rec
		if enc.PlayerHealth <= 0 {
			// non-lethal: the player is knocked out, never killed
			enc.PlayerHealth = 1
			enc.Status = entities.EncounterStatusDefeat
			out.DefeatPenalty = true
		}
	}

	if !enc.IsActive() {
		ended := now
		enc.EndedAt = &ended
	}
	out.Status = enc.Status
	return out, nil
}

func (e *Engine) animalTurn(
	enc *entities.Encounter,
	fighters Combatants,
	defending bool,
	now time.Time,
) entities.CombatActionRecord {
	player, animal := fighters.Player, fighters.Animal
	move := animal.Moves[random.Pick(e.src, len(animal.Moves))]

	dmg := Damage(animal.Attack, move.Power, player.Defense+player.ArmorBonus, e.multiplier())
	effect := fmt.Sprintf("The %s uses %s for %d damage", animal.Name, move.Name, dmg)
	if defending && e.cfg.DefendDivisor > 1 {
		dmg /= e.cfg.DefendDivisor
		if dmg < 1 {
			dmg = 1
		}
		effect = fmt.Sprintf("The %s uses %s; your guard holds it to %d damage", animal.Name, move.Name, dmg)
	}
	enc.PlayerHealth -= dmg

	return e.record(enc, entities.ActorAnimal, move.Name, &dmg, effect, now)
}

func (e *Engine) rollDrops(animal *entities.Animal) entities.RewardBundle {
	bundle := entities.RewardBundle{Experience: animal.Experience}
	for _, d := range animal.Drops {
		if !random.Chance(e.src, d.Rate) {
			continue
		}
		bundle.Add(d.ResourceID, random.IntBetween(e.src, d.Min, d.Max))
	}
	return bundle
}

func (e *Engine) record(
	enc *entities.Encounter,
	actor entities.Actor,
	action string,
	damage *int,
	effect string,
	now time.Time,
) entities.CombatActionRecord {
	rec := entities.CombatActionRecord{
		Turn:      enc.Turn,
		Actor:     actor,
		Action:    action,
		Damage:    damage,
		Effect:    effect,
		Timestamp: now,
	}
	enc.Append(rec)
	return rec
}
