package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/expedition-api/internal/engine/combat"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
)

func TestDamage(t *testing.T) {
	testCases := []struct {
		name       string
		attack     int
		bonus      int
		defense    int
		multiplier float64
		expected   int
	}{
		{name: "neutral multiplier", attack: 10, bonus: 0, defense: 5, multiplier: 1.0, expected: 7},
		{name: "weapon bonus", attack: 10, bonus: 4, defense: 5, multiplier: 1.0, expected: 11},
		{name: "high roll", attack: 10, bonus: 0, defense: 4, multiplier: 1.2, expected: 9},
		{name: "floored at one", attack: 1, bonus: 0, defense: 40, multiplier: 0.8, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, combat.Damage(tc.attack, tc.bonus, tc.defense, tc.multiplier))
		})
	}
}

type CombatEngineTestSuite struct {
	suite.Suite
	now    time.Time
	player *entities.Player
	animal *entities.Animal
	enc    *entities.Encounter
}

func TestCombatEngineSuite(t *testing.T) {
	suite.Run(t, new(CombatEngineTestSuite))
}

func (s *CombatEngineTestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.player = &entities.Player{
		ID:        "player-1",
		Health:    50,
		MaxHealth: 50,
		Attack:    10,
		Defense:   4,
	}
	s.animal = &entities.Animal{
		ID:         "wolf",
		Name:       "Grey Wolf",
		Health:     30,
		Attack:     9,
		Defense:    5,
		Experience: 40,
		Moves:      []entities.AnimalMove{{Name: "Bite", Power: 3}},
		Drops: []entities.Drop{
			{ResourceID: "hide", Rate: 1, Min: 2, Max: 2},
			{ResourceID: "bone", Rate: 0, Min: 1, Max: 1},
		},
	}
	s.enc = &entities.Encounter{
		ID:           "enc-1",
		PlayerID:     s.player.ID,
		AnimalID:     s.animal.ID,
		Status:       entities.EncounterStatusActive,
		PlayerHealth: s.player.Health,
		AnimalHealth: s.animal.Health,
	}
}

func (s *CombatEngineTestSuite) fighters() combat.Combatants {
	return combat.Combatants{Player: s.player, Animal: s.animal}
}

// 0.51 keeps every multiplier roll just above 1.0
func (s *CombatEngineTestSuite) neutralEngine() *combat.Engine {
	return combat.New(combat.DefaultConfig(), random.NewSequence(0.51))
}

func (s *CombatEngineTestSuite) TestAttackExchangesBlows() {
	out, err := s.neutralEngine().Resolve(s.enc, entities.CombatActionAttack, s.fighters(), s.now)
	s.Require().NoError(err)

	s.Equal(entities.EncounterStatusActive, out.Status)
	s.Equal(23, s.enc.AnimalHealth)
	// 9 + 3 - 0.5*4 = 10
	s.Equal(40, s.enc.PlayerHealth)
	s.Equal(1, s.enc.Turn)
	s.Require().Len(s.enc.Log, 2)
	s.Equal(entities.ActorPlayer, s.enc.Log[0].Actor)
	s.Equal(7, *s.enc.Log[0].Damage)
	s.Equal(entities.ActorAnimal, s.enc.Log[1].Actor)
	s.Equal("Bite", s.enc.Log[1].Action)
	s.Nil(s.enc.EndedAt)
}

func (s *CombatEngineTestSuite) TestDefendHalvesNextHit() {
	out, err := s.neutralEngine().Resolve(s.enc, entities.CombatActionDefend, s.fighters(), s.now)
	s.Require().NoError(err)

	s.Require().NotNil(out.AnimalRecord)
	s.Equal(5, *out.AnimalRecord.Damage)
	s.Equal(45, s.enc.PlayerHealth)
	s.Nil(out.PlayerRecord.Damage)

	// the guard only lasts one exchange
	_, err = s.neutralEngine().Resolve(s.enc, entities.CombatActionAttack, s.fighters(), s.now)
	s.Require().NoError(err)
	s.Equal(35, s.enc.PlayerHealth)
}

func (s *CombatEngineTestSuite) TestVictoryRollsDropsAndExperience() {
	s.enc.AnimalHealth = 5

	out, err := s.neutralEngine().Resolve(s.enc, entities.CombatActionAttack, s.fighters(), s.now)
	s.Require().NoError(err)

	s.Equal(entities.EncounterStatusVictory, out.Status)
	s.Zero(s.enc.AnimalHealth)
	s.Nil(out.AnimalRecord)
	s.Equal(40, out.Rewards.Experience)
	s.Equal(map[string]int{"hide": 2}, out.Rewards.Resources)
	s.Require().NotNil(s.enc.EndedAt)
	s.Equal(s.now, *s.enc.EndedAt)
}

func (s *CombatEngineTestSuite) TestDefeatLeavesPlayerAtOneHealth() {
	s.enc.PlayerHealth = 3

	out, err := s.neutralEngine().Resolve(s.enc, entities.CombatActionAttack, s.fighters(), s.now)
	s.Require().NoError(err)

	s.Equal(entities.EncounterStatusDefeat, out.Status)
	s.Equal(1, s.enc.PlayerHealth)
	s.True(out.DefeatPenalty)
	s.Zero(out.Rewards.Experience)
	s.NotNil(s.enc.EndedAt)
}

func (s *CombatEngineTestSuite) TestAnalyzeDiscoversWithoutAnimalTurn() {
	out, err := s.neutralEngine().Resolve(s.enc, entities.CombatActionAnalyze, s.fighters(), s.now)
	s.Require().NoError(err)

	s.Equal(entities.EncounterStatusAnalyzed, out.Status)
	s.True(out.Discovered)
	s.Equal(10, out.Rewards.Experience)
	s.Empty(out.Rewards.Resources)
	s.Nil(out.AnimalRecord)
	s.Len(s.enc.Log, 1)
	s.Equal(50, s.enc.PlayerHealth)
}

func (s *CombatEngineTestSuite) TestFailedFleeLetsAnimalStrike() {
	// 0.9 fails the 0.7 flee roll, then 0.51 for the move and multiplier
	engine := combat.New(combat.DefaultConfig(), random.NewSequence(0.9, 0.51, 0.51))

	out, err := engine.Resolve(s.enc, entities.CombatActionFlee, s.fighters(), s.now)
	s.Require().NoError(err)

	s.Equal(entities.EncounterStatusActive, out.Status)
	s.NotNil(out.AnimalRecord)
	s.Equal(40, s.enc.PlayerHealth)
}

func (s *CombatEngineTestSuite) TestFleeSucceedsAboutSeventyPercent() {
	engine := combat.New(combat.DefaultConfig(), random.NewDefault())
	const trials = 10000

	fled := 0
	for i := 0; i < trials; i++ {
		enc := &entities.Encounter{
			ID:           "enc",
			Status:       entities.EncounterStatusActive,
			PlayerHealth: 1000,
			AnimalHealth: 30,
		}
		out, err := engine.Resolve(enc, entities.CombatActionFlee, s.fighters(), s.now)
		s.Require().NoError(err)
		if out.Status == entities.EncounterStatusFled {
			fled++
		}
	}

	s.InDelta(0.7, float64(fled)/trials, 0.02)
}

func (s *CombatEngineTestSuite) TestFinishedEncounterRejectsActions() {
	s.enc.Status = entities.EncounterStatusFled

	_, err := s.neutralEngine().Resolve(s.enc, entities.CombatActionAttack, s.fighters(), s.now)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal(errors.ReasonEncounterFinished, errors.GetReason(err))
	s.Empty(s.enc.Log)
}

func (s *CombatEngineTestSuite) TestUnknownActionIsRejected() {
	_, err := s.neutralEngine().Resolve(s.enc, entities.CombatAction("dance"), s.fighters(), s.now)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Zero(s.enc.Turn)
}
