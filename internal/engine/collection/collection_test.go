package collection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/expedition-api/internal/engine/collection"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
)

type CollectionTestSuite struct {
	suite.Suite
	cfg  collection.Config
	near collection.Candidate
	far  collection.Candidate
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(CollectionTestSuite))
}

func (s *CollectionTestSuite) SetupTest() {
	s.cfg = collection.DefaultConfig()
	s.near = collection.Candidate{
		BiomeResource: entities.BiomeResource{
			ResourceID:        "wood",
			CollectionChance:  50,
			DistanceFromCamp:  10,
			CollectionSeconds: 120,
			Yield:             2,
		},
		UnitWeight: 2,
	}
	s.far = collection.Candidate{
		BiomeResource: entities.BiomeResource{
			ResourceID:        "crystal",
			CollectionChance:  100,
			DistanceFromCamp:  50,
			CollectionSeconds: 60,
			Yield:             1,
		},
		UnitWeight: 0.5,
	}
}

func (s *CollectionTestSuite) TestNoCandidateInRange() {
	res := collection.Attempt(random.NewDefault(), s.cfg, collection.Input{
		Candidates:  []collection.Candidate{s.far},
		MaxDistance: 30,
		Capacity:    100,
	})
	s.False(res.Attempted)
	s.Zero(res.TimeSpent)
}

func (s *CollectionTestSuite) TestDistanceGatingNeverCollectsFarResource() {
	src := random.NewDefault()
	for i := 0; i < 500; i++ {
		res := collection.Attempt(src, s.cfg, collection.Input{
			Candidates:  []collection.Candidate{s.near, s.far},
			MaxDistance: 30,
			Capacity:    1000,
		})
		s.Require().True(res.Attempted)
		s.NotEqual("crystal", res.ResourceID)
	}
}

func (s *CollectionTestSuite) TestSuccessfulRollCollectsAndCharges() {
	// pick index 0, roll 10 < 50
	src := random.NewSequence(0, 0.10)
	res := collection.Attempt(src, s.cfg, collection.Input{
		Candidates:  []collection.Candidate{s.near},
		MaxDistance: 30,
		Capacity:    100,
	})

	s.True(res.Success)
	s.Equal(2, res.Quantity)
	s.Equal(4.0, res.Weight)
	s.Equal(120*time.Second, res.TimeSpent)
	s.Equal(2, res.HungerCost)
	s.Equal(2, res.ThirstCost)
}

func (s *CollectionTestSuite) TestFailedRollSpendsHalfTime() {
	src := random.NewSequence(0, 0.90)
	res := collection.Attempt(src, s.cfg, collection.Input{
		Candidates:  []collection.Candidate{s.near},
		MaxDistance: 30,
		Capacity:    100,
	})

	s.True(res.Attempted)
	s.False(res.Success)
	s.Zero(res.Quantity)
	s.Equal(60*time.Second, res.TimeSpent)
	s.Zero(res.HungerCost)
}

func (s *CollectionTestSuite) TestGatheringBonusTurnsFailureIntoSuccess() {
	src := random.NewSequence(0, 0.55)
	res := collection.Attempt(src, s.cfg, collection.Input{
		Candidates:     []collection.Candidate{s.near},
		MaxDistance:    30,
		GatheringBonus: 10,
		Capacity:       100,
	})
	s.True(res.Success)
}

func (s *CollectionTestSuite) TestOverCapacitySignalsForcedReturn() {
	src := random.NewSequence(0, 0.10)
	res := collection.Attempt(src, s.cfg, collection.Input{
		Candidates:    []collection.Candidate{s.near},
		MaxDistance:   30,
		CarriedWeight: 97,
		Capacity:      100,
	})

	s.True(res.ForcedReturn)
	s.False(res.Success)
	s.Zero(res.Quantity)
}
