package players_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
	"github.com/KirkDiggler/expedition-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    players.Repository
	cleanup func()
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()

	repo, err := players.NewRedis(&players.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo

	_, err = s.repo.SavePlayer(s.ctx, players.SavePlayerInput{Player: testutils.CreateTestPlayer("player-1")})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestNewRedisRequiresClient() {
	_, err := players.NewRedis(&players.RedisConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestGetPlayer() {
	s.Run("existing player", func() {
		out, err := s.repo.GetPlayer(s.ctx, players.GetPlayerInput{PlayerID: "player-1"})
		s.Require().NoError(err)
		s.Equal("player-1", out.Player.ID)
		s.Equal(80, out.Player.Hunger)
	})

	s.Run("missing player", func() {
		_, err := s.repo.GetPlayer(s.ctx, players.GetPlayerInput{PlayerID: "nobody"})
		s.True(errors.IsNotFound(err))
	})

	s.Run("empty id", func() {
		_, err := s.repo.GetPlayer(s.ctx, players.GetPlayerInput{})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RedisRepositoryTestSuite) TestUpdatePlayerAppliesPatch() {
	out, err := s.repo.UpdatePlayer(s.ctx, players.UpdatePlayerInput{
		PlayerID: "player-1",
		Patch: entities.PlayerPatch{
			Hunger: entities.Int(-5),
			Thirst: entities.Int(55),
		},
	})
	s.Require().NoError(err)
	s.Zero(out.Player.Hunger)
	s.Equal(55, out.Player.Thirst)

	got, err := s.repo.GetPlayer(s.ctx, players.GetPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Zero(got.Player.Hunger)
	s.Equal(55, got.Player.Thirst)
	s.Equal(80, got.Player.Health)
}

func (s *RedisRepositoryTestSuite) TestUpdateMissingPlayer() {
	_, err := s.repo.UpdatePlayer(s.ctx, players.UpdatePlayerInput{
		PlayerID: "nobody",
		Patch:    entities.PlayerPatch{Hunger: entities.Int(1)},
	})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestConcurrentUpdatesAllLand() {
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(level int) {
			defer wg.Done()
			_, err := s.repo.UpdatePlayer(s.ctx, players.UpdatePlayerInput{
				PlayerID: "player-1",
				Patch:    entities.PlayerPatch{Level: entities.Int(level)},
			})
			s.NoError(err)
		}(i + 2)
	}
	wg.Wait()

	got, err := s.repo.GetPlayer(s.ctx, players.GetPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.GreaterOrEqual(got.Player.Level, 2)
}

func (s *RedisRepositoryTestSuite) TestInventoryAndStorageAreSeparate() {
	out, err := s.repo.AddInventoryItem(s.ctx, players.AddItemInput{PlayerID: "player-1", ResourceID: "wood", Quantity: 3})
	s.Require().NoError(err)
	s.Equal(3, out.Item.Quantity)

	out, err = s.repo.AddInventoryItem(s.ctx, players.AddItemInput{PlayerID: "player-1", ResourceID: "wood", Quantity: 2})
	s.Require().NoError(err)
	s.Equal(5, out.Item.Quantity)

	_, err = s.repo.AddStorageItem(s.ctx, players.AddItemInput{PlayerID: "player-1", ResourceID: "stone", Quantity: 7})
	s.Require().NoError(err)

	inv, err := s.repo.GetPlayerInventory(s.ctx, players.GetItemsInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal([]entities.InventoryItem{{ResourceID: "wood", Quantity: 5}}, inv.Items)

	st, err := s.repo.GetPlayerStorage(s.ctx, players.GetItemsInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal([]entities.InventoryItem{{ResourceID: "stone", Quantity: 7}}, st.Items)
}

func (s *RedisRepositoryTestSuite) TestAddItemValidation() {
	_, err := s.repo.AddInventoryItem(s.ctx, players.AddItemInput{Quantity: 0})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "player_id")
	s.Contains(err.Error(), "resource_id")
	s.Contains(err.Error(), "quantity")
}

func (s *RedisRepositoryTestSuite) TestApplyGrantOncePerSource() {
	// Arrange
	grant := entities.RewardGrant{
		Placements: []entities.Placement{
			{ResourceID: "wood", Quantity: 4, Destination: entities.DestinationInventory},
			{ResourceID: "wood", Quantity: 2, Destination: entities.DestinationStorage},
		},
		Experience:      30,
		TotalExperience: 30,
		Level:           1,
	}
	input := players.ApplyGrantInput{
		PlayerID: "player-1",
		SourceID: "exp_1",
		Grant:    grant,
		Patch:    entities.PlayerPatch{Experience: entities.Int(30), Level: entities.Int(1)},
	}

	// Act
	first, err := s.repo.ApplyGrant(s.ctx, input)
	s.Require().NoError(err)

	// a retry may carry a freshly planned grant, the recorded one wins
	retry := input
	retry.Grant = entities.RewardGrant{Experience: 30, TotalExperience: 60, Level: 1}
	retry.Patch = entities.PlayerPatch{Experience: entities.Int(60)}
	second, err := s.repo.ApplyGrant(s.ctx, retry)
	s.Require().NoError(err)

	// Assert
	s.False(first.Replayed)
	s.Equal(30, first.Player.Experience)
	s.True(second.Replayed)
	s.Equal(grant, second.Grant)
	s.Equal(30, second.Player.Experience)

	inv, err := s.repo.GetPlayerInventory(s.ctx, players.GetItemsInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal([]entities.InventoryItem{{ResourceID: "wood", Quantity: 4}}, inv.Items)
	st, err := s.repo.GetPlayerStorage(s.ctx, players.GetItemsInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal([]entities.InventoryItem{{ResourceID: "wood", Quantity: 2}}, st.Items)
}

func (s *RedisRepositoryTestSuite) TestApplyGrantSourcesAreIndependent() {
	for _, source := range []string{"exp_1", "enc_1"} {
		_, err := s.repo.ApplyGrant(s.ctx, players.ApplyGrantInput{
			PlayerID: "player-1",
			SourceID: source,
			Grant: entities.RewardGrant{Placements: []entities.Placement{
				{ResourceID: "berries", Quantity: 3, Destination: entities.DestinationInventory},
			}},
		})
		s.Require().NoError(err)
	}

	inv, err := s.repo.GetPlayerInventory(s.ctx, players.GetItemsInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal([]entities.InventoryItem{{ResourceID: "berries", Quantity: 6}}, inv.Items)
}

func (s *RedisRepositoryTestSuite) TestApplyGrantMissingPlayerWritesNothing() {
	_, err := s.repo.ApplyGrant(s.ctx, players.ApplyGrantInput{
		PlayerID: "nobody",
		SourceID: "exp_1",
		Grant: entities.RewardGrant{Placements: []entities.Placement{
			{ResourceID: "wood", Quantity: 1, Destination: entities.DestinationInventory},
		}},
	})
	s.True(errors.IsNotFound(err))

	inv, err := s.repo.GetPlayerInventory(s.ctx, players.GetItemsInput{PlayerID: "nobody"})
	s.Require().NoError(err)
	s.Empty(inv.Items)
}

func (s *RedisRepositoryTestSuite) TestApplyGrantValidation() {
	_, err := s.repo.ApplyGrant(s.ctx, players.ApplyGrantInput{})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "player_id")
	s.Contains(err.Error(), "source_id")
}

func (s *RedisRepositoryTestSuite) TestListPlayerIDs() {
	_, err := s.repo.SavePlayer(s.ctx, players.SavePlayerInput{Player: testutils.CreateTestPlayer("player-0")})
	s.Require().NoError(err)

	out, err := s.repo.ListPlayerIDs(s.ctx, players.ListPlayerIDsInput{})
	s.Require().NoError(err)
	s.Equal([]string{"player-0", "player-1"}, out.PlayerIDs)
}

func (s *RedisRepositoryTestSuite) TestSeedWorldReplacesDefinitions() {
	_, err := s.repo.SeedWorld(s.ctx, players.SeedWorldInput{
		Resources: []*entities.Resource{{ID: "wood", Weight: 2}, {ID: "stone", Weight: 3}},
		Biomes:    []*entities.Biome{{ID: "forest", Tags: []string{"woodland"}}},
	})
	s.Require().NoError(err)

	_, err = s.repo.SeedWorld(s.ctx, players.SeedWorldInput{
		Resources: []*entities.Resource{{ID: "wood", Weight: 2}},
		Biomes:    []*entities.Biome{{ID: "forest", Tags: []string{"woodland"}}},
	})
	s.Require().NoError(err)

	res, err := s.repo.GetAllResources(s.ctx, players.GetAllResourcesInput{})
	s.Require().NoError(err)
	s.Require().Len(res.Resources, 1)
	s.Equal("wood", res.Resources[0].ID)
	s.Equal(2.0, res.Resources[0].Weight)

	biomes, err := s.repo.GetAllBiomes(s.ctx, players.GetAllBiomesInput{})
	s.Require().NoError(err)
	s.Require().Len(biomes.Biomes, 1)
	s.Equal([]string{"woodland"}, biomes.Biomes[0].Tags)
}
