package rewards_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/expedition-api/internal/engine/rewards"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
	playersmock "github.com/KirkDiggler/expedition-api/internal/repositories/players/mock"
	"github.com/KirkDiggler/expedition-api/internal/testutils"
)

type ResolverTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *playersmock.MockRepository
	bus       events.EventBus
	resolver  rewards.Resolver
	ctx       context.Context
	player    *entities.Player
	published []events.Event
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = playersmock.NewMockRepository(s.ctrl)
	s.bus = events.NewBus()
	s.ctx = context.Background()
	s.player = testutils.CreateTestPlayer("player-1")
	s.published = nil

	record := func(_ context.Context, e events.Event) error {
		s.published = append(s.published, e)
		return nil
	}
	s.bus.SubscribeFunc(rewards.EventPlayerLevelUp, 0, record)
	s.bus.SubscribeFunc(rewards.EventExpeditionCompleted, 0, record)

	var err error
	s.resolver, err = rewards.New(&rewards.Config{Store: s.mockStore, EventBus: s.bus})
	s.Require().NoError(err)
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ResolverTestSuite) expectWorld(inventory ...entities.InventoryItem) {
	s.mockStore.EXPECT().
		GetPlayer(s.ctx, players.GetPlayerInput{PlayerID: "player-1"}).
		Return(&players.GetPlayerOutput{Player: s.player}, nil)
	s.mockStore.EXPECT().
		GetAllResources(s.ctx, players.GetAllResourcesInput{}).
		Return(&players.GetAllResourcesOutput{Resources: []*entities.Resource{
			{ID: "stone", Weight: 5},
			{ID: "wood", Weight: 2},
		}}, nil).AnyTimes()
	s.mockStore.EXPECT().
		GetPlayerInventory(s.ctx, players.GetItemsInput{PlayerID: "player-1"}).
		Return(&players.GetItemsOutput{Items: inventory}, nil).AnyTimes()
}

func (s *ResolverTestSuite) TestNewRequiresDependencies() {
	_, err := rewards.New(&rewards.Config{})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ResolverTestSuite) TestLevelFor() {
	testCases := []struct {
		exp   int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{900, 4},
	}
	for _, tc := range testCases {
		s.Equal(tc.level, rewards.LevelFor(tc.exp), "experience %d", tc.exp)
	}
}

// expectApply records the applied grant and returns the player the store would
func (s *ResolverTestSuite) expectApply(applied *players.ApplyGrantInput, after *entities.Player) {
	s.mockStore.EXPECT().
		ApplyGrant(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input players.ApplyGrantInput) (*players.ApplyGrantOutput, error) {
			*applied = input
			return &players.ApplyGrantOutput{Player: after, Grant: input.Grant}, nil
		})
}

func (s *ResolverTestSuite) TestGrantOverflowsToStorage() {
	// Arrange: 50 capacity, 30 already carried, 20 free
	s.expectWorld(entities.InventoryItem{ResourceID: "stone", Quantity: 6})
	var applied players.ApplyGrantInput
	s.expectApply(&applied, s.player)

	// Act
	out, err := s.resolver.Grant(s.ctx, &rewards.GrantInput{
		PlayerID: "player-1",
		Bundle:   entities.RewardBundle{Resources: map[string]int{"wood": 12}},
		SourceID: "exp-1",
	})

	// Assert
	s.Require().NoError(err)
	want := []entities.Placement{
		{ResourceID: "wood", Quantity: 10, Destination: entities.DestinationInventory},
		{ResourceID: "wood", Quantity: 2, Destination: entities.DestinationStorage},
	}
	s.Equal(want, out.Grant.Placements)
	s.Equal(want, applied.Grant.Placements)
	s.Equal("exp-1", applied.SourceID)
	s.True(applied.Patch.IsEmpty())
	s.Equal(12, out.Grant.Quantity("wood"))
	s.False(out.Grant.LeveledUp)
	s.Empty(s.published)
}

func (s *ResolverTestSuite) TestGrantFillsInSortedOrder() {
	// Arrange: 50 free, stone is placed before wood
	s.expectWorld()
	var applied players.ApplyGrantInput
	s.expectApply(&applied, s.player)

	// Act
	out, err := s.resolver.Grant(s.ctx, &rewards.GrantInput{
		PlayerID: "player-1",
		Bundle:   entities.RewardBundle{Resources: map[string]int{"wood": 10, "stone": 8}},
		SourceID: "exp-1",
	})

	// Assert
	s.Require().NoError(err)
	s.Equal([]entities.Placement{
		{ResourceID: "stone", Quantity: 8, Destination: entities.DestinationInventory},
		{ResourceID: "wood", Quantity: 5, Destination: entities.DestinationInventory},
		{ResourceID: "wood", Quantity: 5, Destination: entities.DestinationStorage},
	}, out.Grant.Placements)
}

func (s *ResolverTestSuite) TestGrantLevelUpPublishesEvent() {
	// Arrange
	s.player.Experience = 80
	s.expectWorld()

	leveled := *s.player
	leveled.Experience = 130
	leveled.Level = 2
	var applied players.ApplyGrantInput
	s.expectApply(&applied, &leveled)

	// Act
	out, err := s.resolver.Grant(s.ctx, &rewards.GrantInput{
		PlayerID: "player-1",
		Bundle:   entities.RewardBundle{Experience: 50},
		SourceID: "enc-1",
	})

	// Assert
	s.Require().NoError(err)
	s.Equal(entities.PlayerPatch{Experience: entities.Int(130), Level: entities.Int(2)}, applied.Patch)
	s.True(out.Grant.LeveledUp)
	s.Equal(2, out.Grant.Level)
	s.Equal(130, out.Grant.TotalExperience)
	s.Equal(2, out.Player.Level)
	s.Require().Len(s.published, 1)
	s.Equal(rewards.EventPlayerLevelUp, s.published[0].Type())
	s.Equal("player-1", s.published[0].Source().GetID())
}

func (s *ResolverTestSuite) TestGrantExperienceWithoutLevelUp() {
	s.expectWorld()
	var applied players.ApplyGrantInput
	s.expectApply(&applied, s.player)

	out, err := s.resolver.Grant(s.ctx, &rewards.GrantInput{
		PlayerID: "player-1",
		Bundle:   entities.RewardBundle{Experience: 40},
		SourceID: "enc-1",
	})

	s.Require().NoError(err)
	s.Equal(entities.Int(40), applied.Patch.Experience)
	s.False(out.Grant.LeveledUp)
	s.Equal(1, out.Grant.Level)
	s.Empty(s.published)
}

func (s *ResolverTestSuite) TestGrantReplayReturnsRecordedGrant() {
	// Arrange: the store already holds a grant for this source
	s.player.Experience = 80
	s.expectWorld()
	recorded := entities.RewardGrant{Experience: 50, TotalExperience: 130, Level: 2, LeveledUp: true}
	s.mockStore.EXPECT().
		ApplyGrant(s.ctx, gomock.Any()).
		Return(&players.ApplyGrantOutput{Player: s.player, Grant: recorded, Replayed: true}, nil)

	// Act
	out, err := s.resolver.Grant(s.ctx, &rewards.GrantInput{
		PlayerID: "player-1",
		Bundle:   entities.RewardBundle{Experience: 50},
		SourceID: "exp-1",
	})

	// Assert
	s.Require().NoError(err)
	s.Equal(recorded, out.Grant)
	s.Empty(s.published, "a replayed level-up is not announced again")
}

func (s *ResolverTestSuite) TestGrantStopsOnStoreError() {
	s.expectWorld()
	s.mockStore.EXPECT().
		ApplyGrant(s.ctx, gomock.Any()).
		Return(nil, errors.New(errors.CodeUnavailable, "redis down"))

	_, err := s.resolver.Grant(s.ctx, &rewards.GrantInput{
		PlayerID: "player-1",
		Bundle:   entities.RewardBundle{Resources: map[string]int{"wood": 1}, Experience: 10},
		SourceID: "exp-1",
	})

	s.Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
	s.Empty(s.published)
}

func (s *ResolverTestSuite) TestGrantRequiresSource() {
	_, err := s.resolver.Grant(s.ctx, &rewards.GrantInput{PlayerID: "player-1"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ResolverTestSuite) TestGrantMissingPlayer() {
	s.mockStore.EXPECT().
		GetPlayer(s.ctx, gomock.Any()).
		Return(nil, errors.NotFound("player not found"))

	_, err := s.resolver.Grant(s.ctx, &rewards.GrantInput{PlayerID: "player-1", SourceID: "exp-1"})
	s.True(errors.IsNotFound(err))
}

func (s *ResolverTestSuite) TestAnnounceCompletion() {
	exp := &entities.Expedition{
		ID:                 "exp-1",
		PlayerID:           "player-1",
		TemplateID:         "forest_foraging",
		Status:             entities.ExpeditionStatusCompleted,
		CollectedResources: map[string]int{"wood": 3},
	}

	err := s.resolver.AnnounceCompletion(s.ctx, &rewards.AnnounceCompletionInput{Expedition: exp, Player: s.player})

	s.Require().NoError(err)
	s.Require().Len(s.published, 1)
	s.Equal(rewards.EventExpeditionCompleted, s.published[0].Type())
	id, ok := s.published[0].Context().Get(rewards.KeyExpeditionID)
	s.True(ok)
	s.Equal("exp-1", id)
}

func (s *ResolverTestSuite) TestAnnounceCompletionRejectsUnfinished() {
	exp := &entities.Expedition{ID: "exp-1", PlayerID: "player-1", Status: entities.ExpeditionStatusActive}

	err := s.resolver.AnnounceCompletion(s.ctx, &rewards.AnnounceCompletionInput{Expedition: exp})

	s.True(errors.IsFailedPrecondition(err))
	s.Empty(s.published)
}

func TestCompletionBundle(t *testing.T) {
	tmpl := &entities.ExpeditionTemplate{
		GuaranteedRewards: map[string]int{"A": 5},
		PossibleRewards: []entities.PossibleReward{
			{ResourceID: "B", Quantity: 1, Chance: 0.5},
			{ResourceID: "C", Quantity: 2, Chance: 0.5},
		},
		Experience: 25,
	}

	// first trial hits, second misses
	bundle := rewards.CompletionBundle(random.NewSequence(0.1, 0.9), tmpl, map[string]int{"A": 2, "D": 1})

	want := map[string]int{"A": 7, "B": 1, "D": 1}
	if len(bundle.Resources) != len(want) {
		t.Fatalf("resources = %v, want %v", bundle.Resources, want)
	}
	for id, qty := range want {
		if bundle.Resources[id] != qty {
			t.Fatalf("resources[%s] = %d, want %d", id, bundle.Resources[id], qty)
		}
	}
	if bundle.Experience != 25 {
		t.Fatalf("experience = %d", bundle.Experience)
	}
}

func TestCompletionBundleGuaranteedOnly(t *testing.T) {
	tmpl := &entities.ExpeditionTemplate{GuaranteedRewards: map[string]int{"A": 5}}

	for i := 0; i < 100; i++ {
		bundle := rewards.CompletionBundle(random.NewDefault(), tmpl, nil)
		if len(bundle.Resources) != 1 || bundle.Resources["A"] != 5 {
			t.Fatalf("bundle = %v, want exactly A:5", bundle.Resources)
		}
	}
}
