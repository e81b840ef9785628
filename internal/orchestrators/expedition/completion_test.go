package expedition_test

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/expedition-api/internal/engine/rewards"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition"
	"github.com/KirkDiggler/expedition-api/internal/pkg/idgen"
	"github.com/KirkDiggler/expedition-api/internal/pkg/random"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
	"github.com/KirkDiggler/expedition-api/internal/repositories/players"
	"github.com/KirkDiggler/expedition-api/internal/testutils"
)

// unreliableGrants fails the next grants. With committed set the grant
// still lands in the store and only the reply is lost.
type unreliableGrants struct {
	players.Repository
	failures  int
	committed bool
}

func (u *unreliableGrants) ApplyGrant(ctx context.Context, input players.ApplyGrantInput) (*players.ApplyGrantOutput, error) {
	if u.failures == 0 {
		return u.Repository.ApplyGrant(ctx, input)
	}
	u.failures--
	if u.committed {
		if _, err := u.Repository.ApplyGrant(ctx, input); err != nil {
			return nil, err
		}
	}
	return nil, errors.New(errors.CodeUnavailable, "connection reset")
}

func (s *OrchestratorTestSuite) useRewardStore(store players.Repository) {
	bus := events.NewBus()
	bus.SubscribeFunc(rewards.EventExpeditionCompleted, 0, func(_ context.Context, _ events.Event) error {
		s.completions++
		return nil
	})
	resolver, err := rewards.New(&rewards.Config{Store: store, EventBus: bus})
	s.Require().NoError(err)

	s.orchestrator, err = expedition.New(&expedition.Config{
		Expeditions: s.expeditions,
		Players:     s.players,
		Archive:     s.archive,
		Catalog:     testutils.CreateTestCatalog(s.T(), false),
		Rewards:     resolver,
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("exp"),
		Random:      random.NewDefault(),
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) stored(id string) *entities.Expedition {
	out, err := s.expeditions.Get(s.ctx, expeditions.GetInput{ID: id})
	s.Require().NoError(err)
	return out.Expedition
}

func (s *OrchestratorTestSuite) inventory(playerID string) []entities.InventoryItem {
	out, err := s.players.GetPlayerInventory(s.ctx, players.GetItemsInput{PlayerID: playerID})
	s.Require().NoError(err)
	return out.Items
}

func (s *OrchestratorTestSuite) TestCompletionRetryAfterLostReplyGrantsOnce() {
	// Arrange
	s.useRewardStore(&unreliableGrants{Repository: s.players, failures: 1, committed: true})
	exp := s.startMeadow("player-1")
	s.clock.Advance(10 * time.Minute)

	// Act
	_, err := s.orchestrator.UpdateProgress(s.ctx, &expedition.UpdateProgressInput{ExpeditionID: exp.ID})
	s.Require().Error(err)

	pending := s.stored(exp.ID)
	s.Equal(entities.ExpeditionStatusActive, pending.Status)
	s.True(pending.HasMilestone(entities.MilestoneComplete))
	s.Require().NotNil(pending.PendingRewards)
	s.Equal(map[string]int{"berries": 6}, pending.PendingRewards.Resources)

	out := s.update(exp.ID)

	// Assert
	done := out.Expedition
	s.Equal(entities.ExpeditionStatusCompleted, done.Status)
	s.Nil(done.PendingRewards)
	s.Require().NotNil(done.Rewards)
	s.Equal(6, done.Rewards.Quantity("berries"))
	s.Equal([]entities.InventoryItem{{ResourceID: "berries", Quantity: 6}}, s.inventory("player-1"))
	s.Equal(20, s.player("player-1").Experience)
	s.Equal(1, s.completions)
}

func (s *OrchestratorTestSuite) TestCompletionRetryAfterFailedGrant() {
	// Arrange
	s.useRewardStore(&unreliableGrants{Repository: s.players, failures: 1})
	exp := s.startMeadow("player-1")
	s.clock.Advance(10 * time.Minute)

	// Act
	_, err := s.orchestrator.UpdateProgress(s.ctx, &expedition.UpdateProgressInput{ExpeditionID: exp.ID})
	s.Require().Error(err)
	s.Empty(s.inventory("player-1"))
	s.Equal(0, s.player("player-1").Experience)

	s.clock.Advance(time.Minute)
	out, err := s.orchestrator.Complete(s.ctx, &expedition.CompleteInput{ExpeditionID: exp.ID})

	// Assert
	s.Require().NoError(err)
	s.Equal(entities.ExpeditionStatusCompleted, out.Expedition.Status)
	s.Equal([]entities.InventoryItem{{ResourceID: "berries", Quantity: 6}}, s.inventory("player-1"))
	s.Equal(20, s.player("player-1").Experience)
	s.Equal(1, s.completions)
}

func (s *OrchestratorTestSuite) TestCancelRefusedWhileCompleting() {
	// Arrange
	s.useRewardStore(&unreliableGrants{Repository: s.players, failures: 1, committed: true})
	exp := s.startMeadow("player-1")
	s.clock.Advance(10 * time.Minute)
	_, err := s.orchestrator.UpdateProgress(s.ctx, &expedition.UpdateProgressInput{ExpeditionID: exp.ID})
	s.Require().Error(err)

	// Act
	_, err = s.orchestrator.Cancel(s.ctx, &expedition.CancelInput{ExpeditionID: exp.ID})

	// Assert
	s.True(errors.IsFailedPrecondition(err))
	s.Equal(entities.ExpeditionStatusCompleted, s.update(exp.ID).Expedition.Status)
}

func (s *OrchestratorTestSuite) TestStoredProgressWithinClockSkewIsKept() {
	// Arrange: written by a server 30s ahead, 15% against a local 10%
	exp := testutils.CreateTestExpedition("exp-skew", "player-1", s.start, 10*time.Minute)
	exp.TemplateID = testutils.TemplateMeadow
	exp.BiomeID = "meadow"
	exp.Progress = 15
	_, err := s.expeditions.Create(s.ctx, expeditions.CreateInput{Expedition: exp})
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)

	// Act
	out, err := s.orchestrator.UpdateProgress(s.ctx, &expedition.UpdateProgressInput{ExpeditionID: "exp-skew"})

	// Assert
	s.Require().NoError(err)
	s.Equal(entities.ExpeditionStatusActive, out.Expedition.Status)
	s.InDelta(10.0, out.Expedition.Progress, 0.01)
}
