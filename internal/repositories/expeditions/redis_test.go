package expeditions_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
	"github.com/KirkDiggler/expedition-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    expeditions.Repository
	start   time.Time
	cleanup func()
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()
	s.start = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	repo, err := expeditions.NewRedis(&expeditions.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) create(id, playerID string, start time.Time) *entities.Expedition {
	exp := testutils.CreateTestExpedition(id, playerID, start, 30*time.Minute)
	_, err := s.repo.Create(s.ctx, expeditions.CreateInput{Expedition: exp})
	s.Require().NoError(err)
	return exp
}

func (s *RedisRepositoryTestSuite) finish(exp *entities.Expedition, at time.Time) {
	exp.Status = entities.ExpeditionStatusCompleted
	exp.EndedAt = &at
	exp.UpdatedAt = at
	_, err := s.repo.Update(s.ctx, expeditions.UpdateInput{Expedition: exp})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	s.create("exp-1", "player-1", s.start)

	out, err := s.repo.Get(s.ctx, expeditions.GetInput{ID: "exp-1"})
	s.Require().NoError(err)
	s.Equal("player-1", out.Expedition.PlayerID)
	s.Equal(30*time.Minute, out.Expedition.Duration)
	s.True(out.Expedition.StartTime.Equal(s.start))

	active, err := s.repo.GetActiveByPlayer(s.ctx, expeditions.GetActiveByPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal("exp-1", active.Expedition.ID)
}

func (s *RedisRepositoryTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, expeditions.CreateInput{Expedition: &entities.Expedition{}})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "id")
	s.Contains(err.Error(), "player_id")
}

func (s *RedisRepositoryTestSuite) TestSecondActiveExpeditionConflicts() {
	s.create("exp-1", "player-1", s.start)

	_, err := s.repo.Create(s.ctx, expeditions.CreateInput{
		Expedition: testutils.CreateTestExpedition("exp-2", "player-1", s.start, time.Hour),
	})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
	s.True(errors.Is(err, errors.ErrConflictActiveExpedition))
	s.Equal("exp-1", errors.GetMeta(err)["expedition_id"])

	_, err = s.repo.Get(s.ctx, expeditions.GetInput{ID: "exp-2"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestConcurrentCreatesOnlyOneWins() {
	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.repo.Create(s.ctx, expeditions.CreateInput{
				Expedition: testutils.CreateTestExpedition(fmt.Sprintf("exp-%d", i), "player-1", s.start, time.Hour),
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, errors.ErrConflictActiveExpedition):
			conflicts++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, wins)
	s.Equal(racers-1, conflicts)
}

func (s *RedisRepositoryTestSuite) TestTerminalUpdateReleasesSlot() {
	exp := s.create("exp-1", "player-1", s.start)
	s.finish(exp, s.start.Add(30*time.Minute))

	_, err := s.repo.GetActiveByPlayer(s.ctx, expeditions.GetActiveByPlayerInput{PlayerID: "player-1"})
	s.True(errors.IsNotFound(err))

	active, err := s.repo.ListActive(s.ctx, expeditions.ListActiveInput{})
	s.Require().NoError(err)
	s.Empty(active.Expeditions)

	s.create("exp-2", "player-1", s.start.Add(time.Hour))
}

func (s *RedisRepositoryTestSuite) TestUpdateMissing() {
	_, err := s.repo.Update(s.ctx, expeditions.UpdateInput{
		Expedition: testutils.CreateTestExpedition("ghost", "player-1", s.start, time.Hour),
	})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListActive() {
	s.create("exp-1", "player-1", s.start)
	s.create("exp-2", "player-2", s.start)

	out, err := s.repo.ListActive(s.ctx, expeditions.ListActiveInput{})
	s.Require().NoError(err)
	s.Len(out.Expeditions, 2)
}

func (s *RedisRepositoryTestSuite) TestListByPlayerNewestFirst() {
	first := s.create("exp-1", "player-1", s.start)
	s.finish(first, s.start.Add(30*time.Minute))
	s.create("exp-2", "player-1", s.start.Add(time.Hour))

	out, err := s.repo.ListByPlayer(s.ctx, expeditions.ListByPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Expeditions, 2)
	s.Equal("exp-2", out.Expeditions[0].ID)
	s.Equal("exp-1", out.Expeditions[1].ID)

	limited, err := s.repo.ListByPlayer(s.ctx, expeditions.ListByPlayerInput{PlayerID: "player-1", Limit: 1})
	s.Require().NoError(err)
	s.Len(limited.Expeditions, 1)
}

func (s *RedisRepositoryTestSuite) TestListEndedBeforeAndEvict() {
	old := s.create("exp-old", "player-1", s.start)
	s.finish(old, s.start.Add(10*time.Minute))
	recent := s.create("exp-new", "player-1", s.start.Add(time.Hour))
	s.finish(recent, s.start.Add(2*time.Hour))

	out, err := s.repo.ListEndedBefore(s.ctx, expeditions.ListEndedBeforeInput{Before: s.start.Add(time.Hour)})
	s.Require().NoError(err)
	s.Require().Len(out.Expeditions, 1)
	s.Equal("exp-old", out.Expeditions[0].ID)

	_, err = s.repo.Evict(s.ctx, expeditions.EvictInput{ID: "exp-old"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, expeditions.GetInput{ID: "exp-old"})
	s.True(errors.IsNotFound(err))

	history, err := s.repo.ListByPlayer(s.ctx, expeditions.ListByPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Require().Len(history.Expeditions, 1)
	s.Equal("exp-new", history.Expeditions[0].ID)
}

func (s *RedisRepositoryTestSuite) TestEvictRefusesActive() {
	s.create("exp-1", "player-1", s.start)

	_, err := s.repo.Evict(s.ctx, expeditions.EvictInput{ID: "exp-1"})
	s.True(errors.IsFailedPrecondition(err))
}
