package archive_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/repositories/archive"
	"github.com/KirkDiggler/expedition-api/internal/testutils"
)

type SQLiteStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *archive.Store
	start time.Time
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreTestSuite))
}

func (s *SQLiteStoreTestSuite) SetupTest() {
	store, err := archive.Open(archive.MemoryPath)
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
	s.start = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
}

func (s *SQLiteStoreTestSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *SQLiteStoreTestSuite) finished(id string, start time.Time) *entities.Expedition {
	exp := testutils.CreateTestExpedition(id, "player-1", start, 30*time.Minute)
	exp.Status = entities.ExpeditionStatusCompleted
	exp.Phase = entities.PhaseCompleted
	exp.Progress = 100
	exp.CollectedResources = map[string]int{"wood": 4}
	exp.MarkMilestone(entities.MilestoneExplore | entities.MilestoneReturn | entities.MilestoneComplete)
	ended := start.Add(30 * time.Minute)
	exp.EndedAt = &ended
	exp.Rewards = &entities.RewardGrant{
		Placements: []entities.Placement{{ResourceID: "wood", Quantity: 7, Destination: entities.DestinationInventory}},
		Experience: 40,
		Level:      1,
	}
	return exp
}

func (s *SQLiteStoreTestSuite) TestExpeditionRoundTrip() {
	exp := s.finished("exp-1", s.start)

	_, err := s.store.SaveExpedition(s.ctx, archive.SaveExpeditionInput{Expedition: exp})
	s.Require().NoError(err)

	out, err := s.store.GetExpedition(s.ctx, archive.GetExpeditionInput{ID: "exp-1"})
	s.Require().NoError(err)
	s.Equal(entities.ExpeditionStatusCompleted, out.Expedition.Status)
	s.Equal(map[string]int{"wood": 4}, out.Expedition.CollectedResources)
	s.True(out.Expedition.HasMilestone(entities.MilestoneComplete))
	s.Require().NotNil(out.Expedition.Rewards)
	s.Equal(7, out.Expedition.Rewards.Quantity("wood"))
	s.True(out.Expedition.StartTime.Equal(s.start))
}

func (s *SQLiteStoreTestSuite) TestSaveIsIdempotent() {
	exp := s.finished("exp-1", s.start)
	_, err := s.store.SaveExpedition(s.ctx, archive.SaveExpeditionInput{Expedition: exp})
	s.Require().NoError(err)
	_, err = s.store.SaveExpedition(s.ctx, archive.SaveExpeditionInput{Expedition: exp})
	s.Require().NoError(err)

	out, err := s.store.ListExpeditionsByPlayer(s.ctx, archive.ListExpeditionsByPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Len(out.Expeditions, 1)
}

func (s *SQLiteStoreTestSuite) TestRefusesActiveExpedition() {
	exp := testutils.CreateTestExpedition("exp-1", "player-1", s.start, time.Hour)

	_, err := s.store.SaveExpedition(s.ctx, archive.SaveExpeditionInput{Expedition: exp})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *SQLiteStoreTestSuite) TestListByPlayerNewestFirst() {
	for i, id := range []string{"exp-1", "exp-2", "exp-3"} {
		exp := s.finished(id, s.start.Add(time.Duration(i)*time.Hour))
		_, err := s.store.SaveExpedition(s.ctx, archive.SaveExpeditionInput{Expedition: exp})
		s.Require().NoError(err)
	}

	out, err := s.store.ListExpeditionsByPlayer(s.ctx, archive.ListExpeditionsByPlayerInput{PlayerID: "player-1", Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(out.Expeditions, 2)
	s.Equal("exp-3", out.Expeditions[0].ID)
	s.Equal("exp-2", out.Expeditions[1].ID)

	none, err := s.store.ListExpeditionsByPlayer(s.ctx, archive.ListExpeditionsByPlayerInput{PlayerID: "player-9"})
	s.Require().NoError(err)
	s.Empty(none.Expeditions)
}

func (s *SQLiteStoreTestSuite) TestMissingRecords() {
	_, err := s.store.GetExpedition(s.ctx, archive.GetExpeditionInput{ID: "nope"})
	s.True(errors.IsNotFound(err))

	_, err = s.store.GetEncounter(s.ctx, archive.GetEncounterInput{ID: "nope"})
	s.True(errors.IsNotFound(err))
}

func (s *SQLiteStoreTestSuite) TestEncounterRoundTrip() {
	enc := testutils.CreateTestEncounter("enc-1", "player-1", "exp-1", &entities.Animal{ID: "wolf", Health: 30}, s.start)

	_, err := s.store.SaveEncounter(s.ctx, archive.SaveEncounterInput{Encounter: enc})
	s.True(errors.IsFailedPrecondition(err))

	enc.Status = entities.EncounterStatusVictory
	ended := s.start.Add(time.Minute)
	enc.EndedAt = &ended
	dmg := 9
	enc.Append(entities.CombatActionRecord{Turn: 1, Actor: entities.ActorPlayer, Action: "attack", Damage: &dmg})

	_, err = s.store.SaveEncounter(s.ctx, archive.SaveEncounterInput{Encounter: enc})
	s.Require().NoError(err)

	out, err := s.store.GetEncounter(s.ctx, archive.GetEncounterInput{ID: "enc-1"})
	s.Require().NoError(err)
	s.Equal(entities.EncounterStatusVictory, out.Encounter.Status)
	s.Require().Len(out.Encounter.Log, 1)
	s.Equal(9, *out.Encounter.Log[0].Damage)
}

func TestOpenFileArchivePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	ctx := context.Background()

	store, err := archive.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	exp := testutils.CreateTestExpedition("exp-1", "player-1", time.Now().UTC(), time.Minute)
	exp.Status = entities.ExpeditionStatusCancelled
	exp.CancelReason = entities.CancelReasonPlayer
	if _, err := store.SaveExpedition(ctx, archive.SaveExpeditionInput{Expedition: exp}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := archive.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reopened.Close() }()

	out, err := reopened.GetExpedition(ctx, archive.GetExpeditionInput{ID: "exp-1"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Expedition.CancelReason != entities.CancelReasonPlayer {
		t.Fatalf("cancel reason = %q", out.Expedition.CancelReason)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := archive.Open("  ")
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
