package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/expedition-api/internal/catalog"
	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
)

type CatalogTestSuite struct {
	suite.Suite
	catalog *catalog.Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) SetupTest() {
	c, err := catalog.LoadDefault()
	s.Require().NoError(err)
	s.catalog = c
}

func (s *CatalogTestSuite) TestLoadDefaultHasWorldData() {
	s.NotEmpty(s.catalog.Templates())
	s.NotEmpty(s.catalog.Biomes())
	s.NotEmpty(s.catalog.Resources())
	s.NotEmpty(s.catalog.Animals())

	wolf, ok := s.catalog.Animal("wolf")
	s.Require().True(ok)
	s.NotEmpty(wolf.Moves)
}

func (s *CatalogTestSuite) TestResolveRequestedTemplate() {
	res, err := s.catalog.Resolve("mountain_quarry")
	s.Require().NoError(err)
	s.False(res.UsedDefault())
	s.Equal(entities.TemplateSourceRequested, res.Source)
	s.Equal("mountains", res.Template.BiomeID)
}

func (s *CatalogTestSuite) TestResolveMissingUsesExplicitDefault() {
	res, err := s.catalog.Resolve("does_not_exist")
	s.Require().NoError(err)
	s.True(res.UsedDefault())
	s.Equal("forest_foraging", res.Template.ID)
}

func (s *CatalogTestSuite) TestResolveMissingWithoutDefault() {
	c, err := catalog.New("", nil, nil, nil, nil)
	s.Require().NoError(err)

	_, err = c.Resolve("nope")
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *CatalogTestSuite) TestNewRejectsBrokenReferences() {
	_, err := catalog.New("missing",
		[]*entities.ExpeditionTemplate{{
			ID:                 "t1",
			BiomeID:            "nowhere",
			MinDurationMinutes: 10,
			MaxDurationMinutes: 5,
			PossibleRewards:    []entities.PossibleReward{{ResourceID: "gold", Quantity: 1, Chance: 1.5}},
		}},
		nil, nil,
		[]*entities.Animal{{ID: "ghost", Health: 0}},
	)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "unknown biome")
	s.Contains(err.Error(), "invalid duration range")
	s.Contains(err.Error(), "chance must be in [0,1]")
	s.Contains(err.Error(), "at least one move is required")
	s.Contains(err.Error(), "default_template_id")
}

func (s *CatalogTestSuite) TestLoadFromFS() {
	fsys := fstest.MapFS{
		"data/templates.yaml": {Data: []byte(`
templates:
  - id: t
    biome_id: b
    min_duration_minutes: 1
    max_duration_minutes: 1
    guaranteed_rewards: {a: 5}
`)},
		"data/biomes.yaml":    {Data: []byte("biomes:\n  - id: b\n    tags: [x]\n")},
		"data/resources.yaml": {Data: []byte("resources:\n  - id: a\n    weight: 1\n")},
		"data/animals.yaml":   {Data: []byte("animals: []\n")},
	}

	c, err := catalog.Load(fsys)
	s.Require().NoError(err)

	tpl, ok := c.Template("t")
	s.Require().True(ok)
	s.Equal(map[string]int{"a": 5}, tpl.GuaranteedRewards)
}
