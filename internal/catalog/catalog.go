// Package catalog holds the immutable expedition templates and world data
// (biomes, resources, animals) the engine is configured with.
package catalog

import (
	"embed"
	"io/fs"
	"log/slog"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	templatesFile = "data/templates.yaml"
	biomesFile    = "data/biomes.yaml"
	resourcesFile = "data/resources.yaml"
	animalsFile   = "data/animals.yaml"
)

type templatesDoc struct {
	DefaultTemplateID string                         `yaml:"default_template_id"`
	Templates         []*entities.ExpeditionTemplate `yaml:"templates"`
}

type biomesDoc struct {
	Biomes []*entities.Biome `yaml:"biomes"`
}

type resourcesDoc struct {
	Resources []*entities.Resource `yaml:"resources"`
}

type animalsDoc struct {
	Animals []*entities.Animal `yaml:"animals"`
}

// Catalog is read-only after Load; all accessors are safe for concurrent use
type Catalog struct {
	defaultTemplateID string
	templates         map[string]*entities.ExpeditionTemplate
	biomes            map[string]*entities.Biome
	resources         map[string]*entities.Resource
	animals           map[string]*entities.Animal
}

// Resolution is the outcome of looking up a template. Source tells the caller
// whether the requested template was found or the configured default substituted.
type Resolution struct {
	Template *entities.ExpeditionTemplate
	Source   entities.TemplateSource
}

// UsedDefault reports whether the default template was substituted
func (r Resolution) UsedDefault() bool {
	return r.Source == entities.TemplateSourceDefault
}

// LoadDefault loads the catalog shipped with the binary
func LoadDefault() (*Catalog, error) {
	return Load(embedded)
}

// Load reads the catalog documents from fsys and validates cross references
func Load(fsys fs.FS) (*Catalog, error) {
	var tdoc templatesDoc
	if err := decode(fsys, templatesFile, &tdoc); err != nil {
		return nil, err
	}
	var bdoc biomesDoc
	if err := decode(fsys, biomesFile, &bdoc); err != nil {
		return nil, err
	}
	var rdoc resourcesDoc
	if err := decode(fsys, resourcesFile, &rdoc); err != nil {
		return nil, err
	}
	var adoc animalsDoc
	if err := decode(fsys, animalsFile, &adoc); err != nil {
		return nil, err
	}

	return New(tdoc.DefaultTemplateID, tdoc.Templates, bdoc.Biomes, rdoc.Resources, adoc.Animals)
}

// New builds a catalog from in-memory definitions
func New(
	defaultTemplateID string,
	templates []*entities.ExpeditionTemplate,
	biomes []*entities.Biome,
	resources []*entities.Resource,
	animals []*entities.Animal,
) (*Catalog, error) {
	c := &Catalog{
		defaultTemplateID: defaultTemplateID,
		templates:         make(map[string]*entities.ExpeditionTemplate, len(templates)),
		biomes:            make(map[string]*entities.Biome, len(biomes)),
		resources:         make(map[string]*entities.Resource, len(resources)),
		animals:           make(map[string]*entities.Animal, len(animals)),
	}
	for _, r := range resources {
		c.resources[r.ID] = r
	}
	for _, b := range biomes {
		c.biomes[b.ID] = b
	}
	for _, t := range templates {
		c.templates[t.ID] = t
	}
	for _, a := range animals {
		c.animals[a.ID] = a
	}

	if err := c.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid catalog")
	}
	return c, nil
}

func decode(fsys fs.FS, name string, target interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", name)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return errors.Wrapf(err, "failed to parse %s", name)
	}
	return nil
}

func (c *Catalog) validate() error {
	vb := errors.NewValidationBuilder()

	for id, t := range c.templates {
		field := "templates." + id
		if _, ok := c.biomes[t.BiomeID]; !ok {
			vb.Fieldf(field, "unknown biome %q", t.BiomeID)
		}
		if t.MinDurationMinutes <= 0 || t.MaxDurationMinutes < t.MinDurationMinutes {
			vb.Fieldf(field, "invalid duration range [%d,%d]", t.MinDurationMinutes, t.MaxDurationMinutes)
		}
		for resourceID, qty := range t.GuaranteedRewards {
			if _, ok := c.resources[resourceID]; !ok {
				vb.Fieldf(field, "unknown guaranteed reward %q", resourceID)
			}
			if qty <= 0 {
				vb.Fieldf(field, "guaranteed reward %q must be positive", resourceID)
			}
		}
		for _, pr := range t.PossibleRewards {
			if _, ok := c.resources[pr.ResourceID]; !ok {
				vb.Fieldf(field, "unknown possible reward %q", pr.ResourceID)
			}
			if pr.Chance < 0 || pr.Chance > 1 {
				vb.Fieldf(field, "possible reward %q chance must be in [0,1]", pr.ResourceID)
			}
		}
	}

	for id, b := range c.biomes {
		for _, br := range b.Resources {
			if _, ok := c.resources[br.ResourceID]; !ok {
				vb.Fieldf("biomes."+id, "unknown resource %q", br.ResourceID)
			}
			if br.CollectionChance < 0 || br.CollectionChance > 100 {
				vb.Fieldf("biomes."+id, "collection chance of %q must be in [0,100]", br.ResourceID)
			}
		}
	}

	for id, a := range c.animals {
		if len(a.Moves) == 0 {
			vb.Fieldf("animals."+id, "at least one move is required")
		}
		if a.Health <= 0 {
			vb.Fieldf("animals."+id, "health must be positive")
		}
		for _, d := range a.Drops {
			if _, ok := c.resources[d.ResourceID]; !ok {
				vb.Fieldf("animals."+id, "unknown drop %q", d.ResourceID)
			}
			if d.Min > d.Max {
				vb.Fieldf("animals."+id, "drop %q has min above max", d.ResourceID)
			}
		}
	}

	if c.defaultTemplateID != "" {
		if _, ok := c.templates[c.defaultTemplateID]; !ok {
			vb.Fieldf("default_template_id", "unknown template %q", c.defaultTemplateID)
		}
	}

	return vb.Build()
}

// Resolve finds a template. When it is missing and a default is configured the
// default is substituted; both paths are logged so the fallback is never silent.
func (c *Catalog) Resolve(templateID string) (Resolution, error) {
	if t, ok := c.templates[templateID]; ok {
		slog.Debug("resolved expedition template",
			"template_id", templateID,
			"source", entities.TemplateSourceRequested)
		return Resolution{Template: t, Source: entities.TemplateSourceRequested}, nil
	}

	if c.defaultTemplateID == "" {
		return Resolution{}, errors.NotFoundf("expedition template %s not found", templateID).
			WithMeta("template_id", templateID)
	}

	slog.Warn("expedition template not found, using configured default",
		"template_id", templateID,
		"default_template_id", c.defaultTemplateID,
		"source", entities.TemplateSourceDefault)

	return Resolution{
		Template: c.templates[c.defaultTemplateID],
		Source:   entities.TemplateSourceDefault,
	}, nil
}

// Template returns a template without fallback
func (c *Catalog) Template(id string) (*entities.ExpeditionTemplate, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// Animal returns an animal definition
func (c *Catalog) Animal(id string) (*entities.Animal, bool) {
	a, ok := c.animals[id]
	return a, ok
}

// Animals returns all animals ordered by ID
func (c *Catalog) Animals() []*entities.Animal {
	out := make([]*entities.Animal, 0, len(c.animals))
	for _, a := range c.animals {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Biomes returns all biomes ordered by ID
func (c *Catalog) Biomes() []*entities.Biome {
	out := make([]*entities.Biome, 0, len(c.biomes))
	for _, b := range c.biomes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resources returns all resources ordered by ID
func (c *Catalog) Resources() []*entities.Resource {
	out := make([]*entities.Resource, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Templates returns all templates ordered by ID
func (c *Catalog) Templates() []*entities.ExpeditionTemplate {
	out := make([]*entities.ExpeditionTemplate, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
