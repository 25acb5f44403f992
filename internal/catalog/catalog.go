// Package catalog holds the studio's published games and tools.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

// ErrNotFound is returned when no entry matches an id.
var ErrNotFound = errors.New("not found")

// Media is an image or video shown on a detail page.
type Media struct {
	Type string `yaml:"type" json:"type"`
	URL  string `yaml:"url" json:"url"`
}

// Development collects the behind-the-scenes notes of a project.
type Development struct {
	Challenges []string `yaml:"challenges" json:"challenges"`
	Insights   []string `yaml:"insights" json:"insights"`
	TechStack  []string `yaml:"tech_stack" json:"tech_stack"`
}

// GameSpecs are a game's release facts.
type GameSpecs struct {
	Engine    string   `yaml:"engine" json:"engine"`
	Platforms []string `yaml:"platforms" json:"platforms"`
	Release   string   `yaml:"release" json:"release"`
	Players   string   `yaml:"players" json:"players"`
}

// Gameplay describes how a game plays.
type Gameplay struct {
	Mechanics []string `yaml:"mechanics" json:"mechanics"`
	Features  []string `yaml:"features" json:"features"`
}

// Game is a published game.
type Game struct {
	ID          string      `yaml:"id" json:"id"`
	Title       string      `yaml:"title" json:"title"`
	Tagline     string      `yaml:"tagline" json:"tagline"`
	Description string      `yaml:"description" json:"description"`
	Features    []string    `yaml:"features" json:"features"`
	Media       []Media     `yaml:"media" json:"media"`
	Specs       GameSpecs   `yaml:"specs" json:"specs"`
	Gameplay    Gameplay    `yaml:"gameplay" json:"gameplay"`
	Development Development `yaml:"development" json:"development"`
}

// ToolSpecs are a tool's product facts.
type ToolSpecs struct {
	Language  string   `yaml:"language" json:"language"`
	Platforms []string `yaml:"platforms" json:"platforms"`
	License   string   `yaml:"license" json:"license"`
	Support   string   `yaml:"support" json:"support"`
}

// Technical describes how a tool is built.
type Technical struct {
	Architecture []string `yaml:"architecture" json:"architecture"`
	Features     []string `yaml:"features" json:"features"`
}

// Documentation lists a tool's guides and examples.
type Documentation struct {
	Guides   []string `yaml:"guides" json:"guides"`
	Examples []string `yaml:"examples" json:"examples"`
}

// Tool is a published development tool.
type Tool struct {
	ID            string        `yaml:"id" json:"id"`
	Title         string        `yaml:"title" json:"title"`
	Tagline       string        `yaml:"tagline" json:"tagline"`
	Description   string        `yaml:"description" json:"description"`
	Features      []string      `yaml:"features" json:"features"`
	Media         []Media       `yaml:"media" json:"media"`
	Specs         ToolSpecs     `yaml:"specs" json:"specs"`
	Technical     Technical     `yaml:"technical" json:"technical"`
	Development   Development   `yaml:"development" json:"development"`
	Documentation Documentation `yaml:"documentation" json:"documentation"`
}

// Catalog is a read-only set of games and tools keyed by slug id.
type Catalog struct {
	games []Game
	tools []Tool
}

// Load parses the catalog built into the binary.
func Load() (*Catalog, error) {
	return Parse(builtin)
}

// Parse reads a catalog document. Ids are normalised to slugs, so
// "cosmic-crusade V2" becomes "cosmic-crusade-v2"; a collision after
// normalisation is an error.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Games []Game `yaml:"games"`
		Tools []Tool `yaml:"tools"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	seen := make(map[string]bool)
	for i := range doc.Games {
		g := &doc.Games[i]
		if err := normalise(&g.ID, g.Title, "game", seen); err != nil {
			return nil, err
		}
	}
	seen = make(map[string]bool)
	for i := range doc.Tools {
		t := &doc.Tools[i]
		if err := normalise(&t.ID, t.Title, "tool", seen); err != nil {
			return nil, err
		}
	}
	return &Catalog{games: doc.Games, tools: doc.Tools}, nil
}

func normalise(id *string, title, kind string, seen map[string]bool) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%s %q has no title", kind, *id)
	}
	raw := *id
	if raw == "" {
		raw = title
	}
	*id = slug.Make(raw)
	if *id == "" {
		return fmt.Errorf("%s %q has no usable id", kind, title)
	}
	if seen[*id] {
		return fmt.Errorf("duplicate %s id %q", kind, *id)
	}
	seen[*id] = true
	return nil
}

// Games returns all games in catalog order.
func (c *Catalog) Games() []Game {
	return append([]Game(nil), c.games...)
}

// Tools returns all tools in catalog order.
func (c *Catalog) Tools() []Tool {
	return append([]Tool(nil), c.tools...)
}

// Game finds a game by id. The id is slug-normalised before matching.
func (c *Catalog) Game(id string) (Game, error) {
	key := slug.Make(id)
	for _, g := range c.games {
		if g.ID == key {
			return g, nil
		}
	}
	return Game{}, fmt.Errorf("game %q: %w", id, ErrNotFound)
}

// Tool finds a tool by id. The id is slug-normalised before matching.
func (c *Catalog) Tool(id string) (Tool, error) {
	key := slug.Make(id)
	for _, t := range c.tools {
		if t.ID == key {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("tool %q: %w", id, ErrNotFound)
}
