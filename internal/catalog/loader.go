package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

//go:embed cards.hcl
var defaultCards []byte

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

type catalogFile struct {
	Research      []cardBlock        `hcl:"research,block"`
	Funding       []cardBlock        `hcl:"funding,block"`
	Collaboration []cardBlock        `hcl:"collaboration,block"`
	Setbacks      []cardBlock        `hcl:"setback,block"`
	Special       []cardBlock        `hcl:"special,block"`
	Personalities []personalityBlock `hcl:"personality,block"`
	Characters    []characterBlock   `hcl:"character,block"`
}

type cardBlock struct {
	ID     string `hcl:"id,label"`
	Type   string `hcl:"type,optional"`
	EN     string `hcl:"en"`
	ZH     string `hcl:"zh,optional"`
	Value  int    `hcl:"value,optional"`
	Points int    `hcl:"points,optional"`
}

type triggerBlock struct {
	Timing string `hcl:"timing"`
	EN     string `hcl:"en"`
	ZH     string `hcl:"zh,optional"`
}

type personalityBlock struct {
	ID            string        `hcl:"id,label"`
	EN            string        `hcl:"en"`
	ZH            string        `hcl:"zh,optional"`
	InitialPoints int           `hcl:"initial_points,optional"`
	Ability       *triggerBlock `hcl:"ability,block"`
	Challenge     *triggerBlock `hcl:"challenge,block"`
}

type tokensBlock struct {
	Funding       int `hcl:"funding,optional"`
	Collaboration int `hcl:"collaboration,optional"`
	Special       int `hcl:"special,optional"`
}

type passiveBlock struct {
	EN string `hcl:"en"`
	ZH string `hcl:"zh,optional"`
}

type characterBlock struct {
	ID             string         `hcl:"id,label"`
	EN             string         `hcl:"en"`
	ZH             string         `hcl:"zh,optional"`
	Field          string         `hcl:"field,optional"`
	StartingTokens *tokensBlock   `hcl:"starting_tokens,block"`
	Passives       []passiveBlock `hcl:"passive,block"`
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultCards, "cards.hcl")
})

// Default returns the built-in card pools. The returned catalog is shared
// and must be treated as read-only.
func Default() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic("catalog: embedded cards.hcl is invalid: " + err.Error())
	}
	return c
}

// Load reads a catalog from an HCL file.
func Load(filename string) (*Catalog, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes and validates catalog source.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw catalogFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c := &Catalog{
		Research:      convertCards(raw.Research, ""),
		Funding:       convertCards(raw.Funding, ""),
		Collaboration: convertCards(raw.Collaboration, ""),
		Setbacks:      convertCards(raw.Setbacks, TypeSetback),
		Special:       convertCards(raw.Special, TypeSpecial),
	}
	for _, p := range raw.Personalities {
		c.Personalities = append(c.Personalities, Personality{
			ID:            p.ID,
			Name:          Name{EN: p.EN, ZH: p.ZH},
			InitialPoints: p.InitialPoints,
			Ability:       convertTrigger(p.Ability),
			Challenge:     convertTrigger(p.Challenge),
		})
	}
	for _, ch := range raw.Characters {
		character := Character{
			ID:    ch.ID,
			Name:  Name{EN: ch.EN, ZH: ch.ZH},
			Field: ch.Field,
		}
		if ch.StartingTokens != nil {
			character.StartingTokens = &Tokens{
				Funding:       ch.StartingTokens.Funding,
				Collaboration: ch.StartingTokens.Collaboration,
				Special:       ch.StartingTokens.Special,
			}
		}
		for _, p := range ch.Passives {
			character.Passives = append(character.Passives, Name{EN: p.EN, ZH: p.ZH})
		}
		c.Characters = append(c.Characters, character)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func convertCards(blocks []cardBlock, defaultType string) []Card {
	cards := make([]Card, 0, len(blocks))
	for _, b := range blocks {
		cardType := b.Type
		if cardType == "" {
			cardType = defaultType
		}
		cards = append(cards, Card{
			ID:     b.ID,
			Type:   cardType,
			Name:   Name{EN: b.EN, ZH: b.ZH},
			Value:  b.Value,
			Points: b.Points,
		})
	}
	return cards
}

func convertTrigger(b *triggerBlock) Trigger {
	if b == nil {
		return Trigger{}
	}
	return Trigger{Timing: b.Timing, Effect: Name{EN: b.EN, ZH: b.ZH}}
}

// Validate checks id uniqueness per pool and type tags per deck kind.
func (c *Catalog) Validate() error {
	pools := []struct {
		kind  Kind
		cards []Card
	}{
		{KindResearch, c.Research},
		{KindFunding, c.Funding},
		{KindCollaboration, c.Collaboration},
		{KindSetback, c.Setbacks},
		{KindSpecial, c.Special},
	}
	for _, pool := range pools {
		seen := make(map[string]bool, len(pool.cards))
		for _, card := range pool.cards {
			if card.ID == "" {
				return fmt.Errorf("%w: %s card with empty id", ErrInvalidCatalog, pool.kind)
			}
			if seen[card.ID] {
				return fmt.Errorf("%w: duplicate %s card %q", ErrInvalidCatalog, pool.kind, card.ID)
			}
			seen[card.ID] = true
			if !slices.Contains(kindTypes[pool.kind], card.Type) {
				return fmt.Errorf("%w: %s card %q has type %q", ErrInvalidCatalog, pool.kind, card.ID, card.Type)
			}
		}
	}

	seen := make(map[string]bool, len(c.Personalities))
	for _, p := range c.Personalities {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate personality %q", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = true
	}

	seen = make(map[string]bool, len(c.Characters))
	for _, ch := range c.Characters {
		if seen[ch.ID] {
			return fmt.Errorf("%w: duplicate character %q", ErrInvalidCatalog, ch.ID)
		}
		seen[ch.ID] = true
		if !ch.Tokens().Valid() {
			return fmt.Errorf("%w: character %q has negative starting tokens", ErrInvalidCatalog, ch.ID)
		}
	}

	if len(c.Research) == 0 {
		return fmt.Errorf("%w: research pool is empty", ErrInvalidCatalog)
	}
	return nil
}

// Types returns the valid type tags for a deck kind.
func Types(kind Kind) []string {
	return slices.Clone(kindTypes[kind])
}
