// Package catalog holds the static card pools the engine deals from. Pools
// are immutable inputs: the engine only moves cards between piles.
package catalog

import "fmt"

// Card type tags per deck kind.
const (
	TypeBasic        = "basic"
	TypeApplied      = "applied"
	TypeBreakthrough = "breakthrough"
	TypeTheory       = "theory"

	TypeSmall      = "small"
	TypeMedium     = "medium"
	TypeLarge      = "large"
	TypeIndustry   = "industry"
	TypeGovernment = "government"

	TypeLocal             = "local"
	TypeNational          = "national"
	TypeInternational     = "international"
	TypeInterdisciplinary = "interdisciplinary"

	TypeSetback     = "setback"
	TypeSpecial     = "special"
	TypePersonality = "personality"
	TypeCharacter   = "character"
)

// Kind identifies which deck a card belongs to.
type Kind string

const (
	KindResearch      Kind = "research"
	KindFunding       Kind = "funding"
	KindCollaboration Kind = "collaboration"
	KindSetback       Kind = "setback"
	KindSpecial       Kind = "special"
	KindPersonality   Kind = "personality"
	KindCharacter     Kind = "character"
)

var kindTypes = map[Kind][]string{
	KindResearch:      {TypeBasic, TypeApplied, TypeBreakthrough, TypeTheory},
	KindFunding:       {TypeSmall, TypeMedium, TypeLarge, TypeIndustry, TypeGovernment},
	KindCollaboration: {TypeLocal, TypeNational, TypeInternational, TypeInterdisciplinary},
	KindSetback:       {TypeSetback},
	KindSpecial:       {TypeSpecial},
}

// Name is a bilingual display name.
type Name struct {
	EN string `json:"en"`
	ZH string `json:"zh"`
}

// Lang selects one side of a Name.
type Lang string

const (
	LangEN Lang = "en"
	LangZH Lang = "zh"
)

// In returns the name in the requested language, falling back to English.
func (n Name) In(lang Lang) string {
	if lang == LangZH && n.ZH != "" {
		return n.ZH
	}
	return n.EN
}

func (n Name) String() string {
	return n.EN
}

// Card is a research, funding, collaboration, setback or special card.
type Card struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   Name   `json:"name"`
	Value  int    `json:"value,omitempty"`
	Points int    `json:"points,omitempty"`
}

// CardID implements deck.Card.
func (c Card) CardID() string { return c.ID }

// Tokens is a bundle of the three token counters a player holds.
type Tokens struct {
	Funding       int `json:"funding"`
	Collaboration int `json:"collaboration"`
	Special       int `json:"special"`
}

// DefaultStartingTokens is granted when a character declares none.
var DefaultStartingTokens = Tokens{Funding: 1, Collaboration: 1, Special: 1}

// Add returns the element-wise sum.
func (t Tokens) Add(o Tokens) Tokens {
	return Tokens{
		Funding:       t.Funding + o.Funding,
		Collaboration: t.Collaboration + o.Collaboration,
		Special:       t.Special + o.Special,
	}
}

// Sub returns the element-wise difference. Callers check Covers first.
func (t Tokens) Sub(o Tokens) Tokens {
	return Tokens{
		Funding:       t.Funding - o.Funding,
		Collaboration: t.Collaboration - o.Collaboration,
		Special:       t.Special - o.Special,
	}
}

// Covers reports whether t holds at least o of every token kind.
func (t Tokens) Covers(o Tokens) bool {
	return t.Funding >= o.Funding && t.Collaboration >= o.Collaboration && t.Special >= o.Special
}

// IsZero reports whether the bundle is empty.
func (t Tokens) IsZero() bool {
	return t == Tokens{}
}

// Valid reports whether no counter is negative.
func (t Tokens) Valid() bool {
	return t.Funding >= 0 && t.Collaboration >= 0 && t.Special >= 0
}

// Total returns the number of tokens across all kinds.
func (t Tokens) Total() int {
	return t.Funding + t.Collaboration + t.Special
}

func (t Tokens) String() string {
	return fmt.Sprintf("F%d C%d S%d", t.Funding, t.Collaboration, t.Special)
}

// Trigger describes when a personality ability or challenge applies.
type Trigger struct {
	Timing string `json:"timing"`
	Effect Name   `json:"effect"`
}

// Personality is drafted once per player.
type Personality struct {
	ID            string  `json:"id"`
	Name          Name    `json:"name"`
	InitialPoints int     `json:"initialPoints"`
	Ability       Trigger `json:"ability"`
	Challenge     Trigger `json:"challenge"`
}

// CardID implements deck.Card.
func (p Personality) CardID() string { return p.ID }

// Character is drafted once per player and seeds the starting tokens.
type Character struct {
	ID             string  `json:"id"`
	Name           Name    `json:"name"`
	Field          string  `json:"field"`
	StartingTokens *Tokens `json:"startingTokens,omitempty"`
	Passives       []Name  `json:"passives,omitempty"`
}

// CardID implements deck.Card.
func (c Character) CardID() string { return c.ID }

// Tokens returns the character's starting bundle or the default one.
func (c Character) Tokens() Tokens {
	if c.StartingTokens == nil {
		return DefaultStartingTokens
	}
	return *c.StartingTokens
}

// Catalog is the full set of card pools for one game.
type Catalog struct {
	Research      []Card
	Funding       []Card
	Collaboration []Card
	Setbacks      []Card
	Special       []Card
	Personalities []Personality
	Characters    []Character
}

// Size returns the number of cards in each pool.
func (c *Catalog) Size() map[Kind]int {
	return map[Kind]int{
		KindResearch:      len(c.Research),
		KindFunding:       len(c.Funding),
		KindCollaboration: len(c.Collaboration),
		KindSetback:       len(c.Setbacks),
		KindSpecial:       len(c.Special),
		KindPersonality:   len(c.Personalities),
		KindCharacter:     len(c.Characters),
	}
}
