package scoring

import "github.com/lox/publishorperish/internal/catalog"

// RewardType is what a successful trade can yield.
type RewardType string

const (
	RewardFunding       RewardType = "funding"
	RewardCollaboration RewardType = "collaboration"
	RewardSpecial       RewardType = "special"
	RewardCard          RewardType = "card"
)

// TradeReward is one option offered after a successful trade.
type TradeReward struct {
	Type     RewardType   `json:"type"`
	Amount   int          `json:"amount,omitempty"`
	CardKind catalog.Kind `json:"cardKind,omitempty"`
}

// TradeRewards lists the reward choices for a trade outcome. A failed trade
// yields nothing.
func TradeRewards(success bool) []TradeReward {
	if !success {
		return nil
	}
	return []TradeReward{
		{Type: RewardFunding, Amount: 1},
		{Type: RewardCollaboration, Amount: 1},
		{Type: RewardSpecial, Amount: 1},
		{Type: RewardCard, CardKind: catalog.KindResearch},
	}
}

// Ledger is a player's running publication record.
type Ledger struct {
	Score        int          `json:"score"`
	Publications map[Band]int `json:"publications"`
}

// Apply records one publication event. Score never decreases and exactly one
// band counter increments.
func (l Ledger) Apply(r Result) Ledger {
	pubs := make(map[Band]int, len(l.Publications)+1)
	for band, n := range l.Publications {
		pubs[band] = n
	}
	pubs[r.Band]++
	return Ledger{
		Score:        l.Score + max(r.FinalScore, 0),
		Publications: pubs,
	}
}
