package game

import (
	"fmt"

	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/scoring"
)

// ActionType is the tag of an Action.
type ActionType string

const (
	ActionRollAll         ActionType = "ROLL_ALL"
	ActionSetOrder        ActionType = "SET_ORDER"
	ActionOrderByRoll     ActionType = "ORDER_BY_ROLL"
	ActionPickPersonality ActionType = "PICK_PERSONALITY"
	ActionPickCharacter   ActionType = "PICK_CHARACTER"
	ActionDealStarters    ActionType = "DEAL_STARTERS"
	ActionNextPhase       ActionType = "NEXT_PHASE"
	ActionStartTrade      ActionType = "START_TRADE"
	ActionResolveTrade    ActionType = "RESOLVE_TRADE"
	ActionPublish         ActionType = "PUBLISH"
	ActionYearEnd         ActionType = "YEAR_END"
	ActionEndGame         ActionType = "ENDGAME"
)

// ActionTypes lists every action tag.
var ActionTypes = []ActionType{
	ActionRollAll,
	ActionSetOrder,
	ActionOrderByRoll,
	ActionPickPersonality,
	ActionPickCharacter,
	ActionDealStarters,
	ActionNextPhase,
	ActionStartTrade,
	ActionResolveTrade,
	ActionPublish,
	ActionYearEnd,
	ActionEndGame,
}

// Action is one of the payload structs below. The set is closed.
type Action interface {
	Type() ActionType
	isAction()
}

// RollAll rolls a die for every player.
type RollAll struct{}

// SetOrder sets the turn order explicitly. PlayerIDs must be a permutation
// of the current player ids.
type SetOrder struct {
	PlayerIDs []string `json:"playerIds"`
}

// OrderByRoll sorts players by dice roll, highest first. Ties keep their
// current relative order.
type OrderByRoll struct{}

// PickPersonality takes a personality from the revealed row.
type PickPersonality struct {
	PlayerID      string `json:"playerId"`
	PersonalityID string `json:"personalityId"`
}

// PickCharacter takes a character from the revealed row.
type PickCharacter struct {
	PlayerID    string `json:"playerId"`
	CharacterID string `json:"characterId"`
}

// DealStarters deals the starting research projects.
type DealStarters struct{}

// NextPhase advances within the year loop.
type NextPhase struct{}

// StartTrade opens a token trade offer from one player to another.
type StartTrade struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	Offer   catalog.Tokens `json:"offer"`
	Request catalog.Tokens `json:"request"`
}

// ResolveTrade accepts or rejects a pending offer. With Close set it
// rejects every pending offer and ends the trading round instead. Reward
// optionally names the bonus the offering player takes when an offer is
// accepted.
type ResolveTrade struct {
	TradeID string             `json:"tradeId,omitempty"`
	Accept  bool               `json:"accept,omitempty"`
	Close   bool               `json:"close,omitempty"`
	Reward  scoring.RewardType `json:"reward,omitempty"`
}

// Publish records whether a player publishes this year.
type Publish struct {
	PlayerID string `json:"playerId"`
	Publish  bool   `json:"publish"`
}

// YearEnd scores the year and starts the next one or ends the game.
type YearEnd struct{}

// EndGame decides the winner.
type EndGame struct{}

func (RollAll) Type() ActionType         { return ActionRollAll }
func (SetOrder) Type() ActionType        { return ActionSetOrder }
func (OrderByRoll) Type() ActionType     { return ActionOrderByRoll }
func (PickPersonality) Type() ActionType { return ActionPickPersonality }
func (PickCharacter) Type() ActionType   { return ActionPickCharacter }
func (DealStarters) Type() ActionType    { return ActionDealStarters }
func (NextPhase) Type() ActionType       { return ActionNextPhase }
func (StartTrade) Type() ActionType      { return ActionStartTrade }
func (ResolveTrade) Type() ActionType    { return ActionResolveTrade }
func (Publish) Type() ActionType         { return ActionPublish }
func (YearEnd) Type() ActionType         { return ActionYearEnd }
func (EndGame) Type() ActionType         { return ActionEndGame }

func (RollAll) isAction()         {}
func (SetOrder) isAction()        {}
func (OrderByRoll) isAction()     {}
func (PickPersonality) isAction() {}
func (PickCharacter) isAction()   {}
func (DealStarters) isAction()    {}
func (NextPhase) isAction()       {}
func (StartTrade) isAction()      {}
func (ResolveTrade) isAction()    {}
func (Publish) isAction()         {}
func (YearEnd) isAction()         {}
func (EndGame) isAction()         {}

// Normalize returns a as one of the value payloads above. Pointers to
// payloads are dereferenced; nil actions fail with ErrInvalidAction.
func Normalize(a Action) (Action, error) {
	switch v := a.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil action", ErrInvalidAction)
	case *RollAll:
		return deref(v)
	case *SetOrder:
		return deref(v)
	case *OrderByRoll:
		return deref(v)
	case *PickPersonality:
		return deref(v)
	case *PickCharacter:
		return deref(v)
	case *DealStarters:
		return deref(v)
	case *NextPhase:
		return deref(v)
	case *StartTrade:
		return deref(v)
	case *ResolveTrade:
		return deref(v)
	case *Publish:
		return deref(v)
	case *YearEnd:
		return deref(v)
	case *EndGame:
		return deref(v)
	}
	return a, nil
}

func deref[T Action](p *T) (Action, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil %T", ErrInvalidAction, p)
	}
	return *p, nil
}
