package game

import "slices"

// Phase is a state of the game FSM.
type Phase string

const (
	PhaseBoot               Phase = "Boot"
	PhaseDiceOrder          Phase = "DiceOrder"
	PhasePersonalityDraft   Phase = "PersonalityDraft"
	PhaseCharacterDraft     Phase = "CharacterDraft"
	PhaseYearLoop           Phase = "YearLoop"
	PhaseResearchIdeas      Phase = "ResearchIdeas"
	PhaseFundingRound       Phase = "FundingRound"
	PhaseCollaborationRound Phase = "CollaborationRound"
	PhaseProcessRound       Phase = "ProcessRound"
	PhaseTradingRound       Phase = "TradingRound"
	PhasePublishDecision    Phase = "PublishDecision"
	PhaseYearEndScoring     Phase = "YearEndScoring"
	PhaseEndGame            Phase = "EndGame"

	// PhaseTiebreak is declared but no transition reaches it.
	PhaseTiebreak Phase = "Tiebreak"
)

// Phases lists every phase in declaration order.
var Phases = []Phase{
	PhaseBoot,
	PhaseDiceOrder,
	PhasePersonalityDraft,
	PhaseCharacterDraft,
	PhaseYearLoop,
	PhaseResearchIdeas,
	PhaseFundingRound,
	PhaseCollaborationRound,
	PhaseProcessRound,
	PhaseTradingRound,
	PhasePublishDecision,
	PhaseYearEndScoring,
	PhaseEndGame,
	PhaseTiebreak,
}

// yearOrder is the sub-phase sequence NEXT_PHASE walks through.
var yearOrder = []Phase{
	PhaseYearLoop,
	PhaseResearchIdeas,
	PhaseFundingRound,
	PhaseCollaborationRound,
	PhaseProcessRound,
	PhaseTradingRound,
	PhasePublishDecision,
	PhaseYearEndScoring,
}

var allowedActions = map[Phase][]ActionType{
	PhaseBoot:               {ActionRollAll},
	PhaseDiceOrder:          {ActionSetOrder, ActionOrderByRoll},
	PhasePersonalityDraft:   {ActionPickPersonality},
	PhaseCharacterDraft:     {ActionPickCharacter, ActionDealStarters},
	PhaseYearLoop:           {ActionNextPhase},
	PhaseResearchIdeas:      {ActionNextPhase},
	PhaseFundingRound:       {ActionNextPhase},
	PhaseCollaborationRound: {ActionNextPhase},
	PhaseProcessRound:       {ActionNextPhase},
	PhaseTradingRound:       {ActionStartTrade, ActionResolveTrade},
	PhasePublishDecision:    {ActionPublish},
	PhaseYearEndScoring:     {ActionYearEnd},
	PhaseEndGame:            {ActionEndGame},
}

// CanExecute reports whether action t is legal in phase p. It depends on
// nothing but the static allow-list.
func CanExecute(p Phase, t ActionType) bool {
	return slices.Contains(allowedActions[p], t)
}

// AllowedActions returns the actions legal in phase p.
func AllowedActions(p Phase) []ActionType {
	return slices.Clone(allowedActions[p])
}

// nextInYear returns the phase after p in the year loop, saturating at
// YearEndScoring. ok is false if p is not a year-loop phase.
func nextInYear(p Phase) (next Phase, ok bool) {
	i := slices.Index(yearOrder, p)
	if i < 0 {
		return p, false
	}
	if i+1 >= len(yearOrder) {
		return PhaseYearEndScoring, true
	}
	return yearOrder[i+1], true
}
