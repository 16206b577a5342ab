package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegalityGrid(t *testing.T) {
	t.Parallel()

	legal := map[Phase][]ActionType{
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
		PhaseTiebreak:           nil,
	}

	for _, phase := range Phases {
		for _, action := range ActionTypes {
			want := false
			for _, a := range legal[phase] {
				if a == action {
					want = true
				}
			}
			assert.Equal(t, want, CanExecute(phase, action), "%s in %s", action, phase)
		}
	}
}

func TestAllowedActionsIsACopy(t *testing.T) {
	t.Parallel()

	got := AllowedActions(PhaseDiceOrder)
	got[0] = ActionEndGame
	assert.Equal(t, []ActionType{ActionSetOrder, ActionOrderByRoll}, AllowedActions(PhaseDiceOrder))
}

func TestNextInYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from Phase
		want Phase
		ok   bool
	}{
		{PhaseYearLoop, PhaseResearchIdeas, true},
		{PhaseProcessRound, PhaseTradingRound, true},
		{PhasePublishDecision, PhaseYearEndScoring, true},
		{PhaseYearEndScoring, PhaseYearEndScoring, true},
		{PhaseBoot, PhaseBoot, false},
		{PhaseEndGame, PhaseEndGame, false},
	}
	for _, tt := range tests {
		got, ok := nextInYear(tt.from)
		assert.Equal(t, tt.want, got, "from %s", tt.from)
		assert.Equal(t, tt.ok, ok, "from %s", tt.from)
	}
}
