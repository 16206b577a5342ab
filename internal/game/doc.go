// Package game implements the Publish or Perish rules engine.
//
// The main types are State, an immutable snapshot of a game, and Engine,
// which validates actions against the current phase and produces the next
// snapshot.
//
// # Basic Usage
//
//	s, err := game.NewGame(2, []string{"Alice", "Bob"}, "test-seed")
//	if err != nil {
//	    return err
//	}
//	e := game.NewEngine(s, game.WithLogger(logger))
//	s, err = e.Execute(game.RollAll{})
//	s, err = e.Execute(game.OrderByRoll{})
//
// Execute never mutates a snapshot it has already returned. Failed actions
// leave the engine on its previous snapshot.
//
// # Determinism
//
// Every random decision (deck shuffles, dice) comes from one randutil.LCG
// owned by the snapshot. Two engines built from the same seed and fed the
// same actions produce byte-identical Marshal output at every step, and a
// snapshot restored with Unmarshal continues the same random stream.
//
// # Phases
//
// Setup runs Boot → DiceOrder → PersonalityDraft → CharacterDraft → YearLoop.
// Each year then runs ResearchIdeas → FundingRound → CollaborationRound →
// ProcessRound → TradingRound → PublishDecision → YearEndScoring, and
// YEAR_END either starts the next year or moves to EndGame.
package game
