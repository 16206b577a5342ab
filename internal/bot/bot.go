// Package bot drives automated seats. Every policy is a pure function of
// the snapshot, so a game played by bots is as deterministic as its seed.
package bot

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/game"
)

// Decision is the action a policy chose plus a short explanation.
type Decision struct {
	Action    game.Action
	Reasoning string
}

// Policy chooses the next action for a game. ok is false once the game is
// over and nothing is left to do.
type Policy interface {
	Decide(s *game.State) (d Decision, ok bool)
}

// Strategy names accepted by New.
const (
	StrategyPlanner = "planner"
	StrategyPassive = "passive"
)

// Strategies lists the available strategy names.
var Strategies = []string{StrategyPlanner, StrategyPassive}

// New returns the policy for a strategy name.
func New(strategy string, logger *log.Logger) (Policy, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	logger = logger.WithPrefix("bot").With("strategy", strategy)
	switch strategy {
	case StrategyPlanner:
		return &Planner{logger: logger}, nil
	case StrategyPassive:
		return &Passive{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", strategy, Strategies)
	}
}

// common handles the phases where every policy acts the same way.
func common(s *game.State) (Decision, bool) {
	switch s.Phase {
	case game.PhaseBoot:
		return Decision{game.RollAll{}, "rolling for turn order"}, true
	case game.PhaseDiceOrder:
		return Decision{game.OrderByRoll{}, "highest roll goes first"}, true
	case game.PhaseYearLoop, game.PhaseResearchIdeas, game.PhaseFundingRound,
		game.PhaseCollaborationRound, game.PhaseProcessRound:
		return Decision{game.NextPhase{}, "advancing the year"}, true
	case game.PhaseYearEndScoring:
		return Decision{game.YearEnd{}, "scoring the year"}, true
	case game.PhaseEndGame:
		if s.Winner == "" {
			return Decision{game.EndGame{}, "declaring the winner"}, true
		}
	}
	return Decision{}, false
}

// undecided returns the first player still to make a publish decision.
func undecided(s *game.State) (game.Player, bool) {
	i := slices.IndexFunc(s.Players, func(p game.Player) bool { return p.Decision == game.DecisionNone })
	if i < 0 {
		return game.Player{}, false
	}
	return s.Players[i], true
}

func completeProjects(p game.Player) int {
	n := 0
	for _, pr := range p.Projects {
		if pr.Complete() {
			n++
		}
	}
	return n
}

// Play runs policy against engine until the game is over or maxSteps
// actions have been applied. It returns the number of actions applied.
func Play(engine *game.Engine, policy Policy, maxSteps int) (int, error) {
	for steps := 0; ; steps++ {
		d, ok := policy.Decide(engine.State())
		if !ok {
			return steps, nil
		}
		if steps >= maxSteps {
			return steps, fmt.Errorf("game did not finish within %d actions (phase %s)", maxSteps, engine.State().Phase)
		}
		if _, err := engine.Execute(d.Action); err != nil {
			return steps, fmt.Errorf("%s in %s: %w", d.Action.Type(), engine.State().Phase, err)
		}
	}
}
