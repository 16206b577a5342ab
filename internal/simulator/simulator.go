package simulator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/bot"
	"github.com/lox/publishorperish/internal/catalog"
	"github.com/lox/publishorperish/internal/game"
	"github.com/lox/publishorperish/internal/scoring"
	"github.com/lox/publishorperish/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxActions bounds a single game.
const DefaultMaxActions = 10_000

// Config holds configuration for running simulations
type Config struct {
	Games      int
	Players    int
	Seed       string
	Strategy   string
	TotalYears int
	Workers    int
	MaxActions int
	Catalog    *catalog.Catalog

	// Verify replays every game and fails if the final snapshots differ.
	Verify bool

	Logger *log.Logger
}

// Report is the outcome of a simulation run
type Report struct {
	Stats   *statistics.Statistics
	Results []statistics.GameResult
	Digests []string
}

// Simulator plays many bot-driven games in parallel
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.MaxActions <= 0 {
		config.MaxActions = DefaultMaxActions
	}
	if config.Strategy == "" {
		config.Strategy = bot.StrategyPlanner
	}
	if config.TotalYears <= 0 {
		config.TotalYears = game.DefaultTotalYears
	}
	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// GameSeed returns the seed of game i in a run seeded with base.
func GameSeed(base string, i int) string {
	return fmt.Sprintf("%s-%d", base, i)
}

// Run plays every game and aggregates the results in game order.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	if _, err := bot.New(s.config.Strategy, nil); err != nil {
		return nil, err
	}

	results := make([]statistics.GameResult, s.config.Games)
	digests := make([]string, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := GameSeed(s.config.Seed, i)
			result, digest, err := s.playGame(seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %s): %w", i, seed, err)
			}
			if s.config.Verify {
				_, replay, err := s.playGame(seed)
				if err != nil {
					return fmt.Errorf("replay %d (seed %s): %w", i, seed, err)
				}
				if replay != digest {
					return fmt.Errorf("game %d (seed %s) is not deterministic: %s != %s", i, seed, digest, replay)
				}
			}
			results[i] = result
			digests[i] = digest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	s.logger.Info("Simulation complete", "games", s.config.Games, "players", s.config.Players, "mean", stats.Mean())
	return &Report{Stats: stats, Results: results, Digests: digests}, nil
}

func (s *Simulator) playGame(seed string) (statistics.GameResult, string, error) {
	opts := []game.GameOption{game.WithTotalYears(s.config.TotalYears)}
	if s.config.Catalog != nil {
		opts = append(opts, game.WithCatalog(s.config.Catalog))
	}
	state, err := game.NewGame(s.config.Players, nil, seed, opts...)
	if err != nil {
		return statistics.GameResult{}, "", err
	}
	policy, err := bot.New(s.config.Strategy, s.logger)
	if err != nil {
		return statistics.GameResult{}, "", err
	}
	engine := game.NewEngine(state, game.WithLogger(s.logger))

	actions, err := bot.Play(engine, policy, s.config.MaxActions)
	if err != nil {
		return statistics.GameResult{}, "", err
	}

	final := engine.State()
	data, err := game.Marshal(final)
	if err != nil {
		return statistics.GameResult{}, "", err
	}
	sum := sha256.Sum256(data)

	result := statistics.GameResult{
		Seed:         seed,
		Scores:       make([]int, len(final.Players)),
		WinnerSeat:   -1,
		Tied:         len(final.Leaders()) > 1,
		Publications: map[scoring.Band]int{},
		Actions:      actions,
	}
	for _, p := range final.Players {
		seat := seatOf(p.ID)
		if seat < 0 || seat >= len(result.Scores) {
			return statistics.GameResult{}, "", fmt.Errorf("unexpected player id %q", p.ID)
		}
		result.Scores[seat] = p.Score
		if p.ID == final.Winner {
			result.WinnerSeat = seat
		}
		for band, n := range p.Publications {
			result.Publications[band] += n
		}
	}
	s.logger.Debug("Game finished", "seed", seed, "winner", final.Winner, "actions", actions)
	return result, hex.EncodeToString(sum[:]), nil
}

// seatOf maps a player id back to its seat before turn order was set.
func seatOf(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "player-"))
	if err != nil {
		return -1
	}
	return n
}

// PrintSummary writes a human readable summary of a report
func PrintSummary(w io.Writer, r *Report, players int) {
	stats := r.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS ===\n")
	fmt.Fprintf(w, "Games played: %d (%d players)\n", stats.Games, players)
	fmt.Fprintf(w, "Actions per game: %.1f\n", float64(stats.Actions)/float64(max(stats.Games, 1)))
	fmt.Fprintf(w, "Ties at the top: %d\n", stats.Ties)

	fmt.Fprintf(w, "\n=== WINNING SCORE ===\n")
	fmt.Fprintf(w, "Mean: %.2f  Median: %.2f  Std Dev: %.2f  Max: %d\n",
		stats.Mean(), stats.Median(), stats.StdDev(), stats.MaxScore)
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== PUBLICATIONS ===\n")
	for _, band := range scoring.Bands {
		fmt.Fprintf(w, "%-13s %d\n", band, stats.Publications[band])
	}

	fmt.Fprintf(w, "\n=== SEATS ===\n")
	for seat := 0; seat < players && seat < statistics.MaxSeats; seat++ {
		fmt.Fprintf(w, "Seat %d: mean score %.2f, win rate %.1f%%\n",
			seat+1, stats.SeatMean(seat), stats.WinRate(seat)*100)
	}
}
