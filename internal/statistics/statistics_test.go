package statistics

import (
	"math"
	"strings"
	"testing"

	"github.com/lox/publishorperish/internal/scoring"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.Percentile(0.5) != 0 {
		t.Errorf("Expected percentile of 0 for empty stats, got %f", stats.Percentile(0.5))
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for empty stats")
	}
}

func TestStatistics_SingleGame(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{
		Seed:         "one",
		Scores:       []int{12, 40, 40},
		WinnerSeat:   1,
		Tied:         true,
		Publications: map[scoring.Band]int{scoring.BandModerate: 2, scoring.BandHigh: 1},
		Actions:      90,
	})

	if stats.Games != 1 {
		t.Errorf("Expected 1 game, got %d", stats.Games)
	}
	if stats.Mean() != 40 {
		t.Errorf("Expected mean of 40, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for single value, got %f", stats.Variance())
	}
	if stats.Ties != 1 {
		t.Errorf("Expected 1 tie, got %d", stats.Ties)
	}
	if stats.MaxScore != 40 {
		t.Errorf("Expected max score 40, got %d", stats.MaxScore)
	}
	if stats.Publications[scoring.BandModerate] != 2 {
		t.Errorf("Expected 2 moderate publications, got %d", stats.Publications[scoring.BandModerate])
	}
	if stats.SeatMean(0) != 12 {
		t.Errorf("Expected seat 0 mean 12, got %f", stats.SeatMean(0))
	}
	if stats.WinRate(1) != 1 {
		t.Errorf("Expected seat 1 win rate 1, got %f", stats.WinRate(1))
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStatistics_MultipleGames(t *testing.T) {
	stats := &Statistics{}
	for i, score := range []int{10, 20, 30, 40} {
		stats.Add(GameResult{Scores: []int{score, 0}, WinnerSeat: 0, Actions: i})
	}

	if stats.Mean() != 25 {
		t.Errorf("Expected mean of 25, got %f", stats.Mean())
	}
	// Sample variance of 10,20,30,40 is 500/3.
	if math.Abs(stats.Variance()-500.0/3.0) > 1e-9 {
		t.Errorf("Expected variance 166.67, got %f", stats.Variance())
	}
	if stats.Median() != 25 {
		t.Errorf("Expected median of 25, got %f", stats.Median())
	}
	if stats.Percentile(0) != 10 || stats.Percentile(1) != 40 {
		t.Errorf("Unexpected extreme percentiles: %f %f", stats.Percentile(0), stats.Percentile(1))
	}
	low, high := stats.ConfidenceInterval95()
	if low >= 25 || high <= 25 {
		t.Errorf("Confidence interval [%f, %f] should contain the mean", low, high)
	}
	if stats.WinRate(1) != 0 {
		t.Errorf("Expected seat 1 win rate 0, got %f", stats.WinRate(1))
	}
	if stats.Actions != 6 {
		t.Errorf("Expected 6 actions, got %d", stats.Actions)
	}
}

func TestStatistics_Validate_WinsMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Scores: []int{5, 1}, WinnerSeat: 0})
	stats.SeatResults[1].Wins++

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "seat wins") {
		t.Errorf("Expected seat wins mismatch, got %v", err)
	}
}

func TestStatistics_Validate_ValuesMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Scores: []int{5, 1}, WinnerSeat: 0})
	stats.Values = append(stats.Values, 99)

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "values array") {
		t.Errorf("Expected values mismatch, got %v", err)
	}
}

func TestGameResult_WinningScore(t *testing.T) {
	if got := (GameResult{Scores: []int{3, 9}, WinnerSeat: 1}).WinningScore(); got != 9 {
		t.Errorf("Expected 9, got %d", got)
	}
	if got := (GameResult{WinnerSeat: 4}).WinningScore(); got != 0 {
		t.Errorf("Expected 0 for out of range seat, got %d", got)
	}
}
