package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/publishorperish/internal/scoring"
)

// MaxSeats is the largest table tracked per seat.
const MaxSeats = 8

// GameResult is the outcome of one finished game
type GameResult struct {
	Seed         string               // Seed the game was created from (for replay)
	Scores       []int                // Final score per seat, indexed by original seat
	WinnerSeat   int                  // Seat of the declared winner
	Tied         bool                 // More than one player shared the top score
	Publications map[scoring.Band]int // Publication events per band, all players
	Actions      int                  // Actions applied to finish the game
}

// WinningScore returns the winner's score
func (r GameResult) WinningScore() int {
	if r.WinnerSeat < 0 || r.WinnerSeat >= len(r.Scores) {
		return 0
	}
	return r.Scores[r.WinnerSeat]
}

// SeatStats tracks results for one seat
type SeatStats struct {
	Games    int
	Wins     int
	SumScore float64
}

// Statistics aggregates simulated games. The moments track the winning
// score of each game.
type Statistics struct {
	Games     int
	SumScore  float64
	SumScore2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	Ties         int
	Actions      int
	MaxScore     int
	Publications map[scoring.Band]int

	SeatResults [MaxSeats]SeatStats
}

// Mean returns the mean winning score
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumScore / float64(s.Games)
}

// Variance returns the sample variance of the winning scores
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a finished game
func (s *Statistics) Add(result GameResult) {
	score := float64(result.WinningScore())
	s.Games++
	s.SumScore += score
	s.SumScore2 += score * score
	s.Values = append(s.Values, score)
	s.Actions += result.Actions

	if result.Tied {
		s.Ties++
	}
	if result.WinningScore() > s.MaxScore {
		s.MaxScore = result.WinningScore()
	}

	if s.Publications == nil {
		s.Publications = make(map[scoring.Band]int)
	}
	for band, n := range result.Publications {
		s.Publications[band] += n
	}

	for seat, sc := range result.Scores {
		if seat >= MaxSeats {
			break
		}
		s.SeatResults[seat].Games++
		s.SeatResults[seat].SumScore += float64(sc)
	}
	if result.WinnerSeat >= 0 && result.WinnerSeat < MaxSeats {
		s.SeatResults[result.WinnerSeat].Wins++
	}
}

// Median returns the median winning score
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the winning score at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean final score of a seat
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat >= MaxSeats {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Games == 0 {
		return 0
	}
	return ss.SumScore / float64(ss.Games)
}

// WinRate returns the share of games a seat won
func (s *Statistics) WinRate(seat int) float64 {
	if seat < 0 || seat >= MaxSeats || s.SeatResults[seat].Games == 0 {
		return 0
	}
	return float64(s.SeatResults[seat].Wins) / float64(s.SeatResults[seat].Games)
}

// Validate checks the aggregates are consistent
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	if s.Ties > s.Games {
		return fmt.Errorf("ties (%d) exceed total games (%d)", s.Ties, s.Games)
	}

	totalWins := 0
	for seat := range MaxSeats {
		totalWins += s.SeatResults[seat].Wins
	}
	if totalWins != s.Games {
		return fmt.Errorf("seat wins total (%d) does not match total games (%d)", totalWins, s.Games)
	}

	return nil
}
