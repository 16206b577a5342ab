package simulator

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/publishorperish/internal/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	s := New(Config{Games: 1, Players: 2})
	assert.Positive(t, s.config.Workers)
	assert.Equal(t, DefaultMaxActions, s.config.MaxActions)
	assert.Equal(t, bot.StrategyPlanner, s.config.Strategy)
	assert.Equal(t, 3, s.config.TotalYears)
}

func TestRun(t *testing.T) {
	t.Parallel()

	report, err := New(Config{
		Games:   8,
		Players: 3,
		Seed:    "sim",
		Workers: 4,
		Verify:  true,
		Logger:  quietLogger(),
	}).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 8, report.Stats.Games)
	require.Len(t, report.Results, 8)
	for i, r := range report.Results {
		assert.Equal(t, GameSeed("sim", i), r.Seed)
		assert.Len(t, r.Scores, 3)
		assert.GreaterOrEqual(t, r.WinnerSeat, 0)
		assert.Positive(t, r.Actions)
		assert.Len(t, report.Digests[i], 64)
	}
}

func TestRunIsIndependentOfWorkers(t *testing.T) {
	t.Parallel()

	run := func(workers int) *Report {
		report, err := New(Config{Games: 6, Players: 4, Seed: "workers", Workers: workers, Logger: quietLogger()}).Run(t.Context())
		require.NoError(t, err)
		return report
	}

	serial, parallel := run(1), run(6)
	assert.Equal(t, serial.Digests, parallel.Digests)
	assert.Equal(t, serial.Results, parallel.Results)
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
	}{
		{"no games", Config{Games: 0, Players: 2}},
		{"too few players", Config{Games: 1, Players: 1}},
		{"unknown strategy", Config{Games: 1, Players: 2, Strategy: "psychic"}},
		{"action budget", Config{Games: 1, Players: 2, MaxActions: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Logger = quietLogger()
			_, err := New(tt.config).Run(t.Context())
			require.Error(t, err)
		})
	}
}

func TestSeatOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, seatOf("player-0"))
	assert.Equal(t, 5, seatOf("player-5"))
	assert.Equal(t, -1, seatOf("dealer"))
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	report, err := New(Config{Games: 2, Players: 2, Seed: "summary", Logger: quietLogger()}).Run(t.Context())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, report, 2)
	out := buf.String()
	assert.Contains(t, out, "Games played: 2 (2 players)")
	assert.Contains(t, out, "=== WINNING SCORE ===")
	assert.Contains(t, out, "breakthrough")
	assert.Contains(t, out, "Seat 2:")
}
