// Package randutil provides the seeded random stream shared by a game's
// decks and dice.
package randutil

import (
	"math"
	"unicode/utf16"
)

const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
	twoPow32             = 4294967296.0
)

// LCG is a 32-bit linear congruential generator. The sequence it emits is a
// pure function of the seed string and the number of calls made, so two
// generators built from the same seed stay in lock-step forever.
//
// An LCG must not be shared between games.
type LCG struct {
	state uint32
}

// New returns a generator seeded from s.
func New(s string) *LCG {
	return &LCG{state: HashSeed(s)}
}

// FromState returns a generator positioned at a previously captured state.
// Restoring from State() resumes the exact stream, which is what snapshot
// loading relies on.
func FromState(state uint32) *LCG {
	return &LCG{state: state}
}

// HashSeed folds the UTF-16 code units of s into a non-negative 32-bit
// value using h = h*31 + c with int32 wraparound.
func HashSeed(s string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// State returns the current internal state.
func (r *LCG) State() uint32 {
	return r.state
}

// Clone returns an independent generator at the same position.
func (r *LCG) Clone() *LCG {
	return &LCG{state: r.state}
}

// Next advances the generator one step and returns a value in [0,1).
func (r *LCG) Next() float64 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	return float64(r.state) / twoPow32
}

// NextInt returns an integer in [min,max] inclusive. Callers guarantee
// min <= max.
func (r *LCG) NextInt(min, max int) int {
	return int(math.Floor(r.Next()*float64(max-min+1))) + min
}

// RollDice returns a six-sided die roll.
func (r *LCG) RollDice() int {
	return r.NextInt(1, 6)
}

// Shuffle returns a Fisher-Yates permutation of items without modifying the
// input. It consumes exactly len(items)-1 values from r.
func Shuffle[T any](r *LCG, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.NextInt(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
