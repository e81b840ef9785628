// Package random supplies the probability rolls used by collection, encounter
// generation and combat. The production source is backed by rpg-toolkit dice.
package random

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// floatResolution is the die size used to derive uniform floats
const floatResolution = 1 << 30

// Source produces uniform random values
type Source interface {
	// Intn returns a value in [0, n). n <= 0 yields 0.
	Intn(n int) int

	// Float64 returns a value in [0, 1)
	Float64() float64
}

// DiceSource adapts a dice.Roller to Source
type DiceSource struct {
	roller dice.Roller
}

// NewDiceSource wraps the given roller
func NewDiceSource(roller dice.Roller) *DiceSource {
	return &DiceSource{roller: roller}
}

// NewDefault returns a source backed by the toolkit's default roller
func NewDefault() *DiceSource {
	return NewDiceSource(dice.DefaultRoller)
}

var _ Source = (*DiceSource)(nil)

// Intn rolls a single die of size n and shifts the face to zero-based
func (s *DiceSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	face, err := s.roller.Roll(n)
	if err != nil {
		// Roll only fails for non-positive sizes, which is guarded above
		panic(fmt.Sprintf("dice roll d%d failed: %v", n, err))
	}
	return face - 1
}

// Float64 returns a uniform value in [0, 1)
func (s *DiceSource) Float64() float64 {
	return float64(s.Intn(floatResolution)) / floatResolution
}

// Chance reports whether a Bernoulli trial with probability p succeeds
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Percent returns a uniform roll in [0, 100)
func Percent(src Source) float64 {
	return src.Float64() * 100
}

// Between returns a uniform value in [lo, hi)
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// IntBetween returns a uniform integer in [lo, hi] inclusive
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Pick returns a uniformly chosen index for a slice of length n, or -1 when empty
func Pick(src Source, n int) int {
	if n <= 0 {
		return -1
	}
	return src.Intn(n)
}
