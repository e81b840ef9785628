package random

import "sync"

// Sequence replays a fixed list of floats, cycling when exhausted. Intn scales the
// next float onto [0, n). Intended for tests that need a predictable outcome.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence creates a sequence source; with no values it always returns 0
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

var _ Source = (*Sequence)(nil)

// Float64 returns the next value of the sequence
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Intn maps the next value onto [0, n)
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
