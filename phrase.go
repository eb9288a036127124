package riverlight

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// Phrase pool selection errors.
var (
	ErrNoPhrases      = errors.New("riverlight: no phrases configured")
	ErrInvalidWeights = errors.New("riverlight: pool weights must lie in [0, 1] and sum to at most 1")
)

// fallbackPhrase is returned only if every pool is empty at draw time, which
// NewPhraseSelector already rules out.
const fallbackPhrase = "The river remembers."

// PhraseConfig describes three weighted phrase pools. Pools[2] receives the
// remaining weight 1 - Weights[0] - Weights[1].
type PhraseConfig struct {
	Pools    [3][]string
	Weights  [2]float64
	Attempts int // draws per call before accepting a recent phrase
	History  int // how many recent phrases to avoid
}

// PhraseSelector draws poetic lines from weighted pools while steering away
// from recently shown ones. It is not safe for concurrent use.
type PhraseSelector struct {
	pools    [3][]string
	bounds   [2]float64 // cumulative weight upper bounds for pools 0 and 1
	attempts int
	capacity int
	history  []string
	rng      *rand.Rand
}

// NewPhraseSelector validates cfg and returns a selector using rng. Empty
// strings are dropped from the pools.
func NewPhraseSelector(cfg PhraseConfig, rng *rand.Rand) (*PhraseSelector, error) {
	w0, w1 := cfg.Weights[0], cfg.Weights[1]
	if w0 < 0 || w1 < 0 || w0 > 1 || w1 > 1 || w0+w1 > 1+1e-9 {
		return nil, fmt.Errorf("%w: got %v, %v", ErrInvalidWeights, w0, w1)
	}

	s := &PhraseSelector{
		bounds:   [2]float64{w0, w0 + w1},
		attempts: max(cfg.Attempts, 1),
		capacity: max(cfg.History, 0),
		rng:      rng,
	}
	total := 0
	for i, pool := range cfg.Pools {
		for _, p := range pool {
			if p != "" {
				s.pools[i] = append(s.pools[i], p)
			}
		}
		total += len(s.pools[i])
	}
	if total == 0 {
		return nil, ErrNoPhrases
	}
	if s.rng == nil {
		s.rng = NewRand(0)
	}
	s.history = make([]string, 0, s.capacity+1)
	return s, nil
}

// Next returns a phrase and records it in the recent history. It never
// returns an empty string.
func (s *PhraseSelector) Next() string {
	pool := s.pickPool()

	var prev string
	if n := len(s.history); n > 0 {
		prev = s.history[n-1]
	}

	var chosen string
	found := false
	for i := 0; i < s.attempts; i++ {
		chosen = pool[s.rng.IntN(len(pool))]
		if !slices.Contains(s.history, chosen) {
			found = true
			break
		}
	}
	// Every draw was recent: keep the last draw, unless it echoes the line
	// shown immediately before.
	if !found && chosen == prev {
		chosen = s.otherThan(pool, prev)
	}

	s.remember(chosen)
	return chosen
}

// otherThan scans pool from a random offset for an entry different from p.
// It returns p when the pool holds nothing else.
func (s *PhraseSelector) otherThan(pool []string, p string) string {
	start := s.rng.IntN(len(pool))
	for i := range pool {
		if c := pool[(start+i)%len(pool)]; c != p {
			return c
		}
	}
	return p
}

// History returns the recent phrases, oldest first.
func (s *PhraseSelector) History() []string {
	return slices.Clone(s.history)
}

// pickPool rolls a weighted pool. Empty pools defer to the next non-empty
// one so a call always has candidates.
func (s *PhraseSelector) pickPool() []string {
	r := s.rng.Float64()
	idx := 2
	switch {
	case r < s.bounds[0]:
		idx = 0
	case r < s.bounds[1]:
		idx = 1
	}
	for i := 0; i < len(s.pools); i++ {
		if p := s.pools[(idx+i)%len(s.pools)]; len(p) > 0 {
			return p
		}
	}
	return []string{fallbackPhrase}
}

func (s *PhraseSelector) remember(p string) {
	if s.capacity == 0 {
		return
	}
	s.history = append(s.history, p)
	if len(s.history) > s.capacity {
		copy(s.history, s.history[1:])
		s.history = s.history[:s.capacity]
	}
}
