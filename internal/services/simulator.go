package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Simulator advances bin fill levels between collections.
//
// Each step adds a uniformly drawn increment in [0, maxIncrement] to every bin.
// Levels never go down here; emptying a bin is a collection action this
// engine does not model.
type Simulator struct {
	registry     *Registry
	maxIncrement int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulator(registry *Registry, maxIncrement int, seed uint64) (*Simulator, error) {
	if registry == nil {
		return nil, errors.New("new simulator: registry must be non-nil")
	}
	if maxIncrement < 0 {
		return nil, fmt.Errorf("new simulator: max increment must be >= 0, got %d", maxIncrement)
	}

	return &Simulator{
		registry:     registry,
		maxIncrement: maxIncrement,
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Step applies one round of fill accumulation to the whole fleet.
func (s *Simulator) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.registry.All() {
		inc := s.rng.IntN(s.maxIncrement + 1)
		if err := s.registry.SetLevel(b.ID, b.Level+inc); err != nil {
			return fmt.Errorf("simulator step: %w", err)
		}
	}

	return nil
}
