package services

import (
	"bin-dispatch-service/internal/domain"
	"fmt"
	"strings"
	"sync"
)

// Registry owns the static areas and the mutable fill level of every bin.
//
// Bins keep their load order for the life of the registry. Readers always get
// copies, so the only way to change a level is SetLevel.
// The registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	areas []domain.Area
	bins  []domain.Bin
	index map[string]int
}

// NewRegistry validates the seed fleet and builds a registry from it.
// Duplicate bin ids, bins in unknown areas and out-of-range priorities are
// configuration errors; seed levels are clamped rather than rejected.
func NewRegistry(areas []domain.Area, bins []domain.Bin) (*Registry, error) {
	known := make(map[string]struct{}, len(areas))
	for _, a := range areas {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, fmt.Errorf("new registry: area name must be non-empty")
		}
		known[name] = struct{}{}
	}

	r := &Registry{
		areas: append([]domain.Area(nil), areas...),
		bins:  make([]domain.Bin, 0, len(bins)),
		index: make(map[string]int, len(bins)),
	}

	for i, b := range bins {
		if strings.TrimSpace(b.ID) == "" {
			return nil, fmt.Errorf("new registry: bin at index %d has empty id", i)
		}
		if _, dup := r.index[b.ID]; dup {
			return nil, fmt.Errorf("new registry: bin %q: %w", b.ID, domain.ErrDuplicateBin)
		}
		if _, ok := known[b.Area]; !ok {
			return nil, fmt.Errorf("new registry: bin %q area %q: %w", b.ID, b.Area, domain.ErrUnknownArea)
		}
		if b.Priority < domain.MinPriority || b.Priority > domain.MaxPriority {
			return nil, fmt.Errorf("new registry: bin %q priority %d: %w", b.ID, b.Priority, domain.ErrInvalidPriority)
		}

		b.Level = domain.ClampLevel(b.Level)
		if b.Health == "" {
			b.Health = domain.HealthOK
		}

		r.index[b.ID] = len(r.bins)
		r.bins = append(r.bins, b)
	}

	return r, nil
}

// All returns a snapshot of every bin in load order.
func (r *Registry) All() []domain.Bin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.Bin(nil), r.bins...)
}

func (r *Registry) Areas() []domain.Area {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.Area(nil), r.areas...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.bins)
}

// SetLevel stores a new fill level for a bin, clamped to [0,100].
func (r *Registry) SetLevel(id string, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return &domain.UnknownBinError{ID: id}
	}

	r.bins[i].Level = domain.ClampLevel(level)
	return nil
}
