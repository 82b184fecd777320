package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel/bmh/internal/models"
)

var ErrDuplicateAdapter = errors.New("adapter already registered")

// Registry keeps adapters in registration order. Detection walks that order,
// so when two adapters claim the same URL the first registered wins.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	order    []string
}

type Descriptor struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	Unit  Unit     `json:"unit"`
	Hosts []string `json:"hosts"`
}

func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return fmt.Errorf("adapter is nil")
	}

	id := strings.ToLower(strings.TrimSpace(adapter.ID()))
	if id == "" {
		return fmt.Errorf("adapter id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[id]; exists {
		return fmt.Errorf("adapter %q: %w", id, ErrDuplicateAdapter)
	}

	r.adapters[id] = adapter
	r.order = append(r.order, id)
	return nil
}

func (r *Registry) Get(id string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[strings.ToLower(strings.TrimSpace(id))]
	return adapter, ok
}

// Ordered returns adapters in registration order.
func (r *Registry) Ordered() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.adapters[id])
	}
	return items
}

func (r *Registry) List() []Descriptor {
	adapters := r.Ordered()

	items := make([]Descriptor, 0, len(adapters))
	for _, adapter := range adapters {
		items = append(items, Descriptor{
			ID:    adapter.ID(),
			Name:  adapter.Name(),
			Kind:  adapter.Kind(),
			Unit:  adapter.Unit(),
			Hosts: adapter.Hosts(),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})

	return items
}

// DetectCurrentPlatform returns the first registered adapter whose URL rules
// match, or nil when the page belongs to no supported platform.
func (r *Registry) DetectCurrentPlatform(rawURL string) Adapter {
	for _, adapter := range r.Ordered() {
		if adapter.MatchesURL(rawURL) {
			return adapter
		}
	}
	return nil
}

func (r *Registry) InferSource(rawURL string) string {
	if adapter := r.DetectCurrentPlatform(rawURL); adapter != nil {
		return adapter.ID()
	}
	return models.UnknownSource
}

// Prefixes maps each non-empty history-key prefix to its adapter id.
func (r *Registry) Prefixes() map[string]string {
	prefixes := map[string]string{}
	for _, adapter := range r.Ordered() {
		if prefix := adapter.Prefix(); prefix != "" {
			prefixes[prefix] = adapter.ID()
		}
	}
	return prefixes
}
