package clip

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when a clip is not registered.
var ErrNotFound = errors.New("clip not found")

// Registry manages a named collection of clips.
type Registry struct {
	mu    sync.RWMutex
	clips map[string]*Clip
}

// NewRegistry creates an empty clip registry.
func NewRegistry() *Registry {
	return &Registry{clips: make(map[string]*Clip)}
}

// LoadBuiltIn loads all embedded clips into the registry.
func (r *Registry) LoadBuiltIn() error {
	names, err := ListEmbedded()
	if err != nil {
		return fmt.Errorf("failed to list embedded clips: %w", err)
	}
	for _, name := range names {
		c, err := LoadEmbedded(name)
		if err != nil {
			return fmt.Errorf("failed to load clip %q: %w", name, err)
		}
		r.Register(c)
	}
	return nil
}

// LoadCustomDir loads clips from a custom directory.
func (r *Registry) LoadCustomDir(dir string) error {
	clips, err := LoadFromDirectory(dir)
	if err != nil {
		return err
	}
	for _, c := range clips {
		r.Register(c)
	}
	return nil
}

// Register adds a clip to the registry.
func (r *Registry) Register(c *Clip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clips[c.Name] = c
}

// Get retrieves a clip by name.
func (r *Registry) Get(name string) (*Clip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clips[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return c, nil
}

// List returns all registered clip names, sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clips))
	for name := range r.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListKind returns the names of all clips of one kind, sorted.
func (r *Registry) ListKind(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, c := range r.clips {
		if c.Kind == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered clips.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clips)
}
