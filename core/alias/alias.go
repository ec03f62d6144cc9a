// Package alias holds the shell's alias table.
package alias

import (
	"sort"
	"sync"
)

// Alias is one name/expansion pair.
type Alias struct {
	Name  string
	Value string
}

// Store is a concurrency-safe alias table.
type Store struct {
	mu      sync.RWMutex
	aliases map[string]string
}

// NewStore creates an empty alias table.
func NewStore() *Store {
	return &Store{aliases: make(map[string]string)}
}

// Set installs or replaces an alias.
func (s *Store) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[name] = value
}

// Unset removes an alias. It reports whether the alias existed.
func (s *Store) Unset(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.aliases[name]
	delete(s.aliases, name)
	return ok
}

// Lookup returns the expansion for name.
func (s *Store) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.aliases[name]
	return v, ok
}

// List returns every alias sorted by name.
func (s *Store) List() []Alias {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alias, 0, len(s.aliases))
	for k, v := range s.aliases {
		out = append(out, Alias{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
