package session

import (
	"sort"
	"sync"
	"time"

	"mercator-hq/modlint/pkg/lint/finding"
)

// Entry is the stored outcome of the latest completed pass for a document.
type Entry struct {
	Path     string
	PassID   string
	Trigger  Trigger
	Findings []finding.Finding
	Err      error
	Updated  time.Time
}

// Store holds the current findings of every tracked document. Each pass
// replaces the entry for its document in full; findings from earlier passes
// never survive.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Set replaces the entry for e.Path.
func (s *Store) Set(e Entry) {
	e.Findings = append([]finding.Finding(nil), e.Findings...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Path] = &e
}

// Get returns a copy of the entry for path.
func (s *Store) Get(path string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[path]
	if !ok {
		return Entry{}, false
	}
	out := *e
	out.Findings = append([]finding.Finding(nil), e.Findings...)
	return out, true
}

// Delete removes the entry for path.
func (s *Store) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
}

func (s *Store) sortedPaths() []string {
	paths := make([]string, 0, len(s.entries))
	for p := range s.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of tracked documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Findings returns every stored finding ordered by path, then by the order
// the rules reported them.
func (s *Store) Findings() []finding.Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]finding.Finding, 0)
	for _, p := range s.sortedPaths() {
		out = append(out, s.entries[p].Findings...)
	}
	return out
}
