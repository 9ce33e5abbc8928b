// Package assets loads model scenes from disk and shares them between
// users with reference counts.
package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/kdframe/internal/engine/model"
)

type entry struct {
	data  *model.Data
	refs  int
	stale bool
}

// Store caches decoded models by path. Entries live while they are
// acquired and are dropped when the last reference is released.
type Store struct {
	root string
	log  *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry

	// Stats
	hits   int
	misses int
}

// Stats is a snapshot of store usage.
type Stats struct {
	Entries int
	Refs    int
	Hits    int
	Misses  int
}

// NewStore creates a store resolving relative names against root.
func NewStore(root string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		root:    root,
		log:     log,
		entries: make(map[string]*entry),
	}
}

// Path resolves name against the store root.
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) || s.root == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(s.root, name)
}

// Acquire returns the model stored under name, loading it on first use or
// after it went stale. Every successful call must be paired with Release.
func (s *Store) Acquire(name string) (*model.Data, error) {
	key := s.Path(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if ok && !e.stale {
		e.refs++
		s.hits++
		return e.data, nil
	}
	s.misses++

	data, err := LoadData(key)
	if err != nil {
		return nil, fmt.Errorf("acquiring %s: %w", name, err)
	}
	if ok {
		// Holders of the old data keep it; new callers get the reload.
		e.data = data
		e.stale = false
		e.refs++
		s.log.Debug("asset reloaded", zap.String("path", key))
		return data, nil
	}
	s.entries[key] = &entry{data: data, refs: 1}
	s.log.Debug("asset loaded", zap.String("path", key), zap.Int("nodes", len(data.Nodes)))
	return data, nil
}

// Release drops one reference to name. The entry is evicted when no
// references remain.
func (s *Store) Release(name string) {
	key := s.Path(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(s.entries, key)
		s.log.Debug("asset evicted", zap.String("path", key))
	}
}

// Invalidate marks the entry for path stale so the next Acquire reloads it.
func (s *Store) Invalidate(path string) bool {
	key := filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	e.stale = true
	return true
}

// Stale reports whether name is cached but out of date.
func (s *Store) Stale(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[s.Path(name)]
	return ok && e.stale
}

// Clear drops every entry and resets the counters.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
	s.hits = 0
	s.misses = 0
}

// Stats returns store statistics.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Entries: len(s.entries), Hits: s.hits, Misses: s.misses}
	for _, e := range s.entries {
		st.Refs += e.refs
	}
	return st
}
