// Package dedupe tracks which keys have already been seen.
package dedupe

import "sync"

// Set records seen keys. Safe for concurrent use.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// New creates an empty set.
func New() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// SeenAndRecord atomically checks if key was seen and records it if not.
// Returns true if key was already seen.
func (s *Set) SeenAndRecord(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	return false
}
