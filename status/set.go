package status

import (
	"sort"
	"sync"
)

// Set maps metric names to stable pointers of T
// Writers cache the pointer once and update it without locking
type Set[T any] struct {
	mu    sync.RWMutex
	named map[string]*T
}

func newSet[T any]() *Set[T] {
	return &Set[T]{named: make(map[string]*T)}
}

// Get returns the metric for name, allocating it on first use
func (s *Set[T]) Get(name string) *T {
	s.mu.RLock()
	p, ok := s.named[name]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.named[name]; ok {
		return p
	}
	p = new(T)
	s.named[name] = p
	return p
}

// Has reports whether name was ever requested
func (s *Set[T]) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.named[name]
	return ok
}

// Len returns the number of metrics
func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.named)
}

// Each visits metrics in name order
func (s *Set[T]) Each(fn func(name string, p *T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.named))
	for name := range s.named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fn(name, s.named[name])
	}
}
