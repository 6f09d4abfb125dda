package state

import (
	"fmt"
	"sync"

	"github.com/desertthunder/mixster/internal/shared"
)

// Key names a value of type T within a job's namespace.
type Key[T any] struct {
	name string
}

// NewKey returns a key with the given name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) Name() string { return k.name }

// Store holds values per job. It is safe for concurrent use, and the zero value is ready to use.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]map[string]any
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]map[string]any)}
}

// Put stores v only if the key is not yet present for jobID.
func Put[T any](s *Store, jobID string, k Key[T], v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.namespace(jobID)
	if _, ok := values[k.name]; ok {
		return fmt.Errorf("%w: %s/%s", shared.ErrKeyExists, jobID, k.name)
	}
	values[k.name] = v
	return nil
}

// Set stores v, replacing any previous value.
func Set[T any](s *Store, jobID string, k Key[T], v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.namespace(jobID)[k.name] = v
}

// Get returns the value stored under k for jobID.
func Get[T any](s *Store, jobID string, k Key[T]) (T, error) {
	var zero T

	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.jobs[jobID][k.name]
	if !ok {
		return zero, fmt.Errorf("%w: %s/%s", shared.ErrKeyNotFound, jobID, k.name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s/%s holds %T", shared.ErrInvalidInput, jobID, k.name, raw)
	}
	return v, nil
}

// Delete removes k for jobID. Missing keys are ignored.
func Delete[T any](s *Store, jobID string, k Key[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if values, ok := s.jobs[jobID]; ok {
		delete(values, k.name)
		if len(values) == 0 {
			delete(s.jobs, jobID)
		}
	}
}

// Clear drops every value recorded for jobID.
func (s *Store) Clear(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}

// Jobs returns the number of jobs with at least one value.
func (s *Store) Jobs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// namespace must be called with the write lock held.
func (s *Store) namespace(jobID string) map[string]any {
	if s.jobs == nil {
		s.jobs = make(map[string]map[string]any)
	}
	values, ok := s.jobs[jobID]
	if !ok {
		values = make(map[string]any)
		s.jobs[jobID] = values
	}
	return values
}
