package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// MemoStore memoizes expensive pipeline computations in process memory.
// Values are keyed by input identity plus parameters, so repeated requests
// for the same dataset and window return the stored result. Concurrent
// callers for a missing key share a single computation; errors are returned
// to the callers but never stored.
type MemoStore struct {
	mu     sync.RWMutex
	values map[string]interface{}
	group  singleflight.Group
}

func NewMemoStore() *MemoStore {
	return &MemoStore{values: make(map[string]interface{})}
}

// Do returns the memoized value for key, computing it with fn on first use.
func (s *MemoStore) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		s.mu.RLock()
		v, ok := s.values[key]
		s.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := fn()
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.values[key] = v
		s.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Get returns the memoized value for key without computing anything.
func (s *MemoStore) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}
