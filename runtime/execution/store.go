package execution

import (
	"sort"

	"github.com/viant/hireflow/model/state"
)

// Store is the run-scoped variable store. It is owned by a single run and is
// not safe for concurrent use.
type Store struct {
	values map[string]state.Value
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value interface{}) {
	s.values[key] = state.ValueOf(value)
}

// Get returns the value stored under key; ok is false when absent.
func (s *Store) Get(key string) (state.Value, bool) {
	value, ok := s.values[key]
	return value, ok
}

// Lookup returns the stringified value stored under key.
func (s *Store) Lookup(key string) (string, bool) {
	value, ok := s.values[key]
	if !ok {
		return "", false
	}
	return value.String(), true
}

// Apply sets every entry of values
func (s *Store) Apply(values map[string]interface{}) {
	for k, v := range values {
		s.Set(k, v)
	}
}

// Keys returns sorted variable names
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a plain copy of all variables
func (s *Store) Snapshot() map[string]interface{} {
	result := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		result[k] = v.Interface()
	}
	return result
}

// Len returns number of variables
func (s *Store) Len() int {
	return len(s.values)
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{values: make(map[string]state.Value)}
}
