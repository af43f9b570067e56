package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate id")
)

// NotFoundError reports a lookup miss for one resource id. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Keyed is the minimum a record needs to live in a Store.
type Keyed[T any] interface {
	Key() string
	Clone() T
}

// Store is an insertion-ordered in-memory collection of one entity type.
// Values are cloned on every read and write, so callers never share state
// with the store.
type Store[T Keyed[T]] struct {
	resource string
	mu       sync.RWMutex
	items    []T
}

func NewStore[T Keyed[T]](resource string, seed ...T) *Store[T] {
	s := &Store[T]{resource: resource}
	for _, item := range seed {
		s.items = append(s.items, item.Clone())
	}
	return s
}

func (s *Store[T]) Resource() string { return s.resource }

func (s *Store[T]) notFound(id string) error {
	return NotFoundError{Resource: s.resource, ID: id}
}

// indexOf is a linear scan; callers hold the lock.
func (s *Store[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.Key() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.Clone())
	}
	return out
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, s.notFound(id)
	}
	return s.items[idx].Clone(), nil
}

// Insert appends item, refusing ids already present.
func (s *Store[T]) Insert(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(item.Key()) >= 0 {
		return fmt.Errorf("%s %s: %w", s.resource, item.Key(), ErrDuplicate)
	}
	s.items = append(s.items, item.Clone())
	return nil
}

// Replace overwrites the record stored under id, keeping its position.
func (s *Store[T]) Replace(id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(id, item)
}

func (s *Store[T]) replaceLocked(id string, item T) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return s.notFound(id)
	}
	if item.Key() != id {
		return fmt.Errorf("%s %s: id is immutable", s.resource, id)
	}
	s.items[idx] = item.Clone()
	return nil
}

// Update runs fn on a copy of the record and stores the result when fn
// succeeds. The read-modify-write happens under one lock.
func (s *Store[T]) Update(id string, fn func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, s.notFound(id)
	}
	item := s.items[idx].Clone()
	if err := fn(&item); err != nil {
		return zero, err
	}
	if err := s.replaceLocked(id, item); err != nil {
		return zero, err
	}
	return item.Clone(), nil
}

// Merge shallow-merges patch (JSON field name to value) onto the record.
// The merged record goes through check, when given, before it is committed;
// a failing check leaves the store untouched. The "id" field cannot change.
func (s *Store[T]) Merge(id string, patch map[string]any, check func(T) (T, error)) (T, error) {
	return s.Update(id, func(item *T) error {
		merged, err := mergeFields(*item, patch)
		if err != nil {
			return err
		}
		if check != nil {
			if merged, err = check(merged); err != nil {
				return err
			}
		}
		if merged.Key() != id {
			return fmt.Errorf("%s %s: id is immutable", s.resource, id)
		}
		*item = merged
		return nil
	})
}

// Delete removes the record if present. Missing ids are not an error.
func (s *Store[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	return true
}

// FieldError reports a patch value whose type does not fit the record field.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %s has invalid type", e.Field)
}

func (e FieldError) Unwrap() error { return e.Err }

// mergeFields round-trips item through its JSON projection so the patch keys
// match the wire names. Fields the record type does not declare are dropped.
func mergeFields[T any](item T, patch map[string]any) (T, error) {
	var zero T
	current, err := json.Marshal(item)
	if err != nil {
		return zero, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(current, &fields); err != nil {
		return zero, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		fields[k] = v
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return zero, err
	}
	var merged T
	if err := json.Unmarshal(data, &merged); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return zero, FieldError{Field: typeErr.Field, Err: err}
		}
		return zero, err
	}
	return merged, nil
}
