package main

import (
	"fmt"
	"sync"

	"github.com/strandhtml/strand/example/components"
)

// Store is an in-memory todo store.
type Store struct {
	mu     sync.RWMutex
	order  []string
	todos  map[string]components.Todo
	nextID int
}

// NewStore creates a store with sample data.
func NewStore() *Store {
	s := &Store{
		todos:  make(map[string]components.Todo),
		nextID: 1,
	}
	s.Add("Buy groceries")
	s.Add("Review the release notes")
	s.Add("Water the plants")
	return s
}

// Add creates a todo and returns it.
func (s *Store) Add(title string) components.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("t%d", s.nextID)
	s.nextID++

	t := components.Todo{ID: id, Title: title}
	s.todos[id] = t
	s.order = append(s.order, id)
	return t
}

// Toggle flips a todo's done state, reporting whether it exists.
func (s *Store) Toggle(id string) (components.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return components.Todo{}, false
	}
	t.Done = !t.Done
	s.todos[id] = t
	return t, true
}

// Remove deletes a todo, reporting whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns the todos in insertion order.
func (s *Store) All() []components.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]components.Todo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.todos[id])
	}
	return out
}

// Len returns the number of stored todos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
