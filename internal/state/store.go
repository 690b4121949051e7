package state

import (
	"sync"
)

// Listener is notified with the tree produced by each dispatch.
type Listener func(State)

type subscription struct {
	id       uint64
	listener Listener
}

// Store owns the tree. Reducers run under the lock; listeners run after it is released,
// so a listener may dispatch.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   []subscription
	nextID uint64
}

// NewStore constructs a Store seeded with initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Dispatch reduces action into the tree and notifies subscribers.
func (s *Store) Dispatch(action Action) {
	if action == nil {
		return
	}
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.listener(next)
	}
}

// GetState returns the current tree.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers listener and returns the function that removes it.
func (s *Store) Subscribe(listener Listener) (unsubscribe func()) {
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, listener: listener})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}
